/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package platform

import (
	"sync"

	"github.com/spf13/afero"
)

// Headless is a platform without video, audio or keyboard. Frames are
// counted and the last one is kept.
type Headless struct {
	mu sync.Mutex

	Frames    int
	LastFrame []byte
	Title     string
}

var _ Platform = (*Headless)(nil)

func StartHeadless(mainLoop func(Platform), configs ...Config) error {
	p := &Headless{}
	for _, cfg := range configs {
		if err := cfg(p); err != nil {
			return err
		}
	}

	Instance = p
	mainLoop(p)
	return nil
}

func (p *Headless) FS() afero.Fs {
	return fileSystem
}

func (p *Headless) HasAudio() bool {
	return false
}

func (p *Headless) RenderGraphics(backBuffer []byte, width, height int) {
	p.mu.Lock()
	p.Frames++
	p.LastFrame = append(p.LastFrame[:0], backBuffer...)
	p.mu.Unlock()
}

func (p *Headless) SetTitle(title string) {
	p.mu.Lock()
	p.Title = title
	p.mu.Unlock()
}

func (p *Headless) QueueAudio([]int16) {
}

func (p *Headless) QueuedAudio() int {
	return 0
}

func (p *Headless) AudioSpec() AudioSpec {
	return AudioSpec{}
}

func (p *Headless) EnableAudio(bool) {
}

func (p *Headless) SetKeyboardHandler(func(Scancode)) {
}
