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
	"log"
	"sync"

	"github.com/gdamore/tcell"
	"github.com/spf13/afero"
)

type frame struct {
	pixels        []byte
	width, height int
}

type tcellPlatform struct {
	sync.Mutex

	buffer frame
	screen tcell.Screen

	keyboardHandler func(Scancode)
}

var tcellPlatformInstance tcellPlatform

func tcellStart(mainLoop func(Platform), configs ...Config) {
	for _, cfg := range configs {
		if err := cfg(&tcellPlatformInstance); err != nil {
			log.Fatal(err)
		}
	}

	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	var err error
	if tcellPlatformInstance.screen, err = tcell.NewScreen(); err != nil {
		log.Fatal(err)
	}

	Instance = &tcellPlatformInstance
	s := tcellPlatformInstance.screen

	if err = s.Init(); err != nil {
		log.Fatal(err)
	}
	defer s.Fini()

	s.HideCursor()
	s.DisableMouse()
	s.Clear()

	if err := tcellPlatformInstance.initializeTcellEvents(); err != nil {
		log.Fatal(err)
	}
	mainLoop(Instance)
}

func (p *tcellPlatform) FS() afero.Fs {
	return fileSystem
}

func (p *tcellPlatform) HasAudio() bool {
	return false
}

// RenderGraphics copies the frame and hands it to the event goroutine,
// which owns the screen.
func (p *tcellPlatform) RenderGraphics(backBuffer []byte, width, height int) {
	p.Lock()
	p.buffer.pixels = append(p.buffer.pixels[:0], backBuffer...)
	p.buffer.width, p.buffer.height = width, height
	p.Unlock()
	p.screen.PostEvent(tcell.NewEventInterrupt(&p.buffer))
}

func (p *tcellPlatform) SetTitle(title string) {
}

func (p *tcellPlatform) QueueAudio(soundBuffer []int16) {
}

func (p *tcellPlatform) QueuedAudio() int {
	return 0
}

func (p *tcellPlatform) AudioSpec() AudioSpec {
	return AudioSpec{}
}

func (p *tcellPlatform) EnableAudio(b bool) {
}

func (p *tcellPlatform) SetKeyboardHandler(h func(Scancode)) {
	p.Lock()
	p.keyboardHandler = h
	p.Unlock()
}
