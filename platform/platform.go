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
	"sync/atomic"

	"github.com/spf13/afero"
)

type internalPlatform interface{}

type Config func(internalPlatform) error

type AudioSpec struct {
	Freq,
	Channels,
	Samples int
}

type Platform interface {
	FS() afero.Fs

	HasAudio() bool
	RenderGraphics(backBuffer []byte, width, height int)
	SetTitle(title string)
	QueueAudio(soundBuffer []int16)
	QueuedAudio() int
	AudioSpec() AudioSpec
	EnableAudio(b bool)
	SetKeyboardHandler(h func(Scancode))
}

var Instance Platform

var (
	fileSystem afero.Fs = afero.NewOsFs()
	textMode   int32
)

// ConfigWithFileSystem replaces the host file system used for ROM images,
// memory transfers and recordings.
func ConfigWithFileSystem(fs afero.Fs) Config {
	return func(internalPlatform) error {
		fileSystem = fs
		return nil
	}
}

// UseTextMode selects the terminal backend even when SDL is available.
func UseTextMode(b bool) {
	var v int32
	if b {
		v = 1
	}
	atomic.StoreInt32(&textMode, v)
}

func textModeSelected() bool {
	return atomic.LoadInt32(&textMode) != 0
}

type Scancode byte

const KeyUpMask Scancode = 0x80

const (
	ScanInvalid Scancode = iota
	ScanEscape
	Scan1
	Scan2
	Scan3
	Scan4
	Scan5
	Scan6
	Scan7
	Scan8
	Scan9
	Scan0
	ScanQ
	ScanW
	ScanE
	ScanR
	ScanT
	ScanY
	ScanU
	ScanI
	ScanO
	ScanP
	ScanEnter
	ScanA
	ScanS
	ScanD
	ScanF
	ScanG
	ScanH
	ScanJ
	ScanK
	ScanL
	ScanSemicolon
	ScanZ
	ScanX
	ScanC
	ScanV
	ScanB
	ScanN
	ScanM
	ScanComma
	ScanPeriod
	ScanSpace
	ScanF1
	ScanF2
	ScanF3
	ScanF4
	ScanF5
	ScanF6
	ScanF7
	ScanF8
	ScanF9
	ScanF10
	ScanF11
	ScanF12
)

func (s Scancode) KeyUp() bool {
	return s&KeyUpMask != 0
}

func (s Scancode) Key() Scancode {
	return s &^ KeyUpMask
}
