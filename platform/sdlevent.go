//go:build sdl
// +build sdl

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
	"time"

	"github.com/andreas-jonsson/virtualvip/platform/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

func (p *sdlPlatform) initializeSDLEvents() error {
	var err error
	sdl.Do(func() {
		err = sdl.InitSubSystem(sdl.INIT_EVENTS)
	})
	if err != nil {
		return err
	}

	p.quitChan = make(chan struct{})
	registerCleanup(p, shutdownSDLEvents)

	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()

		for {
			select {
			case <-p.quitChan:
				close(p.quitChan)
				return
			case <-ticker.C:
				sdl.Do(func() {
					for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
						switch ev := event.(type) {
						case *sdl.QuitEvent:
							dialog.AskToQuit()
						case *sdl.KeyboardEvent:
							if ev.Repeat == 0 {
								p.sdlProcessKey(ev)
							}
						}
					}
				})
			}
		}
	}()
	return nil
}

func shutdownSDLEvents(p *sdlPlatform) {
	p.quitChan <- struct{}{}
	<-p.quitChan
	sdl.Do(func() {
		sdl.QuitSubSystem(sdl.INIT_EVENTS)
	})
}

func (p *sdlPlatform) sdlProcessKey(ev *sdl.KeyboardEvent) {
	keyUp := ev.Type == sdl.KEYUP
	if ev.Keysym.Scancode == sdl.SCANCODE_F11 {
		if keyUp {
			if (p.window.GetFlags() & sdl.WINDOW_FULLSCREEN) != 0 {
				p.window.SetFullscreen(0)
			} else {
				p.window.SetFullscreen(sdl.WINDOW_FULLSCREEN_DESKTOP)
			}
		}
	} else if ev.Keysym.Scancode == sdl.SCANCODE_F12 {
		if keyUp {
			p.window.SetFullscreen(0)
			if err := dialog.MainMenu(); err != nil {
				log.Print(err)
			}
		}
	} else if scan := sdlScanToScancode(ev.Keysym.Scancode); scan != ScanInvalid {
		if p.keyboardHandler == nil {
			return
		}
		if keyUp {
			scan |= KeyUpMask
		}
		p.keyboardHandler(scan)
	} else if !keyUp {
		log.Printf("Invalid key \"%s\"", sdl.GetKeyName(ev.Keysym.Sym))
	}
}

func (p *sdlPlatform) SetKeyboardHandler(h func(Scancode)) {
	sdl.Do(func() {
		p.keyboardHandler = h
	})
}

var sdlScancodes = map[sdl.Scancode]Scancode{
	sdl.SCANCODE_ESCAPE:    ScanEscape,
	sdl.SCANCODE_1:         Scan1,
	sdl.SCANCODE_2:         Scan2,
	sdl.SCANCODE_3:         Scan3,
	sdl.SCANCODE_4:         Scan4,
	sdl.SCANCODE_5:         Scan5,
	sdl.SCANCODE_6:         Scan6,
	sdl.SCANCODE_7:         Scan7,
	sdl.SCANCODE_8:         Scan8,
	sdl.SCANCODE_9:         Scan9,
	sdl.SCANCODE_0:         Scan0,
	sdl.SCANCODE_Q:         ScanQ,
	sdl.SCANCODE_W:         ScanW,
	sdl.SCANCODE_E:         ScanE,
	sdl.SCANCODE_R:         ScanR,
	sdl.SCANCODE_T:         ScanT,
	sdl.SCANCODE_Y:         ScanY,
	sdl.SCANCODE_U:         ScanU,
	sdl.SCANCODE_I:         ScanI,
	sdl.SCANCODE_O:         ScanO,
	sdl.SCANCODE_P:         ScanP,
	sdl.SCANCODE_RETURN:    ScanEnter,
	sdl.SCANCODE_KP_ENTER:  ScanEnter,
	sdl.SCANCODE_A:         ScanA,
	sdl.SCANCODE_S:         ScanS,
	sdl.SCANCODE_D:         ScanD,
	sdl.SCANCODE_F:         ScanF,
	sdl.SCANCODE_G:         ScanG,
	sdl.SCANCODE_H:         ScanH,
	sdl.SCANCODE_J:         ScanJ,
	sdl.SCANCODE_K:         ScanK,
	sdl.SCANCODE_L:         ScanL,
	sdl.SCANCODE_SEMICOLON: ScanSemicolon,
	sdl.SCANCODE_Z:         ScanZ,
	sdl.SCANCODE_X:         ScanX,
	sdl.SCANCODE_C:         ScanC,
	sdl.SCANCODE_V:         ScanV,
	sdl.SCANCODE_B:         ScanB,
	sdl.SCANCODE_N:         ScanN,
	sdl.SCANCODE_M:         ScanM,
	sdl.SCANCODE_COMMA:     ScanComma,
	sdl.SCANCODE_PERIOD:    ScanPeriod,
	sdl.SCANCODE_SPACE:     ScanSpace,
	sdl.SCANCODE_F1:        ScanF1,
	sdl.SCANCODE_F2:        ScanF2,
	sdl.SCANCODE_F3:        ScanF3,
	sdl.SCANCODE_F4:        ScanF4,
	sdl.SCANCODE_F5:        ScanF5,
	sdl.SCANCODE_F6:        ScanF6,
	sdl.SCANCODE_F7:        ScanF7,
	sdl.SCANCODE_F8:        ScanF8,
	sdl.SCANCODE_F9:        ScanF9,
	sdl.SCANCODE_F10:       ScanF10,
}

func sdlScanToScancode(scan sdl.Scancode) Scancode {
	if s, ok := sdlScancodes[scan]; ok {
		return s
	}
	return ScanInvalid
}
