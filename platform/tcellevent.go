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
	"os"
	"time"

	"github.com/andreas-jonsson/virtualvip/platform/dialog"
	"github.com/gdamore/tcell"
)

// Terminals only report key presses, so releases are synthesized.
const keyHoldTime = 100 * time.Millisecond

func (p *tcellPlatform) initializeTcellEvents() error {
	go func() {
		s := p.screen
		for {
			ev := s.PollEvent()
			switch ev := ev.(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyF12 || ev.Key() == tcell.KeyCtrlC {
					dialog.Quit()
					go func() {
						time.Sleep(3 * time.Second)
						os.Exit(-1)
					}()
					return
				}
				p.pushKeyEvent(ev)
			case *tcell.EventResize:
				s.Sync()
			case *tcell.EventInterrupt:
				if data, ok := ev.Data().(*frame); ok {
					p.Lock()
					p.drawFrame(data)
					p.Unlock()
					s.Show()
				}
			}
		}
	}()
	return nil
}

func pixelColor(pixels []byte, i int) tcell.Color {
	return tcell.NewRGBColor(int32(pixels[i]), int32(pixels[i+1]), int32(pixels[i+2]))
}

// drawFrame uses one half block cell per two vertically adjacent pixels.
func (p *tcellPlatform) drawFrame(f *frame) {
	const bpp = 4
	for y := 0; y+1 < f.height; y += 2 {
		for x := 0; x < f.width; x++ {
			top := (y*f.width + x) * bpp
			bottom := top + f.width*bpp
			if bottom+bpp > len(f.pixels) {
				return
			}

			style := tcell.StyleDefault.Foreground(pixelColor(f.pixels, top)).Background(pixelColor(f.pixels, bottom))
			p.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}

func (p *tcellPlatform) pushKeyEvent(ev *tcell.EventKey) {
	deviceEvent := createEventFromTCELL(ev)
	if deviceEvent == ScanInvalid {
		log.Print("Unknown key!")
		return
	}

	p.Lock()
	h := p.keyboardHandler
	p.Unlock()

	if h == nil {
		return
	}
	h(deviceEvent)

	go func() {
		time.Sleep(keyHoldTime)
		h(deviceEvent | KeyUpMask)
	}()
}

func createEventFromTCELL(ev *tcell.EventKey) Scancode {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ScanEscape
	case tcell.KeyEnter:
		return ScanEnter
	case tcell.KeyF1:
		return ScanF1
	case tcell.KeyF2:
		return ScanF2
	case tcell.KeyF3:
		return ScanF3
	case tcell.KeyF4:
		return ScanF4
	case tcell.KeyF5:
		return ScanF5
	case tcell.KeyF6:
		return ScanF6
	case tcell.KeyF7:
		return ScanF7
	case tcell.KeyF8:
		return ScanF8
	case tcell.KeyF9:
		return ScanF9
	case tcell.KeyF10:
		return ScanF10
	case tcell.KeyF11:
		return ScanF11
	case tcell.KeyRune:
		return runeToScancode(ev.Rune())
	}
	return ScanInvalid
}

func runeToScancode(r rune) Scancode {
	switch {
	case r >= 'a' && r <= 'z':
		return letterScancodes[r-'a']
	case r >= 'A' && r <= 'Z':
		return letterScancodes[r-'A']
	case r >= '1' && r <= '9':
		return Scan1 + Scancode(r-'1')
	}

	switch r {
	case '0':
		return Scan0
	case ';':
		return ScanSemicolon
	case ',':
		return ScanComma
	case '.':
		return ScanPeriod
	case ' ':
		return ScanSpace
	}
	return ScanInvalid
}

var letterScancodes = [26]Scancode{
	ScanA, ScanB, ScanC, ScanD, ScanE, ScanF, ScanG, ScanH, ScanI,
	ScanJ, ScanK, ScanL, ScanM, ScanN, ScanO, ScanP, ScanQ, ScanR,
	ScanS, ScanT, ScanU, ScanV, ScanW, ScanX, ScanY, ScanZ,
}
