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

package emulator

import (
	"log"
	"time"

	"github.com/andreas-jonsson/virtualvip/emulator/peripheral/keypad"
	"github.com/andreas-jonsson/virtualvip/emulator/vip"
	"github.com/andreas-jonsson/virtualvip/platform"
	"github.com/spf13/afero"
)

type keyBinding struct {
	pad int
	key byte
}

var keypadRows = [vip.NumKeypads][16]platform.Scancode{
	{
		platform.Scan1, platform.Scan2, platform.Scan3, platform.Scan4,
		platform.ScanQ, platform.ScanW, platform.ScanE, platform.ScanR,
		platform.ScanA, platform.ScanS, platform.ScanD, platform.ScanF,
		platform.ScanZ, platform.ScanX, platform.ScanC, platform.ScanV,
	},
	{
		platform.Scan7, platform.Scan8, platform.Scan9, platform.Scan0,
		platform.ScanU, platform.ScanI, platform.ScanO, platform.ScanP,
		platform.ScanJ, platform.ScanK, platform.ScanL, platform.ScanSemicolon,
		platform.ScanN, platform.ScanM, platform.ScanComma, platform.ScanPeriod,
	},
}

// keymap places the hex keypad layout on the host keyboard, keypad 1 on
// the left hand side and keypad 2 on the right.
var keymap = func() map[platform.Scancode]keyBinding {
	km := make(map[platform.Scancode]keyBinding)
	for pad, row := range keypadRows {
		for i, s := range row {
			km[s] = keyBinding{pad: pad, key: keypad.Layout[i]}
		}
	}
	return km
}()

type controller struct {
	m   *vip.Machine
	fs  afero.Fs
	cfg Config

	paused bool
	held   [vip.NumKeypads]platform.Scancode
}

func newController(m *vip.Machine, fs afero.Fs, cfg Config) *controller {
	return &controller{m: m, fs: fs, cfg: cfg}
}

func (c *controller) handleKey(s platform.Scancode, now time.Time) {
	up := s.KeyUp()
	s = s.Key()

	if b, ok := keymap[s]; ok {
		if up {
			if c.held[b.pad] == s {
				c.held[b.pad] = platform.ScanInvalid
				c.m.ReleaseKey(b.pad)
			}
		} else {
			c.held[b.pad] = s
			c.m.PressKey(b.pad, b.key)
		}
		return
	}

	if up {
		return
	}

	switch s {
	case platform.ScanEnter:
		c.paused = false
		c.m.SetRunSwitch(!c.m.Running())
	case platform.ScanF5:
		c.reset()
	case platform.ScanF8:
		if c.m.Running() {
			c.paused = !c.paused
			c.m.SetPaused(c.paused, now)
		}
	}
}

// reset clears the machine, reloads the memory image and restores the
// run switch position given on the command line.
func (c *controller) reset() {
	c.paused = false
	c.m.Reset()
	for i := range c.held {
		c.held[i] = platform.ScanInvalid
		c.m.ReleaseKey(i)
	}
	if err := loadImage(c.m, c.fs, c.cfg); err != nil {
		log.Print(err)
	}
	if c.cfg.Run {
		c.m.SetRunSwitch(true)
	}
}
