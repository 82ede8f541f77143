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

// Package vp595 emulates the VP-595 simple sound board. A CDP1863 divides
// the board oscillator and OUT 3 selects the divisor, replacing the fixed
// base tone.
package vp595

import (
	"math"
	"sync/atomic"

	"github.com/andreas-jonsson/virtualvip/emulator/peripheral/cdp1863"
	"github.com/andreas-jonsson/virtualvip/emulator/processor"
)

const (
	DefaultVolume = 50
	amplitude     = 0.4

	// The board runs the divider from its own oscillator at CPU clock / 8.
	clockDivisor = 8
)

type Board struct {
	divider *cdp1863.Divider

	frequency uint64
	volume    uint64
	gate      int32

	period float64
}

func New(cpuFrequency float64) *Board {
	b := &Board{divider: cdp1863.New(cpuFrequency / clockDivisor)}
	b.SetVolume(DefaultVolume)
	b.SetFrequency(0)
	return b
}

func (b *Board) Name() string {
	return "VP-595 Simple Sound Board"
}

func (b *Board) Install(processor.Processor) error {
	return nil
}

func (b *Board) Reset() {
	b.divider.Reset()
	b.storeFrequency()
	b.SetQ(false)
}

// SetFrequency latches the OUT 3 divide rate. Zero selects 0x80.
func (b *Board) SetFrequency(v byte) {
	if v == 0 {
		v = 0x80
	}
	b.divider.SetDivideRate(v)
	b.storeFrequency()
}

func (b *Board) storeFrequency() {
	atomic.StoreUint64(&b.frequency, math.Float64bits(b.divider.OutputFrequency()))
}

func (b *Board) Frequency() float64 {
	return math.Float64frombits(atomic.LoadUint64(&b.frequency))
}

// SetVolume takes a volume in percent.
func (b *Board) SetVolume(v int) {
	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}
	atomic.StoreUint64(&b.volume, math.Float64bits(float64(v)/100))
}

func (b *Board) Volume() int {
	return int(math.Round(math.Float64frombits(atomic.LoadUint64(&b.volume)) * 100))
}

func (b *Board) SetQ(q bool) {
	var v int32
	if q {
		v = 1
	}
	atomic.StoreInt32(&b.gate, v)
}

func (b *Board) Active() bool {
	return atomic.LoadInt32(&b.gate) != 0
}

func (b *Board) Sample(interval float64) float64 {
	f := b.Frequency()
	if f <= 0 {
		return 0
	}

	var v float64
	if b.Active() {
		v = math.Float64frombits(atomic.LoadUint64(&b.volume)) * amplitude
		if b.period >= 0.5/f {
			v = -v
		}
	}

	b.period += interval
	for b.period >= 1/f {
		b.period -= 1 / f
	}
	return v
}
