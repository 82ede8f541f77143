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

// Package tone is the base VIP sound circuit: a fixed square wave
// oscillator gated by the CPU Q output.
package tone

import (
	"sync/atomic"

	"github.com/andreas-jonsson/virtualvip/emulator/processor"
)

const (
	Frequency = 1400.0
	Amplitude = 0.2
)

// Generator is written by the emulation goroutine through SetQ and
// read by the audio goroutine through Sample.
type Generator struct {
	gate   int32
	period float64
}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) Name() string {
	return "Tone Generator"
}

func (g *Generator) Install(processor.Processor) error {
	return nil
}

func (g *Generator) Reset() {
	g.SetQ(false)
}

func (g *Generator) SetQ(q bool) {
	var v int32
	if q {
		v = 1
	}
	atomic.StoreInt32(&g.gate, v)
}

func (g *Generator) Active() bool {
	return atomic.LoadInt32(&g.gate) != 0
}

// Sample returns the next output sample in the range [-1, 1] and
// advances the oscillator by interval seconds.
func (g *Generator) Sample(interval float64) float64 {
	var v float64
	if g.Active() {
		v = -Amplitude
		if g.period < 0.5/Frequency {
			v = Amplitude
		}
	}

	g.period += interval
	for g.period >= 1/Frequency {
		g.period -= 1 / Frequency
	}
	return v
}
