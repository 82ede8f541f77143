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

// Package audio mixes the machine sound sources into interleaved 16 bit
// stereo frames for the platform and the WAV recorder.
package audio

import (
	"math"
	"sync"
	"sync/atomic"
)

const (
	DefaultVolume = 50

	Left   = 0x1
	Right  = 0x2
	Stereo = Left | Right

	NumChannels = 2
)

// Source produces one sample in the range [-1, 1] per call and advances
// its internal state by interval seconds.
type Source interface {
	Sample(interval float64) float64
}

type output struct {
	source Source
	mask   byte
}

type Mixer struct {
	mu      sync.Mutex
	outputs []output

	sampleRate int
	volume     int32
}

func NewMixer(sampleRate, slots int) *Mixer {
	return &Mixer{
		outputs:    make([]output, slots),
		sampleRate: sampleRate,
		volume:     DefaultVolume,
	}
}

// SetOutput connects a source to a mixer slot. A nil source or a zero
// channel mask silences the slot.
func (m *Mixer) SetOutput(slot int, s Source, mask byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if slot >= 0 && slot < len(m.outputs) {
		m.outputs[slot] = output{s, mask & Stereo}
	}
}

func (m *Mixer) SampleRate() int {
	return m.sampleRate
}

func (m *Mixer) SetVolume(v int) {
	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}
	atomic.StoreInt32(&m.volume, int32(v))
}

func (m *Mixer) Volume() int {
	return int(atomic.LoadInt32(&m.volume))
}

// Mix fills buf with interleaved left/right frames.
func (m *Mixer) Mix(buf []int16) {
	m.mu.Lock()
	defer m.mu.Unlock()

	interval := 1 / float64(m.sampleRate)
	volume := float64(m.Volume()) / 100

	for i := 0; i+1 < len(buf); i += NumChannels {
		var left, right float64
		for _, o := range m.outputs {
			if o.source == nil {
				continue
			}

			v := volume * o.source.Sample(interval)
			if o.mask&Left != 0 {
				left += v
			}
			if o.mask&Right != 0 {
				right += v
			}
		}
		buf[i], buf[i+1] = toPCM(left), toPCM(right)
	}
}

func toPCM(v float64) int16 {
	return int16(math.Max(-1, math.Min(1, v)) * math.MaxInt16)
}
