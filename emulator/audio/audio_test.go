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

package audio

import (
	"math"
	"testing"

	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

type constSource struct {
	v     float64
	calls int
}

func (s *constSource) Sample(float64) float64 {
	s.calls++
	return s.v
}

func TestChannelMasks(t *testing.T) {
	m := NewMixer(44100, 3)
	left, right := &constSource{v: 0.5}, &constSource{v: -0.5}
	m.SetOutput(0, left, Left)
	m.SetOutput(1, right, Right)
	m.SetOutput(5, &constSource{v: 1}, Stereo)

	buf := make([]int16, 8)
	m.Mix(buf)

	// 0.25 of full scale, truncated.
	l, r := int16(8191), int16(-8191)
	for i := 0; i < len(buf); i += 2 {
		if buf[i] != l || buf[i+1] != r {
			t.Fatalf("frame %d is %d/%d, expected %d/%d", i/2, buf[i], buf[i+1], l, r)
		}
	}
	if left.calls != 4 || right.calls != 4 {
		t.Errorf("sources sampled %d and %d times", left.calls, right.calls)
	}
}

func TestVolumeAndClipping(t *testing.T) {
	m := NewMixer(44100, 2)
	if m.Volume() != DefaultVolume {
		t.Errorf("default volume is %d", m.Volume())
	}

	m.SetVolume(200)
	m.SetOutput(0, &constSource{v: 1}, Stereo)
	m.SetOutput(1, &constSource{v: 1}, Stereo)

	buf := make([]int16, 2)
	m.Mix(buf)
	if buf[0] != math.MaxInt16 || buf[1] != math.MaxInt16 {
		t.Errorf("frame is %d/%d, expected clipping", buf[0], buf[1])
	}

	m.SetVolume(0)
	m.Mix(buf)
	if buf[0] != 0 || buf[1] != 0 {
		t.Errorf("muted frame is %d/%d", buf[0], buf[1])
	}
}

func TestSilentSlot(t *testing.T) {
	m := NewMixer(44100, 1)
	s := &constSource{v: 1}
	m.SetOutput(0, s, Stereo)
	m.SetOutput(0, nil, Stereo)

	buf := []int16{1, 1}
	m.Mix(buf)
	if buf[0] != 0 || buf[1] != 0 || s.calls != 0 {
		t.Errorf("cleared slot produced %v", buf)
	}
}

func TestRecorder(t *testing.T) {
	fs := afero.NewMemMapFs()

	r, err := NewRecorder(fs, "out.wav", 22050)
	if err != nil {
		t.Fatal(err)
	}

	samples := make([]int16, 200)
	for i := range samples {
		samples[i] = int16(i * 100)
	}
	if err := r.Write(samples[:100]); err != nil {
		t.Fatal(err)
	}
	if err := r.Write(samples[100:]); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	fp, err := fs.Open("out.wav")
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()

	dec := wav.NewDecoder(fp)
	if !dec.IsValidFile() {
		t.Fatal("recorded file is not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if dec.SampleRate != 22050 || dec.NumChans != NumChannels || dec.BitDepth != bitDepth {
		t.Errorf("header is %d Hz, %d channels, %d bit", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("decoded %d samples, expected %d", len(buf.Data), len(samples))
	}
	for i, s := range samples {
		if buf.Data[i] != int(s) {
			t.Fatalf("sample %d is %d, expected %d", i, buf.Data[i], s)
		}
	}
}
