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
	"fmt"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

const (
	bitDepth      = 16
	pcmFormat     = 1
	wavBufferSize = 4096
)

// Recorder streams mixer output to a 16 bit stereo WAV file.
type Recorder struct {
	file afero.File
	enc  *wav.Encoder
	buf  *audio.IntBuffer
}

func NewRecorder(fs afero.Fs, name string, sampleRate int) (*Recorder, error) {
	fp, err := fs.Create(name)
	if err != nil {
		return nil, fmt.Errorf("could not create WAV file: %w", err)
	}

	return &Recorder{
		file: fp,
		enc:  wav.NewEncoder(fp, sampleRate, bitDepth, NumChannels, pcmFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: NumChannels, SampleRate: sampleRate},
			Data:           make([]int, 0, wavBufferSize),
			SourceBitDepth: bitDepth,
		},
	}, nil
}

func (r *Recorder) Write(samples []int16) error {
	r.buf.Data = r.buf.Data[:0]
	for _, s := range samples {
		r.buf.Data = append(r.buf.Data, int(s))
	}
	return r.enc.Write(r.buf)
}

// Close finalizes the WAV header and closes the file.
func (r *Recorder) Close() error {
	if err := r.enc.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}
