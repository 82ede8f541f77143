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

	"github.com/andreas-jonsson/virtualvip/emulator/audio"
	"github.com/andreas-jonsson/virtualvip/emulator/processor/validator"
	"github.com/andreas-jonsson/virtualvip/emulator/video"
	"github.com/andreas-jonsson/virtualvip/platform"
)

// ExecStep is the amount of emulated time advanced per iteration of a
// headless run.
const ExecStep = 10 * time.Millisecond

// Snapshot selects the RAM range written to Name after a headless run.
// A zero Size saves everything from Start to the end of RAM.
type Snapshot struct {
	Name        string
	Start, Size int
}

// Exec runs the machine without video, audio or keyboard for the given
// amount of emulated time. The run switch is turned on before the first
// step. Emulated time is synthetic, so the run completes as fast as the
// host allows.
func Exec(cfg Config, duration time.Duration, snap Snapshot, configs ...platform.Config) error {
	var err error
	if e := platform.StartHeadless(func(p platform.Platform) {
		err = execLoop(p, cfg, duration, snap)
	}, configs...); e != nil {
		return e
	}
	return err
}

func execLoop(p platform.Platform, cfg Config, duration time.Duration, snap Snapshot) error {
	if cfg.Trace != "" {
		validator.Initialize(cfg.Trace, validator.DefaultQueueSize, validator.DefaultBufferSize)
		defer validator.Shutdown()
	}

	m, err := NewMachine(p.FS(), cfg)
	if err != nil {
		return err
	}

	fb := video.NewFramebuffer(p)
	m.SetupDisplay(fb)

	var (
		rec   *audio.Recorder
		mixer *audio.Mixer
		buf   []int16
	)

	if cfg.RecordWAV != "" {
		mixer = audio.NewMixer(defaultSampleRate, 1)
		m.SetupAudio(mixer)
		m.AdjustVolume(cfg.Volume)

		if rec, err = audio.NewRecorder(p.FS(), cfg.RecordWAV, defaultSampleRate); err != nil {
			return err
		}
		buf = make([]int16, int(ExecStep.Seconds()*defaultSampleRate)*audio.NumChannels)
	}

	m.SetRunSwitch(true)
	now := time.Now()

	for elapsed := time.Duration(0); elapsed < duration; elapsed += ExecStep {
		now = now.Add(ExecStep)
		m.RunMachine(now)

		if rec != nil {
			mixer.Mix(buf)
			if err := rec.Write(buf); err != nil {
				rec.Close()
				return err
			}
		}
	}

	if rec != nil {
		if err := rec.Close(); err != nil {
			return err
		}
	}

	st := m.Stats()
	log.Printf("executed %d instructions in %v (%d interrupts, %d frames)", st.NumInstructions, duration, st.NumInterrupts, fb.Frames())
	if cfg.Stats {
		log.Printf("DMA in %d, DMA out %d, idle cycles %d, machine cycles %d", st.NumDMAIn, st.NumDMAOut, st.IdleCycles, st.MachineCycles)
	}

	if snap.Name == "" {
		return nil
	}

	size := snap.Size
	if size == 0 {
		size = len(m.RAM()) - snap.Start
	}
	if err := m.SaveMemory(p.FS(), snap.Name, snap.Start, size); err != nil {
		return err
	}
	log.Printf("saved %d bytes at 0x%04X to %s", size, snap.Start, snap.Name)
	return nil
}
