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

// Package emulator drives a COSMAC VIP on a host platform. It owns the
// control loop, keyboard routing, the audio pump and the headless runner.
package emulator

import (
	"fmt"
	"log"
	"time"

	"github.com/andreas-jonsson/virtualvip/emulator/audio"
	"github.com/andreas-jonsson/virtualvip/emulator/processor/validator"
	"github.com/andreas-jonsson/virtualvip/emulator/video"
	"github.com/andreas-jonsson/virtualvip/emulator/vip"
	"github.com/andreas-jonsson/virtualvip/platform"
	"github.com/andreas-jonsson/virtualvip/platform/dialog"
	"github.com/andreas-jonsson/virtualvip/statsview"
	"github.com/spf13/afero"
)

const (
	defaultSampleRate = 44100
	audioTick         = 10 * time.Millisecond
	statsInterval     = time.Second
	idleSleep         = time.Millisecond
)

type Config struct {
	ROM    string
	RAM    int
	Boards []vip.ExpansionBoard

	Load   string
	LoadAt int

	Volume    int
	Run       bool
	RecordWAV string
	Trace     string
	Stats     bool
}

func DefaultConfig() Config {
	return Config{
		RAM:    vip.DefaultRAMKB,
		Volume: audio.DefaultVolume,
	}
}

// NewMachine builds a machine from cfg. Files are read through fs.
func NewMachine(fs afero.Fs, cfg Config) (*vip.Machine, error) {
	m := vip.New()

	if cfg.RAM != 0 && cfg.RAM != vip.DefaultRAMKB {
		if err := m.AdjustRAM(cfg.RAM); err != nil {
			return nil, err
		}
	}

	if cfg.ROM != "" {
		if err := m.LoadROM(fs, cfg.ROM); err != nil {
			return nil, err
		}
	}

	for _, b := range cfg.Boards {
		if err := m.InstallExpansionBoard(b); err != nil {
			return nil, err
		}
	}

	if err := loadImage(m, fs, cfg); err != nil {
		return nil, err
	}
	return m, nil
}

func loadImage(m *vip.Machine, fs afero.Fs, cfg Config) error {
	if cfg.Load == "" {
		return nil
	}
	_, err := m.LoadMemory(fs, cfg.Load, cfg.LoadAt)
	return err
}

// Start runs the emulator on the default platform and blocks until the
// user quits.
func Start(cfg Config, configs ...platform.Config) {
	platform.Start(func(p platform.Platform) {
		if err := emuLoop(p, cfg); err != nil {
			log.Print(err)
			dialog.ShowErrorMessage(err.Error())
		}
	}, configs...)
}

func emuLoop(p platform.Platform, cfg Config) error {
	if cfg.Trace != "" {
		if !validator.Enabled {
			log.Print("instruction trace requires the validator build tag")
		}
		validator.Initialize(cfg.Trace, validator.DefaultQueueSize, validator.DefaultBufferSize)
		defer validator.Shutdown()
	}

	if cfg.Stats {
		statsview.Launch()
	}

	m, err := NewMachine(p.FS(), cfg)
	if err != nil {
		return err
	}

	m.SetupDisplay(video.NewFramebuffer(p))

	sampleRate := defaultSampleRate
	if p.HasAudio() {
		sampleRate = p.AudioSpec().Freq
	}
	mixer := audio.NewMixer(sampleRate, 1)
	m.SetupAudio(mixer)
	m.AdjustVolume(cfg.Volume)

	var rec *audio.Recorder
	if cfg.RecordWAV != "" {
		if rec, err = audio.NewRecorder(p.FS(), cfg.RecordWAV, sampleRate); err != nil {
			return err
		}
	}

	if p.HasAudio() || rec != nil {
		quit := make(chan struct{})
		done := make(chan struct{})
		go audioPump(p, mixer, rec, quit, done)
		defer func() {
			close(quit)
			<-done
		}()
		p.EnableAudio(true)
		defer p.EnableAudio(false)
	}

	events := make(chan platform.Scancode, 64)
	p.SetKeyboardHandler(func(s platform.Scancode) {
		select {
		case events <- s:
		default:
		}
	})
	defer p.SetKeyboardHandler(nil)

	ctrl := newController(m, p.FS(), cfg)
	if cfg.Run {
		m.SetRunSwitch(true)
	}

	statsTicker := time.NewTicker(statsInterval)
	defer statsTicker.Stop()
	m.Stats()

	for !dialog.ShutdownRequested() {
		select {
		case s := <-events:
			ctrl.handleKey(s, time.Now())
		case <-statsTicker.C:
			// Stats are reset by every read, so st covers one interval.
			st := m.Stats()
			title := fmt.Sprintf("VirtualVIP - %s", statusLine(m, ctrl.paused, st.MachineCycles))
			p.SetTitle(title)
			if cfg.Stats {
				log.Printf("%s, %d instructions, %d interrupts", title, st.NumInstructions, st.NumInterrupts)
			}
		default:
		}

		if dialog.RestartRequested() {
			ctrl.reset()
		}

		m.RunMachine(time.Now())
		time.Sleep(idleSleep)
	}
	return nil
}

func statusLine(m *vip.Machine, paused bool, machineCycles uint64) string {
	switch {
	case !m.Running():
		return "Stopped"
	case paused:
		return "Paused"
	}
	mhz := float64(machineCycles*8) / statsInterval.Seconds() / 1e6
	return fmt.Sprintf("%.3f MHz", mhz)
}

// audioPump mixes audio at the wall-clock rate and feeds the platform queue
// and the WAV recorder.
func audioPump(p platform.Platform, mx *audio.Mixer, rec *audio.Recorder, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(audioTick)
	defer ticker.Stop()

	rate := mx.SampleRate()
	maxQueued := rate / 10
	if spec := p.AudioSpec(); spec.Samples > 0 {
		maxQueued = spec.Samples * 4
	}

	var buf []int16
	last := time.Now()

	for {
		select {
		case <-quit:
			if rec != nil {
				if err := rec.Close(); err != nil {
					log.Print(err)
				}
			}
			return
		case now := <-ticker.C:
			frames := int(now.Sub(last).Seconds() * float64(rate))
			if frames <= 0 {
				continue
			}
			last = last.Add(time.Duration(frames) * time.Second / time.Duration(rate))

			if n := frames * audio.NumChannels; cap(buf) < n {
				buf = make([]int16, n)
			} else {
				buf = buf[:n]
			}
			mx.Mix(buf)

			if p.HasAudio() && p.QueuedAudio() < maxQueued {
				p.QueueAudio(buf)
			}
			if rec != nil {
				if err := rec.Write(buf); err != nil {
					log.Print(err)
					rec.Close()
					rec = nil
				}
			}
		}
	}
}
