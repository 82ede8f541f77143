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
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/andreas-jonsson/virtualvip/emulator/vip"
	"github.com/andreas-jonsson/virtualvip/platform"
	"github.com/spf13/afero"
)

// testROM stores 0x42 at 0x0100, sets Q and loops.
func testROM() []byte {
	rom := make([]byte, 0x20)
	copy(rom, []byte{0xC0, 0x80, 0x08})
	copy(rom[0x08:], []byte{
		0xE0,       // SEX 0
		0x64, 0x00, // OUT 4
		0xF8, 0x01, // LDI 01
		0xB1,       // PHI 1
		0xF8, 0x42, // LDI 42
		0x51,       // STR 1
		0x7B,       // SEQ
		0x30, 0x12, // BR 12
	})
	return rom
}

func testFS(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "vip.rom", testROM(), 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "data.bin", []byte{1, 2, 3}, 0644); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestNewMachine(t *testing.T) {
	fs := testFS(t)

	cfg := DefaultConfig()
	cfg.ROM = "vip.rom"
	cfg.RAM = 4
	cfg.Boards = []vip.ExpansionBoard{vip.VP585, vip.VP595}
	cfg.Load = "data.bin"
	cfg.LoadAt = 0x200

	m, err := NewMachine(fs, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.RAM()) != 4<<10 {
		t.Errorf("RAM size is %d", len(m.RAM()))
	}
	if !bytes.Equal(m.ROM(), testROM()) {
		t.Error("ROM image was not installed")
	}
	if !m.HasBoard(vip.VP585) || !m.HasBoard(vip.VP595) {
		t.Errorf("boards installed: %v", m.Boards())
	}
	if !bytes.Equal(m.RAM()[0x200:0x203], []byte{1, 2, 3}) {
		t.Error("memory image was not loaded")
	}
}

func TestNewMachineErrors(t *testing.T) {
	fs := testFS(t)

	t.Run("RAM", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.RAM = vip.MaxRAMKB + 1
		if _, err := NewMachine(fs, cfg); !errors.Is(err, vip.ErrInvalidRAMSize) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("ROM", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ROM = "missing.rom"
		if _, err := NewMachine(fs, cfg); err == nil {
			t.Error("missing ROM image was accepted")
		}
	})

	t.Run("Board", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Boards = []vip.ExpansionBoard{vip.ExpansionBoard(42)}
		if _, err := NewMachine(fs, cfg); !errors.Is(err, vip.ErrUnknownBoard) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("Load", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Load = "data.bin"
		cfg.LoadAt = vip.DefaultRAMKB<<10 - 1
		if _, err := NewMachine(fs, cfg); !errors.Is(err, vip.ErrTransferRange) {
			t.Errorf("got %v", err)
		}
	})
}

func TestKeymap(t *testing.T) {
	if len(keymap) != 32 {
		t.Fatalf("keymap has %d entries", len(keymap))
	}

	tests := []struct {
		scan platform.Scancode
		pad  int
		key  byte
	}{
		{platform.Scan1, 0, 0x1},
		{platform.Scan4, 0, 0xC},
		{platform.ScanX, 0, 0x0},
		{platform.ScanV, 0, 0xF},
		{platform.Scan7, 1, 0x1},
		{platform.ScanComma, 1, 0xB},
		{platform.ScanPeriod, 1, 0xF},
	}
	for _, tt := range tests {
		if b := keymap[tt.scan]; b.pad != tt.pad || b.key != tt.key {
			t.Errorf("scancode %d maps to keypad %d key 0x%X", tt.scan, b.pad, b.key)
		}
	}
}

func TestControllerKeys(t *testing.T) {
	fs := testFS(t)
	cfg := DefaultConfig()
	cfg.ROM = "vip.rom"

	m, err := NewMachine(fs, cfg)
	if err != nil {
		t.Fatal(err)
	}
	c := newController(m, fs, cfg)
	ef := m.CPU().ExternalFlags()
	now := time.Now()

	m.Out(2, 0xC)
	c.handleKey(platform.Scan4, now)
	m.Sync()
	if !ef.Get(2) {
		t.Error("EF3 not set for the latched key")
	}

	c.handleKey(platform.Scan4|platform.KeyUpMask, now)
	m.Sync()
	if ef.Get(2) {
		t.Error("EF3 still set after release")
	}

	c.handleKey(platform.ScanF8, now)
	if c.paused {
		t.Error("paused while the run switch is off")
	}

	c.handleKey(platform.ScanEnter, now)
	if !m.Running() {
		t.Fatal("enter did not turn the run switch on")
	}
	c.handleKey(platform.ScanF8, now)
	if !c.paused {
		t.Error("F8 did not pause")
	}
	c.handleKey(platform.ScanEnter, now)
	if m.Running() || c.paused {
		t.Error("enter did not turn the run switch off")
	}
}

func TestControllerReset(t *testing.T) {
	fs := testFS(t)
	cfg := DefaultConfig()
	cfg.ROM = "vip.rom"
	cfg.Load = "data.bin"
	cfg.Run = true

	m, err := NewMachine(fs, cfg)
	if err != nil {
		t.Fatal(err)
	}
	m.RAM()[0x100] = 0xFF

	c := newController(m, fs, cfg)
	c.handleKey(platform.ScanF5, time.Now())

	if m.RAM()[0x100] != 0 {
		t.Error("RAM was not cleared")
	}
	if !bytes.Equal(m.RAM()[:3], []byte{1, 2, 3}) {
		t.Error("memory image was not reloaded")
	}
	if !m.Running() {
		t.Error("run switch was not restored")
	}
}

func TestExec(t *testing.T) {
	fs := testFS(t)

	cfg := DefaultConfig()
	cfg.ROM = "vip.rom"
	cfg.Load = "data.bin"
	cfg.LoadAt = 0x200
	cfg.RecordWAV = "out.wav"

	snap := Snapshot{Name: "ram.bin", Start: 0x100, Size: 0x103}
	if err := Exec(cfg, 50*time.Millisecond, snap, platform.ConfigWithFileSystem(fs)); err != nil {
		t.Fatal(err)
	}

	data, err := afero.ReadFile(fs, "ram.bin")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0x103 {
		t.Fatalf("snapshot is %d bytes", len(data))
	}
	if data[0] != 0x42 {
		t.Errorf("program result is 0x%X", data[0])
	}
	if !bytes.Equal(data[0x100:], []byte{1, 2, 3}) {
		t.Errorf("loaded data is %v", data[0x100:])
	}

	info, err := fs.Stat("out.wav")
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() <= 44 {
		t.Errorf("WAV file is %d bytes", info.Size())
	}
}

func TestExecSnapshotRange(t *testing.T) {
	fs := testFS(t)

	cfg := DefaultConfig()
	cfg.ROM = "vip.rom"

	snap := Snapshot{Name: "ram.bin", Start: 0x100, Size: vip.DefaultRAMKB << 10}
	err := Exec(cfg, ExecStep, snap, platform.ConfigWithFileSystem(fs))
	if !errors.Is(err, vip.ErrTransferRange) {
		t.Errorf("got %v", err)
	}
}
