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

package vip

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/andreas-jonsson/virtualvip/emulator/audio"
	"github.com/andreas-jonsson/virtualvip/emulator/peripheral/vp590"
	"github.com/andreas-jonsson/virtualvip/emulator/video"
	"github.com/spf13/afero"
)

func newTestMachine(t *testing.T, rom ...byte) *Machine {
	t.Helper()
	m := New()
	if err := m.InstallROM(bytes.NewReader(rom)); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMemoryMap(t *testing.T) {
	m := newTestMachine(t, 0xAA, 0xBB)
	mem := m.Memory()

	if v := mem.ReadByte(0x0000); v != 0xAA {
		t.Errorf("low ROM shadow reads 0x%X", v)
	}
	if v := mem.ReadByte(0x8001); v != 0xBB {
		t.Errorf("ROM reads 0x%X", v)
	}
	if v := mem.ReadByte(0x8002); v != 0 {
		t.Errorf("unbacked ROM reads 0x%X", v)
	}

	mem.WriteByte(0x0000, 0x11)
	if m.RAM()[0] != 0 || mem.ReadByte(0) != 0xAA {
		t.Error("write went through while the address inhibit latch was set")
	}

	m.Out(4, 0)
	if m.AddressInhibit() {
		t.Fatal("OUT 4 did not reset the address inhibit latch")
	}

	mem.WriteByte(0x0001, 0x22)
	if v := mem.ReadByte(0x0001); v != 0x22 {
		t.Errorf("RAM reads 0x%X", v)
	}
	if v := mem.ReadByte(0x8000); v != 0xAA {
		t.Errorf("ROM reads 0x%X after OUT 4", v)
	}

	mem.WriteByte(0x7000, 0x33)
	if v := mem.ReadByte(0x7000); v != 0 {
		t.Errorf("read beyond RAM returned 0x%X", v)
	}
}

func TestROMSizeLimit(t *testing.T) {
	m := New()
	if err := m.InstallROM(bytes.NewReader(make([]byte, MaxROMSize))); err != nil {
		t.Errorf("%d byte ROM rejected: %v", MaxROMSize, err)
	}

	err := m.InstallROM(bytes.NewReader(make([]byte, MaxROMSize+1)))
	if !errors.Is(err, ErrROMTooLarge) {
		t.Errorf("expected ErrROMTooLarge, got %v", err)
	}
	if len(m.ROM()) != MaxROMSize {
		t.Error("rejected ROM replaced the installed one")
	}
}

func TestLoadROM(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "vip.rom", []byte{1, 2, 3}, 0644)

	m := New()
	if err := m.LoadROM(fs, "vip.rom"); err != nil {
		t.Fatal(err)
	}
	if v := m.Memory().ReadByte(0x8002); v != 3 {
		t.Errorf("ROM reads 0x%X", v)
	}
	if err := m.LoadROM(fs, "missing.rom"); err == nil {
		t.Error("missing ROM did not fail")
	}
}

func TestAdjustRAM(t *testing.T) {
	m := New()
	if len(m.RAM()) != DefaultRAMKB<<10 {
		t.Errorf("default RAM is %d bytes", len(m.RAM()))
	}

	for _, kb := range []int{0, MaxRAMKB + 1} {
		if err := m.AdjustRAM(kb); !errors.Is(err, ErrInvalidRAMSize) {
			t.Errorf("%d KB: expected ErrInvalidRAMSize, got %v", kb, err)
		}
	}

	m.Out(4, 0)
	if err := m.AdjustRAM(4); err != nil {
		t.Fatal(err)
	}
	m.Memory().WriteByte(0x0FFF, 0x5A)
	if m.RAM()[0x0FFF] != 0x5A {
		t.Error("resized RAM is not mapped")
	}
}

func TestMemoryTransfer(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "prog.bin", []byte{0xF8, 0x05, 0xA1}, 0644)

	m := New()
	n, err := m.LoadMemory(fs, "prog.bin", 0x200)
	if err != nil || n != 3 {
		t.Fatalf("loaded %d bytes: %v", n, err)
	}
	if !bytes.Equal(m.RAM()[0x200:0x203], []byte{0xF8, 0x05, 0xA1}) {
		t.Errorf("RAM holds % X", m.RAM()[0x200:0x203])
	}

	if err := m.SaveMemory(fs, "out.bin", 0x1FF, 4); err != nil {
		t.Fatal(err)
	}
	data, err := afero.ReadFile(fs, "out.bin")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte{0, 0xF8, 0x05, 0xA1}) {
		t.Errorf("saved % X", data)
	}

	if _, err := m.LoadMemory(fs, "prog.bin", 0x7FE); !errors.Is(err, ErrTransferRange) {
		t.Errorf("expected ErrTransferRange, got %v", err)
	}
	if err := m.SaveMemory(fs, "out.bin", 0x700, 0x101); !errors.Is(err, ErrTransferRange) {
		t.Errorf("expected ErrTransferRange, got %v", err)
	}
	if _, err := m.LoadMemory(fs, "missing.bin", 0); err == nil {
		t.Error("missing file did not fail")
	}
}

func TestPorts(t *testing.T) {
	m := New()

	m.Out(2, 0x1A)
	if m.KeyLatch() != 0xA {
		t.Errorf("key latch is 0x%X", m.KeyLatch())
	}

	if v := m.In(1); v != 0 || !m.DisplayEnabled() {
		t.Errorf("INP 1 returned 0x%X, display %v", v, m.DisplayEnabled())
	}
	m.Out(1, 0)
	if m.DisplayEnabled() {
		t.Error("OUT 1 did not turn the display off")
	}
	if v := m.In(2); v != 0 {
		t.Errorf("INP 2 returned 0x%X", v)
	}

	m.InstallExpansionBoard(VP595)
	f := m.sound.Frequency()
	m.Out(3, 0x10)
	if m.sound.Frequency() == f {
		t.Error("OUT 3 did not change the VP-595 frequency")
	}

	m.InstallExpansionBoard(VP590)
	m.Out(5, 0)
	if c := m.color.ColorGenerator().BackgroundColor(); c != 1 {
		t.Errorf("background color is %d after OUT 5", c)
	}
}

func TestKeypads(t *testing.T) {
	m := New()

	m.PressKey(0, 0x5)
	m.Out(2, 0x5)
	m.Sync()
	if !m.ef[2] {
		t.Error("EF3 not set for the latched key")
	}

	m.ReleaseKey(0)
	m.PressKey(1, 0x5)
	m.Sync()
	if m.ef[2] || m.ef[3] {
		t.Errorf("flags are %v without a second keypad interface", m.ef)
	}

	m.InstallExpansionBoard(VP585)
	m.Sync()
	if !m.ef[3] {
		t.Error("EF4 not set by the second keypad")
	}

	m.PressKey(5, 0)
	m.ReleaseKey(-1)
}

func TestRunSwitch(t *testing.T) {
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

	m := newTestMachine(t, rom...)
	m.SetupAudio(audio.NewMixer(44100, 1))

	m.RunMachine(time.Now().Add(10 * time.Millisecond))
	if m.RAM()[0x100] != 0 {
		t.Fatal("machine ran with the run switch off")
	}

	m.SetRunSwitch(true)
	m.RunMachine(time.Now().Add(10 * time.Millisecond))

	if m.RAM()[0x100] != 0x42 {
		t.Errorf("RAM at 0x100 is 0x%X", m.RAM()[0x100])
	}
	if m.AddressInhibit() {
		t.Error("address inhibit latch still set")
	}
	if !m.tone.Active() {
		t.Error("Q did not gate the tone generator")
	}

	m.SetRunSwitch(false)
	if !m.AddressInhibit() || m.tone.Active() || m.Running() {
		t.Error("run switch off did not restore the reset state")
	}
	if v := m.Memory().ReadByte(0); v != 0xC0 {
		t.Errorf("low memory reads 0x%X after reset", v)
	}
}

func TestPauseSilencesTone(t *testing.T) {
	rom := make([]byte, 0x20)
	copy(rom, []byte{0xC0, 0x80, 0x08})
	copy(rom[0x08:], []byte{
		0x7B,       // SEQ
		0x30, 0x09, // BR 09
	})

	m := newTestMachine(t, rom...)
	m.SetupAudio(audio.NewMixer(44100, 1))
	m.SetRunSwitch(true)
	m.RunMachine(time.Now().Add(10 * time.Millisecond))

	if !m.tone.Active() {
		t.Fatal("Q did not gate the tone generator")
	}

	m.SetPaused(true, time.Now())
	if m.tone.Active() {
		t.Error("tone generator still gated while paused")
	}

	m.SetPaused(false, time.Now())
	if !m.tone.Active() {
		t.Error("tone generator not restored on resume")
	}
}

func TestReset(t *testing.T) {
	m := newTestMachine(t)
	m.RAM()[10] = 0xFF
	m.SetRunSwitch(true)

	m.Reset()
	if m.RAM()[10] != 0 || m.Running() {
		t.Error("reset did not clear RAM and stop the machine")
	}
}

func TestExpansionBoards(t *testing.T) {
	m := New()
	fb := video.NewFramebuffer(nil)
	m.SetupDisplay(fb)

	if err := m.InstallExpansionBoard(VP590); err != nil {
		t.Fatal(err)
	}
	if m.mem.Len() != 3 || !m.HasBoard(VP590) {
		t.Fatal("color RAM region not mapped")
	}

	m.Memory().WriteByte(0xD000, 0x4)
	if m.color.Mode() != vp590.High || m.color.ColorGenerator().DotColor(0, 0) != 4 {
		t.Error("color RAM write not routed to the VP-590")
	}

	if err := m.InstallExpansionBoard(VP585); err != nil {
		t.Fatal(err)
	}
	if m.HasBoard(VP590) || m.color != nil || m.mem.Len() != 2 {
		t.Error("VP-585 did not replace the VP-590")
	}

	m.InstallExpansionBoard(VP595)
	if b := m.Boards(); len(b) != 2 || b[0] != VP585 || b[1] != VP595 {
		t.Errorf("installed boards are %v", b)
	}

	if err := m.InstallExpansionBoard(ExpansionBoard(9)); !errors.Is(err, ErrUnknownBoard) {
		t.Errorf("expected ErrUnknownBoard, got %v", err)
	}
}

func TestParseExpansionBoard(t *testing.T) {
	tests := map[string]ExpansionBoard{
		"vp585":  VP585,
		"VP-590": VP590,
		" vp595": VP595,
		"none":   None,
	}
	for s, expected := range tests {
		b, err := ParseExpansionBoard(s)
		if err != nil || b != expected {
			t.Errorf("%q parsed as %v: %v", s, b, err)
		}
	}

	if _, err := ParseExpansionBoard("vp600"); !errors.Is(err, ErrUnknownBoard) {
		t.Errorf("expected ErrUnknownBoard, got %v", err)
	}
}

func TestSoundSource(t *testing.T) {
	mx := audio.NewMixer(44100, 1)
	m := New()
	m.SetupAudio(mx)
	m.AdjustVolume(100)

	buf := make([]int16, 2)
	m.SetQ(true)
	mx.Mix(buf)
	if buf[0] == 0 {
		t.Error("tone generator is silent with Q set")
	}

	m.InstallExpansionBoard(VP595)
	if m.tone.Active() {
		t.Error("tone generator still gated after installing the VP-595")
	}

	m.SetQ(true)
	mx.Mix(buf)
	if !m.sound.Active() || buf[0] == 0 {
		t.Error("VP-595 is not the active sound source")
	}

	m.UninstallExpansionBoard(VP595)
	m.SetQ(false)
	mx.Mix(buf)
	if buf[0] != 0 {
		t.Error("tone generator not restored")
	}
}
