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

// Package vip assembles the RCA COSMAC VIP: a CDP1802 with its memory map
// and port decoding, the CDP1861 display, the hex keypads, the base tone
// generator and the optional expansion boards.
package vip

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"time"

	"github.com/andreas-jonsson/virtualvip/emulator/audio"
	"github.com/andreas-jonsson/virtualvip/emulator/memory"
	"github.com/andreas-jonsson/virtualvip/emulator/peripheral"
	"github.com/andreas-jonsson/virtualvip/emulator/peripheral/cdp1861"
	"github.com/andreas-jonsson/virtualvip/emulator/peripheral/keypad"
	"github.com/andreas-jonsson/virtualvip/emulator/peripheral/tone"
	"github.com/andreas-jonsson/virtualvip/emulator/peripheral/vp590"
	"github.com/andreas-jonsson/virtualvip/emulator/peripheral/vp595"
	"github.com/andreas-jonsson/virtualvip/emulator/processor"
	"github.com/andreas-jonsson/virtualvip/emulator/processor/cpu"
	"github.com/spf13/afero"
)

var (
	ErrROMTooLarge    = errors.New("ROM image too large")
	ErrTransferRange  = errors.New("transfer range outside RAM")
	ErrInvalidRAMSize = errors.New("invalid RAM size")
	ErrUnknownBoard   = errors.New("unknown expansion board")
)

const (
	CPUFrequency = 1760900.0

	MaxROMSize   = 0x8000
	DefaultRAMKB = 2
	MaxRAMKB     = 32

	NumKeypads = 2

	lowRegion  = 0
	highRegion = 1

	videoFlag  = 0
	keypadFlag = 2
)

// Renderer receives both monochrome and color display output.
type Renderer interface {
	cdp1861.PixelSink
	vp590.Renderer
}

type videoController interface {
	peripheral.Syncer

	SetDisplay(on bool)
	Enabled() bool
	ResetCounters()
}

type soundSource interface {
	peripheral.Peripheral
	processor.QOutput
	audio.Source
}

type Machine struct {
	cpu *cpu.CPU
	ef  processor.ExternalFlags
	mem memory.Map

	ram, rom []byte

	run, inhibit bool

	latch   keypad.Latch
	keypads [NumKeypads]*keypad.Keypad

	vdc   videoController
	color *vp590.Board
	tone  *tone.Generator
	sound *vp595.Board

	boards      [VP595 + 1]bool
	colorRegion int

	renderer Renderer
	mixer    *audio.Mixer
}

func New() *Machine {
	m := &Machine{
		ram:         make([]byte, DefaultRAMKB<<10),
		inhibit:     true,
		colorRegion: -1,
	}

	m.mem.Add(memory.Region{Start: 0x0000, End: 0x7FFF, Access: memory.Read})
	m.mem.Add(memory.Region{Start: 0x8000, End: 0xFFFF, Access: memory.Read})

	m.cpu = cpu.NewCPU(CPUFrequency, &m.mem, m)
	m.cpu.SetExternalFlags(&m.ef)
	m.cpu.SetQOutput(m)
	m.cpu.SetSyncHandler(m)

	for i := range m.keypads {
		m.keypads[i] = keypad.New(i, &m.latch, m.ef.Line(keypadFlag+i))
	}

	m.vdc = cdp1861.New(m.ef.Line(videoFlag))
	m.tone = tone.New()
	m.install(m.vdc, m.tone, m.keypads[0], m.keypads[1])
	return m
}

func (m *Machine) install(devices ...peripheral.Peripheral) {
	for _, d := range devices {
		if err := d.Install(m.cpu); err != nil {
			log.Printf("could not install %s: %v", d.Name(), err)
			continue
		}
		log.Print("installed ", d.Name())
	}
}

func (m *Machine) CPU() *cpu.CPU {
	return m.cpu
}

func (m *Machine) Memory() memory.Memory {
	return &m.mem
}

func (m *Machine) Running() bool {
	return m.run
}

func (m *Machine) DisplayEnabled() bool {
	return m.vdc.Enabled()
}

func (m *Machine) AddressInhibit() bool {
	return m.inhibit
}

func (m *Machine) KeyLatch() byte {
	return m.latch.Get()
}

// Stats returns the CPU counters collected since the previous call.
func (m *Machine) Stats() processor.Stats {
	return m.cpu.GetStats()
}

// SetRunSwitch flips the VIP RUN switch. Turning it off holds the CPU in
// reset and restores the power-on state of the board.
func (m *Machine) SetRunSwitch(run bool) {
	if m.run == run {
		return
	}

	m.run = run
	if run {
		m.cpu.SetControlMode(processor.Run, time.Now())
		return
	}

	m.vdc.SetDisplay(false)
	m.vdc.ResetCounters()
	m.cpu.SetControlMode(processor.Reset, time.Now())
	m.latch.Set(0)
	m.currentSound().SetQ(false)

	m.inhibit = true
	r := m.mem.Region(lowRegion)
	r.Data, r.Access = m.rom, memory.Read
}

// SetPaused holds the CPU without resetting it. It has no effect while
// the run switch is off.
func (m *Machine) SetPaused(paused bool, now time.Time) {
	if !m.run {
		return
	}
	if paused {
		m.cpu.SetControlMode(processor.Pause, now)
		m.currentSound().SetQ(false)
	} else {
		m.cpu.SetControlMode(processor.Run, now)
		m.currentSound().SetQ(m.cpu.Q)
	}
}

func (m *Machine) Reset() {
	for i := range m.ram {
		m.ram[i] = 0
	}
	m.SetRunSwitch(false)
	m.cpu.Initialize()
	if m.color != nil {
		m.color.ClearColorRAM()
	}
}

// RunMachine advances the emulation to the given wall-clock time.
func (m *Machine) RunMachine(now time.Time) {
	if m.run {
		m.cpu.Step(now)
	}
}

func (m *Machine) ResetAddressInhibitLatch() {
	if !m.inhibit {
		return
	}

	m.inhibit = false
	r := m.mem.Region(lowRegion)
	r.Data = m.ram
	r.Access |= memory.Write
}

func (m *Machine) InstallROM(r io.Reader) error {
	rom, err := ioutil.ReadAll(io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return fmt.Errorf("could not read ROM: %w", err)
	}
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: more than %d bytes", ErrROMTooLarge, MaxROMSize)
	}

	m.rom = rom
	if m.inhibit {
		m.mem.Region(lowRegion).Data = rom
	}
	m.mem.Region(highRegion).Data = rom

	log.Printf("installed %d byte ROM", len(rom))
	return nil
}

func (m *Machine) LoadROM(fs afero.Fs, name string) error {
	fp, err := fs.Open(name)
	if err != nil {
		return fmt.Errorf("could not open ROM image: %w", err)
	}
	defer fp.Close()

	if err := m.InstallROM(fp); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (m *Machine) ROM() []byte {
	return m.rom
}

func (m *Machine) RAM() []byte {
	return m.ram
}

// AdjustRAM resizes and clears RAM. Size is given in kilobytes.
func (m *Machine) AdjustRAM(kb int) error {
	if kb < 1 || kb > MaxRAMKB {
		return fmt.Errorf("%w: %d KB", ErrInvalidRAMSize, kb)
	}

	m.ram = make([]byte, kb<<10)
	if !m.inhibit {
		m.mem.Region(lowRegion).Data = m.ram
	}
	return nil
}

func (m *Machine) checkRange(start, size int) error {
	if start < 0 || size < 0 || start+size > len(m.ram) {
		return fmt.Errorf("%w: 0x%X-0x%X with %d bytes of RAM", ErrTransferRange, start, start+size, len(m.ram))
	}
	return nil
}

// LoadMemory copies a file into RAM at start and returns the byte count.
func (m *Machine) LoadMemory(fs afero.Fs, name string, start int) (int, error) {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return 0, fmt.Errorf("could not load memory: %w", err)
	}
	if err := m.checkRange(start, len(data)); err != nil {
		return 0, err
	}

	copy(m.ram[start:], data)
	log.Printf("loaded %d bytes from %s at 0x%04X", len(data), name, start)
	return len(data), nil
}

func (m *Machine) SaveMemory(fs afero.Fs, name string, start, size int) error {
	if err := m.checkRange(start, size); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, name, m.ram[start:start+size], 0644); err != nil {
		return fmt.Errorf("could not save memory: %w", err)
	}
	return nil
}

func (m *Machine) PressKey(pad int, key byte) {
	if pad >= 0 && pad < NumKeypads {
		m.keypads[pad].Press(key)
	}
}

func (m *Machine) ReleaseKey(pad int) {
	if pad >= 0 && pad < NumKeypads {
		m.keypads[pad].Release()
	}
}

// SetupDisplay attaches the display output to the active video controller.
func (m *Machine) SetupDisplay(r Renderer) {
	m.renderer = r
	m.attachRenderer()
}

func (m *Machine) attachRenderer() {
	if m.color != nil {
		m.color.Attach(m.renderer)
	} else if d, ok := m.vdc.(*cdp1861.Device); ok {
		d.Attach(m.renderer, m.renderer)
	}
}

// SetupAudio connects the active sound source to slot 0 of the mixer.
func (m *Machine) SetupAudio(mx *audio.Mixer) {
	m.mixer = mx
	m.attachSound()
}

func (m *Machine) attachSound() {
	if m.mixer != nil {
		m.mixer.SetOutput(0, m.currentSound(), audio.Stereo)
	}
}

func (m *Machine) AdjustVolume(v int) {
	if m.mixer != nil {
		m.mixer.SetVolume(v)
	}
}

func (m *Machine) currentSound() soundSource {
	if m.sound != nil {
		return m.sound
	}
	return m.tone
}

func (m *Machine) Boards() []ExpansionBoard {
	var boards []ExpansionBoard
	for b := VP585; b <= VP595; b++ {
		if m.boards[b] {
			boards = append(boards, b)
		}
	}
	return boards
}

func (m *Machine) HasBoard(b ExpansionBoard) bool {
	return validBoard(b) && m.boards[b]
}

// InstallExpansionBoard plugs in a board. The VP-585 and VP-590 share the
// second keypad connector, so installing one removes the other.
func (m *Machine) InstallExpansionBoard(b ExpansionBoard) error {
	if b == None {
		return nil
	}
	if !validBoard(b) {
		return fmt.Errorf("%v: %w", b, ErrUnknownBoard)
	}
	if m.boards[b] {
		return nil
	}

	switch b {
	case VP585:
		m.UninstallExpansionBoard(VP590)
	case VP590:
		m.UninstallExpansionBoard(VP585)

		m.color = vp590.New(m.ef.Line(videoFlag))
		m.vdc = m.color
		m.colorRegion = m.mem.Add(memory.Region{
			Start:  vp590.ColorRAMStart,
			End:    vp590.ColorRAMEnd,
			Access: memory.Write,
			Hook:   m.color,
		})
		m.install(m.color)
		m.attachRenderer()
	case VP595:
		m.tone.SetQ(false)
		m.sound = vp595.New(m.cpu.Frequency())
		m.install(m.sound)
		m.attachSound()
	}

	m.boards[b] = true
	log.Print("installed ", b.Description())
	return nil
}

func (m *Machine) UninstallExpansionBoard(b ExpansionBoard) error {
	if !validBoard(b) {
		return fmt.Errorf("%v: %w", b, ErrUnknownBoard)
	}
	if !m.boards[b] {
		return nil
	}

	switch b {
	case VP590:
		m.mem.Remove(m.colorRegion)
		m.colorRegion = -1
		m.color = nil

		m.vdc = cdp1861.New(m.ef.Line(videoFlag))
		m.install(m.vdc)
		m.attachRenderer()
	case VP595:
		m.sound = nil
		m.attachSound()
	}

	m.boards[b] = false
	if !m.secondKeypad() {
		m.keypads[1].Reset()
	}
	return nil
}

func (m *Machine) secondKeypad() bool {
	return m.boards[VP585] || m.boards[VP590]
}

// In implements memory.IO. INP 1 turns the display on.
func (m *Machine) In(port byte) byte {
	if port&7 == 1 {
		m.vdc.SetDisplay(true)
	}
	return 0
}

func (m *Machine) Out(port, data byte) {
	switch port & 7 {
	case 1:
		m.vdc.SetDisplay(false)
	case 2:
		m.latch.Set(data)
	case 3:
		if m.sound != nil {
			m.sound.SetFrequency(data)
		}
	case 4:
		m.ResetAddressInhibitLatch()
	case 5:
		if m.color != nil {
			m.color.StepBackgroundColor()
		}
	}
}

// SetQ implements processor.QOutput.
func (m *Machine) SetQ(q bool) {
	m.currentSound().SetQ(q)
}

// Sync implements processor.Syncer.
func (m *Machine) Sync() {
	m.keypads[0].Sync()
	if m.secondKeypad() {
		m.keypads[1].Sync()
	}
	m.vdc.Sync()
}
