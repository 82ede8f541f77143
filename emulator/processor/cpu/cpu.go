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

package cpu

import (
	"log"
	"time"

	"github.com/andreas-jonsson/virtualvip/emulator/memory"
	"github.com/andreas-jonsson/virtualvip/emulator/processor"
	"github.com/andreas-jonsson/virtualvip/emulator/processor/validator"
)

const (
	MaxFrequency  = 6400000.0
	MaxStepLength = 250 * time.Millisecond

	clocksPerMachineCycle = 8
	resetClock            = 9
)

type dmaRequest struct {
	pending bool
	bytes   int
	handler processor.DMAHandler
}

type dmaBurst struct {
	out       bool
	remaining int
	handler   processor.DMAHandler
}

type CPU struct {
	processor.Registers

	mode  processor.ControlMode
	state processor.CycleState

	frequency         float64
	currentClock      int
	executeCyclesLeft int

	initialization, idle bool

	dmaIn, dmaOut    dmaRequest
	burst            dmaBurst
	interruptRequest bool

	cycleTime   time.Time
	accumulator float64

	mem  memory.Memory
	io   memory.IO
	qout processor.QOutput
	sync processor.Syncer
	ef   *processor.ExternalFlags

	stats processor.Stats
}

func NewCPU(frequency float64, mem memory.Memory, io memory.IO) *CPU {
	if frequency > MaxFrequency || frequency <= 0 {
		log.Printf("CPU frequency %.0f Hz out of range, using %.0f Hz", frequency, MaxFrequency)
		frequency = MaxFrequency
	}

	p := &CPU{
		mode:         processor.Reset,
		state:        processor.Execute,
		frequency:    frequency,
		currentClock: resetClock,
		mem:          mem,
		io:           io,
		ef:           &processor.ExternalFlags{},
	}
	p.IE = true
	return p
}

func (p *CPU) SetQOutput(q processor.QOutput) {
	p.qout = q
}

func (p *CPU) SetSyncHandler(s processor.Syncer) {
	p.sync = s
}

// SetExternalFlags connects the EF bank the branch instructions test.
func (p *CPU) SetExternalFlags(ef *processor.ExternalFlags) {
	if ef == nil {
		ef = &processor.ExternalFlags{}
	}
	p.ef = ef
}

func (p *CPU) ExternalFlags() *processor.ExternalFlags {
	return p.ef
}

func (p *CPU) Initialize() {
	p.Registers.Initialize()
	p.ef.Clear()
}

func (p *CPU) Frequency() float64 {
	return p.frequency
}

func (p *CPU) ControlMode() processor.ControlMode {
	return p.mode
}

func (p *CPU) CycleState() processor.CycleState {
	return p.state
}

func (p *CPU) Idle() bool {
	return p.idle
}

func (p *CPU) GetRegisters() *processor.Registers {
	return &p.Registers
}

func (p *CPU) GetStats() processor.Stats {
	s := p.stats
	p.stats = processor.Stats{}
	return s
}

func (p *CPU) IssueDMAIn(bytes int, h processor.DMAHandler) {
	if !p.dmaIn.pending && bytes > 0 {
		p.dmaIn = dmaRequest{true, bytes, h}
	}
}

func (p *CPU) IssueDMAOut(bytes int, h processor.DMAHandler) {
	if !p.dmaOut.pending && bytes > 0 {
		p.dmaOut = dmaRequest{true, bytes, h}
	}
}

func (p *CPU) IssueInterrupt() {
	p.interruptRequest = true
}

func (p *CPU) SetControlMode(mode processor.ControlMode, now time.Time) {
	if mode == p.mode {
		return
	}

	switch mode {
	case processor.Reset:
		p.I, p.N = 0, 0
		p.Q = false
		p.IE = true
		p.state = processor.Execute
		p.dmaIn = dmaRequest{}
		p.dmaOut = dmaRequest{}
		p.burst = dmaBurst{}
		p.interruptRequest = false
		p.accumulator = 0
		p.initialization = false
		p.idle = false
	case processor.Pause:
		p.accumulator += clampDelta(now.Sub(p.cycleTime))
		p.cycleTime = now
	case processor.Run:
		p.cycleTime = now
		if p.mode == processor.Reset {
			p.initialization = true
			p.currentClock = resetClock
		}
	}
	p.mode = mode
}

func clampDelta(d time.Duration) float64 {
	if d > MaxStepLength {
		d = MaxStepLength
	} else if d < 0 {
		d = 0
	}
	return d.Seconds()
}

// Step advances the CPU to the given wall-clock time. Nothing happens
// unless the CPU is in Run mode.
func (p *CPU) Step(now time.Time) {
	if p.mode != processor.Run {
		return
	}

	p.accumulator += clampDelta(now.Sub(p.cycleTime))
	p.cycleTime = now

	rate := 1 / p.frequency
	for ; p.accumulator >= rate; p.accumulator -= rate {
		p.clockPulse()
	}
}

func (p *CPU) clockPulse() {
	if p.currentClock--; p.currentClock == 0 {
		p.currentClock = clocksPerMachineCycle
		p.machineCycle()
	}
}

func (p *CPU) machineCycle() {
	p.stats.MachineCycles++

	if p.qout != nil {
		p.qout.SetQ(p.Q)
	}
	if p.sync != nil {
		p.sync.Sync()
	}

	switch p.state {
	case processor.Fetch:
		p.fetch()
	case processor.Execute:
		p.executeCycle()
	case processor.DMA:
		p.dmaCycle()
	case processor.Interrupt:
		p.interrupt()
	}
}

func (p *CPU) fetch() {
	op := p.readByte(p.R[p.P])
	validator.Begin(op, p.Registers)

	p.I, p.N = op>>4, op&0xF
	p.executeCyclesLeft = 1

	switch {
	case op == 0x00:
		p.idle = true
	case p.I == 0xC:
		p.executeCyclesLeft = 2
	}

	p.R[p.P]++
	p.state = processor.Execute
	p.stats.NumInstructions++
}

func (p *CPU) executeCycle() {
	if p.initialization {
		p.initialization = false
		p.X, p.P = 0, 0
		p.R[0] = 0
		p.state = processor.Fetch
		return
	}

	if p.idle {
		p.stats.IdleCycles++
		if p.arbitrate() {
			p.idle = false
			validator.End(p.Registers)
		}
		return
	}

	p.execute()
	if p.executeCyclesLeft--; p.executeCyclesLeft <= 0 {
		validator.End(p.Registers)
		if !p.arbitrate() {
			p.state = processor.Fetch
		}
	}
}

// arbitrate picks the next state after an instruction or a DMA burst.
// It returns false when nothing is pending.
func (p *CPU) arbitrate() bool {
	switch {
	case p.dmaIn.pending:
		p.startBurst(false, &p.dmaIn)
	case p.dmaOut.pending:
		p.startBurst(true, &p.dmaOut)
	case p.interruptRequest:
		p.interruptRequest = false
		if p.IE {
			p.state = processor.Interrupt
		} else {
			p.state = processor.Fetch
		}
	default:
		return false
	}
	return true
}

func (p *CPU) startBurst(out bool, req *dmaRequest) {
	p.burst = dmaBurst{out: out, remaining: req.bytes, handler: req.handler}
	*req = dmaRequest{}
	p.state = processor.DMA
}

func (p *CPU) dmaCycle() {
	b := &p.burst
	if b.remaining <= 0 {
		if !p.arbitrate() {
			p.state = processor.Fetch
		}
		return
	}

	var data byte
	if b.out {
		data = p.readByte(p.R[0])
		p.stats.NumDMAOut++
	}
	if b.handler != nil {
		b.handler.TransferDMA(&data)
	}
	if !b.out {
		p.writeByte(p.R[0], data)
		p.D = data
		p.stats.NumDMAIn++
	}

	p.R[0]++
	if b.remaining--; b.remaining == 0 {
		p.burst = dmaBurst{}
		if !p.arbitrate() {
			p.state = processor.Fetch
		}
	}
}

func (p *CPU) interrupt() {
	p.T = p.X<<4 | p.P
	p.X, p.P = 2, 1
	p.IE = false
	p.state = processor.Fetch
	p.stats.NumInterrupts++
}

func (p *CPU) readByte(addr uint16) byte {
	if p.mem == nil {
		return 0
	}
	v := p.mem.ReadByte(addr)
	validator.ReadByte(addr, v)
	return v
}

func (p *CPU) writeByte(addr uint16, data byte) {
	if p.mem != nil {
		validator.WriteByte(addr, data)
		p.mem.WriteByte(addr, data)
	}
}

func (p *CPU) in(port byte) (byte, bool) {
	if p.io == nil {
		return 0, false
	}
	return p.io.In(port), true
}

func (p *CPU) out(port, data byte) {
	if p.io != nil {
		p.io.Out(port, data)
	}
}
