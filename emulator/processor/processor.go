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

package processor

type ControlMode int

const (
	Load ControlMode = iota
	Reset
	Pause
	Run
)

func (m ControlMode) String() string {
	switch m {
	case Load:
		return "Load"
	case Reset:
		return "Reset"
	case Pause:
		return "Pause"
	case Run:
		return "Run"
	default:
		return "Unknown"
	}
}

type CycleState int

const (
	Fetch CycleState = iota
	Execute
	DMA
	Interrupt
)

func (s CycleState) String() string {
	switch s {
	case Fetch:
		return "Fetch"
	case Execute:
		return "Execute"
	case DMA:
		return "DMA"
	case Interrupt:
		return "Interrupt"
	default:
		return "Unknown"
	}
}

type Stats struct {
	NumInstructions uint64
	NumInterrupts   uint32
	NumDMAIn        uint64
	NumDMAOut       uint64
	IdleCycles      uint64
	MachineCycles   uint64
}

// DMAHandler moves one byte per DMA machine cycle. For outbound transfers
// data holds the byte read from memory, for inbound transfers the handler
// stores the byte to be written.
type DMAHandler interface {
	TransferDMA(data *byte)
}

type DMAFunc func(data *byte)

func (f DMAFunc) TransferDMA(data *byte) {
	f(data)
}

// QOutput receives the Q latch at every machine cycle.
type QOutput interface {
	SetQ(q bool)
}

// Syncer is called once per machine cycle before the CPU acts on it.
type Syncer interface {
	Sync()
}

type SyncFunc func()

func (f SyncFunc) Sync() {
	f()
}

type Processor interface {
	IssueDMAIn(bytes int, h DMAHandler)
	IssueDMAOut(bytes int, h DMAHandler)
	IssueInterrupt()

	Frequency() float64
	GetRegisters() *Registers
	GetStats() Stats
}
