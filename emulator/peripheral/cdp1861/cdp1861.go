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

// Package cdp1861 emulates the CDP1861 video display controller (the "Pixie").
// It steals eight bytes per display line from the CPU via DMA and signals the
// start and end of the display window on an external flag line.
package cdp1861

import (
	"github.com/andreas-jonsson/virtualvip/emulator/processor"
)

const (
	Width  = 64
	Height = 128

	CyclesPerLine = 14
	LinesPerFrame = 262

	FirstDisplayLine = 64
	LastDisplayLine  = FirstDisplayLine + Height - 1
	InterruptLine    = FirstDisplayLine - 2
	PresentLine      = LastDisplayLine + 1

	BytesPerLine = Width / 8
	DisplaySize  = Width * Height / 8

	dmaCycle = 2
)

// PixelSink receives one byte of display memory, eight horizontal pixels,
// for display line 0-127 and byte offset 0-7 within that line.
type PixelSink interface {
	DrawByte(data byte, line, offset int)
}

type Display interface {
	ClearDisplay()
	Render()
}

type Device struct {
	cpu     processor.Processor
	ef      processor.FlagLine
	sink    PixelSink
	display Display

	enabled     bool
	line, cycle int
	cursor      int
}

// New creates a controller that reports the display window on ef.
// A disconnected line is allowed.
func New(ef processor.FlagLine) *Device {
	return &Device{ef: ef}
}

func (d *Device) Install(p processor.Processor) error {
	d.cpu = p
	return nil
}

func (d *Device) Name() string {
	return "CDP1861 Video Display Controller"
}

func (d *Device) Reset() {
	d.SetDisplay(false)
	d.ResetCounters()
}

// Attach connects the output side. Either argument may be nil.
func (d *Device) Attach(disp Display, sink PixelSink) {
	d.display = disp
	d.sink = sink
}

func (d *Device) SetDisplay(on bool) {
	if d.enabled == on {
		return
	}

	d.enabled = on
	if !on {
		d.cursor = 0
		if d.display != nil {
			d.display.ClearDisplay()
			d.display.Render()
		}
	}
}

func (d *Device) Enabled() bool {
	return d.enabled
}

func (d *Device) ResetCounters() {
	d.line, d.cycle = 0, 0
}

func (d *Device) Line() int {
	return d.line
}

func (d *Device) Cycle() int {
	return d.cycle
}

// Sync advances the controller by one machine cycle.
func (d *Device) Sync() {
	if d.enabled {
		if d.line >= FirstDisplayLine && d.line <= LastDisplayLine && d.cycle == dmaCycle && d.cpu != nil {
			d.cpu.IssueDMAOut(BytesPerLine, d)
		}
		if d.line == InterruptLine && d.cycle == 0 && d.cpu != nil {
			d.cpu.IssueInterrupt()
		}
		if d.cycle == 0 {
			d.ef.Set(d.line >= InterruptLine-2 && d.line < FirstDisplayLine ||
				d.line >= LastDisplayLine-3 && d.line <= LastDisplayLine)
		}
	}

	if d.line == PresentLine && d.cycle == 0 && d.display != nil {
		d.display.Render()
	}

	if d.cycle++; d.cycle == CyclesPerLine {
		d.cycle = 0
		if d.line++; d.line == LinesPerFrame {
			d.line = 0
		}
	}
}

// TransferDMA handles one outbound DMA byte.
func (d *Device) TransferDMA(data *byte) {
	if d.sink != nil {
		d.sink.DrawByte(*data, d.line-FirstDisplayLine, d.cursor%BytesPerLine)
	}
	if d.cursor++; d.cursor == DisplaySize {
		d.cursor = 0
	}
}
