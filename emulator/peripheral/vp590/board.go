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

// Package vp590 emulates the VP-590 color board. It replaces the base
// CDP1861 output with a CDP1862 color generator fed from a small color
// RAM mapped write-only at 0xC000-0xDFFF.
package vp590

import (
	"log"

	"github.com/andreas-jonsson/virtualvip/emulator/peripheral/cdp1861"
	"github.com/andreas-jonsson/virtualvip/emulator/processor"
)

const (
	ColorRAMStart = 0xC000
	ColorRAMEnd   = 0xDFFF
	ColorRAMSize  = 128

	highResolutionBit = 0x1000
	lowWindowStride   = 0x20
	lowWindowSize     = 8
	highWindowSize    = 0x100
)

type ResolutionMode int

const (
	Low ResolutionMode = iota
	High
)

func (m ResolutionMode) String() string {
	if m == High {
		return "High"
	}
	return "Low"
}

// Renderer draws eight pixels with the 2 bit background color and the
// 3 bit dot color in effect for them.
type Renderer interface {
	cdp1861.Display
	DrawColorByte(data byte, line, offset int, background, dot byte)
}

type Board struct {
	*cdp1861.Device

	gen      ColorGenerator
	ram      [ColorRAMSize]byte
	mode     ResolutionMode
	renderer Renderer
}

func New(ef processor.FlagLine) *Board {
	b := &Board{Device: cdp1861.New(ef)}
	b.gen.ram = &b.ram
	return b
}

func (b *Board) Name() string {
	return "VP-590 Color Board"
}

func (b *Board) Install(p processor.Processor) error {
	log.Print("VP-590 color RAM mapped at 0xC000-0xDFFF")
	return b.Device.Install(p)
}

func (b *Board) Reset() {
	b.Device.Reset()
	b.gen.Reset()
	b.mode = Low
	b.ClearColorRAM()
}

func (b *Board) Attach(r Renderer) {
	b.renderer = r
	if r == nil {
		b.Device.Attach(nil, nil)
		return
	}
	b.Device.Attach(r, b)
}

func (b *Board) Mode() ResolutionMode {
	return b.mode
}

func (b *Board) ColorGenerator() *ColorGenerator {
	return &b.gen
}

func (b *Board) StepBackgroundColor() {
	b.gen.StepBackgroundColor()
}

func (b *Board) ResetColorGenerator() {
	b.gen.Reset()
}

func (b *Board) ClearColorRAM() {
	b.ram = [ColorRAMSize]byte{}
}

func (b *Board) DrawByte(data byte, line, offset int) {
	if b.renderer == nil {
		return
	}

	y := line / 4
	if b.mode == Low {
		y = (line / 32) * 8
	}
	b.renderer.DrawColorByte(data, line, offset, b.gen.BackgroundColor(), b.gen.DotColor(offset, y))
}

// ReadByte implements memory.Memory. The color RAM is write only.
func (b *Board) ReadByte(uint16) byte {
	return 0
}

func (b *Board) WriteByte(addr uint16, data byte) {
	b.gen.LatchColor()

	b.mode = Low
	if addr&highResolutionBit != 0 {
		b.mode = High
	}

	offset := int(addr & 0xFFF)
	switch b.mode {
	case Low:
		if offset >= highWindowSize || offset%lowWindowStride >= lowWindowSize {
			return
		}
	case High:
		if offset >= highWindowSize {
			return
		}
	}

	i, shift := offset/2, uint(offset%2)*4
	b.ram[i] = b.ram[i]&^(0xF<<shift) | (data&0xF)<<shift
}
