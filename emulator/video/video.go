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

// Package video turns the display controller output into an RGBA
// framebuffer the platform can present.
package video

import (
	"github.com/andreas-jonsson/virtualvip/emulator/peripheral/cdp1861"
)

const (
	Width         = cdp1861.Width
	Height        = cdp1861.Height
	BytesPerPixel = 4
)

type Color struct {
	R, G, B byte
}

var (
	Black = Color{0x00, 0x00, 0x00}
	White = Color{0xFF, 0xFF, 0xFF}
)

// DotPalette is indexed by the CDP1862 dot color: bit 0 red, bit 1 blue,
// bit 2 green.
var DotPalette = [8]Color{
	{0x00, 0x00, 0x00},
	{0xFF, 0x00, 0x00},
	{0x00, 0x00, 0xFF},
	{0xFF, 0x00, 0xFF},
	{0x00, 0xFF, 0x00},
	{0xFF, 0xFF, 0x00},
	{0x00, 0xFF, 0xFF},
	{0xFF, 0xFF, 0xFF},
}

// BackgroundPalette is the order the VP-590 steps through on OUT 5.
var BackgroundPalette = [4]Color{
	{0x00, 0x00, 0x80},
	{0x00, 0x00, 0x00},
	{0x00, 0x80, 0x00},
	{0x80, 0x00, 0x00},
}

type Presenter interface {
	RenderGraphics(backBuffer []byte, width, height int)
}

type Framebuffer struct {
	pixels    []byte
	presenter Presenter
	frames    uint64
}

func NewFramebuffer(p Presenter) *Framebuffer {
	f := &Framebuffer{
		pixels:    make([]byte, Width*Height*BytesPerPixel),
		presenter: p,
	}
	f.ClearDisplay()
	return f
}

func (f *Framebuffer) SetPresenter(p Presenter) {
	f.presenter = p
}

func (f *Framebuffer) set(x, y int, c Color) {
	i := (y*Width + x) * BytesPerPixel
	f.pixels[i], f.pixels[i+1], f.pixels[i+2], f.pixels[i+3] = c.R, c.G, c.B, 0xFF
}

func (f *Framebuffer) At(x, y int) Color {
	i := (y*Width + x) * BytesPerPixel
	return Color{f.pixels[i], f.pixels[i+1], f.pixels[i+2]}
}

func (f *Framebuffer) drawByte(data byte, line, offset int, on, off Color) {
	if line < 0 || line >= Height || offset < 0 || offset >= Width/8 {
		return
	}

	x := offset * 8
	for i := 0; i < 8; i++ {
		c := off
		if data&(0x80>>uint(i)) != 0 {
			c = on
		}
		f.set(x+i, line, c)
	}
}

// DrawByte draws a monochrome byte.
func (f *Framebuffer) DrawByte(data byte, line, offset int) {
	f.drawByte(data, line, offset, White, Black)
}

func (f *Framebuffer) DrawColorByte(data byte, line, offset int, background, dot byte) {
	f.drawByte(data, line, offset, DotPalette[dot&7], BackgroundPalette[background&3])
}

func (f *Framebuffer) ClearDisplay() {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			f.set(x, y, Black)
		}
	}
}

func (f *Framebuffer) Render() {
	f.frames++
	if f.presenter != nil {
		f.presenter.RenderGraphics(f.pixels, Width, Height)
	}
}

func (f *Framebuffer) Pixels() []byte {
	return f.pixels
}

// Frames returns the number of presented frames.
func (f *Framebuffer) Frames() uint64 {
	return f.frames
}
