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

package video

import "testing"

type fakePresenter struct {
	calls         int
	width, height int
	size          int
}

func (p *fakePresenter) RenderGraphics(backBuffer []byte, width, height int) {
	p.calls++
	p.width, p.height, p.size = width, height, len(backBuffer)
}

func TestDrawByte(t *testing.T) {
	f := NewFramebuffer(nil)
	f.DrawByte(0x81, 3, 1)

	for x := 8; x < 16; x++ {
		expected := Black
		if x == 8 || x == 15 {
			expected = White
		}
		if c := f.At(x, 3); c != expected {
			t.Errorf("pixel %d is %v, expected %v", x, c, expected)
		}
	}
	if c := f.At(8, 2); c != Black {
		t.Errorf("line above was drawn: %v", c)
	}
}

func TestDrawOutOfRange(t *testing.T) {
	f := NewFramebuffer(nil)
	f.DrawByte(0xFF, -1, 0)
	f.DrawByte(0xFF, Height, 0)
	f.DrawByte(0xFF, 0, 8)

	for i := 0; i < len(f.Pixels()); i += BytesPerPixel {
		if f.Pixels()[i] != 0 {
			t.Fatalf("pixel %d was drawn", i/BytesPerPixel)
		}
	}
}

func TestDrawColorByte(t *testing.T) {
	f := NewFramebuffer(nil)
	f.DrawColorByte(0x80, 10, 7, 0, 1)

	if c := f.At(56, 10); c != DotPalette[1] {
		t.Errorf("dot is %v, expected red", c)
	}
	if c := f.At(57, 10); c != BackgroundPalette[0] {
		t.Errorf("background is %v, expected blue", c)
	}
}

func TestRenderAndClear(t *testing.T) {
	p := &fakePresenter{}
	f := NewFramebuffer(p)

	f.DrawByte(0xFF, 0, 0)
	f.ClearDisplay()
	if c := f.At(0, 0); c != Black {
		t.Errorf("pixel is %v after clear", c)
	}

	f.Render()
	if p.calls != 1 || p.width != Width || p.height != Height || p.size != Width*Height*BytesPerPixel {
		t.Errorf("unexpected presentation %+v", p)
	}
	if f.Frames() != 1 {
		t.Errorf("frame count is %d", f.Frames())
	}
}
