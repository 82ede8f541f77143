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

package vp590

// ColorGenerator is the CDP1862 color generator. Dot colors are 3 bit
// values read from the nibble addressed color RAM, background colors
// cycle through four steps.
type ColorGenerator struct {
	ram        *[ColorRAMSize]byte
	background byte
	latched    bool
}

func (g *ColorGenerator) Reset() {
	g.background = 0
	g.latched = false
}

// LatchColor enables dot colors. Until the first color RAM write every
// dot is white.
func (g *ColorGenerator) LatchColor() {
	g.latched = true
}

func (g *ColorGenerator) Latched() bool {
	return g.latched
}

func (g *ColorGenerator) StepBackgroundColor() {
	g.background = (g.background + 1) & 3
}

func (g *ColorGenerator) BackgroundColor() byte {
	return g.background
}

func (g *ColorGenerator) DotColor(x, y int) byte {
	if !g.latched || g.ram == nil {
		return 7
	}

	n := y*8 + x
	return g.ram[(n/2)%ColorRAMSize] >> ((n % 2) * 4) & 7
}
