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

// Package cdp1863 implements the CDP1863 programmable frequency divider.
package cdp1863

const DefaultDivideRate = 54

type Divider struct {
	input float64
	rate  float64
}

func New(input float64) *Divider {
	d := &Divider{input: input}
	d.Reset()
	return d
}

// SetDivideRate latches a new divisor. The chip divides by v+1.
func (d *Divider) SetDivideRate(v byte) {
	d.rate = float64(v) + 1
}

func (d *Divider) DivideRate() float64 {
	return d.rate
}

func (d *Divider) Reset() {
	d.SetDivideRate(DefaultDivideRate - 1)
}

func (d *Divider) InputFrequency() float64 {
	return d.input
}

func (d *Divider) OutputFrequency() float64 {
	return d.input / (d.rate * 16)
}
