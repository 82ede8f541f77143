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

import "fmt"

type Registers struct {
	D, B, T byte
	DF      bool
	R       [16]uint16

	P, X, N, I byte

	IE, Q      bool
	N0, N1, N2 bool
}

// Initialize clears the registers the chip does not touch on reset.
func (r *Registers) Initialize() {
	r.R = [16]uint16{}
	r.D, r.B, r.T = 0, 0, 0
	r.DF = false
	r.N0, r.N1, r.N2 = false, false, false
}

func (r *Registers) String() string {
	return fmt.Sprintf("D=%02X DF=%d B=%02X T=%02X P=%X X=%X IE=%d Q=%d R[P]=%04X",
		r.D, b2u(r.DF), r.B, r.T, r.P, r.X, b2u(r.IE), b2u(r.Q), r.R[r.P&0xF])
}

func b2u(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// ExternalFlags is the EF1-EF4 input bank. It is owned by the machine,
// read by the CPU and written by peripherals through a FlagLine.
type ExternalFlags [4]bool

func (f *ExternalFlags) Line(n int) FlagLine {
	return FlagLine{flags: f, n: n & 3}
}

func (f *ExternalFlags) Get(n int) bool {
	return f[n&3]
}

func (f *ExternalFlags) Clear() {
	*f = ExternalFlags{}
}

// FlagLine is a write handle to one EF input. The zero value is
// disconnected and ignores writes.
type FlagLine struct {
	flags *ExternalFlags
	n     int
}

func (l FlagLine) Set(b bool) {
	if l.flags != nil {
		l.flags[l.n] = b
	}
}

func (l FlagLine) Get() bool {
	return l.flags != nil && l.flags[l.n]
}

func (l FlagLine) Connected() bool {
	return l.flags != nil
}
