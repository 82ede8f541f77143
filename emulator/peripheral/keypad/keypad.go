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

// Package keypad emulates the VIP hex keypad. The CPU selects a key
// through the OUT 2 latch and polls an EF line that is asserted while
// that key is held.
package keypad

import (
	"fmt"

	"github.com/andreas-jonsson/virtualvip/emulator/processor"
)

// Layout maps the 4x4 keypad positions, row by row, to hex keys.
var Layout = [16]byte{
	0x1, 0x2, 0x3, 0xC,
	0x4, 0x5, 0x6, 0xD,
	0x7, 0x8, 0x9, 0xE,
	0xA, 0x0, 0xB, 0xF,
}

// Latch is the hex key latch written by OUT 2. It is shared by all
// keypads on the machine.
type Latch struct {
	v byte
}

func (l *Latch) Set(v byte) {
	l.v = v & 0xF
}

func (l *Latch) Get() byte {
	return l.v
}

type Keypad struct {
	index   int
	latch   *Latch
	ef      processor.FlagLine
	key     byte
	pressed bool
}

func New(index int, latch *Latch, ef processor.FlagLine) *Keypad {
	return &Keypad{index: index, latch: latch, ef: ef}
}

func (k *Keypad) Name() string {
	return fmt.Sprintf("Hex Keypad %d", k.index+1)
}

func (k *Keypad) Install(processor.Processor) error {
	return nil
}

func (k *Keypad) Reset() {
	k.key = 0
	k.pressed = false
	k.ef.Set(false)
}

func (k *Keypad) Press(key byte) {
	k.key = key & 0xF
	k.pressed = true
}

func (k *Keypad) Release() {
	k.pressed = false
}

func (k *Keypad) Pressed() bool {
	return k.pressed
}

func (k *Keypad) Key() byte {
	return k.key
}

func (k *Keypad) Sync() {
	k.ef.Set(k.pressed && k.latch != nil && k.key == k.latch.Get())
}
