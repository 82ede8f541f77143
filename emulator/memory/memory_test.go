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

package memory

import "testing"

type hookRecorder struct {
	addr uint16
	data byte
	hits int
}

func (h *hookRecorder) ReadByte(uint16) byte {
	return 0
}

func (h *hookRecorder) WriteByte(addr uint16, data byte) {
	h.addr, h.data = addr, data
	h.hits++
}

func TestRAMRoundTrip(t *testing.T) {
	var m Map
	m.Add(Region{Start: 0, End: 0x7FFF, Data: make([]byte, 0x800), Access: Read | Write})

	for _, addr := range []uint16{0, 1, 0x123, 0x7FF} {
		m.WriteByte(addr, byte(addr)^0x5A)
		if v := m.ReadByte(addr); v != byte(addr)^0x5A {
			t.Errorf("read back 0x%X at 0x%X, expected 0x%X", v, addr, byte(addr)^0x5A)
		}
	}

	m.WriteByte(0x800, 0xFF)
	if v := m.ReadByte(0x800); v != 0 {
		t.Errorf("read 0x%X beyond backing memory, expected 0", v)
	}
}

func TestROMIsWriteProtected(t *testing.T) {
	rom := []byte{0x90, 0xB1, 0xB2}

	var m Map
	m.Add(Region{Start: 0x8000, End: 0xFFFF, Data: rom, Access: Read})

	m.WriteByte(0x8001, 0x00)
	if v := m.ReadByte(0x8001); v != 0xB1 {
		t.Errorf("ROM changed to 0x%X", v)
	}
}

func TestRegionOrderAndAccess(t *testing.T) {
	ram := make([]byte, 0x10)
	rom := []byte{0xAA, 0xBB}
	hook := &hookRecorder{}

	var m Map
	shadow := m.Add(Region{Start: 0, End: 0xF, Data: rom, Access: Read})
	m.Add(Region{Start: 0, End: 0xF, Data: ram, Access: Read | Write})
	m.Add(Region{Start: 0xC000, End: 0xDFFF, Access: Write, Hook: hook})

	t.Run("shadowed read", func(t *testing.T) {
		if v := m.ReadByte(1); v != 0xBB {
			t.Errorf("got 0x%X, expected shadow byte 0xBB", v)
		}
	})

	t.Run("write falls through", func(t *testing.T) {
		m.WriteByte(1, 0x42)
		if ram[1] != 0x42 {
			t.Errorf("RAM not written, got 0x%X", ram[1])
		}
	})

	t.Run("write hook", func(t *testing.T) {
		m.WriteByte(0xC123, 0x07)
		if hook.hits != 1 || hook.addr != 0xC123 || hook.data != 0x07 {
			t.Errorf("unexpected hook state %+v", *hook)
		}
		if v := m.ReadByte(0xC123); v != 0 {
			t.Errorf("write-only region returned 0x%X", v)
		}
	})

	t.Run("remove shadow", func(t *testing.T) {
		m.Remove(shadow)
		if v := m.ReadByte(1); v != 0x42 {
			t.Errorf("got 0x%X after removing shadow", v)
		}
		if m.Len() != 2 {
			t.Errorf("expected 2 regions, got %d", m.Len())
		}
	})
}
