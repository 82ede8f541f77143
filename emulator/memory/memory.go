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

type Memory interface {
	ReadByte(addr uint16) byte
	WriteByte(addr uint16, data byte)
}

// IO is the port interface seen by the OUT (0x61-0x67) and INP (0x69-0x6F)
// instructions. The port number is the three low bits of N.
type IO interface {
	In(port byte) byte
	Out(port byte, data byte)
}

type Access byte

const (
	Read  Access = 0x01
	Write Access = 0x02
)

type Region struct {
	Start, End uint16
	Data       []byte
	Access     Access

	// Hook receives writes instead of Data when set.
	Hook Memory
}

func (r *Region) Contains(addr uint16) bool {
	return addr >= r.Start && addr <= r.End
}

// Map resolves addresses against an ordered list of regions. The first
// region that holds the address and grants the access wins.
type Map struct {
	regions []Region
}

func (m *Map) Add(r Region) int {
	m.regions = append(m.regions, r)
	return len(m.regions) - 1
}

func (m *Map) Remove(i int) {
	if i >= 0 && i < len(m.regions) {
		m.regions = append(m.regions[:i], m.regions[i+1:]...)
	}
}

func (m *Map) Region(i int) *Region {
	if i < 0 || i >= len(m.regions) {
		return nil
	}
	return &m.regions[i]
}

func (m *Map) Len() int {
	return len(m.regions)
}

func (m *Map) ReadByte(addr uint16) byte {
	for i := range m.regions {
		r := &m.regions[i]
		if r.Access&Read == 0 || !r.Contains(addr) {
			continue
		}
		if offset := int(addr - r.Start); offset < len(r.Data) {
			return r.Data[offset]
		}
		return 0
	}
	return 0
}

func (m *Map) WriteByte(addr uint16, data byte) {
	for i := range m.regions {
		r := &m.regions[i]
		if r.Access&Write == 0 || !r.Contains(addr) {
			continue
		}
		if r.Hook != nil {
			r.Hook.WriteByte(addr, data)
		} else if offset := int(addr - r.Start); offset < len(r.Data) {
			r.Data[offset] = data
		}
		return
	}
}
