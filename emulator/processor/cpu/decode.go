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

package cpu

func b2u(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// immediate reads the operand byte following the opcode.
func (p *CPU) immediate() byte {
	v := p.readByte(p.R[p.P])
	p.R[p.P]++
	return v
}

func (p *CPU) shortBranch(cond bool) {
	if cond {
		p.R[p.P] = p.R[p.P]&0xFF00 | uint16(p.readByte(p.R[p.P]))
	} else {
		p.R[p.P]++
	}
}

// longBranch runs over two execute cycles. The first latches the high
// address byte in B, the second loads R[P].
func (p *CPU) longBranch(cond bool) {
	if !cond {
		p.R[p.P]++
		return
	}

	data := p.readByte(p.R[p.P])
	if p.executeCyclesLeft > 1 {
		p.B = data
		p.R[p.P]++
	} else {
		p.R[p.P] = uint16(p.B)<<8 | uint16(data)
	}
}

func (p *CPU) longSkip(cond bool) {
	if cond {
		p.R[p.P]++
	}
}

func (p *CPU) add(data, carry byte) {
	r := data + p.D + carry
	p.DF = r < data
	p.D = r
}

func (p *CPU) subD(data, borrow byte) {
	r := data - p.D - borrow
	p.DF = r < data
	p.D = r
}

func (p *CPU) subMemory(data, borrow byte) {
	r := p.D - data - borrow
	p.DF = r < data
	p.D = r
}

func (p *CPU) sm(data byte) {
	r := p.D - data
	p.DF = r < p.D
	p.D = r
}

func (p *CPU) execute() {
	switch op := p.I<<4 | p.N; op {
	case 0x00: // IDL
	case 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F: // LDN
		p.D = p.readByte(p.R[p.N])
	case 0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E, 0x1F: // INC
		p.R[p.N]++
	case 0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29, 0x2A, 0x2B, 0x2C, 0x2D, 0x2E, 0x2F: // DEC
		p.R[p.N]--
	case 0x30: // BR
		p.shortBranch(true)
	case 0x31: // BQ
		p.shortBranch(p.Q)
	case 0x32: // BZ
		p.shortBranch(p.D == 0)
	case 0x33: // BDF
		p.shortBranch(p.DF)
	case 0x34, 0x35, 0x36, 0x37: // B1, B2, B3, B4
		p.shortBranch(p.ef.Get(int(p.N & 3)))
	case 0x38: // SKP
		p.R[p.P]++
	case 0x39: // BNQ
		p.shortBranch(!p.Q)
	case 0x3A: // BNZ
		p.shortBranch(p.D != 0)
	case 0x3B: // BNF
		p.shortBranch(!p.DF)
	case 0x3C, 0x3D, 0x3E, 0x3F: // BN1, BN2, BN3, BN4
		p.shortBranch(!p.ef.Get(int(p.N & 3)))
	case 0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F: // LDA
		p.D = p.readByte(p.R[p.N])
		p.R[p.N]++
	case 0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F: // STR
		p.writeByte(p.R[p.N], p.D)
	case 0x60: // IRX
		p.R[p.X]++
	case 0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67: // OUT 1-7
		p.setIOLines()
		if p.io != nil {
			p.out(p.N&7, p.readByte(p.R[p.X]))
		}
		p.R[p.X]++
	case 0x68:
	case 0x69, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F: // INP 1-7
		p.setIOLines()
		data, ok := p.in(p.N & 7)
		if ok {
			p.writeByte(p.R[p.X], data)
		}
		p.D = data
	case 0x70, 0x71: // RET, DIS
		data := p.readByte(p.R[p.X])
		p.R[p.X]++
		p.X, p.P = data>>4, data&0xF
		p.IE = op == 0x70
	case 0x72: // LDXA
		p.D = p.readByte(p.R[p.X])
		p.R[p.X]++
	case 0x73: // STXD
		p.writeByte(p.R[p.X], p.D)
		p.R[p.X]--
	case 0x74: // ADC
		p.add(p.readByte(p.R[p.X]), b2u(p.DF))
	case 0x75: // SDB
		p.subD(p.readByte(p.R[p.X]), b2u(!p.DF))
	case 0x76: // SHRC
		df := p.D&1 != 0
		p.D = p.D>>1 | b2u(p.DF)<<7
		p.DF = df
	case 0x77: // SMB
		p.subMemory(p.readByte(p.R[p.X]), b2u(!p.DF))
	case 0x78: // SAV
		p.writeByte(p.R[p.X], p.T)
	case 0x79: // MARK
		p.T = p.X<<4 | p.P
		p.writeByte(p.R[2], p.T)
		p.X = p.P
		p.R[2]--
	case 0x7A: // REQ
		p.Q = false
	case 0x7B: // SEQ
		p.Q = true
	case 0x7C: // ADCI
		p.add(p.immediate(), b2u(p.DF))
	case 0x7D: // SDBI
		p.subD(p.immediate(), b2u(!p.DF))
	case 0x7E: // SHLC
		df := p.D&0x80 != 0
		p.D = p.D<<1 | b2u(p.DF)
		p.DF = df
	case 0x7F: // SMBI
		p.subMemory(p.immediate(), b2u(!p.DF))
	case 0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8E, 0x8F: // GLO
		p.D = byte(p.R[p.N])
	case 0x90, 0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97, 0x98, 0x99, 0x9A, 0x9B, 0x9C, 0x9D, 0x9E, 0x9F: // GHI
		p.D = byte(p.R[p.N] >> 8)
	case 0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7, 0xA8, 0xA9, 0xAA, 0xAB, 0xAC, 0xAD, 0xAE, 0xAF: // PLO
		p.R[p.N] = p.R[p.N]&0xFF00 | uint16(p.D)
	case 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7, 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBE, 0xBF: // PHI
		p.R[p.N] = p.R[p.N]&0x00FF | uint16(p.D)<<8
	case 0xC0: // LBR
		p.longBranch(true)
	case 0xC1: // LBQ
		p.longBranch(p.Q)
	case 0xC2: // LBZ
		p.longBranch(p.D == 0)
	case 0xC3: // LBDF
		p.longBranch(p.DF)
	case 0xC4: // NOP
	case 0xC5: // LSNQ
		p.longSkip(!p.Q)
	case 0xC6: // LSNZ
		p.longSkip(p.D != 0)
	case 0xC7: // LSNF
		p.longSkip(!p.DF)
	case 0xC8: // LSKP
		p.longSkip(true)
	case 0xC9: // LBNQ
		p.longBranch(!p.Q)
	case 0xCA: // LBNZ
		p.longBranch(p.D != 0)
	case 0xCB: // LBNF
		p.longBranch(!p.DF)
	case 0xCC: // LSIE
		p.longSkip(p.IE)
	case 0xCD: // LSQ
		p.longSkip(p.Q)
	case 0xCE: // LSZ
		p.longSkip(p.D == 0)
	case 0xCF: // LSDF
		p.longSkip(p.DF)
	case 0xD0, 0xD1, 0xD2, 0xD3, 0xD4, 0xD5, 0xD6, 0xD7, 0xD8, 0xD9, 0xDA, 0xDB, 0xDC, 0xDD, 0xDE, 0xDF: // SEP
		p.P = p.N
	case 0xE0, 0xE1, 0xE2, 0xE3, 0xE4, 0xE5, 0xE6, 0xE7, 0xE8, 0xE9, 0xEA, 0xEB, 0xEC, 0xED, 0xEE, 0xEF: // SEX
		p.X = p.N
	case 0xF0: // LDX
		p.D = p.readByte(p.R[p.X])
	case 0xF1: // OR
		p.D |= p.readByte(p.R[p.X])
	case 0xF2: // AND
		p.D &= p.readByte(p.R[p.X])
	case 0xF3: // XOR
		p.D ^= p.readByte(p.R[p.X])
	case 0xF4: // ADD
		p.add(p.readByte(p.R[p.X]), 0)
	case 0xF5: // SD
		p.subD(p.readByte(p.R[p.X]), 0)
	case 0xF6: // SHR
		p.DF = p.D&1 != 0
		p.D >>= 1
	case 0xF7: // SM
		p.sm(p.readByte(p.R[p.X]))
	case 0xF8: // LDI
		p.D = p.immediate()
	case 0xF9: // ORI
		p.D |= p.immediate()
	case 0xFA: // ANI
		p.D &= p.immediate()
	case 0xFB: // XRI
		p.D ^= p.immediate()
	case 0xFC: // ADI
		p.add(p.immediate(), 0)
	case 0xFD: // SDI
		p.subD(p.immediate(), 0)
	case 0xFE: // SHL
		p.DF = p.D&0x80 != 0
		p.D <<= 1
	case 0xFF: // SMI
		p.sm(p.immediate())
	}
}

func (p *CPU) setIOLines() {
	p.N0 = p.N&1 != 0
	p.N1 = p.N&2 != 0
	p.N2 = p.N&4 != 0
}
