// Copyright © 2020 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package mg8088

// ModR/M decoding. The mod and rm fields select one of 8 register forms or
// 16 memory forms; the reg field names the other register operand (or the
// sub-opcode of a group instruction). Cycle counts per addressing form
// follow the 8088 documentation.

func splitModRM(b uint8) (mod, reg, rm uint8) {
	return b >> 6, (b >> 3) & 7, b & 7
}

// effectiveAddress computes the 16-bit EA, its default segment, and the EA
// cycle penalty for a memory form (mod != 3). The default segment is DS
// except for BP-based forms, which use SS; a latched override replaces the
// default and costs two extra cycles.
func (cpu *MG8088) effectiveAddress(mod, rm uint8) (off uint16, segment Segment, cycles int) {
	regs := &cpu.regs
	segment = DS

	var disp uint16
	switch mod {
	case 1:
		disp = uint16(int16(int8(cpu.mem.NextByte())))
	case 2:
		disp = cpu.mem.NextWord()
	}

	switch rm {
	case 0:
		off = regs.BX + regs.SI
		cycles = 7
	case 1:
		off = regs.BX + regs.DI
		cycles = 8
	case 2:
		off = regs.BP + regs.SI
		segment = SS
		cycles = 8
	case 3:
		off = regs.BP + regs.DI
		segment = SS
		cycles = 7
	case 4:
		off = regs.SI
		cycles = 5
	case 5:
		off = regs.DI
		cycles = 5
	case 6:
		if mod == 0 {
			// direct address form, no base register
			off = cpu.mem.NextWord()
			segment = DS
			cycles = 6
			disp = 0
		} else {
			off = regs.BP
			segment = SS
			cycles = 5
		}
	default:
		off = regs.BX
		cycles = 5
	}

	if mod == 1 || mod == 2 {
		off += disp
		cycles += 4
	}

	if cpu.mem.OverrideActive() {
		segment = cpu.overrideSegment()
		cycles += 2
	}
	return off, segment, cycles
}

func (cpu *MG8088) overrideSegment() Segment {
	return cpu.mem.overrideSegment
}

// rmByteOperand turns the mod/rm fields into an 8-bit operand
func (cpu *MG8088) rmByteOperand(mod, rm uint8) byteOperand {
	if mod == 3 {
		return byteReg(ByteReg(rm))
	}
	off, segment, cycles := cpu.effectiveAddress(mod, rm)
	return byteMem(off, segment, cycles)
}

// rmWordOperand turns the mod/rm fields into a 16-bit operand
func (cpu *MG8088) rmWordOperand(mod, rm uint8) wordOperand {
	if mod == 3 {
		return wordReg(WordReg(rm))
	}
	off, segment, cycles := cpu.effectiveAddress(mod, rm)
	return wordMem(off, segment, cycles)
}

// decodeByteRM consumes a ModR/M byte and returns the r/m operand plus the
// reg-field register operand
func (cpu *MG8088) decodeByteRM() (rmOp, regOp byteOperand) {
	mod, reg, rm := splitModRM(cpu.mem.NextByte())
	return cpu.rmByteOperand(mod, rm), byteReg(ByteReg(reg))
}

// decodeWordRM consumes a ModR/M byte and returns the r/m operand plus the
// reg-field register operand
func (cpu *MG8088) decodeWordRM() (rmOp, regOp wordOperand) {
	mod, reg, rm := splitModRM(cpu.mem.NextByte())
	return cpu.rmWordOperand(mod, rm), wordReg(WordReg(reg))
}

// decodeWordRMSeg consumes a ModR/M byte whose reg field selects a segment
// register (MOV sreg forms)
func (cpu *MG8088) decodeWordRMSeg() (rmOp wordOperand, sreg Segment) {
	mod, reg, rm := splitModRM(cpu.mem.NextByte())
	return cpu.rmWordOperand(mod, rm), Segment(reg & 3)
}

// decodeByteGroup consumes a ModR/M byte for a group opcode: the reg field
// is the sub-opcode, the r/m field the single operand
func (cpu *MG8088) decodeByteGroup() (op byteOperand, sub uint8) {
	mod, reg, rm := splitModRM(cpu.mem.NextByte())
	return cpu.rmByteOperand(mod, rm), reg
}

// decodeWordGroup is decodeByteGroup for 16-bit operands
func (cpu *MG8088) decodeWordGroup() (op wordOperand, sub uint8) {
	mod, reg, rm := splitModRM(cpu.mem.NextByte())
	return cpu.rmWordOperand(mod, rm), reg
}
