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

// Data transfer instructions: MOV, XCHG, LEA, LDS/LES, XLAT, IN/OUT.

func (cpu *MG8088) movByte(dst, src byteOperand) int {
	cpu.writeByte(dst, cpu.readByte(src))
	return movCyclesByte(dst, src)
}

func (cpu *MG8088) movWord(dst, src wordOperand) int {
	cpu.writeWord(dst, cpu.readWord(src))
	return movCyclesWord(dst, src)
}

func (cpu *MG8088) xchgByte(a, b byteOperand) int {
	av, bv := cpu.readByte(a), cpu.readByte(b)
	cpu.writeByte(a, bv)
	cpu.writeByte(b, av)
	if a.isMem() || b.isMem() {
		cycles := a.cycles + b.cycles
		return 17 + cycles
	}
	return 4
}

func (cpu *MG8088) xchgWord(a, b wordOperand) int {
	av, bv := cpu.readWord(a), cpu.readWord(b)
	cpu.writeWord(a, bv)
	cpu.writeWord(b, av)
	if a.isMem() || b.isMem() {
		cycles := a.cycles + b.cycles
		return 17 + cycles
	}
	return 4
}

// xchgAXReg is the one-byte XCHG AX,r16 encoding
func (cpu *MG8088) xchgAXReg(reg WordReg) int {
	v := cpu.regs.GetWord(reg)
	cpu.regs.SetWord(reg, cpu.regs.AX)
	cpu.regs.AX = v
	return 3
}

// lea stores the effective address itself, not the memory contents
func (cpu *MG8088) lea() int {
	src, dst := cpu.decodeWordRM()
	if !src.isMem() {
		panic("mg8088: LEA with register operand")
	}
	cpu.writeWord(dst, src.off)
	return 2 + src.cycles
}

// lseg is LDS/LES: load the register from the first word and the segment
// register from the word after it
func (cpu *MG8088) lseg(seg Segment) int {
	src, dst := cpu.decodeWordRM()
	if !src.isMem() {
		panic("mg8088: LDS/LES with register operand")
	}
	cpu.writeWord(dst, cpu.readWord(src))
	cpu.mem.UseSegment(src.segment)
	cpu.mem.SetSeg(seg, cpu.mem.GetWord(src.off+2))
	return 24 + src.cycles
}

// xlat replaces AL with [DS:BX+AL]
func (cpu *MG8088) xlat() int {
	offset := uint16(cpu.regs.GetByte(AL))
	cpu.mem.UseDefaultSegment(DS)
	cpu.regs.SetByte(AL, cpu.mem.GetByte(cpu.regs.BX+offset))
	return 11
}

// directByteOperand builds the moffs operand of the MOV AL/AX accumulator
// shorthand encodings
func (cpu *MG8088) directByteOperand() byteOperand {
	off := cpu.mem.NextWord()
	return byteMem(off, cpu.resolveSegment(DS), cpu.directCycles())
}

func (cpu *MG8088) directWordOperand() wordOperand {
	off := cpu.mem.NextWord()
	return wordMem(off, cpu.resolveSegment(DS), cpu.directCycles())
}

func (cpu *MG8088) resolveSegment(def Segment) Segment {
	if cpu.mem.OverrideActive() {
		return cpu.overrideSegment()
	}
	return def
}

func (cpu *MG8088) directCycles() int {
	if cpu.mem.OverrideActive() {
		return 8
	}
	return 6
}

// IN completes asynchronously: the board's reply callback writes the
// accumulator after this step handler has returned, before the next step.

func (cpu *MG8088) inALImm() int {
	port := uint16(cpu.mem.NextByte())
	cpu.board.InByte(port, cpu.SetAL)
	return 14
}

func (cpu *MG8088) inALDX() int {
	cpu.board.InByte(cpu.regs.DX, cpu.SetAL)
	return 12
}

func (cpu *MG8088) inAXImm() int {
	port := uint16(cpu.mem.NextByte())
	cpu.board.InWord(port, cpu.SetAX)
	return 14
}

func (cpu *MG8088) inAXDX() int {
	cpu.board.InWord(cpu.regs.DX, cpu.SetAX)
	return 12
}

func (cpu *MG8088) outImmAL() int {
	port := uint16(cpu.mem.NextByte())
	cpu.board.OutByte(port, cpu.regs.GetByte(AL))
	return 14
}

func (cpu *MG8088) outDXAL() int {
	cpu.board.OutByte(cpu.regs.DX, cpu.regs.GetByte(AL))
	return 12
}

func (cpu *MG8088) outImmAX() int {
	port := uint16(cpu.mem.NextByte())
	cpu.board.OutWord(port, cpu.regs.AX)
	return 14
}

func (cpu *MG8088) outDXAX() int {
	cpu.board.OutWord(cpu.regs.DX, cpu.regs.AX)
	return 12
}
