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

import "fmt"

// operandKind tags the closed set of operand variants
type operandKind uint8

const (
	opReg operandKind = iota
	opMem
	opImm
	opSeg // word operands only
)

// byteOperand is a decoded 8-bit operand: a register, a memory location
// (offset plus the segment the decoder latched and the EA cycle penalty),
// or an immediate. Immediates can never be written.
type byteOperand struct {
	kind    operandKind
	reg     ByteReg
	off     uint16
	segment Segment
	cycles  int
	imm     uint8
}

// wordOperand is the 16-bit variant; it adds the segment-register form
// used by MOV sreg and PUSH/POP sreg
type wordOperand struct {
	kind    operandKind
	reg     WordReg
	sreg    Segment
	off     uint16
	segment Segment
	cycles  int
	imm     uint16
}

func byteReg(r ByteReg) byteOperand {
	return byteOperand{kind: opReg, reg: r}
}

func byteMem(off uint16, segment Segment, cycles int) byteOperand {
	return byteOperand{kind: opMem, off: off, segment: segment, cycles: cycles}
}

func byteImm(v uint8) byteOperand {
	return byteOperand{kind: opImm, imm: v}
}

func wordReg(r WordReg) wordOperand {
	return wordOperand{kind: opReg, reg: r}
}

func wordMem(off uint16, segment Segment, cycles int) wordOperand {
	return wordOperand{kind: opMem, off: off, segment: segment, cycles: cycles}
}

func wordImm(v uint16) wordOperand {
	return wordOperand{kind: opImm, imm: v}
}

func wordSeg(s Segment) wordOperand {
	return wordOperand{kind: opSeg, sreg: s}
}

func (op byteOperand) isMem() bool { return op.kind == opMem }
func (op wordOperand) isMem() bool { return op.kind == opMem }

func (op byteOperand) label() string {
	switch op.kind {
	case opReg:
		return op.reg.String()
	case opMem:
		return fmt.Sprintf("[%s:%04X]", op.segment, op.off)
	default:
		return fmt.Sprintf("%02X", op.imm)
	}
}

func (op wordOperand) label() string {
	switch op.kind {
	case opReg:
		return op.reg.String()
	case opMem:
		return fmt.Sprintf("[%s:%04X]", op.segment, op.off)
	case opSeg:
		return op.sreg.String()
	default:
		return fmt.Sprintf("%04X", op.imm)
	}
}

// readByte evaluates an 8-bit operand
func (cpu *MG8088) readByte(op byteOperand) uint8 {
	switch op.kind {
	case opMem:
		cpu.mem.UseSegment(op.segment)
		return cpu.mem.GetByte(op.off)
	case opReg:
		return cpu.regs.GetByte(op.reg)
	default:
		return op.imm
	}
}

// writeByte stores through an 8-bit operand. Dispatch never produces an
// immediate destination; hitting one is an internal invariant violation.
func (cpu *MG8088) writeByte(op byteOperand, v uint8) {
	switch op.kind {
	case opMem:
		cpu.mem.UseSegment(op.segment)
		cpu.mem.SetByte(op.off, v)
	case opReg:
		cpu.regs.SetByte(op.reg, v)
	default:
		panic("mg8088: write to immediate operand")
	}
}

// readWord evaluates a 16-bit operand
func (cpu *MG8088) readWord(op wordOperand) uint16 {
	switch op.kind {
	case opMem:
		cpu.mem.UseSegment(op.segment)
		return cpu.mem.GetWord(op.off)
	case opReg:
		return cpu.regs.GetWord(op.reg)
	case opSeg:
		return cpu.mem.GetSeg(op.sreg)
	default:
		return op.imm
	}
}

// writeWord stores through a 16-bit operand
func (cpu *MG8088) writeWord(op wordOperand, v uint16) {
	switch op.kind {
	case opMem:
		cpu.mem.UseSegment(op.segment)
		cpu.mem.SetWord(op.off, v)
	case opReg:
		cpu.regs.SetWord(op.reg, v)
	case opSeg:
		cpu.mem.SetSeg(op.sreg, v)
	default:
		panic("mg8088: write to immediate operand")
	}
}

// Documented 8088 timings for the common two-operand shapes. Memory forms
// add the decoded EA penalty.

func movCyclesByte(dst, src byteOperand) int {
	switch {
	case dst.isMem() && src.kind == opImm:
		return 10 + dst.cycles
	case dst.isMem():
		return 9 + dst.cycles
	case src.isMem():
		return 8 + src.cycles
	case src.kind == opImm:
		return 4
	default:
		return 2
	}
}

func movCyclesWord(dst, src wordOperand) int {
	switch {
	case dst.isMem() && src.kind == opImm:
		return 10 + dst.cycles
	case dst.isMem():
		return 9 + dst.cycles
	case src.isMem():
		return 8 + src.cycles
	case src.kind == opImm:
		return 4
	default:
		return 2
	}
}

func aluCyclesByte(dst, src byteOperand) int {
	switch {
	case dst.isMem() && src.kind == opImm:
		return 17 + dst.cycles
	case dst.isMem():
		return 16 + dst.cycles
	case src.isMem():
		return 9 + src.cycles
	case src.kind == opImm:
		return 4
	default:
		return 3
	}
}

func aluCyclesWord(dst, src wordOperand) int {
	switch {
	case dst.isMem() && src.kind == opImm:
		return 17 + dst.cycles
	case dst.isMem():
		return 16 + dst.cycles
	case src.isMem():
		return 9 + src.cycles
	case src.kind == opImm:
		return 4
	default:
		return 3
	}
}

func unaryCyclesByte(op byteOperand) int {
	if op.isMem() {
		return 15 + op.cycles
	}
	return 3
}

func unaryCyclesWord(op wordOperand) int {
	if op.isMem() {
		return 15 + op.cycles
	}
	return 3
}

// shiftCycles covers the count-of-1 and count-in-CL encodings
func shiftCycles(mem bool, eaCycles int, byCL bool, count uint8) int {
	switch {
	case byCL && mem:
		return 20 + eaCycles + 4*int(count)
	case byCL:
		return 8 + 4*int(count)
	case mem:
		return 15 + eaCycles
	default:
		return 2
	}
}
