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

// Flag control and stack instructions: CMC/CLC/STC, CLI/STI, CLD/STD,
// LAHF/SAHF, PUSHF/POPF, PUSH/POP.

func (cpu *MG8088) cmc() int {
	cpu.flags.Carry = !cpu.flags.Carry
	return 2
}

func (cpu *MG8088) clc() int {
	cpu.flags.Carry = false
	return 2
}

func (cpu *MG8088) stc() int {
	cpu.flags.Carry = true
	return 2
}

func (cpu *MG8088) cli() int {
	cpu.flags.Interrupt = false
	return 2
}

func (cpu *MG8088) sti() int {
	cpu.flags.Interrupt = true
	return 2
}

func (cpu *MG8088) cld() int {
	cpu.flags.Direction = false
	return 2
}

func (cpu *MG8088) std() int {
	cpu.flags.Direction = true
	return 2
}

func (cpu *MG8088) lahf() int {
	cpu.regs.SetByte(AH, cpu.flags.Byte())
	return 4
}

func (cpu *MG8088) sahf() int {
	cpu.flags.SetByte(cpu.regs.GetByte(AH))
	return 4
}

func (cpu *MG8088) pushf() int {
	cpu.push(cpu.flags.Word())
	return 14
}

func (cpu *MG8088) popf() int {
	cpu.flags.SetWord(cpu.pop())
	return 12
}

func (cpu *MG8088) pushOp(op wordOperand) int {
	cpu.push(cpu.readWord(op))
	switch op.kind {
	case opSeg:
		return 14
	case opMem:
		return 24 + op.cycles
	default:
		return 15
	}
}

func (cpu *MG8088) popOp(op wordOperand) int {
	cpu.writeWord(op, cpu.pop())
	if op.isMem() {
		return 25 + op.cycles
	}
	return 12
}
