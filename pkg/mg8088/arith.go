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

import "github.com/master-g/goxt/pkg/log"

// Arithmetic and logic instructions. The two-operand families share the
// aluByte/aluWord shape; the flag side effects all live on Flags.

type aluByteFn func(f *Flags, a, b uint8) uint8
type aluWordFn func(f *Flags, a, b uint16) uint16

// aluByte applies dst = fn(dst, src)
func (cpu *MG8088) aluByte(dst, src byteOperand, fn aluByteFn) int {
	a, b := cpu.readByte(dst), cpu.readByte(src)
	cpu.writeByte(dst, fn(&cpu.flags, a, b))
	return aluCyclesByte(dst, src)
}

func (cpu *MG8088) aluWord(dst, src wordOperand, fn aluWordFn) int {
	a, b := cpu.readWord(dst), cpu.readWord(src)
	cpu.writeWord(dst, fn(&cpu.flags, a, b))
	return aluCyclesWord(dst, src)
}

// cmpByteOp sets flags from dst-src without writing
func (cpu *MG8088) cmpByteOp(dst, src byteOperand) int {
	cpu.flags.CmpByte(cpu.readByte(dst), cpu.readByte(src))
	return aluCyclesByte(dst, src)
}

func (cpu *MG8088) cmpWordOp(dst, src wordOperand) int {
	cpu.flags.CmpWord(cpu.readWord(dst), cpu.readWord(src))
	return aluCyclesWord(dst, src)
}

// testByteOp sets flags from dst&src without writing
func (cpu *MG8088) testByteOp(dst, src byteOperand) int {
	cpu.flags.TestByte(cpu.readByte(dst), cpu.readByte(src))
	return aluCyclesByte(dst, src)
}

func (cpu *MG8088) testWordOp(dst, src wordOperand) int {
	cpu.flags.TestWord(cpu.readWord(dst), cpu.readWord(src))
	return aluCyclesWord(dst, src)
}

func (cpu *MG8088) incByteOp(op byteOperand) int {
	cpu.writeByte(op, cpu.flags.IncByte(cpu.readByte(op)))
	return unaryCyclesByte(op)
}

func (cpu *MG8088) decByteOp(op byteOperand) int {
	cpu.writeByte(op, cpu.flags.DecByte(cpu.readByte(op)))
	return unaryCyclesByte(op)
}

func (cpu *MG8088) incWordOp(op wordOperand) int {
	cpu.writeWord(op, cpu.flags.IncWord(cpu.readWord(op)))
	return unaryCyclesWord(op)
}

func (cpu *MG8088) decWordOp(op wordOperand) int {
	cpu.writeWord(op, cpu.flags.DecWord(cpu.readWord(op)))
	return unaryCyclesWord(op)
}

// incReg16 is the one-byte INC r16 encoding
func (cpu *MG8088) incReg16(reg WordReg) int {
	cpu.regs.SetWord(reg, cpu.flags.IncWord(cpu.regs.GetWord(reg)))
	return 2
}

func (cpu *MG8088) decReg16(reg WordReg) int {
	cpu.regs.SetWord(reg, cpu.flags.DecWord(cpu.regs.GetWord(reg)))
	return 2
}

// group1 handles opcodes 0x80-0x83: the immediate forms of the eight ALU
// operations, selected by the ModR/M reg field

func (cpu *MG8088) group1Byte() int {
	op, sub := cpu.decodeByteGroup()
	imm := byteImm(cpu.mem.NextByte())
	return cpu.group1ByteApply(op, imm, sub)
}

func (cpu *MG8088) group1Word() int {
	op, sub := cpu.decodeWordGroup()
	imm := wordImm(cpu.mem.NextWord())
	return cpu.group1WordApply(op, imm, sub)
}

// group1WordSign is opcode 0x83: a sign-extended byte immediate against a
// word destination
func (cpu *MG8088) group1WordSign() int {
	op, sub := cpu.decodeWordGroup()
	imm := wordImm(uint16(int16(int8(cpu.mem.NextByte()))))
	return cpu.group1WordApply(op, imm, sub)
}

func (cpu *MG8088) group1ByteApply(op, imm byteOperand, sub uint8) int {
	switch sub {
	case 0:
		return cpu.aluByte(op, imm, (*Flags).AddByte)
	case 1:
		return cpu.aluByte(op, imm, (*Flags).OrByte)
	case 2:
		return cpu.aluByte(op, imm, (*Flags).AdcByte)
	case 3:
		return cpu.aluByte(op, imm, (*Flags).SbbByte)
	case 4:
		return cpu.aluByte(op, imm, (*Flags).AndByte)
	case 5:
		return cpu.aluByte(op, imm, (*Flags).SubByte)
	case 6:
		return cpu.aluByte(op, imm, (*Flags).XorByte)
	default:
		return cpu.cmpByteOp(op, imm)
	}
}

func (cpu *MG8088) group1WordApply(op, imm wordOperand, sub uint8) int {
	switch sub {
	case 0:
		return cpu.aluWord(op, imm, (*Flags).AddWord)
	case 1:
		return cpu.aluWord(op, imm, (*Flags).OrWord)
	case 2:
		return cpu.aluWord(op, imm, (*Flags).AdcWord)
	case 3:
		return cpu.aluWord(op, imm, (*Flags).SbbWord)
	case 4:
		return cpu.aluWord(op, imm, (*Flags).AndWord)
	case 5:
		return cpu.aluWord(op, imm, (*Flags).SubWord)
	case 6:
		return cpu.aluWord(op, imm, (*Flags).XorWord)
	default:
		return cpu.cmpWordOp(op, imm)
	}
}

// group3 handles opcodes 0xF6/0xF7: TEST imm, NOT, NEG, MUL, IMUL, DIV,
// IDIV. The divides raise INT 0 on a zero divisor or quotient overflow.

func (cpu *MG8088) group3Byte() int {
	op, sub := cpu.decodeByteGroup()
	switch sub {
	case 0, 1:
		imm := byteImm(cpu.mem.NextByte())
		return cpu.testByteOp(op, imm)
	case 2: // NOT, no flags
		cpu.writeByte(op, ^cpu.readByte(op))
		return unaryCyclesByte(op)
	case 3:
		cpu.writeByte(op, cpu.flags.NegByte(cpu.readByte(op)))
		return unaryCyclesByte(op)
	case 4:
		cpu.regs.AX = cpu.flags.MulByte(cpu.regs.GetByte(AL), cpu.readByte(op))
		return mulDivCycles(op.isMem(), op.cycles, 70)
	case 5:
		cpu.regs.AX = cpu.flags.IMulByte(cpu.regs.GetByte(AL), cpu.readByte(op))
		return mulDivCycles(op.isMem(), op.cycles, 80)
	case 6:
		quot, rem, ok := cpu.flags.DivByte(cpu.regs.AX, cpu.readByte(op))
		if !ok {
			return cpu.intN(0)
		}
		cpu.regs.SetByte(AL, quot)
		cpu.regs.SetByte(AH, rem)
		return mulDivCycles(op.isMem(), op.cycles, 80)
	default:
		quot, rem, ok := cpu.flags.IDivByte(cpu.regs.AX, cpu.readByte(op))
		if !ok {
			return cpu.intN(0)
		}
		cpu.regs.SetByte(AL, quot)
		cpu.regs.SetByte(AH, rem)
		return mulDivCycles(op.isMem(), op.cycles, 101)
	}
}

func (cpu *MG8088) group3Word() int {
	op, sub := cpu.decodeWordGroup()
	switch sub {
	case 0, 1:
		imm := wordImm(cpu.mem.NextWord())
		return cpu.testWordOp(op, imm)
	case 2:
		cpu.writeWord(op, ^cpu.readWord(op))
		return unaryCyclesWord(op)
	case 3:
		cpu.writeWord(op, cpu.flags.NegWord(cpu.readWord(op)))
		return unaryCyclesWord(op)
	case 4:
		full := cpu.flags.MulWord(cpu.regs.AX, cpu.readWord(op))
		cpu.regs.AX = uint16(full)
		cpu.regs.DX = uint16(full >> 16)
		return mulDivCycles(op.isMem(), op.cycles, 118)
	case 5:
		full := cpu.flags.IMulWord(cpu.regs.AX, cpu.readWord(op))
		cpu.regs.AX = uint16(full)
		cpu.regs.DX = uint16(full >> 16)
		return mulDivCycles(op.isMem(), op.cycles, 128)
	case 6:
		quot, rem, ok := cpu.flags.DivWord(cpu.regs.DX, cpu.regs.AX, cpu.readWord(op))
		if !ok {
			return cpu.intN(0)
		}
		cpu.regs.AX = quot
		cpu.regs.DX = rem
		return mulDivCycles(op.isMem(), op.cycles, 144)
	default:
		quot, rem, ok := cpu.flags.IDivWord(cpu.regs.DX, cpu.regs.AX, cpu.readWord(op))
		if !ok {
			return cpu.intN(0)
		}
		cpu.regs.AX = quot
		cpu.regs.DX = rem
		return mulDivCycles(op.isMem(), op.cycles, 165)
	}
}

func mulDivCycles(mem bool, eaCycles, base int) int {
	if mem {
		return base + 6 + eaCycles
	}
	return base
}

// group4 handles opcode 0xFE: INC/DEC on a byte r/m. The remaining reg
// encodings are reserved.
func (cpu *MG8088) group4() int {
	op, sub := cpu.decodeByteGroup()
	switch sub {
	case 0:
		return cpu.incByteOp(op)
	case 1:
		return cpu.decByteOp(op)
	default:
		log.Errorf("%05X: reserved group 4 encoding %d", cpu.currentAddress, sub)
		return cpu.intN(6)
	}
}

// group5 handles opcode 0xFF: INC, DEC, CALL, CALL FAR, JMP, JMP FAR and
// PUSH on a word r/m
func (cpu *MG8088) group5() int {
	op, sub := cpu.decodeWordGroup()
	switch sub {
	case 0:
		return cpu.incWordOp(op)
	case 1:
		return cpu.decWordOp(op)
	case 2:
		return cpu.callWord(op)
	case 3:
		return cpu.callFar(op)
	case 4:
		return cpu.jmpWord(op)
	case 5:
		return cpu.jmpFar(op)
	case 6:
		return cpu.pushOp(op)
	default:
		log.Errorf("%05X: reserved group 5 encoding %d", cpu.currentAddress, sub)
		return cpu.intN(6)
	}
}

// BCD adjustments and sign extensions

func (cpu *MG8088) daa() int {
	cpu.regs.SetByte(AL, cpu.flags.Daa(cpu.regs.GetByte(AL)))
	return 4
}

func (cpu *MG8088) das() int {
	cpu.regs.SetByte(AL, cpu.flags.Das(cpu.regs.GetByte(AL)))
	return 4
}

func (cpu *MG8088) aaa() int {
	al, ah := cpu.flags.Aaa(cpu.regs.GetByte(AL), cpu.regs.GetByte(AH))
	cpu.regs.SetByte(AL, al)
	cpu.regs.SetByte(AH, ah)
	return 8
}

func (cpu *MG8088) aas() int {
	al, ah := cpu.flags.Aas(cpu.regs.GetByte(AL), cpu.regs.GetByte(AH))
	cpu.regs.SetByte(AL, al)
	cpu.regs.SetByte(AH, ah)
	return 8
}

func (cpu *MG8088) aam() int {
	divisor := cpu.mem.NextByte()
	al, ah, ok := cpu.flags.Aam(cpu.regs.GetByte(AL), divisor)
	if !ok {
		return cpu.intN(0)
	}
	cpu.regs.SetByte(AL, al)
	cpu.regs.SetByte(AH, ah)
	return 83
}

func (cpu *MG8088) aad() int {
	mult := cpu.mem.NextByte()
	al := cpu.flags.Aad(cpu.regs.GetByte(AL), cpu.regs.GetByte(AH), mult)
	cpu.regs.SetByte(AL, al)
	cpu.regs.SetByte(AH, 0)
	return 60
}

// cbw sign-extends AL into AH
func (cpu *MG8088) cbw() int {
	if cpu.regs.GetByte(AL)&0x80 != 0 {
		cpu.regs.SetByte(AH, 0xFF)
	} else {
		cpu.regs.SetByte(AH, 0)
	}
	return 2
}

// cwd sign-extends AX into DX
func (cpu *MG8088) cwd() int {
	if cpu.regs.AX&0x8000 != 0 {
		cpu.regs.DX = 0xFFFF
	} else {
		cpu.regs.DX = 0
	}
	return 5
}
