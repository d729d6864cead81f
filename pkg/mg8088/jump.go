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

// Control transfer: jumps, calls, returns, interrupts, the loop opcodes
// and the REP prefix.

// jmpWord is the indirect near jump: IP from a register or memory word
func (cpu *MG8088) jmpWord(op wordOperand) int {
	cpu.mem.IP = cpu.readWord(op)
	return 15
}

// jmpAddr is the direct far jump with segment and offset in the stream
func (cpu *MG8088) jmpAddr() int {
	off := cpu.mem.NextWord()
	seg := cpu.mem.NextWord()
	cpu.mem.CS = seg
	cpu.mem.IP = off
	return 15
}

// jmpFar is the indirect far jump: offset and segment read from memory
func (cpu *MG8088) jmpFar(op wordOperand) int {
	if !op.isMem() {
		panic("mg8088: far jump needs a memory operand")
	}
	cpu.mem.UseSegment(op.segment)
	off := cpu.mem.GetWord(op.off)
	seg := cpu.mem.GetWord(op.off + 2)
	cpu.mem.CS = seg
	cpu.mem.IP = off
	return 24 + op.cycles
}

// jmpRel is the short conditional/unconditional jump with an 8-bit
// displacement. Taken jumps cost more than skipped ones.
func (cpu *MG8088) jmpRel(condition bool) int {
	rel := int8(cpu.mem.NextByte())
	if condition {
		cpu.mem.IP = uint16(int16(cpu.mem.IP) + int16(rel))
		return 16
	}
	return 4
}

// jmpRelWord is the near jump with a 16-bit displacement
func (cpu *MG8088) jmpRelWord() int {
	rel := int16(cpu.mem.NextWord())
	cpu.mem.IP = uint16(int16(cpu.mem.IP) + rel)
	return 15
}

// callWord is the indirect near call
func (cpu *MG8088) callWord(op wordOperand) int {
	target := cpu.readWord(op)
	cpu.push(cpu.mem.IP)
	cpu.mem.IP = target
	if op.isMem() {
		return 29 + op.cycles
	}
	return 21
}

// callRelWord is the direct near call with a 16-bit displacement
func (cpu *MG8088) callRelWord() int {
	rel := int16(cpu.mem.NextWord())
	cpu.push(cpu.mem.IP)
	cpu.mem.IP = uint16(int16(cpu.mem.IP) + rel)
	return 21
}

// callAddr is the direct far call
func (cpu *MG8088) callAddr() int {
	off := cpu.mem.NextWord()
	seg := cpu.mem.NextWord()
	cpu.push(cpu.mem.CS)
	cpu.push(cpu.mem.IP)
	cpu.mem.CS = seg
	cpu.mem.IP = off
	return 36
}

// callFar is the indirect far call: offset and segment from memory
func (cpu *MG8088) callFar(op wordOperand) int {
	if !op.isMem() {
		panic("mg8088: far call needs a memory operand")
	}
	cpu.mem.UseSegment(op.segment)
	off := cpu.mem.GetWord(op.off)
	seg := cpu.mem.GetWord(op.off + 2)
	cpu.push(cpu.mem.CS)
	cpu.push(cpu.mem.IP)
	cpu.mem.CS = seg
	cpu.mem.IP = off
	return 53 + op.cycles
}

// ret pops IP; the delta form then releases callee arguments
func (cpu *MG8088) ret(withDelta bool) int {
	var delta uint16
	if withDelta {
		delta = cpu.mem.NextWord()
	}
	cpu.mem.IP = cpu.pop()
	if withDelta {
		cpu.regs.SP += delta
		return 24
	}
	return 20
}

// retf pops IP then CS; the delta is applied after both pops
func (cpu *MG8088) retf(withDelta bool) int {
	var delta uint16
	if withDelta {
		delta = cpu.mem.NextWord()
	}
	cpu.mem.IP = cpu.pop()
	cpu.mem.CS = cpu.pop()
	if withDelta {
		cpu.regs.SP += delta
		return 33
	}
	return 34
}

// intN runs the full interrupt sequence: push FLAGS, clear IF and TF,
// push CS:IP, load the handler from the vector table at 0:n*4
func (cpu *MG8088) intN(index uint8) int {
	cpu.push(cpu.flags.Word())
	cpu.flags.Interrupt = false
	cpu.flags.Trap = false
	cpu.push(cpu.mem.CS)
	cpu.push(cpu.mem.IP)
	if log.Enabled(log.LevelDebug) {
		log.Debugf("interrupt %02X", index)
		cpu.PrintRegisters()
	}
	cpu.mem.IP = cpu.mem.GetWordAt(int(index) * 4)
	cpu.mem.CS = cpu.mem.GetWordAt(int(index)*4 + 2)
	return 72
}

// intImm is opcode 0xCD
func (cpu *MG8088) intImm() int {
	return cpu.intN(cpu.mem.NextByte())
}

// into raises INT 4 when OF is set
func (cpu *MG8088) into() int {
	if cpu.flags.Overflow {
		return cpu.intN(4)
	}
	return 4
}

// iret pops IP, CS and FLAGS
func (cpu *MG8088) iret() int {
	cpu.mem.IP = cpu.pop()
	cpu.mem.CS = cpu.pop()
	cpu.flags.SetWord(cpu.pop())
	return 44
}

// loopRel decrements CX and jumps while it is non-zero and the extra
// condition holds (LOOPE/LOOPNE test ZF)
func (cpu *MG8088) loopRel(condition bool) int {
	rel := int8(cpu.mem.NextByte())
	cpu.regs.CX--
	if cpu.regs.CX != 0 && condition {
		cpu.mem.IP = uint16(int16(cpu.mem.IP) + int16(rel))
		return 17
	}
	return 5
}

// jcxz jumps when CX is zero without decrementing it
func (cpu *MG8088) jcxz() int {
	rel := int8(cpu.mem.NextByte())
	if cpu.regs.CX == 0 {
		cpu.mem.IP = uint16(int16(cpu.mem.IP) + int16(rel))
		return 18
	}
	return 6
}

// halt stops scheduling CPU steps until a hardware interrupt arrives
func (cpu *MG8088) halt() int {
	cpu.halted = true
	return 2
}

func isSegmentPrefix(b uint8) bool {
	return b == 0x26 || b == 0x2E || b == 0x36 || b == 0x3E
}

// isCompareString reports whether the opcode is CMPS or SCAS, the two
// string primitives whose ZF result the REPZ/REPNZ sense tests
func isCompareString(b uint8) bool {
	return b == 0xA6 || b == 0xA7 || b == 0xAE || b == 0xAF
}

// rep runs one iteration of the following string primitive per dispatch,
// then rewinds IP to the prefix byte while the loop should continue. The
// scheduler therefore re-enters the prefix for every iteration, which is
// what lets a pending hardware interrupt land on an iteration boundary.
func (cpu *MG8088) rep(wantZero bool) int {
	next := cpu.mem.PeekByte()
	conditional := isCompareString(next)

	if cpu.regs.CX == 0 {
		// loop already satisfied: skip over the string primitive
		for isSegmentPrefix(cpu.mem.NextByte()) {
		}
		if !conditional {
			cpu.flags.Zero = true
		}
		return 2
	}

	prevIP := cpu.mem.IP
	cycles := cpu.execute()
	cpu.regs.CX--

	again := cpu.regs.CX != 0
	if conditional && cpu.flags.Zero != wantZero {
		again = false
	}
	if again {
		// back to the prefix byte; the next step re-enters here
		cpu.mem.IP = prevIP - 1
	} else if cpu.regs.CX == 0 && !conditional {
		cpu.flags.Zero = true
	}
	return cycles + 2
}
