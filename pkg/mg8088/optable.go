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

// The primary dispatch table. Group opcodes (0x80-0x83, 0xD0-0xD3,
// 0xF6-0xF7, 0xFE-0xFF) select their operation from the ModR/M reg field;
// prefixes latch state and re-enter dispatch. Entries left nil raise the
// invalid-opcode trap. On the 8088 the 0x60-0x6F block aliases the
// conditional jumps at 0x70-0x7F and 0xC0/C1/C8/C9 alias the RET forms.

type opFunc func(cpu *MG8088) int

type instruction struct {
	name string
	op   opFunc
}

// adapters binding operand decode patterns to handler methods

func aluRMR8(fn aluByteFn) opFunc {
	return func(cpu *MG8088) int {
		rm, r := cpu.decodeByteRM()
		return cpu.aluByte(rm, r, fn)
	}
}

func aluRRM8(fn aluByteFn) opFunc {
	return func(cpu *MG8088) int {
		rm, r := cpu.decodeByteRM()
		return cpu.aluByte(r, rm, fn)
	}
}

func aluRMR16(fn aluWordFn) opFunc {
	return func(cpu *MG8088) int {
		rm, r := cpu.decodeWordRM()
		return cpu.aluWord(rm, r, fn)
	}
}

func aluRRM16(fn aluWordFn) opFunc {
	return func(cpu *MG8088) int {
		rm, r := cpu.decodeWordRM()
		return cpu.aluWord(r, rm, fn)
	}
}

func aluALImm(fn aluByteFn) opFunc {
	return func(cpu *MG8088) int {
		imm := byteImm(cpu.mem.NextByte())
		return cpu.aluByte(byteReg(AL), imm, fn)
	}
}

func aluAXImm(fn aluWordFn) opFunc {
	return func(cpu *MG8088) int {
		imm := wordImm(cpu.mem.NextWord())
		return cpu.aluWord(wordReg(AX), imm, fn)
	}
}

func cmpRMR8(cpu *MG8088) int {
	rm, r := cpu.decodeByteRM()
	return cpu.cmpByteOp(rm, r)
}

func cmpRRM8(cpu *MG8088) int {
	rm, r := cpu.decodeByteRM()
	return cpu.cmpByteOp(r, rm)
}

func cmpRMR16(cpu *MG8088) int {
	rm, r := cpu.decodeWordRM()
	return cpu.cmpWordOp(rm, r)
}

func cmpRRM16(cpu *MG8088) int {
	rm, r := cpu.decodeWordRM()
	return cpu.cmpWordOp(r, rm)
}

func cmpALImm(cpu *MG8088) int {
	imm := byteImm(cpu.mem.NextByte())
	return cpu.cmpByteOp(byteReg(AL), imm)
}

func cmpAXImm(cpu *MG8088) int {
	imm := wordImm(cpu.mem.NextWord())
	return cpu.cmpWordOp(wordReg(AX), imm)
}

func testRMR8(cpu *MG8088) int {
	rm, r := cpu.decodeByteRM()
	return cpu.testByteOp(rm, r)
}

func testRMR16(cpu *MG8088) int {
	rm, r := cpu.decodeWordRM()
	return cpu.testWordOp(rm, r)
}

func testALImm(cpu *MG8088) int {
	imm := byteImm(cpu.mem.NextByte())
	return cpu.testByteOp(byteReg(AL), imm)
}

func testAXImm(cpu *MG8088) int {
	imm := wordImm(cpu.mem.NextWord())
	return cpu.testWordOp(wordReg(AX), imm)
}

func movRMR8(cpu *MG8088) int {
	rm, r := cpu.decodeByteRM()
	return cpu.movByte(rm, r)
}

func movRRM8(cpu *MG8088) int {
	rm, r := cpu.decodeByteRM()
	return cpu.movByte(r, rm)
}

func movRMR16(cpu *MG8088) int {
	rm, r := cpu.decodeWordRM()
	return cpu.movWord(rm, r)
}

func movRRM16(cpu *MG8088) int {
	rm, r := cpu.decodeWordRM()
	return cpu.movWord(r, rm)
}

func movRMSeg(cpu *MG8088) int {
	rm, sreg := cpu.decodeWordRMSeg()
	return cpu.movWord(rm, wordSeg(sreg))
}

func movSegRM(cpu *MG8088) int {
	rm, sreg := cpu.decodeWordRMSeg()
	return cpu.movWord(wordSeg(sreg), rm)
}

func movRMImm8(cpu *MG8088) int {
	rm, _ := cpu.decodeByteGroup()
	imm := byteImm(cpu.mem.NextByte())
	return cpu.movByte(rm, imm)
}

func movRMImm16(cpu *MG8088) int {
	rm, _ := cpu.decodeWordGroup()
	imm := wordImm(cpu.mem.NextWord())
	return cpu.movWord(rm, imm)
}

func movRegImm8(reg ByteReg) opFunc {
	return func(cpu *MG8088) int {
		return cpu.movByte(byteReg(reg), byteImm(cpu.mem.NextByte()))
	}
}

func movRegImm16(reg WordReg) opFunc {
	return func(cpu *MG8088) int {
		return cpu.movWord(wordReg(reg), wordImm(cpu.mem.NextWord()))
	}
}

func xchgRMR8(cpu *MG8088) int {
	rm, r := cpu.decodeByteRM()
	return cpu.xchgByte(rm, r)
}

func xchgRMR16(cpu *MG8088) int {
	rm, r := cpu.decodeWordRM()
	return cpu.xchgWord(rm, r)
}

func pushSeg(seg Segment) opFunc {
	return func(cpu *MG8088) int { return cpu.pushOp(wordSeg(seg)) }
}

func popSeg(seg Segment) opFunc {
	return func(cpu *MG8088) int { return cpu.popOp(wordSeg(seg)) }
}

func pushReg(reg WordReg) opFunc {
	return func(cpu *MG8088) int { return cpu.pushOp(wordReg(reg)) }
}

func popReg(reg WordReg) opFunc {
	return func(cpu *MG8088) int { return cpu.popOp(wordReg(reg)) }
}

func incReg(reg WordReg) opFunc {
	return func(cpu *MG8088) int { return cpu.incReg16(reg) }
}

func decReg(reg WordReg) opFunc {
	return func(cpu *MG8088) int { return cpu.decReg16(reg) }
}

func xchgAX(reg WordReg) opFunc {
	return func(cpu *MG8088) int { return cpu.xchgAXReg(reg) }
}

func jcc(cond func(f *Flags) bool) opFunc {
	return func(cpu *MG8088) int { return cpu.jmpRel(cond(&cpu.flags)) }
}

// segPrefix latches a segment override, then runs the instruction it
// prefixes within the same dispatch
func segPrefix(seg Segment) opFunc {
	return func(cpu *MG8088) int {
		cpu.mem.SetOverride(seg)
		return 2 + cpu.execute()
	}
}

// lockPrefix is accepted and otherwise ignored; there is no second bus
// master to lock against
func lockPrefix(cpu *MG8088) int {
	return 2 + cpu.execute()
}

// esc consumes the coprocessor ModR/M and does nothing with it
func esc(cpu *MG8088) int {
	cpu.decodeWordGroup()
	return 2
}

func popRM16(cpu *MG8088) int {
	rm, _ := cpu.decodeWordGroup()
	return cpu.popOp(rm)
}

func newInstructionSet() [256]instruction {
	jccBlock := [16]instruction{
		{"JO", jcc(func(f *Flags) bool { return f.Overflow })},
		{"JNO", jcc(func(f *Flags) bool { return !f.Overflow })},
		{"JB", jcc(func(f *Flags) bool { return f.Carry })},
		{"JNB", jcc(func(f *Flags) bool { return !f.Carry })},
		{"JZ", jcc(func(f *Flags) bool { return f.Zero })},
		{"JNZ", jcc(func(f *Flags) bool { return !f.Zero })},
		{"JBE", jcc(func(f *Flags) bool { return f.Carry || f.Zero })},
		{"JA", jcc(func(f *Flags) bool { return !f.Carry && !f.Zero })},
		{"JS", jcc(func(f *Flags) bool { return f.Sign })},
		{"JNS", jcc(func(f *Flags) bool { return !f.Sign })},
		{"JP", jcc(func(f *Flags) bool { return f.Parity })},
		{"JNP", jcc(func(f *Flags) bool { return !f.Parity })},
		{"JL", jcc(func(f *Flags) bool { return f.Sign != f.Overflow })},
		{"JGE", jcc(func(f *Flags) bool { return f.Sign == f.Overflow })},
		{"JLE", jcc(func(f *Flags) bool { return f.Zero || f.Sign != f.Overflow })},
		{"JG", jcc(func(f *Flags) bool { return !f.Zero && f.Sign == f.Overflow })},
	}

	table := [256]instruction{
		0x00: {"ADD", aluRMR8((*Flags).AddByte)},
		0x01: {"ADD", aluRMR16((*Flags).AddWord)},
		0x02: {"ADD", aluRRM8((*Flags).AddByte)},
		0x03: {"ADD", aluRRM16((*Flags).AddWord)},
		0x04: {"ADD", aluALImm((*Flags).AddByte)},
		0x05: {"ADD", aluAXImm((*Flags).AddWord)},
		0x06: {"PUSH", pushSeg(ES)},
		0x07: {"POP", popSeg(ES)},
		0x08: {"OR", aluRMR8((*Flags).OrByte)},
		0x09: {"OR", aluRMR16((*Flags).OrWord)},
		0x0A: {"OR", aluRRM8((*Flags).OrByte)},
		0x0B: {"OR", aluRRM16((*Flags).OrWord)},
		0x0C: {"OR", aluALImm((*Flags).OrByte)},
		0x0D: {"OR", aluAXImm((*Flags).OrWord)},
		0x0E: {"PUSH", pushSeg(CS)},
		0x0F: {"POP", popSeg(CS)},
		0x10: {"ADC", aluRMR8((*Flags).AdcByte)},
		0x11: {"ADC", aluRMR16((*Flags).AdcWord)},
		0x12: {"ADC", aluRRM8((*Flags).AdcByte)},
		0x13: {"ADC", aluRRM16((*Flags).AdcWord)},
		0x14: {"ADC", aluALImm((*Flags).AdcByte)},
		0x15: {"ADC", aluAXImm((*Flags).AdcWord)},
		0x16: {"PUSH", pushSeg(SS)},
		0x17: {"POP", popSeg(SS)},
		0x18: {"SBB", aluRMR8((*Flags).SbbByte)},
		0x19: {"SBB", aluRMR16((*Flags).SbbWord)},
		0x1A: {"SBB", aluRRM8((*Flags).SbbByte)},
		0x1B: {"SBB", aluRRM16((*Flags).SbbWord)},
		0x1C: {"SBB", aluALImm((*Flags).SbbByte)},
		0x1D: {"SBB", aluAXImm((*Flags).SbbWord)},
		0x1E: {"PUSH", pushSeg(DS)},
		0x1F: {"POP", popSeg(DS)},
		0x20: {"AND", aluRMR8((*Flags).AndByte)},
		0x21: {"AND", aluRMR16((*Flags).AndWord)},
		0x22: {"AND", aluRRM8((*Flags).AndByte)},
		0x23: {"AND", aluRRM16((*Flags).AndWord)},
		0x24: {"AND", aluALImm((*Flags).AndByte)},
		0x25: {"AND", aluAXImm((*Flags).AndWord)},
		0x26: {"ES:", segPrefix(ES)},
		0x27: {"DAA", (*MG8088).daa},
		0x28: {"SUB", aluRMR8((*Flags).SubByte)},
		0x29: {"SUB", aluRMR16((*Flags).SubWord)},
		0x2A: {"SUB", aluRRM8((*Flags).SubByte)},
		0x2B: {"SUB", aluRRM16((*Flags).SubWord)},
		0x2C: {"SUB", aluALImm((*Flags).SubByte)},
		0x2D: {"SUB", aluAXImm((*Flags).SubWord)},
		0x2E: {"CS:", segPrefix(CS)},
		0x2F: {"DAS", (*MG8088).das},
		0x30: {"XOR", aluRMR8((*Flags).XorByte)},
		0x31: {"XOR", aluRMR16((*Flags).XorWord)},
		0x32: {"XOR", aluRRM8((*Flags).XorByte)},
		0x33: {"XOR", aluRRM16((*Flags).XorWord)},
		0x34: {"XOR", aluALImm((*Flags).XorByte)},
		0x35: {"XOR", aluAXImm((*Flags).XorWord)},
		0x36: {"SS:", segPrefix(SS)},
		0x37: {"AAA", (*MG8088).aaa},
		0x38: {"CMP", cmpRMR8},
		0x39: {"CMP", cmpRMR16},
		0x3A: {"CMP", cmpRRM8},
		0x3B: {"CMP", cmpRRM16},
		0x3C: {"CMP", cmpALImm},
		0x3D: {"CMP", cmpAXImm},
		0x3E: {"DS:", segPrefix(DS)},
		0x3F: {"AAS", (*MG8088).aas},
		0x40: {"INC", incReg(AX)},
		0x41: {"INC", incReg(CX)},
		0x42: {"INC", incReg(DX)},
		0x43: {"INC", incReg(BX)},
		0x44: {"INC", incReg(SP)},
		0x45: {"INC", incReg(BP)},
		0x46: {"INC", incReg(SI)},
		0x47: {"INC", incReg(DI)},
		0x48: {"DEC", decReg(AX)},
		0x49: {"DEC", decReg(CX)},
		0x4A: {"DEC", decReg(DX)},
		0x4B: {"DEC", decReg(BX)},
		0x4C: {"DEC", decReg(SP)},
		0x4D: {"DEC", decReg(BP)},
		0x4E: {"DEC", decReg(SI)},
		0x4F: {"DEC", decReg(DI)},
		0x50: {"PUSH", pushReg(AX)},
		0x51: {"PUSH", pushReg(CX)},
		0x52: {"PUSH", pushReg(DX)},
		0x53: {"PUSH", pushReg(BX)},
		0x54: {"PUSH", pushReg(SP)},
		0x55: {"PUSH", pushReg(BP)},
		0x56: {"PUSH", pushReg(SI)},
		0x57: {"PUSH", pushReg(DI)},
		0x58: {"POP", popReg(AX)},
		0x59: {"POP", popReg(CX)},
		0x5A: {"POP", popReg(DX)},
		0x5B: {"POP", popReg(BX)},
		0x5C: {"POP", popReg(SP)},
		0x5D: {"POP", popReg(BP)},
		0x5E: {"POP", popReg(SI)},
		0x5F: {"POP", popReg(DI)},
		0x80: {"GRP1", (*MG8088).group1Byte},
		0x81: {"GRP1", (*MG8088).group1Word},
		0x82: {"GRP1", (*MG8088).group1Byte}, // 8088 alias of 0x80
		0x83: {"GRP1", (*MG8088).group1WordSign},
		0x84: {"TEST", testRMR8},
		0x85: {"TEST", testRMR16},
		0x86: {"XCHG", xchgRMR8},
		0x87: {"XCHG", xchgRMR16},
		0x88: {"MOV", movRMR8},
		0x89: {"MOV", movRMR16},
		0x8A: {"MOV", movRRM8},
		0x8B: {"MOV", movRRM16},
		0x8C: {"MOV", movRMSeg},
		0x8D: {"LEA", (*MG8088).lea},
		0x8E: {"MOV", movSegRM},
		0x8F: {"POP", popRM16},
		0x90: {"NOP", func(cpu *MG8088) int { return 3 }},
		0x91: {"XCHG", xchgAX(CX)},
		0x92: {"XCHG", xchgAX(DX)},
		0x93: {"XCHG", xchgAX(BX)},
		0x94: {"XCHG", xchgAX(SP)},
		0x95: {"XCHG", xchgAX(BP)},
		0x96: {"XCHG", xchgAX(SI)},
		0x97: {"XCHG", xchgAX(DI)},
		0x98: {"CBW", (*MG8088).cbw},
		0x99: {"CWD", (*MG8088).cwd},
		0x9A: {"CALL", (*MG8088).callAddr},
		0x9B: {"WAIT", func(cpu *MG8088) int { return 3 }},
		0x9C: {"PUSHF", (*MG8088).pushf},
		0x9D: {"POPF", (*MG8088).popf},
		0x9E: {"SAHF", (*MG8088).sahf},
		0x9F: {"LAHF", (*MG8088).lahf},
		0xA0: {"MOV", func(cpu *MG8088) int { return cpu.movByte(byteReg(AL), cpu.directByteOperand()) }},
		0xA1: {"MOV", func(cpu *MG8088) int { return cpu.movWord(wordReg(AX), cpu.directWordOperand()) }},
		0xA2: {"MOV", func(cpu *MG8088) int { return cpu.movByte(cpu.directByteOperand(), byteReg(AL)) }},
		0xA3: {"MOV", func(cpu *MG8088) int { return cpu.movWord(cpu.directWordOperand(), wordReg(AX)) }},
		0xA4: {"MOVSB", (*MG8088).movsb},
		0xA5: {"MOVSW", (*MG8088).movsw},
		0xA6: {"CMPSB", (*MG8088).cmpsb},
		0xA7: {"CMPSW", (*MG8088).cmpsw},
		0xA8: {"TEST", testALImm},
		0xA9: {"TEST", testAXImm},
		0xAA: {"STOSB", (*MG8088).stosb},
		0xAB: {"STOSW", (*MG8088).stosw},
		0xAC: {"LODSB", (*MG8088).lodsb},
		0xAD: {"LODSW", (*MG8088).lodsw},
		0xAE: {"SCASB", (*MG8088).scasb},
		0xAF: {"SCASW", (*MG8088).scasw},
		0xB0: {"MOV", movRegImm8(AL)},
		0xB1: {"MOV", movRegImm8(CL)},
		0xB2: {"MOV", movRegImm8(DL)},
		0xB3: {"MOV", movRegImm8(BL)},
		0xB4: {"MOV", movRegImm8(AH)},
		0xB5: {"MOV", movRegImm8(CH)},
		0xB6: {"MOV", movRegImm8(DH)},
		0xB7: {"MOV", movRegImm8(BH)},
		0xB8: {"MOV", movRegImm16(AX)},
		0xB9: {"MOV", movRegImm16(CX)},
		0xBA: {"MOV", movRegImm16(DX)},
		0xBB: {"MOV", movRegImm16(BX)},
		0xBC: {"MOV", movRegImm16(SP)},
		0xBD: {"MOV", movRegImm16(BP)},
		0xBE: {"MOV", movRegImm16(SI)},
		0xBF: {"MOV", movRegImm16(DI)},
		0xC2: {"RET", func(cpu *MG8088) int { return cpu.ret(true) }},
		0xC3: {"RET", func(cpu *MG8088) int { return cpu.ret(false) }},
		0xC4: {"LES", func(cpu *MG8088) int { return cpu.lseg(ES) }},
		0xC5: {"LDS", func(cpu *MG8088) int { return cpu.lseg(DS) }},
		0xC6: {"MOV", movRMImm8},
		0xC7: {"MOV", movRMImm16},
		0xCA: {"RETF", func(cpu *MG8088) int { return cpu.retf(true) }},
		0xCB: {"RETF", func(cpu *MG8088) int { return cpu.retf(false) }},
		0xCC: {"INT3", func(cpu *MG8088) int { return cpu.intN(3) }},
		0xCD: {"INT", (*MG8088).intImm},
		0xCE: {"INTO", (*MG8088).into},
		0xCF: {"IRET", (*MG8088).iret},
		0xD0: {"GRP2", func(cpu *MG8088) int { return cpu.group2Byte(false) }},
		0xD1: {"GRP2", func(cpu *MG8088) int { return cpu.group2Word(false) }},
		0xD2: {"GRP2", func(cpu *MG8088) int { return cpu.group2Byte(true) }},
		0xD3: {"GRP2", func(cpu *MG8088) int { return cpu.group2Word(true) }},
		0xD4: {"AAM", (*MG8088).aam},
		0xD5: {"AAD", (*MG8088).aad},
		0xD7: {"XLAT", (*MG8088).xlat},
		0xD8: {"ESC", esc},
		0xD9: {"ESC", esc},
		0xDA: {"ESC", esc},
		0xDB: {"ESC", esc},
		0xDC: {"ESC", esc},
		0xDD: {"ESC", esc},
		0xDE: {"ESC", esc},
		0xDF: {"ESC", esc},
		0xE0: {"LOOPNE", func(cpu *MG8088) int { return cpu.loopRel(!cpu.flags.Zero) }},
		0xE1: {"LOOPE", func(cpu *MG8088) int { return cpu.loopRel(cpu.flags.Zero) }},
		0xE2: {"LOOP", func(cpu *MG8088) int { return cpu.loopRel(true) }},
		0xE3: {"JCXZ", (*MG8088).jcxz},
		0xE4: {"IN", (*MG8088).inALImm},
		0xE5: {"IN", (*MG8088).inAXImm},
		0xE6: {"OUT", (*MG8088).outImmAL},
		0xE7: {"OUT", (*MG8088).outImmAX},
		0xE8: {"CALL", (*MG8088).callRelWord},
		0xE9: {"JMP", (*MG8088).jmpRelWord},
		0xEA: {"JMP", (*MG8088).jmpAddr},
		0xEB: {"JMP", func(cpu *MG8088) int { return cpu.jmpRel(true) }},
		0xEC: {"IN", (*MG8088).inALDX},
		0xED: {"IN", (*MG8088).inAXDX},
		0xEE: {"OUT", (*MG8088).outDXAL},
		0xEF: {"OUT", (*MG8088).outDXAX},
		0xF0: {"LOCK", lockPrefix},
		0xF2: {"REPNZ", func(cpu *MG8088) int { return cpu.rep(false) }},
		0xF3: {"REPZ", func(cpu *MG8088) int { return cpu.rep(true) }},
		0xF4: {"HLT", (*MG8088).halt},
		0xF5: {"CMC", (*MG8088).cmc},
		0xF6: {"GRP3", (*MG8088).group3Byte},
		0xF7: {"GRP3", (*MG8088).group3Word},
		0xF8: {"CLC", (*MG8088).clc},
		0xF9: {"STC", (*MG8088).stc},
		0xFA: {"CLI", (*MG8088).cli},
		0xFB: {"STI", (*MG8088).sti},
		0xFC: {"CLD", (*MG8088).cld},
		0xFD: {"STD", (*MG8088).std},
		0xFE: {"GRP4", (*MG8088).group4},
		0xFF: {"GRP5", (*MG8088).group5},
	}

	// 0x60-0x6F execute as the conditional jumps at 0x70-0x7F on the 8088
	for i, ins := range jccBlock {
		table[0x60+i] = ins
		table[0x70+i] = ins
	}
	// 0xC0/0xC1 and 0xC8/0xC9 alias the RET/RETF encodings
	table[0xC0] = table[0xC2]
	table[0xC1] = table[0xC3]
	table[0xC8] = table[0xCA]
	table[0xC9] = table[0xCB]

	return table
}
