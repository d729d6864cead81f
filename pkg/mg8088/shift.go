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

// Shift and rotate group, opcodes 0xD0-0xD3. The ModR/M reg field selects
// the operation, the low opcode bits select byte/word width and a count of
// one versus CL. The undocumented reg encoding 6 behaves as SHL.

type shiftByteFn func(f *Flags, v uint8, count uint8) uint8
type shiftWordFn func(f *Flags, v uint16, count uint8) uint16

var shiftByteOps = [8]shiftByteFn{
	(*Flags).RolByte,
	(*Flags).RorByte,
	(*Flags).RclByte,
	(*Flags).RcrByte,
	(*Flags).ShlByte,
	(*Flags).ShrByte,
	(*Flags).ShlByte,
	(*Flags).SarByte,
}

var shiftWordOps = [8]shiftWordFn{
	(*Flags).RolWord,
	(*Flags).RorWord,
	(*Flags).RclWord,
	(*Flags).RcrWord,
	(*Flags).ShlWord,
	(*Flags).ShrWord,
	(*Flags).ShlWord,
	(*Flags).SarWord,
}

// group2Byte runs a byte shift/rotate with count 1 or CL
func (cpu *MG8088) group2Byte(byCL bool) int {
	op, sub := cpu.decodeByteGroup()
	count := uint8(1)
	if byCL {
		count = cpu.regs.GetByte(CL)
	}
	cpu.writeByte(op, shiftByteOps[sub](&cpu.flags, cpu.readByte(op), count))
	return shiftCycles(op.isMem(), op.cycles, byCL, count)
}

// group2Word runs a word shift/rotate with count 1 or CL
func (cpu *MG8088) group2Word(byCL bool) int {
	op, sub := cpu.decodeWordGroup()
	count := uint8(1)
	if byCL {
		count = cpu.regs.GetByte(CL)
	}
	cpu.writeWord(op, shiftWordOps[sub](&cpu.flags, cpu.readWord(op), count))
	return shiftCycles(op.isMem(), op.cycles, byCL, count)
}
