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

// String primitives. Sources read DS:SI (override applies), destinations
// write ES:DI (never overridden). SI and DI advance when DF is clear and
// retreat when it is set.

func (cpu *MG8088) moveSI(amount uint16) {
	if !cpu.flags.Direction {
		cpu.regs.SI += amount
	} else {
		cpu.regs.SI -= amount
	}
}

func (cpu *MG8088) moveDI(amount uint16) {
	if !cpu.flags.Direction {
		cpu.regs.DI += amount
	} else {
		cpu.regs.DI -= amount
	}
}

// movsb copies [DS:SI] to [ES:DI]
func (cpu *MG8088) movsb() int {
	cpu.mem.UseDefaultSegment(DS)
	v := cpu.mem.GetByte(cpu.regs.SI)
	cpu.mem.UseSegment(ES)
	cpu.mem.SetByte(cpu.regs.DI, v)
	cpu.moveSI(1)
	cpu.moveDI(1)
	return 18
}

func (cpu *MG8088) movsw() int {
	cpu.mem.UseDefaultSegment(DS)
	v := cpu.mem.GetWord(cpu.regs.SI)
	cpu.mem.UseSegment(ES)
	cpu.mem.SetWord(cpu.regs.DI, v)
	cpu.moveSI(2)
	cpu.moveDI(2)
	return 26
}

// cmpsb compares [DS:SI] against [ES:DI]
func (cpu *MG8088) cmpsb() int {
	cpu.mem.UseDefaultSegment(DS)
	a := cpu.mem.GetByte(cpu.regs.SI)
	cpu.mem.UseSegment(ES)
	b := cpu.mem.GetByte(cpu.regs.DI)
	cpu.flags.CmpByte(a, b)
	cpu.moveSI(1)
	cpu.moveDI(1)
	return 30
}

func (cpu *MG8088) cmpsw() int {
	cpu.mem.UseDefaultSegment(DS)
	a := cpu.mem.GetWord(cpu.regs.SI)
	cpu.mem.UseSegment(ES)
	b := cpu.mem.GetWord(cpu.regs.DI)
	cpu.flags.CmpWord(a, b)
	cpu.moveSI(2)
	cpu.moveDI(2)
	return 30
}

// lodsb loads AL from [DS:SI]
func (cpu *MG8088) lodsb() int {
	cpu.mem.UseDefaultSegment(DS)
	cpu.regs.SetByte(AL, cpu.mem.GetByte(cpu.regs.SI))
	cpu.moveSI(1)
	return 16
}

func (cpu *MG8088) lodsw() int {
	cpu.mem.UseDefaultSegment(DS)
	cpu.regs.AX = cpu.mem.GetWord(cpu.regs.SI)
	cpu.moveSI(2)
	return 16
}

// stosb stores AL at [ES:DI]
func (cpu *MG8088) stosb() int {
	cpu.mem.UseSegment(ES)
	cpu.mem.SetByte(cpu.regs.DI, cpu.regs.GetByte(AL))
	cpu.moveDI(1)
	return 11
}

func (cpu *MG8088) stosw() int {
	cpu.mem.UseSegment(ES)
	cpu.mem.SetWord(cpu.regs.DI, cpu.regs.AX)
	cpu.moveDI(2)
	return 15
}

// scasb compares AL against [ES:DI]
func (cpu *MG8088) scasb() int {
	cpu.mem.UseSegment(ES)
	cpu.flags.CmpByte(cpu.regs.GetByte(AL), cpu.mem.GetByte(cpu.regs.DI))
	cpu.moveDI(1)
	return 19
}

func (cpu *MG8088) scasw() int {
	cpu.mem.UseSegment(ES)
	cpu.flags.CmpWord(cpu.regs.AX, cpu.mem.GetWord(cpu.regs.DI))
	cpu.moveDI(2)
	return 19
}
