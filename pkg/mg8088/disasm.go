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

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

// Trace disassembly. Decoding is not required for emulation; it feeds the
// per-instruction trace log and the disasm tool.

// disasmCurrent decodes the instruction at CS:IP for the trace log
func (cpu *MG8088) disasmCurrent() string {
	addr := cpu.mem.CurrentAddress()
	var buf [8]byte
	for i := range buf {
		buf[i] = cpu.mem.GetByteAt(addr + i)
	}
	inst, err := x86asm.Decode(buf[:], 16)
	if err != nil {
		return fmt.Sprintf("db %02X", buf[0])
	}
	return x86asm.IntelSyntax(inst, uint64(addr), nil)
}

// Disassemble decodes a stretch of 16-bit code starting at org, one line
// per instruction. Undecodable bytes are emitted as data and skipped.
func Disassemble(code []byte, org uint64) []string {
	var lines []string
	pc := uint64(0)
	for int(pc) < len(code) {
		inst, err := x86asm.Decode(code[pc:], 16)
		if err != nil {
			lines = append(lines, fmt.Sprintf("%05X: db %02X", org+pc, code[pc]))
			pc++
			continue
		}
		lines = append(lines, fmt.Sprintf("%05X: %s", org+pc, x86asm.IntelSyntax(inst, org+pc, nil)))
		pc += uint64(inst.Len)
	}
	return lines
}
