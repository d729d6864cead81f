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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/master-g/goxt/pkg/scheduler"
)

func TestResetVectorAndFarJump(t *testing.T) {
	sched := scheduler.New()
	board := &testBoard{sched: sched, inByte: map[uint16]uint8{}, inWord: map[uint16]uint16{}}
	bios := make([]byte, biosROMSize)
	// JMP F000:E05B at the reset vector
	copy(bios[0xFFF0:], []byte{0xEA, 0x5B, 0xE0, 0x00, 0xF0})
	cpu, err := New(board, sched, bios, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, uint16(0xF000), cpu.mem.CS)
	assert.Equal(t, uint16(0xFFF0), cpu.mem.IP)
	assert.Equal(t, uint16(0), cpu.mem.SS)
	assert.Equal(t, uint16(0), cpu.mem.DS)
	assert.Equal(t, uint16(0), cpu.mem.ES)
	assert.False(t, cpu.flags.Carry)
	assert.False(t, cpu.flags.Interrupt)

	cpu.Step()
	assert.Equal(t, uint16(0xF000), cpu.mem.CS)
	assert.Equal(t, uint16(0xE05B), cpu.mem.IP)
}

func TestBadBIOSSizeRejected(t *testing.T) {
	sched := scheduler.New()
	board := &testBoard{sched: sched}
	_, err := New(board, sched, make([]byte, 0x8000), nil, nil)
	assert.Error(t, err)
	_, err = New(board, sched, make([]byte, biosROMSize), make([]byte, 0x9000), nil)
	assert.Error(t, err)
}

func TestOptionROMPlacement(t *testing.T) {
	sched := scheduler.New()
	board := &testBoard{sched: sched}
	video := []byte{0x55, 0xAA}
	disk := []byte{0xA5, 0x5A}
	cpu, err := New(board, sched, make([]byte, biosROMSize), video, disk)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x55), cpu.mem.GetByteAt(0xC0000))
	assert.Equal(t, uint8(0xAA), cpu.mem.GetByteAt(0xC0001))
	assert.Equal(t, uint8(0xA5), cpu.mem.GetByteAt(0xC8000))
	// the rest of the slots pad with zeros
	assert.Equal(t, uint8(0), cpu.mem.GetByteAt(0xC0002))
	assert.Equal(t, uint8(0), cpu.mem.GetByteAt(0xEFFFF))
}

func TestPushPopInverse(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0x50, 0x5B}) // PUSH AX; POP BX
	cpu.regs.AX = 0xCAFE
	sp := cpu.regs.SP
	stepN(cpu, 2)
	assert.Equal(t, uint16(0xCAFE), cpu.regs.BX)
	assert.Equal(t, sp, cpu.regs.SP)
}

func TestMovImmediateAndRegister(t *testing.T) {
	// MOV AX,1234h; MOV BX,AX; MOV [BX],AL
	cpu, _, _ := newTestCPU(t, []byte{0xB8, 0x34, 0x12, 0x89, 0xC3, 0x88, 0x07})
	stepN(cpu, 3)
	assert.Equal(t, uint16(0x1234), cpu.regs.AX)
	assert.Equal(t, uint16(0x1234), cpu.regs.BX)
	assert.Equal(t, uint8(0x34), cpu.mem.GetByteAt(0x1234))
}

func TestSegmentOverridePrefixInstruction(t *testing.T) {
	// MOV AL,[ES:BX] then MOV AL,[BX]
	cpu, _, _ := newTestCPU(t, []byte{0x26, 0x8A, 0x07, 0x8A, 0x07})
	cpu.mem.ES = 0x2000
	cpu.regs.BX = 0x0010
	cpu.mem.SetByteAt(0x20010, 0xEE)
	cpu.mem.SetByteAt(0x00010, 0x11)

	cpu.Step()
	assert.Equal(t, uint8(0xEE), cpu.regs.GetByte(AL))
	// the override does not survive the instruction boundary
	cpu.Step()
	assert.Equal(t, uint8(0x11), cpu.regs.GetByte(AL))
}

func TestDivByZeroRaisesINT0(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0xF6, 0xF3}) // DIV BL
	// vector 0 -> 3000:2000
	cpu.mem.SetByteAt(0x0000, 0x00)
	cpu.mem.SetByteAt(0x0001, 0x20)
	cpu.mem.SetByteAt(0x0002, 0x00)
	cpu.mem.SetByteAt(0x0003, 0x30)
	cpu.regs.AX = 0x8000
	cpu.regs.SetByte(BL, 0)
	cpu.flags.Interrupt = true
	sp := cpu.regs.SP

	cpu.Step()
	assert.Equal(t, uint16(0x2000), cpu.mem.IP)
	assert.Equal(t, uint16(0x3000), cpu.mem.CS)
	assert.False(t, cpu.flags.Interrupt)
	assert.Equal(t, sp-6, cpu.regs.SP)
	// the pushed FLAGS still have IF set
	cpu.mem.UseSegment(SS)
	assert.NotZero(t, cpu.mem.GetWord(cpu.regs.SP+4)&(1<<9))
}

func TestQuotientOverflowRaisesINT0(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0xF6, 0xF3}) // DIV BL
	cpu.mem.SetByteAt(0x0001, 0x20)
	cpu.regs.AX = 0x8000
	cpu.regs.SetByte(BL, 1)
	cpu.Step()
	assert.Equal(t, uint16(0x2000), cpu.mem.IP)
}

func TestFarCallRetfRoundTrip(t *testing.T) {
	// CALL 1234:5678 / RETF at the target
	cpu, _, _ := newTestCPU(t, []byte{0x9A, 0x78, 0x56, 0x34, 0x12})
	cpu.regs.SP = 0x0100
	cpu.mem.SetByteAt(PhysicalAddr(0x1234, 0x5678), 0xCB)

	cpu.Step()
	assert.Equal(t, uint16(0x1234), cpu.mem.CS)
	assert.Equal(t, uint16(0x5678), cpu.mem.IP)
	assert.Equal(t, uint16(0x00FC), cpu.regs.SP)

	cpu.Step()
	assert.Equal(t, uint16(0x0000), cpu.mem.CS)
	assert.Equal(t, uint16(0x0105), cpu.mem.IP)
	assert.Equal(t, uint16(0x0100), cpu.regs.SP)
}

func TestNearCallRetWithDelta(t *testing.T) {
	// CALL rel16 to 0x0200; handler: RET 4
	cpu, _, _ := newTestCPU(t, []byte{0xE8, 0xFD, 0x00}) // 0x103 + 0x00FD = 0x200
	copy3 := []byte{0xC2, 0x04, 0x00}
	for i, b := range copy3 {
		cpu.mem.SetByteAt(0x0200+i, b)
	}
	sp := cpu.regs.SP
	cpu.Step()
	assert.Equal(t, uint16(0x0200), cpu.mem.IP)
	cpu.Step()
	assert.Equal(t, uint16(0x0103), cpu.mem.IP)
	assert.Equal(t, sp+4, cpu.regs.SP)
}

func TestRepMovsbMovesExactlyCXBytes(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0xF3, 0xA4}) // REP MOVSB
	cpu.regs.SI = 0x1000
	cpu.regs.DI = 0x1800
	cpu.regs.CX = 5
	src := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x99}
	for i, b := range src {
		cpu.mem.SetByteAt(0x1000+i, b)
	}

	// each step runs one iteration and rewinds IP onto the prefix
	for i := 0; i < 5; i++ {
		require.Equal(t, uint16(0x0100), cpu.mem.IP)
		cpu.Step()
	}
	assert.Equal(t, uint16(0), cpu.regs.CX)
	assert.True(t, cpu.flags.Zero)
	assert.Equal(t, uint16(0x0102), cpu.mem.IP)
	for i, b := range src {
		assert.Equal(t, b, cpu.mem.GetByteAt(0x1800+i))
	}
	assert.Equal(t, uint16(0x1005), cpu.regs.SI)
	assert.Equal(t, uint16(0x1805), cpu.regs.DI)
}

func TestRepWithZeroCXSkipsPrimitive(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0xF3, 0xA4, 0x90}) // REP MOVSB; NOP
	cpu.regs.CX = 0
	cpu.regs.DI = 0x1800
	cpu.Step()
	assert.Equal(t, uint16(0x0102), cpu.mem.IP)
	assert.Equal(t, uint16(0x1800), cpu.regs.DI)
}

func TestRepneScasbStopsOnMatch(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0xF2, 0xAE}) // REPNE SCASB
	cpu.regs.DI = 0x1800
	cpu.regs.CX = 8
	cpu.regs.SetByte(AL, 0x42)
	data := []byte{0x00, 0x11, 0x42, 0x33}
	for i, b := range data {
		cpu.mem.SetByteAt(0x1800+i, b)
	}

	for cpu.mem.IP == 0x0100 {
		cpu.Step()
	}
	// matched the third byte: two misses plus the hit
	assert.Equal(t, uint16(8-3), cpu.regs.CX)
	assert.Equal(t, uint16(0x1803), cpu.regs.DI)
	assert.True(t, cpu.flags.Zero)
}

func TestDirectionFlagDrivesStringIndexes(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0xFD, 0xA4, 0xFC, 0xA4}) // STD; MOVSB; CLD; MOVSB
	cpu.regs.SI = 0x1000
	cpu.regs.DI = 0x1800

	stepN(cpu, 2)
	assert.Equal(t, uint16(0x0FFF), cpu.regs.SI)
	assert.Equal(t, uint16(0x17FF), cpu.regs.DI)

	stepN(cpu, 2)
	assert.Equal(t, uint16(0x1000), cpu.regs.SI)
	assert.Equal(t, uint16(0x1800), cpu.regs.DI)
}

func TestHltWaitsForInterrupt(t *testing.T) {
	cpu, _, sched := newTestCPU(t, []byte{0xFB, 0xF4}) // STI; HLT
	// vector 8 -> 0000:0300
	cpu.mem.SetByteAt(8*4, 0x00)
	cpu.mem.SetByteAt(8*4+1, 0x03)
	cpu.mem.SetByteAt(0x0300, 0xF4) // handler halts again

	stepN(cpu, 3) // the third step observes the halt and does nothing
	assert.True(t, cpu.halted)

	cpu.Interrupt(0x08)
	// the wake-up step the interrupt queued delivers the vector
	for sched.Next() {
	}
	assert.Equal(t, uint16(0x0300+1), cpu.mem.IP)
	assert.True(t, cpu.halted)
}

func TestPendingInterruptWaitsForIF(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0x90, 0xFB, 0x90}) // NOP; STI; NOP
	cpu.mem.SetByteAt(8*4+1, 0x03)                       // vector 8 -> 0000:0300

	cpu.Interrupt(0x08)
	cpu.Step() // IF clear: the NOP runs, the interrupt stays latched
	assert.Equal(t, uint16(0x0101), cpu.mem.IP)
	cpu.Step() // STI
	cpu.Step() // delivered before the next instruction
	assert.Equal(t, uint16(0x0300), cpu.mem.IP)
	assert.False(t, cpu.flags.Interrupt)
}

func TestInWritesALThroughReply(t *testing.T) {
	cpu, board, sched := newTestCPU(t, []byte{0xE4, 0x42}) // IN AL,42h
	board.inByte[0x42] = 0x5A
	cpu.Step()
	// the reply has not landed inside the step
	assert.Equal(t, uint8(0x00), cpu.regs.GetByte(AL))
	// it is the next thing the scheduler delivers, before the next step
	sched.Next()
	assert.Equal(t, uint8(0x5A), cpu.regs.GetByte(AL))
}

func TestOutReachesBoard(t *testing.T) {
	cpu, board, _ := newTestCPU(t, []byte{0xE6, 0x61}) // OUT 61h,AL
	cpu.regs.SetByte(AL, 0x4D)
	cpu.Step()
	require.Len(t, board.outs, 1)
	assert.Equal(t, uint16(0x61), board.outs[0].port)
	assert.Equal(t, uint16(0x4D), board.outs[0].value)
}

func TestInvalidOpcodeTraps(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0xF1})
	cpu.mem.SetByteAt(6*4, 0x00)
	cpu.mem.SetByteAt(6*4+1, 0x04) // vector 6 -> 0000:0400
	cpu.Step()
	assert.Equal(t, uint16(0x0400), cpu.mem.IP)
}

func TestIntoTakenOnlyOnOverflow(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0xCE, 0xCE})
	cpu.mem.SetByteAt(4*4+1, 0x05) // vector 4 -> 0000:0500
	cpu.Step()
	assert.Equal(t, uint16(0x0101), cpu.mem.IP)
	cpu.flags.Overflow = true
	cpu.Step()
	assert.Equal(t, uint16(0x0500), cpu.mem.IP)
}

func TestIntIretRoundTrip(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0xCD, 0x21}) // INT 21h
	cpu.mem.SetByteAt(0x21*4, 0x00)
	cpu.mem.SetByteAt(0x21*4+1, 0x06) // vector 21 -> 0000:0600
	cpu.mem.SetByteAt(0x0600, 0xCF)   // IRET
	cpu.flags.Interrupt = true
	cpu.flags.Carry = true
	sp := cpu.regs.SP

	cpu.Step()
	assert.Equal(t, uint16(0x0600), cpu.mem.IP)
	assert.False(t, cpu.flags.Interrupt)

	cpu.Step()
	assert.Equal(t, uint16(0x0102), cpu.mem.IP)
	assert.True(t, cpu.flags.Interrupt)
	assert.True(t, cpu.flags.Carry)
	assert.Equal(t, sp, cpu.regs.SP)
}

func TestLoopAndJcxz(t *testing.T) {
	// LOOP $ : spins CX down to zero
	cpu, _, _ := newTestCPU(t, []byte{0xE2, 0xFE})
	cpu.regs.CX = 3
	cpu.Step()
	assert.Equal(t, uint16(0x0100), cpu.mem.IP)
	stepN(cpu, 2)
	assert.Equal(t, uint16(0x0102), cpu.mem.IP)
	assert.Equal(t, uint16(0), cpu.regs.CX)

	// JCXZ with CX zero takes the branch
	cpu2, _, _ := newTestCPU(t, []byte{0xE3, 0x10})
	cpu2.regs.CX = 0
	cpu2.Step()
	assert.Equal(t, uint16(0x0112), cpu2.mem.IP)
}

func TestConditionalJumps(t *testing.T) {
	// JZ taken and not taken
	cpu, _, _ := newTestCPU(t, []byte{0x74, 0x10, 0x74, 0x10})
	cpu.flags.Zero = false
	cpu.Step()
	assert.Equal(t, uint16(0x0102), cpu.mem.IP)
	cpu.flags.Zero = true
	cpu.Step()
	assert.Equal(t, uint16(0x0114), cpu.mem.IP)
}

func TestAliasedOpcodeBlockExecutesJcc(t *testing.T) {
	// 0x74 and its 8088 alias 0x64 behave identically
	cpu, _, _ := newTestCPU(t, []byte{0x64, 0x10})
	cpu.flags.Zero = true
	cpu.Step()
	assert.Equal(t, uint16(0x0112), cpu.mem.IP)
}

func TestXlat(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0xD7})
	cpu.regs.BX = 0x2000
	cpu.regs.SetByte(AL, 0x05)
	cpu.mem.SetByteAt(0x2005, 0x77)
	cpu.Step()
	assert.Equal(t, uint8(0x77), cpu.regs.GetByte(AL))
}

func TestLdsLoadsPointerPair(t *testing.T) {
	// LDS SI,[0x2000]
	cpu, _, _ := newTestCPU(t, []byte{0xC5, 0x36, 0x00, 0x20})
	cpu.mem.SetByteAt(0x2000, 0x78)
	cpu.mem.SetByteAt(0x2001, 0x56)
	cpu.mem.SetByteAt(0x2002, 0x34)
	cpu.mem.SetByteAt(0x2003, 0x12)
	cpu.Step()
	assert.Equal(t, uint16(0x5678), cpu.regs.SI)
	assert.Equal(t, uint16(0x1234), cpu.mem.DS)
}

func TestLeaStoresOffsetNotContents(t *testing.T) {
	// LEA AX,[BX+SI+5]
	cpu, _, _ := newTestCPU(t, []byte{0x8D, 0x40, 0x05})
	cpu.regs.BX = 0x1000
	cpu.regs.SI = 0x0020
	cpu.Step()
	assert.Equal(t, uint16(0x1025), cpu.regs.AX)
}

func TestShiftGroupThroughDispatch(t *testing.T) {
	// SHL AL,1 ; SHR AL,CL
	cpu, _, _ := newTestCPU(t, []byte{0xD0, 0xE0, 0xD2, 0xE8})
	cpu.regs.SetByte(AL, 0x81)
	cpu.Step()
	assert.Equal(t, uint8(0x02), cpu.regs.GetByte(AL))
	assert.True(t, cpu.flags.Carry)

	cpu.regs.SetByte(CL, 1)
	cpu.Step()
	assert.Equal(t, uint8(0x01), cpu.regs.GetByte(AL))
	assert.False(t, cpu.flags.Carry)
}

func TestGroup1SignExtendedImmediate(t *testing.T) {
	// ADD AX,-1 via the 0x83 sign-extended form
	cpu, _, _ := newTestCPU(t, []byte{0x83, 0xC0, 0xFF})
	cpu.regs.AX = 5
	cpu.Step()
	assert.Equal(t, uint16(4), cpu.regs.AX)
	assert.True(t, cpu.flags.Carry)
}

func TestCbwCwd(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0x98, 0x99}) // CBW; CWD
	cpu.regs.SetByte(AL, 0x80)
	cpu.Step()
	assert.Equal(t, uint16(0xFF80), cpu.regs.AX)
	cpu.Step()
	assert.Equal(t, uint16(0xFFFF), cpu.regs.DX)
}

func TestPushfPopfRoundTrip(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0x9C, 0xF8, 0x9D}) // PUSHF; CLC; POPF
	cpu.flags.Carry = true
	cpu.flags.Zero = true
	stepN(cpu, 3)
	assert.True(t, cpu.flags.Carry)
	assert.True(t, cpu.flags.Zero)
}

func TestXchgAXShorthand(t *testing.T) {
	cpu, _, _ := newTestCPU(t, []byte{0x93}) // XCHG AX,BX
	cpu.regs.AX = 0x1111
	cpu.regs.BX = 0x2222
	cpu.Step()
	assert.Equal(t, uint16(0x2222), cpu.regs.AX)
	assert.Equal(t, uint16(0x1111), cpu.regs.BX)
}

func TestMovSegmentRegister(t *testing.T) {
	// MOV AX,0x3000; MOV DS,AX
	cpu, _, _ := newTestCPU(t, []byte{0xB8, 0x00, 0x30, 0x8E, 0xD8})
	stepN(cpu, 2)
	assert.Equal(t, uint16(0x3000), cpu.mem.DS)
}

func TestWriteToImmediatePanics(t *testing.T) {
	cpu, _, _ := newTestCPU(t, nil)
	assert.Panics(t, func() {
		cpu.writeByte(byteImm(1), 2)
	})
	assert.Panics(t, func() {
		cpu.writeWord(wordImm(1), 2)
	})
}
