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

	"github.com/stretchr/testify/require"

	"github.com/master-g/goxt/pkg/scheduler"
)

// portWrite records one OUT the CPU issued
type portWrite struct {
	port  uint16
	value uint16
	word  bool
}

// testBoard is a fake I/O fabric: it records OUTs and answers INs from a
// canned value table, delivering replies through the scheduler like the
// real board does
type testBoard struct {
	sched  *scheduler.Scheduler
	outs   []portWrite
	inByte map[uint16]uint8
	inWord map[uint16]uint16
}

func (b *testBoard) OutByte(port uint16, value uint8) {
	b.outs = append(b.outs, portWrite{port: port, value: uint16(value)})
}

func (b *testBoard) OutWord(port uint16, value uint16) {
	b.outs = append(b.outs, portWrite{port: port, value: value, word: true})
}

func (b *testBoard) InByte(port uint16, reply func(uint8)) {
	v := b.inByte[port]
	b.sched.Call(func() { reply(v) })
}

func (b *testBoard) InWord(port uint16, reply func(uint16)) {
	v := b.inWord[port]
	b.sched.Call(func() { reply(v) })
}

// newTestCPU builds a CPU with an empty BIOS and the given code placed at
// 0000:0100, ready to step
func newTestCPU(t *testing.T, code []byte) (*MG8088, *testBoard, *scheduler.Scheduler) {
	t.Helper()
	sched := scheduler.New()
	board := &testBoard{
		sched:  sched,
		inByte: make(map[uint16]uint8),
		inWord: make(map[uint16]uint16),
	}
	cpu, err := New(board, sched, make([]byte, biosROMSize), nil, nil)
	require.NoError(t, err)

	for i, b := range code {
		cpu.mem.SetByteAt(0x00100+i, b)
	}
	cpu.mem.CS = 0x0000
	cpu.mem.IP = 0x0100
	cpu.regs.SP = 0x8000
	cpu.mem.SS = 0x0000
	return cpu, board, sched
}

// stepN retires n instructions
func stepN(cpu *MG8088, n int) {
	for i := 0; i < n; i++ {
		cpu.Step()
	}
}
