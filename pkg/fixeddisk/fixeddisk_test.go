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

package fixeddisk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/master-g/goxt/pkg/scheduler"
)

type irqRecorder struct {
	sched    *scheduler.Scheduler
	instants []time.Duration
}

func (r *irqRecorder) FixedDiskInterrupt() {
	r.instants = append(r.instants, r.sched.Now())
}

func newTestDisk() (*FixedDisk, *irqRecorder, *scheduler.Scheduler) {
	sched := scheduler.New()
	rec := &irqRecorder{sched: sched}
	return New(sched, rec), rec, sched
}

// sendDCB pulses the controller and feeds it a six-byte command block
func sendDCB(f *FixedDisk, opcode uint8) {
	f.Pulse(0)
	f.SendCommand(opcode)
	f.SendCommand(0x20) // drive 1, head 0
	f.SendCommand(0x01) // sector 1
	f.SendCommand(0x00) // cylinder low
	f.SendCommand(0x01) // block count
	f.SendCommand(0x00) // control field, 3ms steps
}

func TestDCBCompletionRaisesIRQAfterTenMillis(t *testing.T) {
	f, rec, sched := newTestDisk()
	sendDCB(f, 0x00) // test drive ready
	assert.Empty(t, rec.instants)
	assert.Zero(t, f.Status()&0b10_0000)

	sched.Run()
	require.Len(t, rec.instants, 1)
	assert.Equal(t, CompletionTime, rec.instants[0])
	// the status port now reports interrupted
	assert.NotZero(t, f.Status()&0b10_0000)
}

func TestPulseArmsStatusBits(t *testing.T) {
	f, _, _ := newTestDisk()
	f.Pulse(0)
	s := f.Status()
	assert.NotZero(t, s&0b1)    // request
	assert.Zero(t, s&0b10)      // mode
	assert.NotZero(t, s&0b100)  // pulsed
	assert.NotZero(t, s&0b1000) // busy
}

func TestResetClearsStateMachine(t *testing.T) {
	f, rec, sched := newTestDisk()
	f.Pulse(0)
	f.SendCommand(0x08)
	f.Reset(0)
	assert.Zero(t, f.Status())

	// a fresh pulse restarts the DCB from byte zero
	sendDCB(f, 0x01)
	sched.Run()
	assert.Len(t, rec.instants, 1)
}

func TestDriveNumberReadsBack(t *testing.T) {
	f, _, sched := newTestDisk()
	sendDCB(f, 0x03)
	sched.Run()
	assert.Equal(t, uint8(1<<5), f.Data())
}

func TestReservedCommandPanics(t *testing.T) {
	f, _, _ := newTestDisk()
	f.Pulse(0)
	f.SendCommand(0x99)
	for i := 0; i < 4; i++ {
		f.SendCommand(0)
	}
	// the sixth byte completes the DCB and trips the reserved opcode
	assert.Panics(t, func() {
		f.SendCommand(0)
	})
}

func TestStepRateTable(t *testing.T) {
	f, _, _ := newTestDisk()
	f.Pulse(0)
	for i := 0; i < 5; i++ {
		f.SendCommand(0)
	}
	f.SendCommand(0x05) // 70us steps
	assert.Equal(t, 70*time.Microsecond, f.stepTime)
}

func TestDMAInterruptEnableBits(t *testing.T) {
	f, _, _ := newTestDisk()
	f.SetDMAAndInterrupt(0b11)
	assert.True(t, f.enableDMA)
	assert.True(t, f.enableInt)
	f.SetDMAAndInterrupt(0)
	assert.False(t, f.enableDMA)
	assert.False(t, f.enableInt)
}
