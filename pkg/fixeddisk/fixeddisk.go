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

// Package fixeddisk emulates the IBM XT fixed-disk controller's command
// protocol: a select pulse arms the chip, six bytes form the Data Control
// Block, and 10 ms later the controller completes with IRQ5. No sectors
// are read or written.
package fixeddisk

import (
	"fmt"
	"time"

	"github.com/master-g/goxt/pkg/log"
	"github.com/master-g/goxt/pkg/scheduler"
)

// CompletionTime is how long any command takes to "execute"
const CompletionTime = 10 * time.Millisecond

// IRQ is the board-side interrupt line (IRQ5 on the XT)
type IRQ interface {
	FixedDiskInterrupt()
}

// dcbNames maps the documented command opcodes
var dcbNames = map[uint8]string{
	0x00: "test drive ready",
	0x01: "recalibrate",
	0x03: "status",
	0x04: "format drive",
	0x05: "read verify",
	0x06: "format track",
	0x07: "format bad track",
	0x08: "read",
	0x0A: "write",
	0x0B: "seek",
	0x0C: "initialize drive characteristics",
	0x0D: "read ecc burst length",
	0x0E: "read data from sector buffer",
	0x0F: "write data to sector buffer",
	0xE0: "ram diagnostic",
	0xE3: "drive diagnostic",
	0xE4: "controller internal diagnostics",
	0xE5: "read long track",
	0xE6: "write long",
}

// FixedDisk is the controller state machine
type FixedDisk struct {
	sched *scheduler.Scheduler
	irq   IRQ

	enableDMA bool
	enableInt bool

	busy        bool
	pulsed      bool
	mode        bool
	request     bool
	interrupted bool

	// DCB assembly state: six bytes per command
	dcbCount    uint8
	dcbCommand  uint8
	dcbDrive    uint8
	dcbHead     uint8
	dcbSector   uint8
	dcbCylinder uint16
	dcbControl  uint8

	stepTime     time.Duration
	disableRetry bool
	noRereadECC  bool
}

// New builds a fixed-disk controller
func New(sched *scheduler.Scheduler, irq IRQ) *FixedDisk {
	return &FixedDisk{sched: sched, irq: irq}
}

// Pulse handles a write to the select-pulse port: it arms the controller
// for a fresh DCB
func (f *FixedDisk) Pulse(value uint8) {
	f.request = true
	f.mode = false
	f.pulsed = true
	f.busy = true
	f.interrupted = false
	f.dcbCount = 0
	log.Debugf("fixeddisk: select pulse %02X", value)
}

// Reset handles a write to the reset port, clearing the state machine
func (f *FixedDisk) Reset(value uint8) {
	f.request = false
	f.mode = false
	f.pulsed = false
	f.busy = false
	f.interrupted = false
	f.dcbCount = 0
	log.Debugf("fixeddisk: reset %02X", value)
}

// SetDMAAndInterrupt handles the DMA/interrupt enable port
func (f *FixedDisk) SetDMAAndInterrupt(value uint8) {
	f.enableDMA = value&0b1 != 0
	f.enableInt = value&0b10 != 0
	log.Debugf("fixeddisk: dma=%t int=%t", f.enableDMA, f.enableInt)
}

// SendCommand consumes one byte of the six-byte DCB. The sixth byte
// launches the command.
func (f *FixedDisk) SendCommand(value uint8) {
	switch f.dcbCount {
	case 0:
		f.dcbCommand = value
		log.Debugf("fixeddisk: dcb opcode %02X", value)
	case 1:
		f.dcbDrive = value >> 5
		f.dcbHead = value & 0b1_1111
		log.Debugf("fixeddisk: dcb drive %d head %d", f.dcbDrive, f.dcbHead)
	case 2:
		f.dcbSector = value & 0b11_1111
		f.dcbCylinder = (uint16(value) & 0b1100_0000) << 2
		log.Debugf("fixeddisk: dcb sector %d", f.dcbSector)
	case 3:
		f.dcbCylinder |= uint16(value)
		log.Debugf("fixeddisk: dcb cylinder %d", f.dcbCylinder)
	case 4:
		f.dcbControl = value
		log.Debugf("fixeddisk: dcb interleave/block %d", f.dcbControl)
	case 5:
		switch value & 0b111 {
		case 0, 6, 7:
			f.stepTime = 3000 * time.Microsecond
		case 4:
			f.stepTime = 200 * time.Microsecond
		case 5:
			f.stepTime = 70 * time.Microsecond
		default:
			panic(fmt.Sprintf("fixeddisk: reserved step rate %d", value&0b111))
		}
		f.disableRetry = value&0b1000_0000 != 0
		f.noRereadECC = value&0b100_0000 != 0
		log.Debugf("fixeddisk: dcb control field step=%s disableRetry=%t noReread=%t",
			f.stepTime, f.disableRetry, f.noRereadECC)
	}

	f.dcbCount++
	if f.dcbCount == 6 {
		f.runCommand()
	}
}

// runCommand validates the opcode and schedules the 10 ms completion
func (f *FixedDisk) runCommand() {
	name, ok := dcbNames[f.dcbCommand]
	if !ok {
		panic(fmt.Sprintf("fixeddisk: reserved command %02X", f.dcbCommand))
	}
	log.Debugf("fixeddisk: command %q", name)
	f.sched.After(CompletionTime, f.completed)
}

func (f *FixedDisk) completed() {
	f.interrupted = true
	f.irq.FixedDiskInterrupt()
}

// Data reads the data port back: the selected drive in bit 5
func (f *FixedDisk) Data() uint8 {
	return f.dcbDrive << 5
}

// Status reads the controller status port
func (f *FixedDisk) Status() uint8 {
	var v uint8
	if f.request {
		v |= 0b1
	}
	if f.mode {
		v |= 0b10
	}
	if f.pulsed {
		v |= 0b100
	}
	if f.busy {
		v |= 0b1000
	}
	if f.interrupted {
		v |= 0b10_0000
	}
	return v
}
