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

// Package pit emulates the Intel 8253 programmable interval timer: three
// counters ticking at 1.193182 MHz on the scheduler's virtual clock.
package pit

import (
	"time"

	"github.com/master-g/goxt/pkg/log"
	"github.com/master-g/goxt/pkg/scheduler"
)

// TickTime is one input clock at 1.193182 MHz
const TickTime = 838 * time.Nanosecond

// Mode is the counter operating mode from control word bits 3:1
type Mode uint8

// Counter modes. 6 and 7 alias RateGenerator and SquareWave.
const (
	ModeInterrupt Mode = iota
	ModeOneShot
	ModeRateGenerator
	ModeSquareWave
	ModeSoftwareStrobe
	ModeHardwareStrobe
)

var modeNames = [6]string{"Interrupt", "OneShot", "RateGenerator", "SquareWave", "SoftwareStrobe", "HardwareStrobe"}

func (m Mode) String() string { return modeNames[m%6] }

// Access is the count read/load format from control word bits 5:4
type Access uint8

// Access modes
const (
	AccessLSB Access = iota
	AccessMSB
	AccessLSBThenMSB
)

var accessNames = [3]string{"LSB", "MSB", "LSBThenMSB"}

func (a Access) String() string { return accessNames[a%3] }

// IRQ is the board-side interrupt line; the PIT raises IRQ0 regardless of
// which counter expired
type IRQ interface {
	TimerInterrupt(counter uint8)
}

// PIT is the three-counter timer chip
type PIT struct {
	counters [3]*Counter
}

// New builds the PIT with all three counters attached to the scheduler
func New(sched *scheduler.Scheduler, irq IRQ) *PIT {
	p := &PIT{}
	for i := range p.counters {
		p.counters[i] = newCounter(sched, irq, uint8(i))
	}
	return p
}

// WriteCounter loads one count byte into counter idx per its access mode
func (p *PIT) WriteCounter(idx uint8, value uint8) {
	p.counters[idx%3].setCount(value)
}

// ReadCounter reads one byte of counter idx's output latch
func (p *PIT) ReadCounter(idx uint8) uint8 {
	return p.counters[idx%3].getCount()
}

// WriteControl dispatches a control word to the counter selected by its
// top two bits
func (p *PIT) WriteControl(value uint8) {
	sel := value >> 6
	if sel == 3 {
		// 8254 read-back command; the 8253 has no such thing
		log.Errorf("pit: read-back command %02X on an 8253", value)
		return
	}
	p.counters[sel].setControlWord(value)
}

// Counter is one of the PIT's three counting elements
type Counter struct {
	sched *scheduler.Scheduler
	irq   IRQ
	index uint8

	// enabled gates stale tick self-messages after a reprogram or a
	// mode-0 expiry
	enabled bool
	latched bool

	initialCount    uint16
	countingElement uint16
	outputLatch     uint16

	mode   Mode
	access Access

	// low half of a LSB-then-MSB load or read in progress
	lowCount   uint16
	lowPending bool
}

func newCounter(sched *scheduler.Scheduler, irq IRQ, index uint8) *Counter {
	return &Counter{
		sched:   sched,
		irq:     irq,
		index:   index,
		enabled: true,
		mode:    ModeSquareWave,
	}
}

// tick is the 838ns self-message
func (c *Counter) tick() {
	if !c.enabled {
		return
	}
	c.countingElement--
	if c.countingElement == 0 {
		if c.mode == ModeInterrupt {
			c.enabled = false
			log.Debugf("pit: counter %d expired, raising timer interrupt", c.index)
			c.irq.TimerInterrupt(c.index)
		} else {
			c.countingElement = c.initialCount
		}
	}
	if !c.latched {
		c.outputLatch = c.countingElement
	}
	if c.enabled {
		c.sched.After(TickTime, c.tick)
	}
}

func (c *Counter) setControlWord(value uint8) {
	if (value>>4)&3 == 0 {
		// latch command: freeze the counting element for an atomic read
		c.latched = true
		return
	}
	if value&1 != 0 {
		panic("pit: BCD counting requested, not implemented on this board")
	}
	switch (value >> 1) & 7 {
	case 0:
		c.mode = ModeInterrupt
	case 1:
		c.mode = ModeOneShot
	case 2, 6:
		c.mode = ModeRateGenerator
	case 3, 7:
		c.mode = ModeSquareWave
	case 4:
		c.mode = ModeSoftwareStrobe
	default:
		c.mode = ModeHardwareStrobe
	}
	switch (value >> 4) & 3 {
	case 1:
		c.access = AccessLSB
	case 2:
		c.access = AccessMSB
	default:
		c.access = AccessLSBThenMSB
		c.lowPending = false
	}
	log.Debugf("pit: counter %d mode %s access %s", c.index, c.mode, c.access)
}

// setCount loads one byte of the initial count. Once the count is fully
// loaded the counter arms and starts ticking. A one-byte format leaves the
// other byte zero, per the datasheet.
func (c *Counter) setCount(value uint8) {
	v := uint16(value)
	var loaded bool
	var count uint16
	switch c.access {
	case AccessLSB:
		count, loaded = v, true
	case AccessMSB:
		count, loaded = v<<8, true
	default:
		if !c.lowPending {
			c.lowCount = v
			c.lowPending = true
		} else {
			c.lowPending = false
			count, loaded = c.lowCount|v<<8, true
		}
	}
	if !loaded {
		log.Debugf("pit: counter %d low count byte %02X", c.index, value)
		return
	}
	c.initialCount = count
	c.countingElement = count
	c.enabled = true
	log.Debugf("pit: counter %d count register set to %04X", c.index, count)
	c.sched.After(TickTime, c.tick)
}

// getCount reads the output latch one byte at a time per the access mode,
// releasing a pending latch once the full value has been read
func (c *Counter) getCount() uint8 {
	releaseLatch := true
	var b uint16
	switch c.access {
	case AccessLSB:
		b = c.outputLatch & 0xFF
	case AccessMSB:
		b = c.outputLatch >> 8
	default:
		if !c.lowPending {
			// low byte first; hold the latch for the high byte
			releaseLatch = false
			c.lowPending = true
			b = c.outputLatch & 0xFF
		} else {
			c.lowPending = false
			b = c.outputLatch >> 8
		}
	}
	if releaseLatch {
		c.latched = false
	}
	return uint8(b)
}
