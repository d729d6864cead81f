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

// Package pic emulates the Intel 8259 interrupt controller: the mask and
// in-service registers, the programmed base vector, and the initialisation
// word sequence the BIOS runs through ports 0x20/0x21.
package pic

import "github.com/master-g/goxt/pkg/log"

// Sink receives the final CPU vector for an unmasked interrupt request
type Sink interface {
	PICInterrupt(vector uint8)
}

// initState tracks where we are in the ICW1..ICW4 sequence
type initState uint8

const (
	ready initState = iota
	wantICW2
	wantICW3
	wantICW4
)

// PIC is the 8259 controller
type PIC struct {
	sink Sink

	baseVector uint8
	mask       uint8
	inService  uint8

	state    initState
	needICW4 bool
	single   bool
}

// New builds a PIC delivering vectors to the given sink
func New(sink Sink) *PIC {
	return &PIC{sink: sink, baseVector: 0x08}
}

// WriteCommand handles port 0x20: ICW1 starts initialisation, OCW2 takes
// EOI
func (p *PIC) WriteCommand(value uint8) {
	if value&0b1_0000 != 0 {
		// ICW1
		p.needICW4 = value&0b1 != 0
		p.single = value&0b10 != 0
		p.mask = 0
		p.inService = 0
		p.state = wantICW2
		log.Debugf("pic: icw1 %02X single=%t icw4=%t", value, p.single, p.needICW4)
		return
	}
	if value&0b10_0000 != 0 {
		// OCW2 end-of-interrupt; non-specific EOI drops the highest
		// priority in-service level
		for irq := uint8(0); irq < 8; irq++ {
			if p.inService&(1<<irq) != 0 {
				p.inService &^= 1 << irq
				break
			}
		}
		log.Debugf("pic: eoi, in-service now %02X", p.inService)
		return
	}
	log.Debugf("pic: command %02X ignored", value)
}

// WriteData handles port 0x21: the ICW2..ICW4 bytes during initialisation,
// the mask register (OCW1) afterwards
func (p *PIC) WriteData(value uint8) {
	switch p.state {
	case wantICW2:
		p.baseVector = value & 0xF8
		if p.single {
			if p.needICW4 {
				p.state = wantICW4
			} else {
				p.state = ready
			}
		} else {
			p.state = wantICW3
		}
		log.Debugf("pic: base vector %02X", p.baseVector)
	case wantICW3:
		if p.needICW4 {
			p.state = wantICW4
		} else {
			p.state = ready
		}
	case wantICW4:
		p.state = ready
	default:
		p.mask = value
		log.Debugf("pic: mask %02X", value)
	}
}

// Mask reads the interrupt mask register back
func (p *PIC) Mask() uint8 {
	return p.mask
}

// InService reads the in-service register
func (p *PIC) InService() uint8 {
	return p.inService
}

// Raise signals IRQ n. A masked line is dropped; an unmasked one is
// latched in-service and its vector handed to the sink.
func (p *PIC) Raise(irq uint8) {
	irq &= 7
	if p.mask&(1<<irq) != 0 {
		log.Debugf("pic: irq %d masked, dropped", irq)
		return
	}
	p.inService |= 1 << irq
	p.sink.PICInterrupt(p.baseVector + irq)
}
