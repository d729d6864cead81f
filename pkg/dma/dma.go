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

// Package dma emulates the Intel 8237 DMA controller at register level.
// The BIOS programs and reads back the four channels during POST; no data
// transfers are modelled.
package dma

import "github.com/master-g/goxt/pkg/log"

// FlipFlop selects which half of a 16-bit register the next byte write or
// read addresses. It toggles on every access.
type FlipFlop uint8

// Flip-flop states
const (
	Low FlipFlop = iota
	High
)

// TransferType from mode register bits 3:2
type TransferType uint8

// Transfer types
const (
	SelfTest TransferType = iota
	WriteToMemory
	ReadFromMemory
)

var transferTypeNames = [3]string{"SelfTest", "WriteToMemory", "ReadFromMemory"}

func (t TransferType) String() string { return transferTypeNames[t%3] }

// TransferMode from mode register bits 7:6
type TransferMode uint8

// Transfer modes
const (
	OnDemand TransferMode = iota
	SingleDMA
	BlockDMA
	Cascade
)

var transferModeNames = [4]string{"OnDemand", "SingleDMA", "BlockDMA", "Cascade"}

func (t TransferMode) String() string { return transferModeNames[t%4] }

type channel struct {
	mask         bool
	address      uint16
	count        uint16
	flipFlop     FlipFlop
	transferType TransferType
	transferMode TransferMode
}

// DMA is the four-channel controller
type DMA struct {
	enabled  bool
	channels [4]channel
}

// New builds a DMA controller in its power-on state
func New() *DMA {
	return &DMA{}
}

func (d *DMA) channel(idx uint8) *channel {
	return &d.channels[idx&3]
}

// SetStatus writes the command register; only the controller-enable bit is
// interpreted
func (d *DMA) SetStatus(value uint8) {
	d.enabled = value&0b100 != 0
	log.Debugf("dma: enabled=%t", d.enabled)
}

// Status reads the status register
func (d *DMA) Status() uint8 {
	// terminal counts and requests are never reached without transfers
	return 0
}

// SetAddress writes one byte of a channel's address through its flip-flop
func (d *DMA) SetAddress(idx uint8, value uint8) {
	ch := d.channel(idx)
	switch ch.flipFlop {
	case Low:
		ch.flipFlop = High
		ch.address = uint16(value)
	default:
		ch.flipFlop = Low
		ch.address = ch.address&0xFF | uint16(value)<<8
		log.Debugf("dma: channel %d address %04X", idx, ch.address)
	}
}

// Address reads one byte of a channel's address through its flip-flop
func (d *DMA) Address(idx uint8) uint8 {
	ch := d.channel(idx)
	switch ch.flipFlop {
	case Low:
		ch.flipFlop = High
		return uint8(ch.address)
	default:
		ch.flipFlop = Low
		return uint8(ch.address >> 8)
	}
}

// SetCount writes one byte of a channel's count through its flip-flop
func (d *DMA) SetCount(idx uint8, value uint8) {
	ch := d.channel(idx)
	switch ch.flipFlop {
	case Low:
		ch.flipFlop = High
		ch.count = uint16(value)
	default:
		ch.flipFlop = Low
		ch.count = ch.count&0xFF | uint16(value)<<8
		log.Debugf("dma: channel %d count %04X", idx, ch.count)
	}
}

// Count reads one byte of a channel's count through its flip-flop
func (d *DMA) Count(idx uint8) uint8 {
	ch := d.channel(idx)
	switch ch.flipFlop {
	case Low:
		ch.flipFlop = High
		return uint8(ch.count)
	default:
		ch.flipFlop = Low
		return uint8(ch.count >> 8)
	}
}

// MasterReset sets every flip-flop low, masks every channel and disables
// the controller
func (d *DMA) MasterReset() {
	for i := range d.channels {
		d.channels[i].flipFlop = Low
		d.channels[i].mask = true
	}
	d.enabled = false
	log.Debugf("dma: master reset")
}

// ResetFlipFlop sets every channel's flip-flop low
func (d *DMA) ResetFlipFlop() {
	for i := range d.channels {
		d.channels[i].flipFlop = Low
	}
	log.Debugf("dma: flip-flop reset")
}

// ResetMask clears every channel's mask
func (d *DMA) ResetMask() {
	for i := range d.channels {
		d.channels[i].mask = false
	}
	log.Debugf("dma: mask reset")
}

// SetMasks writes all four masks from the low bits of value
func (d *DMA) SetMasks(value uint8) {
	for i := range d.channels {
		d.channels[i].mask = value&(1<<uint(i)) != 0
	}
	log.Debugf("dma: masks %t %t %t %t",
		d.channels[0].mask, d.channels[1].mask, d.channels[2].mask, d.channels[3].mask)
}

// SetMask writes one channel's mask; bits 1:0 select the channel, bit 2 is
// the mask value
func (d *DMA) SetMask(value uint8) {
	idx := value & 3
	d.channel(idx).mask = value&0b100 != 0
	log.Debugf("dma: mask %d=%t", idx, d.channel(idx).mask)
}

// SetMode programs a channel's transfer type and mode. Type encoding 3 is
// reserved and logged.
func (d *DMA) SetMode(value uint8) {
	idx := value & 3
	ch := d.channel(idx)
	switch (value >> 2) & 3 {
	case 0:
		ch.transferType = SelfTest
	case 1:
		ch.transferType = WriteToMemory
	case 2:
		ch.transferType = ReadFromMemory
	default:
		log.Errorf("dma: invalid transfer type 3 on channel %d", idx)
		ch.transferType = SelfTest
	}
	ch.transferMode = TransferMode(value >> 6)
	log.Debugf("dma: channel %d %s %s", idx, ch.transferType, ch.transferMode)
}
