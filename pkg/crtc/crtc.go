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

// Package crtc emulates the Motorola 6845 CRT controller's register file
// and vertical-sync timing. Nothing is rendered; the BIOS only needs the
// registers to read back and the sync bit to flip at 50 Hz.
package crtc

import (
	"time"

	"github.com/master-g/goxt/pkg/log"
	"github.com/master-g/goxt/pkg/scheduler"
)

// A 50 Hz frame is 20 ms: sync high for 8% of it, low for the rest
const (
	syncHighTime = 1600 * time.Microsecond
	syncLowTime  = 18400 * time.Microsecond
)

// Register indexes the 6845's internal register file
type Register uint8

// The 18 internal registers
const (
	HorizontalTotal Register = iota
	HorizontalDisplayed
	HorizontalSyncPosition
	HorizontalSyncWidth
	VerticalTotal
	VerticalTotalAdjust
	VerticalDisplayed
	VerticalSyncPosition
	InterlaceMode
	MaxScanLine
	CursorStart
	CursorEnd
	StartAddressMSB
	StartAddressLSB
	CursorMSB
	CursorLSB
	LightPenMSB
	LightPenLSB

	registerCount
)

// TextSize selects 40 or 80 column text
type TextSize uint8

// Text sizes
const (
	Text40x25 TextSize = iota
	Text80x25
)

// CRTC is the 6845 state machine shared by the mono and color port pairs
type CRTC struct {
	sched *scheduler.Scheduler

	currentRegister Register
	registers       [registerCount]uint8

	// black & white mode register
	textSize TextSize
	enabled  bool
	blink    bool

	// color mode register extras
	graphics320 bool
	blackWhite  bool
	highRes     bool

	verticalSync bool
}

// New builds a CRT controller in its power-on state
func New(sched *scheduler.Scheduler) *CRTC {
	return &CRTC{sched: sched}
}

// ChooseRegister writes the index port, selecting the data port's target.
// Out-of-range indexes fall back to register zero.
func (c *CRTC) ChooseRegister(value uint8) {
	if Register(value) >= registerCount {
		log.Errorf("crtc: invalid register index %d", value)
		c.currentRegister = HorizontalTotal
		return
	}
	c.currentRegister = Register(value)
}

// SetRegisterData writes the data port into the selected register
func (c *CRTC) SetRegisterData(value uint8) {
	c.registers[c.currentRegister] = value
	log.Debugf("crtc: register %d = %02X", c.currentRegister, value)
}

// RegisterData reads the selected register back
func (c *CRTC) RegisterData() uint8 {
	return c.registers[c.currentRegister]
}

// StartAddress assembles the MSB/LSB register pair
func (c *CRTC) StartAddress() uint16 {
	return uint16(c.registers[StartAddressMSB])<<8 | uint16(c.registers[StartAddressLSB])
}

// CursorAddress assembles the MSB/LSB register pair
func (c *CRTC) CursorAddress() uint16 {
	return uint16(c.registers[CursorMSB])<<8 | uint16(c.registers[CursorLSB])
}

// SetModeBW writes the black & white mode register. Enabling the display
// starts the vertical-sync oscillator.
func (c *CRTC) SetModeBW(value uint8) {
	if value&0b1 != 0 {
		c.textSize = Text80x25
	} else {
		c.textSize = Text40x25
	}
	wasEnabled := c.enabled
	c.enabled = value&0b1000 != 0
	c.blink = value&0b10_0000 != 0
	log.Debugf("crtc: bw mode text=%d enabled=%t blink=%t", c.textSize, c.enabled, c.blink)
	if c.enabled && !wasEnabled {
		c.sched.Call(c.verticalSyncStart)
	}
}

// ModeBW reads the black & white mode register back
func (c *CRTC) ModeBW() uint8 {
	var v uint8
	if c.textSize == Text80x25 {
		v |= 0b1
	}
	if c.enabled {
		v |= 0b1000
	}
	if c.blink {
		v |= 0b10_0000
	}
	return v
}

// SetModeColor writes the color mode register, which carries the B&W bits
// plus the graphics selections
func (c *CRTC) SetModeColor(value uint8) {
	c.SetModeBW(value)
	c.graphics320 = value&0b10 != 0
	c.blackWhite = value&0b100 != 0
	c.highRes = value&0b1_0000 != 0
	log.Debugf("crtc: color mode graphics320=%t bw=%t highres=%t", c.graphics320, c.blackWhite, c.highRes)
}

// Status reads the status port; the vertical-sync state shows in bits 0
// and 3
func (c *CRTC) Status() uint8 {
	var v uint8
	if c.verticalSync {
		v |= 0b1
		v |= 0b1000
	}
	return v
}

// verticalSyncStart begins the 1.6ms sync-high phase. The enabled flag
// gates stale self-messages after the display is turned off.
func (c *CRTC) verticalSyncStart() {
	if !c.enabled {
		return
	}
	c.verticalSync = true
	c.sched.After(syncHighTime, c.verticalSyncEnd)
}

// verticalSyncEnd begins the 18.4ms sync-low phase
func (c *CRTC) verticalSyncEnd() {
	if !c.enabled {
		return
	}
	c.verticalSync = false
	c.sched.After(syncLowTime, c.verticalSyncStart)
}
