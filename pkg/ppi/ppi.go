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

// Package ppi emulates the Intel 8255 programmable peripheral interface.
// The chip itself just stores its three ports; the XT-specific meaning of
// the port B bits belongs to the board, which observes writes through the
// Listener.
package ppi

import "github.com/master-g/goxt/pkg/log"

// Listener receives port writes so the motherboard can interpret them
type Listener interface {
	PortAWritten(value uint8)
	PortBWritten(value uint8)
	PortCWritten(value uint8)
}

// PPI is the 8255 with its three data ports and configuration byte
type PPI struct {
	listener Listener

	portA uint8
	portB uint8
	portC uint8

	configuration uint8
}

// New builds a PPI fanning writes out to the given listener
func New(listener Listener) *PPI {
	return &PPI{listener: listener}
}

// SetConfiguration stores the mode/direction byte. Directions are not
// enforced; the BIOS always programs the XT's fixed layout.
func (p *PPI) SetConfiguration(value uint8) {
	p.configuration = value
	log.Debugf("ppi: configuration %02X", value)
}

// WritePortA stores port A and notifies the board
func (p *PPI) WritePortA(value uint8) {
	p.portA = value
	p.listener.PortAWritten(value)
}

// WritePortB stores port B and notifies the board
func (p *PPI) WritePortB(value uint8) {
	p.portB = value
	p.listener.PortBWritten(value)
}

// WritePortC stores port C and notifies the board
func (p *PPI) WritePortC(value uint8) {
	p.portC = value
	p.listener.PortCWritten(value)
}

// SetPortA lets the board place keyboard data on port A
func (p *PPI) SetPortA(value uint8) {
	p.portA = value
}

// SetPortC lets the board synthesise port C contents (DIP switches)
func (p *PPI) SetPortC(value uint8) {
	p.portC = value
}

// PortA reads port A
func (p *PPI) PortA() uint8 { return p.portA }

// PortB reads port B
func (p *PPI) PortB() uint8 { return p.portB }

// PortC reads port C
func (p *PPI) PortC() uint8 { return p.portC }
