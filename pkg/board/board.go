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

// Package board assembles the IBM XT: the 8088, the support chips, the
// I/O port fan-out between them, the IRQ routing through the PIC, and the
// XT-specific meaning of the PPI's port B bits.
package board

import (
	"fmt"

	"github.com/master-g/goxt/pkg/crtc"
	"github.com/master-g/goxt/pkg/dma"
	"github.com/master-g/goxt/pkg/fixeddisk"
	"github.com/master-g/goxt/pkg/log"
	"github.com/master-g/goxt/pkg/mg8088"
	"github.com/master-g/goxt/pkg/pic"
	"github.com/master-g/goxt/pkg/pit"
	"github.com/master-g/goxt/pkg/ppi"
	"github.com/master-g/goxt/pkg/scheduler"
)

// IRQ lines of the chips on this board
const (
	irqTimer     = 0
	irqFixedDisk = 5
)

// Config carries the motherboard switch settings
type Config struct {
	// Switches is the XT's configuration DIP block; port B bit 2 selects
	// which nibble shows up on PPI port C
	Switches uint8
}

// Board is the XT motherboard
type Board struct {
	sched *scheduler.Scheduler
	cfg   Config

	cpu  *mg8088.MG8088
	pit  *pit.PIT
	dma  *dma.DMA
	crtc *crtc.CRTC
	ppi  *ppi.PPI
	pic  *pic.PIC
	disk *fixeddisk.FixedDisk

	nmiEnabled bool
}

// New assembles a machine around the three ROM images
func New(sched *scheduler.Scheduler, cfg Config, biosROM, videoROM, diskROM []byte) (*Board, error) {
	b := &Board{sched: sched, cfg: cfg}
	b.pit = pit.New(sched, b)
	b.dma = dma.New()
	b.crtc = crtc.New(sched)
	b.ppi = ppi.New(b)
	b.pic = pic.New(b)
	b.disk = fixeddisk.New(sched, b)

	cpu, err := mg8088.New(b, sched, biosROM, videoROM, diskROM)
	if err != nil {
		return nil, err
	}
	b.cpu = cpu
	return b, nil
}

// CPU exposes the processor, mostly to tests and tooling
func (b *Board) CPU() *mg8088.MG8088 {
	return b.cpu
}

// Power schedules the first CPU step
func (b *Board) Power() {
	b.cpu.Start()
}

// TimerInterrupt is the PIT's interrupt line; the XT wires every counter
// expiry to IRQ0
func (b *Board) TimerInterrupt(counter uint8) {
	log.Debugf("board: timer interrupt from counter %d", counter)
	b.pic.Raise(irqTimer)
}

// FixedDiskInterrupt is the disk controller's IRQ5 line
func (b *Board) FixedDiskInterrupt() {
	log.Debugf("board: fixed disk interrupt")
	b.pic.Raise(irqFixedDisk)
}

// PICInterrupt delivers a vector from the PIC to the CPU. It lands at the
// next instruction boundary.
func (b *Board) PICInterrupt(vector uint8) {
	b.cpu.Interrupt(vector)
}

// PortAWritten observes PPI port A writes; nothing on the XT drives it
// from the CPU side
func (b *Board) PortAWritten(value uint8) {
	log.Debugf("board: ppi port A %02X", value)
}

// PortBWritten interprets the XT's port B control bits: bit 0 gates the
// speaker timer, bit 1 is speaker data, bit 2 picks the DIP nibble shown
// on port C, bit 7 clears keyboard data on port A
func (b *Board) PortBWritten(value uint8) {
	if value&0b1 != 0 {
		log.Debugf("board: speaker timer gate on")
	}
	if value&0b10 != 0 {
		log.Debugf("board: speaker data on")
	}
	if value&0b100 != 0 {
		b.ppi.SetPortC(b.cfg.Switches >> 4)
	} else {
		b.ppi.SetPortC(b.cfg.Switches & 0x0F)
	}
	if value&0b1000_0000 != 0 {
		b.ppi.SetPortA(0)
	}
}

// PortCWritten observes PPI port C writes
func (b *Board) PortCWritten(value uint8) {
	log.Debugf("board: ppi port C %02X", value)
}

// OutByte routes a byte OUT to the owning chip. Writes to undocumented but
// known-harmless ports are logged and dropped; anything else is fatal.
func (b *Board) OutByte(port uint16, value uint8) {
	switch port {
	case 0x00, 0x02, 0x04, 0x06:
		b.dma.SetAddress(uint8(port/2), value)
	case 0x01, 0x03, 0x05, 0x07:
		b.dma.SetCount(uint8(port/2), value)
	case 0x08:
		b.dma.SetStatus(value)
	case 0x0A:
		b.dma.SetMask(value)
	case 0x0B:
		b.dma.SetMode(value)
	case 0x0C:
		b.dma.ResetFlipFlop()
	case 0x0D:
		b.dma.MasterReset()
	case 0x0E:
		b.dma.ResetMask()
	case 0x0F:
		b.dma.SetMasks(value)
	case 0x20:
		b.pic.WriteCommand(value)
	case 0x21:
		b.pic.WriteData(value)
	case 0x40, 0x41, 0x42:
		b.pit.WriteCounter(uint8(port-0x40), value)
	case 0x43:
		b.pit.WriteControl(value)
	case 0x60:
		b.ppi.WritePortA(value)
	case 0x61:
		b.ppi.WritePortB(value)
	case 0x62:
		b.ppi.WritePortC(value)
	case 0x63:
		b.ppi.SetConfiguration(value)
	case 0x83:
		log.Debugf("board: dma channel 1 high address bits %X", value)
	case 0xA0:
		b.nmiEnabled = value&0x80 != 0
		log.Debugf("board: nmi enabled=%t", b.nmiEnabled)
	case 0x210:
		log.Debugf("board: expansion unit port %02X", value)
	case 0x320:
		b.disk.SendCommand(value)
	case 0x321:
		b.disk.Reset(value)
	case 0x322:
		b.disk.Pulse(value)
	case 0x323:
		b.disk.SetDMAAndInterrupt(value)
	case 0x3B4, 0x3D4:
		b.crtc.ChooseRegister(value)
	case 0x3B5, 0x3D5:
		b.crtc.SetRegisterData(value)
	case 0x3B8:
		b.crtc.SetModeBW(value)
	case 0x3D8:
		b.crtc.SetModeColor(value)
	case 0x3B9, 0x3D9, 0x327, 0x32B, 0x32F:
		log.Debugf("board: unknown chip port %03X got %02X, ignored", port, value)
	default:
		panic(fmt.Sprintf("board: out to unrouted port %03X value %02X", port, value))
	}
}

// OutWord has no routed 16-bit ports on this board
func (b *Board) OutWord(port uint16, value uint16) {
	panic(fmt.Sprintf("board: 16-bit out to port %03X value %04X", port, value))
}

// InByte routes a byte IN and delivers the value through the scheduler,
// so the reply lands after the current CPU step returns and before the
// next one fires
func (b *Board) InByte(port uint16, reply func(uint8)) {
	var value uint8
	switch port {
	case 0x00, 0x02, 0x04, 0x06:
		value = b.dma.Address(uint8(port / 2))
	case 0x01, 0x03, 0x05, 0x07:
		value = b.dma.Count(uint8(port / 2))
	case 0x08:
		value = b.dma.Status()
	case 0x20:
		value = b.pic.InService()
	case 0x21:
		value = b.pic.Mask()
	case 0x40, 0x41, 0x42:
		value = b.pit.ReadCounter(uint8(port - 0x40))
	case 0x60:
		value = b.ppi.PortA()
	case 0x61:
		value = b.ppi.PortB()
	case 0x62:
		value = b.ppi.PortC()
	case 0x320:
		value = b.disk.Data()
	case 0x321:
		value = b.disk.Status()
	case 0x3B5, 0x3D5:
		value = b.crtc.RegisterData()
	case 0x3B8, 0x3D8:
		value = b.crtc.ModeBW()
	case 0x3BA, 0x3DA:
		value = b.crtc.Status()
	default:
		panic(fmt.Sprintf("board: in from unrouted port %03X", port))
	}
	b.sched.Call(func() { reply(value) })
}

// InWord has no routed 16-bit ports on this board
func (b *Board) InWord(port uint16, reply func(uint16)) {
	panic(fmt.Sprintf("board: 16-bit in from port %03X", port))
}
