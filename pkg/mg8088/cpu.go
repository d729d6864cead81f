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

// Package mg8088 emulates the Intel 8088 from a software perspective:
// real-mode segmented memory, the full 8086/8088 instruction set with
// documented cycle timings, and hardware-interrupt delivery at instruction
// boundaries. The CPU is driven by simulated-time step messages; it never
// spins on the host clock.
package mg8088

import (
	"time"

	"github.com/pkg/errors"

	"github.com/master-g/goxt/pkg/log"
	"github.com/master-g/goxt/pkg/scheduler"
)

// CycleTime is one 8088 clock at 4.77 MHz
const CycleTime = 210 * time.Nanosecond

// ROM image sizes and load addresses of the XT memory map
const (
	biosROMSize  = 0x10000
	videoROMBase = 0xC0000
	diskROMBase  = 0xC8000
	biosROMBase  = 0xF0000
)

// Board is the CPU's window onto the I/O port fabric. IN is asynchronous:
// the reply callback writes AL/AX after the current step handler has
// returned and before the next step fires.
type Board interface {
	OutByte(port uint16, value uint8)
	OutWord(port uint16, value uint16)
	InByte(port uint16, reply func(uint8))
	InWord(port uint16, reply func(uint16))
}

// MG8088 emulates the 8088 CPU
type MG8088 struct {
	board Board
	sched *scheduler.Scheduler

	regs  Registers
	flags Flags
	mem   Memory

	// physical address of the instruction being executed, for traces
	currentAddress int

	// hardware interrupt latch; delivered at the next step boundary if
	// IF is set
	pendingVector uint8
	pendingValid  bool

	halted bool

	optable [256]instruction
}

// New builds a CPU with the XT memory map populated from the three ROM
// images. The BIOS image must be exactly 64 KiB; the option ROMs must fit
// their slots. Registers come up in the reset state with CS:IP at the
// reset vector F000:FFF0.
func New(board Board, sched *scheduler.Scheduler, biosROM, videoROM, diskROM []byte) (*MG8088, error) {
	if len(biosROM) != biosROMSize {
		return nil, errors.Errorf("bios rom is %#x bytes, must be %#x", len(biosROM), biosROMSize)
	}
	if len(videoROM) > diskROMBase-videoROMBase {
		return nil, errors.Errorf("video rom is %#x bytes, slot holds %#x", len(videoROM), diskROMBase-videoROMBase)
	}
	if len(diskROM) > biosROMBase-diskROMBase {
		return nil, errors.Errorf("disk rom is %#x bytes, slot holds %#x", len(diskROM), biosROMBase-diskROMBase)
	}

	ram := make([]byte, MemoryCapacity)
	copy(ram[videoROMBase:], videoROM)
	copy(ram[diskROMBase:], diskROM)
	copy(ram[biosROMBase:], biosROM)

	cpu := &MG8088{
		board: board,
		sched: sched,
		mem: Memory{
			CS:             0xF000,
			IP:             0xFFF0,
			currentSegment: DS,
			ram:            ram,
		},
	}
	cpu.optable = newInstructionSet()
	cpu.currentAddress = cpu.mem.CurrentAddress()
	return cpu, nil
}

// Regs exposes the register file
func (cpu *MG8088) Regs() *Registers {
	return &cpu.regs
}

// FlagSet exposes the status flags
func (cpu *MG8088) FlagSet() *Flags {
	return &cpu.flags
}

// Mem exposes the memory and segment state
func (cpu *MG8088) Mem() *Memory {
	return &cpu.mem
}

// Start schedules the first step message
func (cpu *MG8088) Start() {
	cpu.sched.Call(cpu.Step)
}

// Step executes one instruction (or delivers one pending hardware
// interrupt) and schedules the next step at now + cycles * 210ns. This is
// the message the scheduler keeps redelivering for the life of the machine.
func (cpu *MG8088) Step() {
	if cpu.pendingValid && cpu.flags.Interrupt {
		vector := cpu.pendingVector
		cpu.pendingValid = false
		cpu.halted = false
		log.Debugf("hardware int %02X", vector)
		cycles := cpu.intN(vector)
		cpu.sched.After(time.Duration(cycles)*CycleTime, cpu.Step)
		return
	}
	if cpu.halted {
		// wait for Interrupt to reschedule us
		return
	}

	cpu.mem.PrepareNextInstruction()
	cpu.currentAddress = cpu.mem.CurrentAddress()
	if log.TraceEnabled() {
		log.Tracef("%05X: %s", cpu.currentAddress, cpu.disasmCurrent())
	}

	cycles := cpu.execute()
	cpu.sched.After(time.Duration(cycles)*CycleTime, cpu.Step)
}

// execute dispatches the opcode at the stream head and returns the retired
// cycle count. Prefix handlers re-enter it.
func (cpu *MG8088) execute() int {
	opcode := cpu.mem.NextByte()
	entry := &cpu.optable[opcode]
	if entry.op == nil {
		log.Errorf("%05X: invalid opcode %02X", cpu.currentAddress, opcode)
		return cpu.intN(6)
	}
	return entry.op(cpu)
}

// Interrupt latches a hardware interrupt vector. It is delivered before
// the next instruction once IF is set, and it wakes a halted CPU.
func (cpu *MG8088) Interrupt(vector uint8) {
	cpu.pendingVector = vector
	cpu.pendingValid = true
	if cpu.halted {
		cpu.halted = false
		cpu.sched.Call(cpu.Step)
	}
}

// SetAL is the reply target for byte IN instructions
func (cpu *MG8088) SetAL(v uint8) {
	cpu.regs.SetByte(AL, v)
}

// SetAX is the reply target for word IN instructions
func (cpu *MG8088) SetAX(v uint16) {
	cpu.regs.SetWord(AX, v)
}

// push writes a word to SS:SP-2
func (cpu *MG8088) push(v uint16) {
	cpu.mem.UseSegment(SS)
	cpu.regs.SP -= 2
	cpu.mem.SetWord(cpu.regs.SP, v)
}

// pop reads a word from SS:SP
func (cpu *MG8088) pop() uint16 {
	cpu.mem.UseSegment(SS)
	v := cpu.mem.GetWord(cpu.regs.SP)
	cpu.regs.SP += 2
	return v
}

// PrintRegisters dumps the register file at debug level
func (cpu *MG8088) PrintRegisters() {
	log.Debugf("AX=%04X  BX=%04X  CX=%04X  DX=%04X  SP=%04X  BP=%04X  SI=%04X  DI=%04X",
		cpu.regs.AX, cpu.regs.BX, cpu.regs.CX, cpu.regs.DX, cpu.regs.SP, cpu.regs.BP, cpu.regs.SI, cpu.regs.DI)
	log.Debugf("DS=%04X  ES=%04X  SS=%04X  CS=%04X  IP=%04X C=%t P=%t A=%t Z=%t S=%t O=%t",
		cpu.mem.DS, cpu.mem.ES, cpu.mem.SS, cpu.mem.CS, cpu.mem.IP,
		cpu.flags.Carry, cpu.flags.Parity, cpu.flags.Adjust, cpu.flags.Zero, cpu.flags.Sign, cpu.flags.Overflow)
}
