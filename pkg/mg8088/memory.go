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

// MemoryCapacity is the 8088's 20-bit physical address space
const MemoryCapacity = 0x100000

// Segment names one of the four segment registers
type Segment uint8

// Segment register names, in the order the segment-override prefixes and
// the ModR/M sreg field use
const (
	ES Segment = iota
	CS
	SS
	DS
)

var segmentNames = [4]string{"ES", "CS", "SS", "DS"}

func (s Segment) String() string { return segmentNames[s&3] }

// PhysicalAddr forms the 20-bit physical address from a segment value and
// a 16-bit offset. The 20-bit wrap is explicit.
func PhysicalAddr(segment, offset uint16) int {
	return (int(segment)<<4 + int(offset)) & 0xFFFFF
}

// Memory is the CPU's view of the 1 MiB address space: the flat byte array,
// the four segment registers, IP, the current-segment latch that every
// latched access consults, and the instruction fetch buffer.
type Memory struct {
	ES uint16
	CS uint16
	SS uint16
	DS uint16
	IP uint16

	// currentSegment is consulted by GetByte/SetByte and friends. String
	// primitives and stack operations set it explicitly; ModR/M decoding
	// sets it to the effective default (or the override).
	currentSegment Segment

	// overrideSegment is latched by a segment-override prefix for the
	// duration of one instruction
	overrideSegment Segment
	overrideActive  bool

	// fetch buffer: 8 bytes from CS:IP, consumed from the low end
	fetchBuffer uint64
	fetchLeft   int

	ram []byte
}

// GetSeg reads a segment register
func (m *Memory) GetSeg(s Segment) uint16 {
	switch s {
	case ES:
		return m.ES
	case CS:
		return m.CS
	case SS:
		return m.SS
	default:
		return m.DS
	}
}

// SetSeg writes a segment register
func (m *Memory) SetSeg(s Segment, v uint16) {
	switch s {
	case ES:
		m.ES = v
	case CS:
		m.CS = v
	case SS:
		m.SS = v
	default:
		m.DS = v
	}
}

// UseSegment latches the segment consulted by subsequent data accesses
func (m *Memory) UseSegment(s Segment) {
	m.currentSegment = s
}

// UseDefaultSegment latches either the instruction's override or the
// decoder's default for the addressing form in use
func (m *Memory) UseDefaultSegment(def Segment) {
	if m.overrideActive {
		m.currentSegment = m.overrideSegment
	} else {
		m.currentSegment = def
	}
}

// SetOverride latches a segment-override prefix until the next instruction
func (m *Memory) SetOverride(s Segment) {
	m.overrideSegment = s
	m.overrideActive = true
}

// ClearOverride drops the override latch at an instruction boundary
func (m *Memory) ClearOverride() {
	m.overrideActive = false
}

// OverrideActive reports whether a segment-override prefix is latched
func (m *Memory) OverrideActive() bool {
	return m.overrideActive
}

// GetByteAt reads one byte at a physical address
func (m *Memory) GetByteAt(addr int) uint8 {
	return m.ram[addr&0xFFFFF]
}

// SetByteAt writes one byte at a physical address
func (m *Memory) SetByteAt(addr int, v uint8) {
	m.ram[addr&0xFFFFF] = v
}

// GetWordAt reads a little-endian word at a physical address
func (m *Memory) GetWordAt(addr int) uint16 {
	lo := uint16(m.ram[addr&0xFFFFF])
	hi := uint16(m.ram[(addr+1)&0xFFFFF])
	return hi<<8 | lo
}

// GetByte reads a byte at the given offset in the latched segment
func (m *Memory) GetByte(offset uint16) uint8 {
	return m.GetByteAt(PhysicalAddr(m.GetSeg(m.currentSegment), offset))
}

// SetByte writes a byte at the given offset in the latched segment
func (m *Memory) SetByte(offset uint16, v uint8) {
	m.SetByteAt(PhysicalAddr(m.GetSeg(m.currentSegment), offset), v)
}

// GetWord reads a little-endian word in the latched segment. The offset
// wraps at 16 bits before the segment is applied, so a word at offset
// 0xFFFF takes its high byte from offset 0x0000 of the same segment.
func (m *Memory) GetWord(offset uint16) uint16 {
	seg := m.GetSeg(m.currentSegment)
	lo := uint16(m.GetByteAt(PhysicalAddr(seg, offset)))
	hi := uint16(m.GetByteAt(PhysicalAddr(seg, offset+1)))
	return hi<<8 | lo
}

// SetWord writes a little-endian word in the latched segment, wrapping the
// offset at 16 bits like GetWord
func (m *Memory) SetWord(offset uint16, v uint16) {
	seg := m.GetSeg(m.currentSegment)
	m.SetByteAt(PhysicalAddr(seg, offset), uint8(v))
	m.SetByteAt(PhysicalAddr(seg, offset+1), uint8(v>>8))
}

// CurrentAddress returns the physical address of CS:IP
func (m *Memory) CurrentAddress() int {
	return PhysicalAddr(m.CS, m.IP)
}

// PrepareNextInstruction refills the fetch buffer with 8 bytes at CS:IP
// and drops any segment override left over from the previous instruction
func (m *Memory) PrepareNextInstruction() {
	m.ClearOverride()
	m.refillFetch()
}

func (m *Memory) refillFetch() {
	addr := m.CurrentAddress()
	var buf uint64
	for i := 7; i >= 0; i-- {
		buf = buf<<8 | uint64(m.GetByteAt(addr+i))
	}
	m.fetchBuffer = buf
	m.fetchLeft = 8
}

// NextByte consumes one byte from the instruction stream and advances IP
func (m *Memory) NextByte() uint8 {
	if m.fetchLeft == 0 {
		m.refillFetch()
	}
	b := uint8(m.fetchBuffer)
	m.fetchBuffer >>= 8
	m.fetchLeft--
	m.IP++
	return b
}

// NextWord consumes a little-endian word from the instruction stream and
// advances IP by two
func (m *Memory) NextWord() uint16 {
	lo := uint16(m.NextByte())
	hi := uint16(m.NextByte())
	return hi<<8 | lo
}

// PeekByte returns the next instruction byte without consuming it
func (m *Memory) PeekByte() uint8 {
	if m.fetchLeft == 0 {
		m.refillFetch()
	}
	return uint8(m.fetchBuffer)
}
