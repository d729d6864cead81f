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

// ByteReg names one of the eight 8-bit register views. The encoding order
// matches the reg field of a ModR/M byte.
type ByteReg uint8

// Byte register names
const (
	AL ByteReg = iota
	CL
	DL
	BL
	AH
	CH
	DH
	BH
)

// WordReg names one of the eight 16-bit registers, again in ModR/M order
type WordReg uint8

// Word register names
const (
	AX WordReg = iota
	CX
	DX
	BX
	SP
	BP
	SI
	DI
)

var byteRegNames = [8]string{"AL", "CL", "DL", "BL", "AH", "CH", "DH", "BH"}
var wordRegNames = [8]string{"AX", "CX", "DX", "BX", "SP", "BP", "SI", "DI"}

func (r ByteReg) String() string { return byteRegNames[r&7] }
func (r WordReg) String() string { return wordRegNames[r&7] }

// Registers is the 8088 general register file. The four accumulators expose
// their halves through ByteReg accessors; a half write must leave the other
// half untouched.
type Registers struct {
	// data registers
	AX uint16 // accumulator
	CX uint16 // counter
	DX uint16 // data
	BX uint16 // base

	// pointer registers
	SP uint16 // stack pointer
	BP uint16 // base pointer

	// index registers
	SI uint16 // source index
	DI uint16 // destination index
}

func setLow(full *uint16, v uint8) {
	*full = (*full & 0xFF00) | uint16(v)
}

func setHigh(full *uint16, v uint8) {
	*full = (*full & 0x00FF) | (uint16(v) << 8)
}

// GetByte reads an 8-bit register view
func (r *Registers) GetByte(reg ByteReg) uint8 {
	switch reg {
	case AL:
		return uint8(r.AX)
	case CL:
		return uint8(r.CX)
	case DL:
		return uint8(r.DX)
	case BL:
		return uint8(r.BX)
	case AH:
		return uint8(r.AX >> 8)
	case CH:
		return uint8(r.CX >> 8)
	case DH:
		return uint8(r.DX >> 8)
	default:
		return uint8(r.BX >> 8)
	}
}

// SetByte writes an 8-bit register view, preserving the sibling half
func (r *Registers) SetByte(reg ByteReg, v uint8) {
	switch reg {
	case AL:
		setLow(&r.AX, v)
	case CL:
		setLow(&r.CX, v)
	case DL:
		setLow(&r.DX, v)
	case BL:
		setLow(&r.BX, v)
	case AH:
		setHigh(&r.AX, v)
	case CH:
		setHigh(&r.CX, v)
	case DH:
		setHigh(&r.DX, v)
	default:
		setHigh(&r.BX, v)
	}
}

// GetWord reads a 16-bit register
func (r *Registers) GetWord(reg WordReg) uint16 {
	switch reg {
	case AX:
		return r.AX
	case CX:
		return r.CX
	case DX:
		return r.DX
	case BX:
		return r.BX
	case SP:
		return r.SP
	case BP:
		return r.BP
	case SI:
		return r.SI
	default:
		return r.DI
	}
}

// SetWord writes a 16-bit register
func (r *Registers) SetWord(reg WordReg, v uint16) {
	switch reg {
	case AX:
		r.AX = v
	case CX:
		r.CX = v
	case DX:
		r.DX = v
	case BX:
		r.BX = v
	case SP:
		r.SP = v
	case BP:
		r.BP = v
	case SI:
		r.SI = v
	default:
		r.DI = v
	}
}
