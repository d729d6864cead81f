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

// Flags holds the nine 8088 status bits. The arithmetic methods below both
// compute an operation's result and update exactly the flags the 8088
// documents for it. Where Intel documents a flag as undefined the prior
// value is left in place (logic ops leave AF, MUL leaves SF/ZF/PF/AF,
// DIV leaves everything).
type Flags struct {
	Carry     bool
	Parity    bool
	Adjust    bool
	Zero      bool
	Sign      bool
	Trap      bool
	Interrupt bool
	Direction bool
	Overflow  bool
}

// parityTable holds the even-parity flag for every byte value
var parityTable [256]bool

func init() {
	for i := 0; i < 256; i++ {
		b := uint8(i)
		ones := 0
		for b != 0 {
			ones += int(b & 1)
			b >>= 1
		}
		parityTable[i] = ones%2 == 0
	}
}

// FLAGS word encoding: bit 0 CF, 2 PF, 4 AF, 6 ZF, 7 SF, 8 TF, 9 IF,
// 10 DF, 11 OF. Bits 1 and 12-15 read as 1, bits 3 and 5 as 0.
const flagsReserved = 0xF002

// Word serialises the flags into the 8086 FLAGS image
func (f *Flags) Word() uint16 {
	var w uint16 = flagsReserved
	if f.Carry {
		w |= 1 << 0
	}
	if f.Parity {
		w |= 1 << 2
	}
	if f.Adjust {
		w |= 1 << 4
	}
	if f.Zero {
		w |= 1 << 6
	}
	if f.Sign {
		w |= 1 << 7
	}
	if f.Trap {
		w |= 1 << 8
	}
	if f.Interrupt {
		w |= 1 << 9
	}
	if f.Direction {
		w |= 1 << 10
	}
	if f.Overflow {
		w |= 1 << 11
	}
	return w
}

// SetWord loads the flags from a FLAGS image, ignoring reserved bits
func (f *Flags) SetWord(w uint16) {
	f.Carry = w&(1<<0) != 0
	f.Parity = w&(1<<2) != 0
	f.Adjust = w&(1<<4) != 0
	f.Zero = w&(1<<6) != 0
	f.Sign = w&(1<<7) != 0
	f.Trap = w&(1<<8) != 0
	f.Interrupt = w&(1<<9) != 0
	f.Direction = w&(1<<10) != 0
	f.Overflow = w&(1<<11) != 0
}

// Byte serialises the low flag byte for LAHF
func (f *Flags) Byte() uint8 {
	return uint8(f.Word() & 0xFF)
}

// SetByte loads the low flag byte for SAHF. The upper flags are untouched.
func (f *Flags) SetByte(b uint8) {
	f.Carry = b&(1<<0) != 0
	f.Parity = b&(1<<2) != 0
	f.Adjust = b&(1<<4) != 0
	f.Zero = b&(1<<6) != 0
	f.Sign = b&(1<<7) != 0
}

func (f *Flags) setSZPByte(result uint8) {
	f.Sign = result&0x80 != 0
	f.Zero = result == 0
	f.Parity = parityTable[result]
}

func (f *Flags) setSZPWord(result uint16) {
	f.Sign = result&0x8000 != 0
	f.Zero = result == 0
	// parity always reflects the low 8 bits only
	f.Parity = parityTable[uint8(result)]
}

// addByte is the common ADD/ADC core; carry is the carry-in
func (f *Flags) addByte(a, b uint8, carry bool) uint8 {
	var c uint16
	if carry {
		c = 1
	}
	full := uint16(a) + uint16(b) + c
	result := uint8(full)
	f.Carry = full > 0xFF
	f.Overflow = (^(a^b)&(a^result))&0x80 != 0
	f.Adjust = (a^b^result)&0x10 != 0
	f.setSZPByte(result)
	return result
}

func (f *Flags) addWord(a, b uint16, carry bool) uint16 {
	var c uint32
	if carry {
		c = 1
	}
	full := uint32(a) + uint32(b) + c
	result := uint16(full)
	f.Carry = full > 0xFFFF
	f.Overflow = (^(a^b)&(a^result))&0x8000 != 0
	f.Adjust = (a^b^result)&0x10 != 0
	f.setSZPWord(result)
	return result
}

// AddByte computes a+b and sets CF/OF/SF/ZF/PF/AF
func (f *Flags) AddByte(a, b uint8) uint8 { return f.addByte(a, b, false) }

// AddWord computes a+b and sets CF/OF/SF/ZF/PF/AF
func (f *Flags) AddWord(a, b uint16) uint16 { return f.addWord(a, b, false) }

// AdcByte computes a+b+CF
func (f *Flags) AdcByte(a, b uint8) uint8 { return f.addByte(a, b, f.Carry) }

// AdcWord computes a+b+CF
func (f *Flags) AdcWord(a, b uint16) uint16 { return f.addWord(a, b, f.Carry) }

func (f *Flags) subByte(a, b uint8, borrow bool) uint8 {
	var c uint16
	if borrow {
		c = 1
	}
	result := uint8(uint16(a) - uint16(b) - c)
	f.Carry = uint16(a) < uint16(b)+c
	f.Overflow = ((a^b)&(a^result))&0x80 != 0
	f.Adjust = (a^b^result)&0x10 != 0
	f.setSZPByte(result)
	return result
}

func (f *Flags) subWord(a, b uint16, borrow bool) uint16 {
	var c uint32
	if borrow {
		c = 1
	}
	result := uint16(uint32(a) - uint32(b) - c)
	f.Carry = uint32(a) < uint32(b)+c
	f.Overflow = ((a^b)&(a^result))&0x8000 != 0
	f.Adjust = (a^b^result)&0x10 != 0
	f.setSZPWord(result)
	return result
}

// SubByte computes a-b, setting the borrow in CF
func (f *Flags) SubByte(a, b uint8) uint8 { return f.subByte(a, b, false) }

// SubWord computes a-b, setting the borrow in CF
func (f *Flags) SubWord(a, b uint16) uint16 { return f.subWord(a, b, false) }

// SbbByte computes a-b-CF
func (f *Flags) SbbByte(a, b uint8) uint8 { return f.subByte(a, b, f.Carry) }

// SbbWord computes a-b-CF
func (f *Flags) SbbWord(a, b uint16) uint16 { return f.subWord(a, b, f.Carry) }

// CmpByte is SUB with the result discarded
func (f *Flags) CmpByte(a, b uint8) { f.subByte(a, b, false) }

// CmpWord is SUB with the result discarded
func (f *Flags) CmpWord(a, b uint16) { f.subWord(a, b, false) }

// IncByte computes a+1 without touching CF
func (f *Flags) IncByte(a uint8) uint8 {
	result := a + 1
	f.Overflow = result == 0x80
	f.Adjust = result&0x0F == 0
	f.setSZPByte(result)
	return result
}

// IncWord computes a+1 without touching CF
func (f *Flags) IncWord(a uint16) uint16 {
	result := a + 1
	f.Overflow = result == 0x8000
	f.Adjust = result&0x0F == 0
	f.setSZPWord(result)
	return result
}

// DecByte computes a-1 without touching CF
func (f *Flags) DecByte(a uint8) uint8 {
	result := a - 1
	f.Overflow = result == 0x7F
	f.Adjust = result&0x0F == 0x0F
	f.setSZPByte(result)
	return result
}

// DecWord computes a-1 without touching CF
func (f *Flags) DecWord(a uint16) uint16 {
	result := a - 1
	f.Overflow = result == 0x7FFF
	f.Adjust = result&0x0F == 0x0F
	f.setSZPWord(result)
	return result
}

// NegByte computes 0-a. CF is clear only when a is zero.
func (f *Flags) NegByte(a uint8) uint8 {
	result := -a
	f.Carry = a != 0
	f.Overflow = a == 0x80
	f.Adjust = a&0x0F != 0
	f.setSZPByte(result)
	return result
}

// NegWord computes 0-a. CF is clear only when a is zero.
func (f *Flags) NegWord(a uint16) uint16 {
	result := -a
	f.Carry = a != 0
	f.Overflow = a == 0x8000
	f.Adjust = a&0x0F != 0
	f.setSZPWord(result)
	return result
}

// logicByte is the common AND/OR/XOR/TEST flag rule: CF and OF clear,
// SF/ZF/PF from the result, AF untouched
func (f *Flags) logicByte(result uint8) uint8 {
	f.Carry = false
	f.Overflow = false
	f.setSZPByte(result)
	return result
}

func (f *Flags) logicWord(result uint16) uint16 {
	f.Carry = false
	f.Overflow = false
	f.setSZPWord(result)
	return result
}

// AndByte computes a&b with the logical flag rule
func (f *Flags) AndByte(a, b uint8) uint8 { return f.logicByte(a & b) }

// AndWord computes a&b with the logical flag rule
func (f *Flags) AndWord(a, b uint16) uint16 { return f.logicWord(a & b) }

// OrByte computes a|b with the logical flag rule
func (f *Flags) OrByte(a, b uint8) uint8 { return f.logicByte(a | b) }

// OrWord computes a|b with the logical flag rule
func (f *Flags) OrWord(a, b uint16) uint16 { return f.logicWord(a | b) }

// XorByte computes a^b with the logical flag rule
func (f *Flags) XorByte(a, b uint8) uint8 { return f.logicByte(a ^ b) }

// XorWord computes a^b with the logical flag rule
func (f *Flags) XorWord(a, b uint16) uint16 { return f.logicWord(a ^ b) }

// TestByte is AND with the result discarded
func (f *Flags) TestByte(a, b uint8) { f.logicByte(a & b) }

// TestWord is AND with the result discarded
func (f *Flags) TestWord(a, b uint16) { f.logicWord(a & b) }

// MulByte computes AL*b into a 16-bit product. CF and OF are set when the
// high byte is non-zero.
func (f *Flags) MulByte(al, b uint8) uint16 {
	result := uint16(al) * uint16(b)
	f.Carry = result>>8 != 0
	f.Overflow = f.Carry
	return result
}

// MulWord computes AX*b into a 32-bit product. CF and OF are set when the
// high word is non-zero.
func (f *Flags) MulWord(ax, b uint16) uint32 {
	result := uint32(ax) * uint32(b)
	f.Carry = result>>16 != 0
	f.Overflow = f.Carry
	return result
}

// IMulByte computes the signed product. CF and OF are set when the high
// byte is not the sign extension of the low byte.
func (f *Flags) IMulByte(al, b uint8) uint16 {
	result := int16(int8(al)) * int16(int8(b))
	f.Carry = result != int16(int8(result))
	f.Overflow = f.Carry
	return uint16(result)
}

// IMulWord computes the signed product. CF and OF are set when the high
// word is not the sign extension of the low word.
func (f *Flags) IMulWord(ax, b uint16) uint32 {
	result := int32(int16(ax)) * int32(int16(b))
	f.Carry = result != int32(int16(result))
	f.Overflow = f.Carry
	return uint32(result)
}

// DivByte divides AX by d. ok is false on divide-by-zero or quotient
// overflow; the caller must raise INT 0. All flags are left undefined.
func (f *Flags) DivByte(ax uint16, d uint8) (quot, rem uint8, ok bool) {
	if d == 0 {
		return 0, 0, false
	}
	q := ax / uint16(d)
	if q > 0xFF {
		return 0, 0, false
	}
	return uint8(q), uint8(ax % uint16(d)), true
}

// DivWord divides DX:AX by d
func (f *Flags) DivWord(dx, ax, d uint16) (quot, rem uint16, ok bool) {
	if d == 0 {
		return 0, 0, false
	}
	full := uint32(dx)<<16 | uint32(ax)
	q := full / uint32(d)
	if q > 0xFFFF {
		return 0, 0, false
	}
	return uint16(q), uint16(full % uint32(d)), true
}

// IDivByte divides AX by d as signed values
func (f *Flags) IDivByte(ax uint16, d uint8) (quot, rem uint8, ok bool) {
	if d == 0 {
		return 0, 0, false
	}
	full := int16(ax)
	div := int16(int8(d))
	q := full / div
	if q < -0x80 || q > 0x7F {
		return 0, 0, false
	}
	return uint8(q), uint8(full % div), true
}

// IDivWord divides DX:AX by d as signed values
func (f *Flags) IDivWord(dx, ax, d uint16) (quot, rem uint16, ok bool) {
	if d == 0 {
		return 0, 0, false
	}
	full := int32(uint32(dx)<<16 | uint32(ax))
	div := int32(int16(d))
	q := full / div
	if q < -0x8000 || q > 0x7FFF {
		return 0, 0, false
	}
	return uint16(q), uint16(full % div), true
}

// ShlByte shifts left, CF taking the last bit shifted out. OF is computed
// from the final step (defined by Intel for count 1 only).
func (f *Flags) ShlByte(v uint8, count uint8) uint8 {
	if count == 0 {
		return v
	}
	for i := uint8(0); i < count; i++ {
		f.Carry = v&0x80 != 0
		v <<= 1
	}
	f.Overflow = (v&0x80 != 0) != f.Carry
	f.setSZPByte(v)
	return v
}

// ShlWord shifts left, CF taking the last bit shifted out
func (f *Flags) ShlWord(v uint16, count uint8) uint16 {
	if count == 0 {
		return v
	}
	for i := uint8(0); i < count; i++ {
		f.Carry = v&0x8000 != 0
		v <<= 1
	}
	f.Overflow = (v&0x8000 != 0) != f.Carry
	f.setSZPWord(v)
	return v
}

// ShrByte shifts right, CF taking the last bit shifted out. OF is the MSB
// of the value before the final step.
func (f *Flags) ShrByte(v uint8, count uint8) uint8 {
	if count == 0 {
		return v
	}
	for i := uint8(0); i < count; i++ {
		f.Overflow = v&0x80 != 0
		f.Carry = v&1 != 0
		v >>= 1
	}
	f.setSZPByte(v)
	return v
}

// ShrWord shifts right, CF taking the last bit shifted out
func (f *Flags) ShrWord(v uint16, count uint8) uint16 {
	if count == 0 {
		return v
	}
	for i := uint8(0); i < count; i++ {
		f.Overflow = v&0x8000 != 0
		f.Carry = v&1 != 0
		v >>= 1
	}
	f.setSZPWord(v)
	return v
}

// SarByte shifts right preserving the sign bit. OF is always cleared.
func (f *Flags) SarByte(v uint8, count uint8) uint8 {
	if count == 0 {
		return v
	}
	sv := int8(v)
	for i := uint8(0); i < count; i++ {
		f.Carry = sv&1 != 0
		sv >>= 1
	}
	f.Overflow = false
	f.setSZPByte(uint8(sv))
	return uint8(sv)
}

// SarWord shifts right preserving the sign bit. OF is always cleared.
func (f *Flags) SarWord(v uint16, count uint8) uint16 {
	if count == 0 {
		return v
	}
	sv := int16(v)
	for i := uint8(0); i < count; i++ {
		f.Carry = sv&1 != 0
		sv >>= 1
	}
	f.Overflow = false
	f.setSZPWord(uint16(sv))
	return uint16(sv)
}

// RolByte rotates left; CF takes the bit rotated around. SF/ZF/PF are
// untouched by rotates.
func (f *Flags) RolByte(v uint8, count uint8) uint8 {
	if count == 0 {
		return v
	}
	for i := uint8(0); i < count; i++ {
		v = v<<1 | v>>7
		f.Carry = v&1 != 0
	}
	f.Overflow = (v&0x80 != 0) != f.Carry
	return v
}

// RolWord rotates left; CF takes the bit rotated around
func (f *Flags) RolWord(v uint16, count uint8) uint16 {
	if count == 0 {
		return v
	}
	for i := uint8(0); i < count; i++ {
		v = v<<1 | v>>15
		f.Carry = v&1 != 0
	}
	f.Overflow = (v&0x8000 != 0) != f.Carry
	return v
}

// RorByte rotates right; CF takes the bit rotated around
func (f *Flags) RorByte(v uint8, count uint8) uint8 {
	if count == 0 {
		return v
	}
	for i := uint8(0); i < count; i++ {
		v = v>>1 | v<<7
		f.Carry = v&0x80 != 0
	}
	f.Overflow = ((v>>7)^(v>>6))&1 != 0
	return v
}

// RorWord rotates right; CF takes the bit rotated around
func (f *Flags) RorWord(v uint16, count uint8) uint16 {
	if count == 0 {
		return v
	}
	for i := uint8(0); i < count; i++ {
		v = v>>1 | v<<15
		f.Carry = v&0x8000 != 0
	}
	f.Overflow = ((v>>15)^(v>>14))&1 != 0
	return v
}

// RclByte rotates left through CF as a ninth bit
func (f *Flags) RclByte(v uint8, count uint8) uint8 {
	if count == 0 {
		return v
	}
	for i := uint8(0); i < count; i++ {
		high := v&0x80 != 0
		v <<= 1
		if f.Carry {
			v |= 1
		}
		f.Carry = high
	}
	f.Overflow = (v&0x80 != 0) != f.Carry
	return v
}

// RclWord rotates left through CF as a seventeenth bit
func (f *Flags) RclWord(v uint16, count uint8) uint16 {
	if count == 0 {
		return v
	}
	for i := uint8(0); i < count; i++ {
		high := v&0x8000 != 0
		v <<= 1
		if f.Carry {
			v |= 1
		}
		f.Carry = high
	}
	f.Overflow = (v&0x8000 != 0) != f.Carry
	return v
}

// RcrByte rotates right through CF as a ninth bit
func (f *Flags) RcrByte(v uint8, count uint8) uint8 {
	if count == 0 {
		return v
	}
	f.Overflow = (v&0x80 != 0) != f.Carry
	for i := uint8(0); i < count; i++ {
		low := v&1 != 0
		v >>= 1
		if f.Carry {
			v |= 0x80
		}
		f.Carry = low
	}
	return v
}

// RcrWord rotates right through CF as a seventeenth bit
func (f *Flags) RcrWord(v uint16, count uint8) uint16 {
	if count == 0 {
		return v
	}
	f.Overflow = (v&0x8000 != 0) != f.Carry
	for i := uint8(0); i < count; i++ {
		low := v&1 != 0
		v >>= 1
		if f.Carry {
			v |= 0x8000
		}
		f.Carry = low
	}
	return v
}

// Daa decimal-adjusts AL after an addition
func (f *Flags) Daa(al uint8) uint8 {
	old := al
	oldCF := f.Carry
	if al&0x0F > 9 || f.Adjust {
		al += 6
		f.Adjust = true
	} else {
		f.Adjust = false
	}
	if old > 0x99 || oldCF {
		al += 0x60
		f.Carry = true
	} else {
		f.Carry = false
	}
	f.setSZPByte(al)
	return al
}

// Das decimal-adjusts AL after a subtraction
func (f *Flags) Das(al uint8) uint8 {
	old := al
	oldCF := f.Carry
	if al&0x0F > 9 || f.Adjust {
		al -= 6
		f.Adjust = true
	} else {
		f.Adjust = false
	}
	if old > 0x99 || oldCF {
		al -= 0x60
		f.Carry = true
	} else {
		f.Carry = false
	}
	f.setSZPByte(al)
	return al
}

// Aaa ASCII-adjusts AL after an addition, carrying into AH
func (f *Flags) Aaa(al, ah uint8) (uint8, uint8) {
	if al&0x0F > 9 || f.Adjust {
		al += 6
		ah++
		f.Adjust = true
		f.Carry = true
	} else {
		f.Adjust = false
		f.Carry = false
	}
	return al & 0x0F, ah
}

// Aas ASCII-adjusts AL after a subtraction, borrowing from AH
func (f *Flags) Aas(al, ah uint8) (uint8, uint8) {
	if al&0x0F > 9 || f.Adjust {
		al -= 6
		ah--
		f.Adjust = true
		f.Carry = true
	} else {
		f.Adjust = false
		f.Carry = false
	}
	return al & 0x0F, ah
}

// Aam splits AL by the divisor (10 in the documented encoding). ok is false
// on a zero divisor; the caller must raise INT 0.
func (f *Flags) Aam(al, divisor uint8) (newAL, newAH uint8, ok bool) {
	if divisor == 0 {
		return 0, 0, false
	}
	newAH = al / divisor
	newAL = al % divisor
	f.setSZPByte(newAL)
	return newAL, newAH, true
}

// Aad recombines AH and AL by the multiplier (10 in the documented encoding)
func (f *Flags) Aad(al, ah, mult uint8) uint8 {
	result := al + ah*mult
	f.setSZPByte(result)
	return result
}
