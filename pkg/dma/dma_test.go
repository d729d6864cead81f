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

package dma

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlipFlopAssemblesAddress(t *testing.T) {
	d := New()
	d.MasterReset()
	d.SetAddress(0, 0x34)
	d.SetAddress(0, 0x12)
	assert.Equal(t, uint16(0x1234), d.channels[0].address)

	// reads walk the same flip-flop protocol, low byte first
	assert.Equal(t, uint8(0x34), d.Address(0))
	assert.Equal(t, uint8(0x12), d.Address(0))
}

func TestFlipFlopAssemblesCount(t *testing.T) {
	d := New()
	d.MasterReset()
	d.SetCount(2, 0xFF)
	d.SetCount(2, 0x00)
	assert.Equal(t, uint16(0x00FF), d.channels[2].count)
	assert.Equal(t, uint8(0xFF), d.Count(2))
	assert.Equal(t, uint8(0x00), d.Count(2))
}

func TestResetFlipFlopRealignsHalves(t *testing.T) {
	d := New()
	d.SetAddress(1, 0x34) // flip-flop now high
	d.ResetFlipFlop()
	d.SetAddress(1, 0x78)
	d.SetAddress(1, 0x56)
	assert.Equal(t, uint16(0x5678), d.channels[1].address)
}

func TestMasterResetMasksAllAndLowersFlipFlops(t *testing.T) {
	d := New()
	d.SetStatus(0b100)
	d.SetAddress(3, 0x01) // leave a flip-flop high
	d.MasterReset()
	assert.False(t, d.enabled)
	for i := range d.channels {
		assert.True(t, d.channels[i].mask)
		assert.Equal(t, Low, d.channels[i].flipFlop)
	}

	d.ResetMask()
	for i := range d.channels {
		assert.False(t, d.channels[i].mask)
	}
}

func TestSetMasksAndSingleMask(t *testing.T) {
	d := New()
	d.SetMasks(0b0101)
	assert.True(t, d.channels[0].mask)
	assert.False(t, d.channels[1].mask)
	assert.True(t, d.channels[2].mask)
	assert.False(t, d.channels[3].mask)

	d.SetMask(0b101) // channel 1, mask on
	assert.True(t, d.channels[1].mask)
	d.SetMask(0b001) // channel 1, mask off
	assert.False(t, d.channels[1].mask)
}

func TestModeRegisterDecodes(t *testing.T) {
	d := New()
	// channel 2, read-from-memory, single
	d.SetMode(0b01_00_10_10)
	assert.Equal(t, ReadFromMemory, d.channels[2].transferType)
	assert.Equal(t, SingleDMA, d.channels[2].transferMode)

	// reserved transfer type falls back to self test
	d.SetMode(0b00_00_11_01)
	assert.Equal(t, SelfTest, d.channels[1].transferType)
}
