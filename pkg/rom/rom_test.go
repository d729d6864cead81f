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

package rom

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempROM(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.rom")
	require.NoError(t, ioutil.WriteFile(path, bytes.Repeat([]byte{0xAA}, size), 0o644))
	return path
}

func TestReadSlurpsImage(t *testing.T) {
	data, err := Read(bytes.NewReader([]byte{1, 2, 3}))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = Read(nil)
	assert.Error(t, err)
}

func TestLoadBIOSRequiresExactSize(t *testing.T) {
	data, err := LoadBIOS(writeTempROM(t, BIOSSize))
	require.NoError(t, err)
	assert.Len(t, data, BIOSSize)

	_, err = LoadBIOS(writeTempROM(t, BIOSSize-1))
	assert.Error(t, err)
	_, err = LoadBIOS(writeTempROM(t, BIOSSize+1))
	assert.Error(t, err)
}

func TestOptionROMsMustFitTheirSlots(t *testing.T) {
	_, err := LoadVideo(writeTempROM(t, VideoSlotSize))
	assert.NoError(t, err)
	_, err = LoadVideo(writeTempROM(t, VideoSlotSize+1))
	assert.Error(t, err)

	_, err = LoadDisk(writeTempROM(t, DiskSlotSize))
	assert.NoError(t, err)
	_, err = LoadDisk(writeTempROM(t, DiskSlotSize+1))
	assert.Error(t, err)
}

func TestEmptyPathIsEmptySlot(t *testing.T) {
	data, err := LoadVideo("")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(os.TempDir(), "no-such-rom.bin"))
	assert.Error(t, err)
}
