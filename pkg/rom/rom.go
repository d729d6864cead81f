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

// Package rom loads and validates the binary ROM images the machine boots
// from.
package rom

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
)

// ROM image size limits of the XT memory map
const (
	// BIOSSize is the exact size a BIOS image must have
	BIOSSize = 0x10000
	// VideoSlotSize is the option slot at 0xC0000
	VideoSlotSize = 0x8000
	// DiskSlotSize is the option slot at 0xC8000
	DiskSlotSize = 0x28000
)

// Read slurps a ROM image from a reader
func Read(reader io.Reader) ([]byte, error) {
	if reader == nil {
		return nil, errors.New("invalid reader")
	}
	data, err := ioutil.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "read rom image")
	}
	return data, nil
}

// Load reads a ROM image from disk. An empty path is an intentionally
// absent option ROM and loads as an empty slot.
func Load(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open rom %q", path)
	}
	defer f.Close()
	return Read(f)
}

// LoadBIOS loads and validates the 64 KiB BIOS image
func LoadBIOS(path string) ([]byte, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	if len(data) != BIOSSize {
		return nil, errors.Errorf("bios rom %q is %#x bytes, must be %#x", path, len(data), BIOSSize)
	}
	return data, nil
}

// LoadVideo loads the optional video ROM and checks it fits its slot
func LoadVideo(path string) ([]byte, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	if len(data) > VideoSlotSize {
		return nil, errors.Errorf("video rom %q is %#x bytes, slot holds %#x", path, len(data), VideoSlotSize)
	}
	return data, nil
}

// LoadDisk loads the optional disk ROM and checks it fits its slot
func LoadDisk(path string) ([]byte, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	if len(data) > DiskSlotSize {
		return nil, errors.Errorf("disk rom %q is %#x bytes, slot holds %#x", path, len(data), DiskSlotSize)
	}
	return data, nil
}
