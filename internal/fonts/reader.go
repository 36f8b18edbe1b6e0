package fonts

import (
	"encoding/binary"
	"fmt"
)

// Binary reader primitives for sfnt data.
//
// All multi-byte integers in a TrueType file are big-endian. These helpers
// read at explicit offsets over raw byte slices; callers validate bounds
// once per table (via boundsCheck or tableSlice) and then read freely
// within the validated window.

// readU8 reads an unsigned byte at off.
func readU8(data []byte, off int) uint8 {
	return data[off]
}

// readU16 reads a big-endian uint16 at off.
func readU16(data []byte, off int) uint16 {
	return binary.BigEndian.Uint16(data[off:])
}

// readI16 reads a big-endian int16 at off.
func readI16(data []byte, off int) int16 {
	return int16(binary.BigEndian.Uint16(data[off:]))
}

// readU32 reads a big-endian uint32 at off.
func readU32(data []byte, off int) uint32 {
	return binary.BigEndian.Uint32(data[off:])
}

// readTag reads a 4-byte ASCII table tag at off.
func readTag(data []byte, off int) string {
	return string(data[off : off+4])
}

// boundsCheck verifies that n bytes starting at off lie within data.
func boundsCheck(data []byte, off, n int) error {
	if off < 0 || n < 0 || off+n > len(data) {
		return fmt.Errorf("read of %d bytes at offset %d exceeds %d-byte buffer", n, off, len(data))
	}
	return nil
}

// tableSlice returns a bounds-checked view of n bytes at off.
// The returned slice aliases data; it is never a copy.
func tableSlice(data []byte, off, n int) ([]byte, error) {
	if err := boundsCheck(data, off, n); err != nil {
		return nil, err
	}
	return data[off : off+n], nil
}
