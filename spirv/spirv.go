// Package spirv provides word-level access to SPIR-V binaries.
//
// SPIR-V is a stream of 32-bit words whose byte order is declared by
// the magic number in the first word: 0x07230203 read back in the
// producer's byte order. The package detects that byte order, splits a
// binary into words, and renders a binary in the two textual encodings
// used by precompiled test scripts (base64 and wrapped hex words).
//
// Only the magic word is interpreted; the rest of the binary is treated
// as opaque words.
package spirv

import (
	"encoding/binary"
	"fmt"
)

// Magic is the SPIR-V magic number.
const Magic uint32 = 0x07230203

// WordSize is the size in bytes of one SPIR-V word.
const WordSize = 4

// ErrMalformed reports a binary whose size cannot hold SPIR-V words:
// empty, shorter than one word, or not a multiple of the word size.
var ErrMalformed = fmt.Errorf("malformed SPIR-V binary size")

// ErrBadMagic reports a first word that is not the SPIR-V magic number
// in either byte order.
var ErrBadMagic = fmt.Errorf("invalid SPIR-V magic number")

// ByteOrder detects the byte order of a SPIR-V binary from its magic
// number. The first four bytes read as a big-endian word must be either
// Magic (big-endian binary) or Magic with its bytes reversed
// (little-endian binary); anything else is ErrBadMagic.
func ByteOrder(data []byte) (binary.ByteOrder, error) {
	if len(data) < WordSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformed, len(data))
	}
	switch binary.BigEndian.Uint32(data[:WordSize]) {
	case Magic:
		return binary.BigEndian, nil
	case 0x03022307:
		return binary.LittleEndian, nil
	default:
		return nil, fmt.Errorf("%w: 0x%08x", ErrBadMagic, binary.BigEndian.Uint32(data[:WordSize]))
	}
}

// Words splits a SPIR-V binary into 32-bit words using the byte order
// declared by its magic number, and returns that byte order. The binary
// must be at least one word long and a whole number of words.
func Words(data []byte) ([]uint32, binary.ByteOrder, error) {
	if len(data) == 0 || len(data)%WordSize != 0 {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrMalformed, len(data))
	}
	order, err := ByteOrder(data)
	if err != nil {
		return nil, nil, err
	}
	words := make([]uint32, len(data)/WordSize)
	for i := range words {
		words[i] = order.Uint32(data[i*WordSize:])
	}
	return words, order, nil
}
