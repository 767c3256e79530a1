// Package endian provides byte order engines for the pson wire format.
//
// It combines the ByteOrder and AppendByteOrder interfaces from the standard
// encoding/binary package into a single EndianEngine interface, so buffers can
// both read fixed-width values and append them without a temporary scratch
// slice.
//
// The pson wire format is little-endian: the encoder forces every sink to
// Little() for the duration of an encode call and restores the previous
// engine on exit. Big() exists for callers that reuse a buffer with other,
// big-endian formats between encode calls.
//
// All engines returned by this package are immutable and safe for concurrent
// use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine is the byte order used by a buffer for fixed-width values
// (the 4-byte float and 8-byte double payloads). It is satisfied by
// binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Little returns the little-endian engine, the fixed byte order of the pson
// wire format.
func Little() EndianEngine {
	return binary.LittleEndian
}

// Big returns the big-endian engine.
func Big() EndianEngine {
	return binary.BigEndian
}

// Native returns the engine matching the host byte order.
func Native() EndianEngine {
	// For a little-endian host the LSB of 0x0100 sits at the lowest address.
	var probe uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&probe))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return Native() == Little()
}
