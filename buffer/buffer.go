// Package buffer implements the byte sink and reader used by the pson codec.
//
// Buffer is the write side: an append-only byte slice with a switchable byte
// order engine for fixed-width values, plus the variable-length primitives the
// wire format is built from (uvarint, zigzag varint, length-prefixed UTF-8
// string, raw append). Reader is the read-side mirror.
//
// All Buffer write methods return an error so the type satisfies the codec's
// sink contract; the in-memory implementation itself never fails. Neither type
// is safe for concurrent use.
package buffer

import (
	"encoding/binary"
	"math"

	"github.com/arloliu/pson/endian"
)

// Buffer is an in-memory byte sink with amortized growth.
//
// The zero value is not usable; create buffers with NewBuffer.
type Buffer struct {
	buf    []byte
	engine endian.EndianEngine
}

// NewBuffer creates a Buffer with the given initial capacity and a
// little-endian byte order engine.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		buf:    make([]byte, 0, capacity),
		engine: endian.Little(),
	}
}

// Bytes returns the accumulated bytes. The returned slice shares the
// underlying array with the buffer; it is valid until the next write or
// Reset, and the caller must not modify it.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the number of bytes written since the last Reset.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Cap returns the capacity of the underlying slice.
func (b *Buffer) Cap() int {
	return cap(b.buf)
}

// Reset truncates the buffer to zero length, retaining the allocated memory
// for reuse. The byte order engine is reset to little-endian.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.engine = endian.Little()
}

// Grow ensures the buffer can hold n more bytes without reallocating.
func (b *Buffer) Grow(n int) {
	if cap(b.buf)-len(b.buf) >= n {
		return
	}

	newBuf := make([]byte, len(b.buf), len(b.buf)+n)
	copy(newBuf, b.buf)
	b.buf = newBuf
}

// Order returns the current byte order engine.
func (b *Buffer) Order() endian.EndianEngine {
	return b.engine
}

// SetOrder sets the byte order engine used for fixed-width values.
// A nil engine resets the buffer to little-endian.
func (b *Buffer) SetOrder(engine endian.EndianEngine) {
	if engine == nil {
		engine = endian.Little()
	}
	b.engine = engine
}

// WriteUint8 appends a single byte.
func (b *Buffer) WriteUint8(v byte) error {
	b.buf = append(b.buf, v)
	return nil
}

// WriteUvarint appends v as an unsigned variable-length integer.
func (b *Buffer) WriteUvarint(v uint64) error {
	b.buf = binary.AppendUvarint(b.buf, v)
	return nil
}

// WriteZigZag32 appends v zigzag-encoded as a variable-length integer.
func (b *Buffer) WriteZigZag32(v int32) error {
	b.buf = binary.AppendUvarint(b.buf, uint64(ZigZag32(v)))
	return nil
}

// WriteZigZag64 appends v zigzag-encoded as a variable-length integer.
func (b *Buffer) WriteZigZag64(v int64) error {
	b.buf = binary.AppendUvarint(b.buf, ZigZag64(v))
	return nil
}

// WriteFloat32 appends v as a 4-byte IEEE-754 float in the buffer's byte
// order.
func (b *Buffer) WriteFloat32(v float32) error {
	b.buf = b.engine.AppendUint32(b.buf, math.Float32bits(v))
	return nil
}

// WriteFloat64 appends v as an 8-byte IEEE-754 double in the buffer's byte
// order.
func (b *Buffer) WriteFloat64(v float64) error {
	b.buf = b.engine.AppendUint64(b.buf, math.Float64bits(v))
	return nil
}

// WriteVString appends s as a uvarint byte length followed by the raw UTF-8
// bytes.
func (b *Buffer) WriteVString(s string) error {
	b.buf = binary.AppendUvarint(b.buf, uint64(len(s)))
	b.buf = append(b.buf, s...)

	return nil
}

// Append appends p verbatim.
func (b *Buffer) Append(p []byte) error {
	b.buf = append(b.buf, p...)
	return nil
}

// ZigZag32 maps a signed 32-bit integer onto an unsigned one, interleaving
// positive and negative values so small magnitudes stay small:
// 0→0, -1→1, 1→2, -2→3, ...
func ZigZag32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

// UnZigZag32 is the inverse of ZigZag32.
func UnZigZag32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

// ZigZag64 maps a signed 64-bit integer onto an unsigned one; see ZigZag32.
func ZigZag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// UnZigZag64 is the inverse of ZigZag64.
func UnZigZag64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
