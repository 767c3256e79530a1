package pson

import "github.com/arloliu/pson/endian"

// Sink is the byte sink the encoder writes to. buffer.Buffer is the stock
// in-memory implementation; callers may supply their own, for example to
// frame multiple encoded values into one transport buffer.
//
// The encoder forces the sink's byte order to little-endian for the duration
// of each encode call and restores the previous engine on every exit path,
// including when a write fails.
//
// Write failures abort the encode call and propagate to the caller
// unchanged; the encoder never retries.
type Sink interface {
	// WriteUint8 appends a single byte.
	WriteUint8(v byte) error
	// WriteUvarint appends an unsigned variable-length integer.
	WriteUvarint(v uint64) error
	// WriteZigZag32 appends a signed 32-bit integer as a zigzag varint.
	WriteZigZag32(v int32) error
	// WriteZigZag64 appends a signed 64-bit integer as a zigzag varint.
	WriteZigZag64(v int64) error
	// WriteFloat32 appends a 4-byte IEEE-754 float in the sink's byte order.
	WriteFloat32(v float32) error
	// WriteFloat64 appends an 8-byte IEEE-754 double in the sink's byte order.
	WriteFloat64(v float64) error
	// WriteVString appends a uvarint byte length followed by UTF-8 bytes.
	WriteVString(s string) error
	// Append appends raw bytes verbatim.
	Append(p []byte) error
	// Order returns the sink's current byte order engine.
	Order() endian.EndianEngine
	// SetOrder sets the sink's byte order engine.
	SetOrder(engine endian.EndianEngine)
}
