package buffer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arloliu/pson/endian"
	"github.com/arloliu/pson/errs"
)

// Reader consumes bytes produced by a Buffer. It validates every read against
// the remaining input and never panics on malformed data.
//
// Reader is not safe for concurrent use.
type Reader struct {
	data   []byte
	off    int
	engine endian.EndianEngine
}

// NewReader creates a Reader over data with a little-endian byte order
// engine. The reader does not copy data; the caller must not modify it while
// reading.
func NewReader(data []byte) *Reader {
	return &Reader{
		data:   data,
		engine: endian.Little(),
	}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Order returns the current byte order engine.
func (r *Reader) Order() endian.EndianEngine {
	return r.engine
}

// SetOrder sets the byte order engine used for fixed-width values.
// A nil engine resets the reader to little-endian.
func (r *Reader) SetOrder(engine endian.EndianEngine) {
	if engine == nil {
		engine = endian.Little()
	}
	r.engine = engine
}

// ReadUint8 consumes and returns a single byte.
func (r *Reader) ReadUint8() (byte, error) {
	if r.Remaining() < 1 {
		return 0, fmt.Errorf("%w: need 1 byte at offset %d", errs.ErrTruncated, r.off)
	}

	v := r.data[r.off]
	r.off++

	return v, nil
}

// ReadUvarint consumes and returns an unsigned variable-length integer.
func (r *Reader) ReadUvarint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.off:])
	if n == 0 {
		return 0, fmt.Errorf("%w: unterminated varint at offset %d", errs.ErrTruncated, r.off)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: at offset %d", errs.ErrVarintOverflow, r.off)
	}

	r.off += n

	return v, nil
}

// ReadZigZag32 consumes a zigzag-encoded variable-length integer and returns
// the signed 32-bit value.
func (r *Reader) ReadZigZag32() (int32, error) {
	u, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, fmt.Errorf("%w: zigzag32 value %d", errs.ErrVarintOverflow, u)
	}

	return UnZigZag32(uint32(u)), nil
}

// ReadZigZag64 consumes a zigzag-encoded variable-length integer and returns
// the signed 64-bit value.
func (r *Reader) ReadZigZag64() (int64, error) {
	u, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}

	return UnZigZag64(u), nil
}

// ReadFloat32 consumes a 4-byte IEEE-754 float in the reader's byte order.
func (r *Reader) ReadFloat32() (float32, error) {
	if r.Remaining() < 4 {
		return 0, fmt.Errorf("%w: need 4 bytes at offset %d", errs.ErrTruncated, r.off)
	}

	bits := r.engine.Uint32(r.data[r.off:])
	r.off += 4

	return math.Float32frombits(bits), nil
}

// ReadFloat64 consumes an 8-byte IEEE-754 double in the reader's byte order.
func (r *Reader) ReadFloat64() (float64, error) {
	if r.Remaining() < 8 {
		return 0, fmt.Errorf("%w: need 8 bytes at offset %d", errs.ErrTruncated, r.off)
	}

	bits := r.engine.Uint64(r.data[r.off:])
	r.off += 8

	return math.Float64frombits(bits), nil
}

// ReadVString consumes a uvarint byte length followed by that many UTF-8
// bytes and returns them as a string.
func (r *Reader) ReadVString() (string, error) {
	p, err := r.readLengthPrefixed()
	if err != nil {
		return "", err
	}

	return string(p), nil
}

// ReadBytes consumes exactly n bytes and returns a copy owned by the caller.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			errs.ErrLengthRange, n, r.off, r.Remaining())
	}

	p := make([]byte, n)
	copy(p, r.data[r.off:])
	r.off += n

	return p, nil
}

// readLengthPrefixed consumes a uvarint length and returns a view of that
// many bytes. The returned slice aliases the reader's input.
func (r *Reader) readLengthPrefixed() ([]byte, error) {
	n, err := r.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Remaining()) {
		return nil, fmt.Errorf("%w: length %d at offset %d, have %d",
			errs.ErrLengthRange, n, r.off, r.Remaining())
	}

	p := r.data[r.off : r.off+int(n)]
	r.off += int(n)

	return p, nil
}
