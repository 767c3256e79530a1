package buffer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pson/endian"
	"github.com/arloliu/pson/errs"
)

func TestReaderRoundTrip(t *testing.T) {
	buf := NewBuffer(64)
	require.NoError(t, buf.WriteUint8(0x42))
	require.NoError(t, buf.WriteUvarint(300))
	require.NoError(t, buf.WriteZigZag32(-12345))
	require.NoError(t, buf.WriteZigZag64(math.MinInt64))
	require.NoError(t, buf.WriteFloat32(1.5))
	require.NoError(t, buf.WriteFloat64(math.Pi))
	require.NoError(t, buf.WriteVString("hello"))
	require.NoError(t, buf.Append([]byte{9, 8, 7}))

	r := NewReader(buf.Bytes())

	b, err := r.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, byte(0x42), b)

	u, err := r.ReadUvarint()
	require.NoError(t, err)
	require.Equal(t, uint64(300), u)

	i32, err := r.ReadZigZag32()
	require.NoError(t, err)
	require.Equal(t, int32(-12345), i32)

	i64, err := r.ReadZigZag64()
	require.NoError(t, err)
	require.Equal(t, int64(math.MinInt64), i64)

	f32, err := r.ReadFloat32()
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f32)

	f64, err := r.ReadFloat64()
	require.NoError(t, err)
	require.Equal(t, math.Pi, f64)

	s, err := r.ReadVString()
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	p, err := r.ReadBytes(3)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 8, 7}, p)

	require.Equal(t, 0, r.Remaining())
	require.Equal(t, buf.Len(), r.Offset())
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader(nil)
	_, err := r.ReadUint8()
	require.ErrorIs(t, err, errs.ErrTruncated)

	r = NewReader([]byte{0x80}) // unterminated varint
	_, err = r.ReadUvarint()
	require.ErrorIs(t, err, errs.ErrTruncated)

	r = NewReader([]byte{0x00, 0x00})
	_, err = r.ReadFloat32()
	require.ErrorIs(t, err, errs.ErrTruncated)

	r = NewReader([]byte{0x00, 0x00, 0x00, 0x00})
	_, err = r.ReadFloat64()
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestReaderVarintOverflow(t *testing.T) {
	// 11 continuation bytes overflow a 64-bit varint.
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	r := NewReader(data)
	_, err := r.ReadUvarint()
	require.ErrorIs(t, err, errs.ErrVarintOverflow)
}

func TestReaderZigZag32Overflow(t *testing.T) {
	buf := NewBuffer(16)
	require.NoError(t, buf.WriteUvarint(uint64(math.MaxUint32)+1))

	r := NewReader(buf.Bytes())
	_, err := r.ReadZigZag32()
	require.ErrorIs(t, err, errs.ErrVarintOverflow)
}

func TestReaderVStringLengthRange(t *testing.T) {
	// Declares 5 bytes but carries only 2.
	r := NewReader([]byte{0x05, 'h', 'i'})
	_, err := r.ReadVString()
	require.ErrorIs(t, err, errs.ErrLengthRange)
}

func TestReaderReadBytesRange(t *testing.T) {
	r := NewReader([]byte{1, 2})

	_, err := r.ReadBytes(3)
	require.ErrorIs(t, err, errs.ErrLengthRange)

	_, err = r.ReadBytes(-1)
	require.ErrorIs(t, err, errs.ErrLengthRange)

	p, err := r.ReadBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, p)
}

func TestReaderOrder(t *testing.T) {
	data := []byte{0x3F, 0x00, 0x00, 0x00}

	r := NewReader(data)
	r.SetOrder(endian.Big())
	f, err := r.ReadFloat32()
	require.NoError(t, err)
	require.Equal(t, float32(0.5), f)

	r.SetOrder(nil)
	require.Equal(t, endian.Little(), r.Order())
}

func TestReaderBytesCopy(t *testing.T) {
	data := []byte{1, 2, 3}
	r := NewReader(data)

	p, err := r.ReadBytes(3)
	require.NoError(t, err)

	// The returned slice must be a copy, detached from the input.
	data[0] = 99
	require.Equal(t, []byte{1, 2, 3}, p)
}
