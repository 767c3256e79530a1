package pson

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pson/buffer"
	"github.com/arloliu/pson/endian"
	"github.com/arloliu/pson/errs"
)

func TestEncodeSmallIntegers(t *testing.T) {
	enc := NewEncoder()

	cases := []struct {
		value float64
		tag   byte
	}{
		{0, 0x00},
		{-1, 0x01},
		{1, 0x02},
		{-2, 0x03},
		{119, 0xEE},  // zigzag 238, last even value in the fast path
		{-120, 0xEF}, // zigzag 239 == MaxSmallTag
	}

	for _, tc := range cases {
		data, err := enc.Encode(Number(tc.value))
		require.NoError(t, err)
		require.Equal(t, []byte{tc.tag}, data, "encode(%v)", tc.value)
	}
}

func TestEncodeIntegerOutsideFastPath(t *testing.T) {
	enc := NewEncoder()

	// zigzag32(120) == 240, one past the fast-path threshold.
	data, err := enc.Encode(Number(120))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagInteger), 0xF0, 0x01}, data)

	data, err = enc.Encode(Number(-121))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagInteger), 0xF1, 0x01}, data)

	data, err = enc.Encode(Number(math.MinInt32))
	require.NoError(t, err)
	require.Equal(t, byte(TagInteger), data[0])
}

func TestEncodeIntegralBeyondInt32(t *testing.T) {
	enc := NewEncoder()

	// Integral numbers outside the 32-bit range take the Long form.
	data, err := enc.Encode(Number(1 << 40))
	require.NoError(t, err)
	require.Equal(t, byte(TagLong), data[0])

	v, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, KindLong, v.Kind())
	require.Equal(t, int64(1<<40), v.Long())

	// Beyond int64 the value is no longer integral-representable and falls
	// back to a float form.
	data, err = enc.Encode(Number(1e300))
	require.NoError(t, err)
	require.Equal(t, byte(TagDouble), data[0])
}

func TestEncodeLong(t *testing.T) {
	enc := NewEncoder()

	data, err := enc.Encode(Long(1))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagLong), 0x02}, data)

	data, err = enc.Encode(Long(math.MinInt64))
	require.NoError(t, err)
	require.Equal(t, byte(TagLong), data[0])

	v, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, int64(math.MinInt64), v.Long())
}

func TestEncodeFloatNarrowing(t *testing.T) {
	enc := NewEncoder()

	// 0.5 survives the float32 round trip: 4-byte form.
	data, err := enc.Encode(Number(0.5))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagFloat), 0x00, 0x00, 0x00, 0x3F}, data)

	// 0.1 does not: 8-byte form.
	data, err = enc.Encode(Number(0.1))
	require.NoError(t, err)
	require.Equal(t, byte(TagDouble), data[0])
	require.Len(t, data, 9)

	// Either way the decoded value is exact.
	for _, f := range []float64{0.5, 0.1, 1.25, -3.75, 2.2e-8, 1e300} {
		data, err := enc.Encode(Number(f))
		require.NoError(t, err)

		v, err := Unmarshal(data)
		require.NoError(t, err)
		require.Equal(t, KindNumber, v.Kind())
		require.Equal(t, f, v.Number(), "round trip %v", f)
	}
}

func TestEncodeNonFinite(t *testing.T) {
	enc := NewEncoder()

	// NaN never equals itself, so the round-trip test always fails into the
	// Double form.
	data, err := enc.Encode(Number(math.NaN()))
	require.NoError(t, err)
	require.Equal(t, byte(TagDouble), data[0])

	v, err := Unmarshal(data)
	require.NoError(t, err)
	require.True(t, math.IsNaN(v.Number()))

	// Infinity is exact in float32.
	data, err = enc.Encode(Number(math.Inf(1)))
	require.NoError(t, err)
	require.Equal(t, byte(TagFloat), data[0])

	v, err = Unmarshal(data)
	require.NoError(t, err)
	require.True(t, math.IsInf(v.Number(), 1))
}

func TestEncodeScalars(t *testing.T) {
	enc := NewEncoder()

	data, err := enc.Encode(Null())
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagNull)}, data)

	data, err = enc.Encode(Bool(true))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagTrue)}, data)

	data, err = enc.Encode(Bool(false))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagFalse)}, data)
}

func TestEncodeEmptyContainers(t *testing.T) {
	enc := NewEncoder()

	data, err := enc.Encode(String(""))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagEmptyString)}, data)

	data, err = enc.Encode(Array())
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagEmptyArray)}, data)

	data, err = enc.Encode(Object())
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagEmptyObject)}, data)
}

func TestEncodeString(t *testing.T) {
	enc := NewEncoder()

	data, err := enc.Encode(String("hi"))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagString), 0x02, 'h', 'i'}, data)
}

func TestEncodeStringDictionaryHit(t *testing.T) {
	enc := NewEncoder(WithInitialDictionary("hello"))

	data, err := enc.Encode(String("hello"))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagStringGet), 0x00}, data)
}

func TestBareStringNeverGrowsDictionary(t *testing.T) {
	enc := NewEncoder(WithProgressive(true))

	for i := 0; i < 2; i++ {
		data, err := enc.Encode(String("zz"))
		require.NoError(t, err)
		require.Equal(t, []byte{byte(TagString), 0x02, 'z', 'z'}, data)
	}
	require.Equal(t, 0, enc.DictLen())
}

func TestEncodeBytes(t *testing.T) {
	enc := NewEncoder()

	data, err := enc.Encode(Bytes([]byte{0xDE, 0xAD}))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagBinary), 0x02, 0xDE, 0xAD}, data)

	data, err = enc.Encode(Bytes(nil))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagBinary), 0x00}, data)
}

func TestEncodeArray(t *testing.T) {
	enc := NewEncoder()

	data, err := enc.Encode(Array(Number(1), Bool(true), Null()))
	require.NoError(t, err)
	require.Equal(t, []byte{
		byte(TagArray), 0x03,
		0x02, // 1 via the small-integer fast path
		byte(TagTrue),
		byte(TagNull),
	}, data)
}

func TestStaticSeededObject(t *testing.T) {
	// Static encoder seeded with ["x"]: "x" resolves via StringGet, "y" is
	// written as a plain String because the dictionary never grows.
	enc := NewEncoder(WithInitialDictionary("x"))

	data, err := enc.Encode(Object(
		Member{Key: "x", Value: Bool(true)},
		Member{Key: "y", Value: Bool(false)},
	))
	require.NoError(t, err)
	require.Equal(t, []byte{
		byte(TagObject), 0x02,
		byte(TagStringGet), 0x00, byte(TagTrue),
		byte(TagString), 0x01, 'y', byte(TagFalse),
	}, data)
	require.Equal(t, 1, enc.DictLen())
}

func TestProgressiveKeyAddThenGet(t *testing.T) {
	enc := NewEncoder(WithProgressive(true))

	data, err := enc.Encode(Object(Member{Key: "a", Value: Number(1)}))
	require.NoError(t, err)
	require.Equal(t, []byte{
		byte(TagObject), 0x01,
		byte(TagStringAdd), 0x01, 'a',
		0x02,
	}, data)

	data, err = enc.Encode(Object(Member{Key: "a", Value: Number(2)}))
	require.NoError(t, err)
	require.Equal(t, []byte{
		byte(TagObject), 0x01,
		byte(TagStringGet), 0x00,
		0x04,
	}, data)
}

func TestDictionaryMonotonicity(t *testing.T) {
	enc := NewEncoder(WithProgressive(true))

	keys := []string{"first", "second", "third", "fourth"}
	for _, k := range keys {
		_, err := enc.Encode(Object(Member{Key: k, Value: Null()}))
		require.NoError(t, err)
	}
	require.Equal(t, keys, enc.DictWords())

	// Re-encoding the n-th key emits StringGet with index n-1.
	for i, k := range keys {
		data, err := enc.Encode(Object(Member{Key: k, Value: Null()}))
		require.NoError(t, err)
		require.Equal(t, []byte{
			byte(TagObject), 0x01,
			byte(TagStringGet), byte(i),
			byte(TagNull),
		}, data)
	}
}

func TestKeyExclusion(t *testing.T) {
	enc := NewEncoder(WithProgressive(true))

	data, err := enc.Encode(ExcludeKeys(Object(Member{Key: "k", Value: Number(1)})))
	require.NoError(t, err)
	require.Equal(t, []byte{
		byte(TagObject), 0x01,
		byte(TagString), 0x01, 'k',
		0x02,
	}, data)
	require.Equal(t, 0, enc.DictLen())

	// Excluded keys already in the dictionary are still referenced by index.
	seeded := NewEncoder(WithProgressive(true), WithInitialDictionary("k"))
	data, err = seeded.Encode(ExcludeKeys(Object(Member{Key: "k", Value: Number(1)})))
	require.NoError(t, err)
	require.Equal(t, []byte{
		byte(TagObject), 0x01,
		byte(TagStringGet), 0x00,
		0x02,
	}, data)
}

func TestKeyExclusionDoesNotPropagate(t *testing.T) {
	enc := NewEncoder(WithProgressive(true))

	nested := Object(Member{Key: "inner", Value: Number(1)})
	_, err := enc.Encode(ExcludeKeys(Object(Member{Key: "outer", Value: nested})))
	require.NoError(t, err)

	// The excluded object's own key stays out, but the nested object's keys
	// are added normally.
	require.Equal(t, []string{"inner"}, enc.DictWords())
}

func TestAbsentMembersOmitted(t *testing.T) {
	enc := NewEncoder()

	with, err := enc.Encode(Object(
		Member{Key: "a", Value: Number(1)},
		Member{Key: "gone", Value: Absent()},
	))
	require.NoError(t, err)

	without, err := enc.Encode(Object(Member{Key: "a", Value: Number(1)}))
	require.NoError(t, err)
	require.Equal(t, without, with)

	// An object whose members are all absent is the empty object.
	empty, err := enc.Encode(Object(Member{Key: "gone", Value: Absent()}))
	require.NoError(t, err)
	require.Equal(t, []byte{byte(TagEmptyObject)}, empty)
}

func TestAbsentOutsideObjectFails(t *testing.T) {
	enc := NewEncoder()

	_, err := enc.Encode(Absent())
	require.ErrorIs(t, err, errs.ErrAbsentValue)

	_, err = enc.Encode(Array(Number(1), Absent()))
	require.ErrorIs(t, err, errs.ErrAbsentValue)
}

func TestEncodeToSharedBuffer(t *testing.T) {
	enc := NewEncoder()
	buf := buffer.NewBuffer(64)

	require.NoError(t, enc.EncodeTo(Number(1), buf))
	require.NoError(t, enc.EncodeTo(Bool(true), buf))
	require.Equal(t, []byte{0x02, byte(TagTrue)}, buf.Bytes())

	// Both framed values decode in sequence from one reader.
	dec := NewDecoder()
	r := buffer.NewReader(buf.Bytes())

	v, err := dec.DecodeFrom(r)
	require.NoError(t, err)
	require.Equal(t, float64(1), v.Number())

	v, err = dec.DecodeFrom(r)
	require.NoError(t, err)
	require.True(t, v.Bool())
	require.Equal(t, 0, r.Remaining())
}

func TestEncodeToRestoresByteOrder(t *testing.T) {
	enc := NewEncoder()
	buf := buffer.NewBuffer(64)
	buf.SetOrder(endian.Big())

	// Floats are written little-endian regardless of the sink's prior order.
	require.NoError(t, enc.EncodeTo(Number(0.5), buf))
	require.Equal(t, []byte{byte(TagFloat), 0x00, 0x00, 0x00, 0x3F}, buf.Bytes())

	// The prior order is restored after the call.
	require.Equal(t, endian.Big(), buf.Order())
}

var errSinkFull = errors.New("sink full")

// failingSink fails every write after a fixed budget, for exercising the
// error path of the encoder.
type failingSink struct {
	*buffer.Buffer
	writesLeft int
}

func (s *failingSink) tick() error {
	if s.writesLeft <= 0 {
		return errSinkFull
	}
	s.writesLeft--

	return nil
}

func (s *failingSink) WriteUint8(v byte) error {
	if err := s.tick(); err != nil {
		return err
	}

	return s.Buffer.WriteUint8(v)
}

func (s *failingSink) WriteUvarint(v uint64) error {
	if err := s.tick(); err != nil {
		return err
	}

	return s.Buffer.WriteUvarint(v)
}

func (s *failingSink) WriteZigZag32(v int32) error {
	if err := s.tick(); err != nil {
		return err
	}

	return s.Buffer.WriteZigZag32(v)
}

func (s *failingSink) WriteZigZag64(v int64) error {
	if err := s.tick(); err != nil {
		return err
	}

	return s.Buffer.WriteZigZag64(v)
}

func (s *failingSink) WriteFloat32(v float32) error {
	if err := s.tick(); err != nil {
		return err
	}

	return s.Buffer.WriteFloat32(v)
}

func (s *failingSink) WriteFloat64(v float64) error {
	if err := s.tick(); err != nil {
		return err
	}

	return s.Buffer.WriteFloat64(v)
}

func (s *failingSink) WriteVString(v string) error {
	if err := s.tick(); err != nil {
		return err
	}

	return s.Buffer.WriteVString(v)
}

func (s *failingSink) Append(p []byte) error {
	if err := s.tick(); err != nil {
		return err
	}

	return s.Buffer.Append(p)
}

func TestSinkFailurePropagatesAndRestoresOrder(t *testing.T) {
	enc := NewEncoder()

	obj := Object(
		Member{Key: "a", Value: Number(1)},
		Member{Key: "b", Value: Number(2)},
	)

	// Fail at every possible write position.
	for budget := 0; budget < 8; budget++ {
		sink := &failingSink{Buffer: buffer.NewBuffer(64), writesLeft: budget}
		sink.SetOrder(endian.Big())

		err := enc.EncodeTo(obj, sink)
		require.ErrorIs(t, err, errSinkFull, "budget %d", budget)
		require.Equal(t, endian.Big(), sink.Order(), "budget %d", budget)
	}
}
