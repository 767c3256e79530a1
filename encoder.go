package pson

import (
	"math"

	"github.com/arloliu/pson/buffer"
	"github.com/arloliu/pson/dict"
	"github.com/arloliu/pson/endian"
	"github.com/arloliu/pson/errs"
	"github.com/arloliu/pson/internal/pool"
)

var _ Sink = (*buffer.Buffer)(nil)

// maxExactInt64 is 2^63: the smallest positive float64 whose truncation no
// longer fits an int64.
const maxExactInt64 = float64(math.MaxInt64)

// Encoder encodes values into the pson wire format.
//
// An Encoder owns a session dictionary that lives for the encoder's entire
// lifetime. In progressive mode the dictionary grows as new object keys are
// encoded, so a single encoder reused across many messages shrinks repeated
// keys to a tag byte plus a small index. In static mode the dictionary is
// fixed at construction.
//
// Encoding is fully synchronous and recursive; recursion depth equals input
// nesting depth. There is no explicit depth limit, so pathologically deep
// input can exhaust the call stack.
//
// An Encoder is not safe for concurrent use: concurrent Encode calls race on
// dictionary growth. Use one encoder per session, or serialize calls
// externally.
type Encoder struct {
	dict        *dict.Dict
	progressive bool
}

// NewEncoder creates an Encoder. By default the encoder is static with an
// empty dictionary; see WithInitialDictionary and WithProgressive.
func NewEncoder(opts ...Option) *Encoder {
	cfg := newConfig(opts...)

	return &Encoder{
		dict:        dict.New(cfg.seed),
		progressive: cfg.progressive,
	}
}

// Progressive reports whether the encoder grows its dictionary.
func (e *Encoder) Progressive() bool {
	return e.progressive
}

// DictLen returns the current number of dictionary entries.
func (e *Encoder) DictLen() int {
	return e.dict.Len()
}

// DictFingerprint returns the dictionary's xxHash64 fingerprint; see
// dict.Fingerprint.
func (e *Encoder) DictFingerprint() uint64 {
	return e.dict.Fingerprint()
}

// DictWords returns a copy of the dictionary contents in insertion order,
// suitable for seeding a matching decoder.
func (e *Encoder) DictWords() []string {
	return e.dict.Words()
}

// Encode encodes v into a freshly allocated byte slice owned by the caller.
func (e *Encoder) Encode(v Value) ([]byte, error) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	if err := e.EncodeTo(v, buf); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// EncodeTo appends the encoding of v to sink without finalizing it, so
// multiple values or framed messages can share one buffer.
//
// The sink's byte order is forced to little-endian for the duration of the
// call and restored on every exit path, including when a sink write fails.
//
// A sink failure aborts the call with the dictionary possibly grown past
// what the peer has observed; a progressive session should not reuse the
// encoder after a failed encode.
func (e *Encoder) EncodeTo(v Value, sink Sink) error {
	prev := sink.Order()
	sink.SetOrder(endian.Little())
	defer sink.SetOrder(prev)

	return e.encodeValue(v, sink, false)
}

// encodeValue dispatches on the value's kind and writes one tag byte plus
// payload, recursing into array elements and object members.
//
// excludeKeys suppresses dictionary growth for the keys of the object being
// encoded; it never propagates into nested values.
func (e *Encoder) encodeValue(v Value, sink Sink, excludeKeys bool) error {
	switch v.Kind() {
	case KindNull:
		return sink.WriteUint8(byte(TagNull))
	case KindBool:
		if v.Bool() {
			return sink.WriteUint8(byte(TagTrue))
		}

		return sink.WriteUint8(byte(TagFalse))
	case KindNumber:
		return e.encodeNumber(v.Number(), sink)
	case KindLong:
		if err := sink.WriteUint8(byte(TagLong)); err != nil {
			return err
		}

		return sink.WriteZigZag64(v.Long())
	case KindString:
		return e.encodeString(v.Text(), sink)
	case KindBytes:
		return e.encodeBinary(v.Bin(), sink)
	case KindArray:
		return e.encodeArray(v.Elems(), sink)
	case KindObject:
		return e.encodeObject(v, sink, excludeKeys)
	default:
		// KindAbsent: an absent value has no wire representation, and
		// skipping it here would desynchronize the parent container's
		// declared count. Absent is only legal as an object member value,
		// where the member is omitted before this point is reached.
		return errs.ErrAbsentValue
	}
}

// encodeNumber writes the narrowest wire form that reproduces f exactly:
// a single small-integer tag byte, Integer (zigzag32 varint), Long (zigzag64
// varint) for integral values beyond 32 bits, Float (4 bytes) when float32
// round-trips, or Double (8 bytes).
func (e *Encoder) encodeNumber(f float64, sink Sink) error {
	trunc := math.Trunc(f)
	if f == trunc && !math.IsInf(f, 0) {
		if trunc >= math.MinInt32 && trunc <= math.MaxInt32 {
			iv := int32(trunc)
			if zz := buffer.ZigZag32(iv); zz <= MaxSmallTag {
				return sink.WriteUint8(byte(zz))
			}

			if err := sink.WriteUint8(byte(TagInteger)); err != nil {
				return err
			}

			return sink.WriteZigZag32(iv)
		}

		if trunc >= math.MinInt64 && trunc < maxExactInt64 {
			if err := sink.WriteUint8(byte(TagLong)); err != nil {
				return err
			}

			return sink.WriteZigZag64(int64(trunc))
		}
		// Integral but beyond int64 range: fall through to the float forms.
	}

	if f32 := float32(f); float64(f32) == f {
		if err := sink.WriteUint8(byte(TagFloat)); err != nil {
			return err
		}

		return sink.WriteFloat32(f32)
	}

	if err := sink.WriteUint8(byte(TagDouble)); err != nil {
		return err
	}

	return sink.WriteFloat64(f)
}

// encodeString writes a bare string value. Dictionary entries are referenced
// by index, but a bare string never grows the dictionary; only object-key
// encoding does.
func (e *Encoder) encodeString(s string, sink Sink) error {
	if len(s) == 0 {
		return sink.WriteUint8(byte(TagEmptyString))
	}

	if idx, ok := e.dict.Lookup(s); ok {
		if err := sink.WriteUint8(byte(TagStringGet)); err != nil {
			return err
		}

		return sink.WriteUvarint(uint64(idx))
	}

	if err := sink.WriteUint8(byte(TagString)); err != nil {
		return err
	}

	return sink.WriteVString(s)
}

func (e *Encoder) encodeBinary(p []byte, sink Sink) error {
	if err := sink.WriteUint8(byte(TagBinary)); err != nil {
		return err
	}
	if err := sink.WriteUvarint(uint64(len(p))); err != nil {
		return err
	}

	return sink.Append(p)
}

func (e *Encoder) encodeArray(elems []Value, sink Sink) error {
	if len(elems) == 0 {
		return sink.WriteUint8(byte(TagEmptyArray))
	}

	if err := sink.WriteUint8(byte(TagArray)); err != nil {
		return err
	}
	if err := sink.WriteUvarint(uint64(len(elems))); err != nil {
		return err
	}

	for i := range elems {
		// Key exclusion never applies inside arrays.
		if err := e.encodeValue(elems[i], sink, false); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) encodeObject(v Value, sink Sink, excludeKeys bool) error {
	members := v.Members()

	present := 0
	for i := range members {
		if !members[i].Value.IsAbsent() {
			present++
		}
	}

	if present == 0 {
		return sink.WriteUint8(byte(TagEmptyObject))
	}

	if err := sink.WriteUint8(byte(TagObject)); err != nil {
		return err
	}
	if err := sink.WriteUvarint(uint64(present)); err != nil {
		return err
	}

	// The exclusion marker is evaluated once per object: a caller-forced
	// exclusion wins, otherwise the object's own marker applies.
	if !excludeKeys {
		excludeKeys = v.KeysExcluded()
	}

	for i := range members {
		if members[i].Value.IsAbsent() {
			continue
		}

		if err := e.encodeKey(members[i].Key, sink, excludeKeys); err != nil {
			return err
		}
		if err := e.encodeValue(members[i].Value, sink, false); err != nil {
			return err
		}
	}

	return nil
}

// encodeKey writes one object key. This is the only place the dictionary
// grows: a key not yet in the dictionary is assigned the next index when the
// encoder is progressive and the object is not marked for exclusion.
func (e *Encoder) encodeKey(key string, sink Sink, excludeKeys bool) error {
	if idx, ok := e.dict.Lookup(key); ok {
		if err := sink.WriteUint8(byte(TagStringGet)); err != nil {
			return err
		}

		return sink.WriteUvarint(uint64(idx))
	}

	if e.progressive && !excludeKeys {
		e.dict.Add(key)

		if err := sink.WriteUint8(byte(TagStringAdd)); err != nil {
			return err
		}

		return sink.WriteVString(key)
	}

	if err := sink.WriteUint8(byte(TagString)); err != nil {
		return err
	}

	return sink.WriteVString(key)
}
