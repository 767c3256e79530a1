package pson

import (
	"fmt"

	"github.com/arloliu/pson/buffer"
	"github.com/arloliu/pson/dict"
	"github.com/arloliu/pson/endian"
	"github.com/arloliu/pson/errs"
)

// Decoder decodes pson wire data back into values.
//
// A Decoder owns a session dictionary that mirrors the encoding side: every
// StringAdd in the input appends a word, so a decoder that observes the same
// message sequence as a progressive encoder resolves StringGet references
// identically. A static pair never produces StringAdd, so identically seeded
// dictionaries stay identical.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	dict *dict.Dict
}

// NewDecoder creates a Decoder. Seed the dictionary with the same word list
// as the matching encoder; see WithInitialDictionary.
func NewDecoder(opts ...Option) *Decoder {
	cfg := newConfig(opts...)

	return &Decoder{
		dict: dict.New(cfg.seed),
	}
}

// DictLen returns the current number of dictionary entries.
func (d *Decoder) DictLen() int {
	return d.dict.Len()
}

// DictFingerprint returns the dictionary's xxHash64 fingerprint; see
// dict.Fingerprint.
func (d *Decoder) DictFingerprint() uint64 {
	return d.dict.Fingerprint()
}

// DictWords returns a copy of the dictionary contents in insertion order.
func (d *Decoder) DictWords() []string {
	return d.dict.Words()
}

// Decode decodes exactly one value from data. Trailing bytes after the value
// are not an error here; use Unmarshal for strict one-shot decoding, or
// DecodeFrom to consume several framed values from one reader.
func (d *Decoder) Decode(data []byte) (Value, error) {
	return d.DecodeFrom(buffer.NewReader(data))
}

// DecodeFrom decodes one value from r, leaving r positioned at the next
// byte. The reader's byte order is forced to little-endian for the duration
// of the call and restored on every exit path.
func (d *Decoder) DecodeFrom(r *buffer.Reader) (Value, error) {
	prev := r.Order()
	r.SetOrder(endian.Little())
	defer r.SetOrder(prev)

	return d.decodeValue(r)
}

// preallocLimit caps count-based slice preallocation so a corrupt count
// prefix cannot force a huge allocation before reads start failing.
const preallocLimit = 1024

func (d *Decoder) decodeValue(r *buffer.Reader) (Value, error) {
	tag, err := r.ReadUint8()
	if err != nil {
		return Value{}, err
	}

	// Small-integer fast path: the tag byte is the zigzag-encoded value.
	if tag <= MaxSmallTag {
		return Number(float64(buffer.UnZigZag32(uint32(tag)))), nil
	}

	switch Tag(tag) {
	case TagNull:
		return Null(), nil
	case TagTrue:
		return Bool(true), nil
	case TagFalse:
		return Bool(false), nil
	case TagEmptyObject:
		return Object(), nil
	case TagEmptyArray:
		return Array(), nil
	case TagEmptyString:
		return String(""), nil
	case TagObject:
		return d.decodeObject(r)
	case TagArray:
		return d.decodeArray(r)
	case TagInteger:
		v, err := r.ReadZigZag32()
		if err != nil {
			return Value{}, err
		}

		return Number(float64(v)), nil
	case TagLong:
		v, err := r.ReadZigZag64()
		if err != nil {
			return Value{}, err
		}

		return Long(v), nil
	case TagFloat:
		v, err := r.ReadFloat32()
		if err != nil {
			return Value{}, err
		}

		return Number(float64(v)), nil
	case TagDouble:
		v, err := r.ReadFloat64()
		if err != nil {
			return Value{}, err
		}

		return Number(v), nil
	case TagString:
		s, err := r.ReadVString()
		if err != nil {
			return Value{}, err
		}

		return String(s), nil
	case TagStringAdd:
		s, err := r.ReadVString()
		if err != nil {
			return Value{}, err
		}
		d.dict.Add(s)

		return String(s), nil
	case TagStringGet:
		return d.decodeStringGet(r)
	case TagBinary:
		n, err := r.ReadUvarint()
		if err != nil {
			return Value{}, err
		}
		if n > uint64(r.Remaining()) {
			return Value{}, fmt.Errorf("%w: binary length %d, have %d",
				errs.ErrLengthRange, n, r.Remaining())
		}

		p, err := r.ReadBytes(int(n))
		if err != nil {
			return Value{}, err
		}

		return Bytes(p), nil
	default:
		// Unreachable: 0x00..0xEF is the small-integer range and
		// 0xF0..0xFF are all assigned symbolic tags.
		return Value{}, fmt.Errorf("%w: tag 0x%02x", errs.ErrTruncated, tag)
	}
}

func (d *Decoder) decodeStringGet(r *buffer.Reader) (Value, error) {
	idx, err := r.ReadUvarint()
	if err != nil {
		return Value{}, err
	}
	if idx > uint64(^uint32(0)) {
		return Value{}, fmt.Errorf("%w: index %d", errs.ErrDictIndexRange, idx)
	}

	w, ok := d.dict.WordAt(uint32(idx))
	if !ok {
		return Value{}, fmt.Errorf("%w: index %d, dictionary size %d",
			errs.ErrDictIndexRange, idx, d.dict.Len())
	}

	return String(w), nil
}

func (d *Decoder) decodeArray(r *buffer.Reader) (Value, error) {
	count, err := r.ReadUvarint()
	if err != nil {
		return Value{}, err
	}

	elems := make([]Value, 0, int(min(count, preallocLimit)))
	for i := uint64(0); i < count; i++ {
		el, err := d.decodeValue(r)
		if err != nil {
			return Value{}, fmt.Errorf("array element %d: %w", i, err)
		}
		elems = append(elems, el)
	}

	return Array(elems...), nil
}

func (d *Decoder) decodeObject(r *buffer.Reader) (Value, error) {
	count, err := r.ReadUvarint()
	if err != nil {
		return Value{}, err
	}

	members := make([]Member, 0, int(min(count, preallocLimit)))
	for i := uint64(0); i < count; i++ {
		key, err := d.decodeKey(r)
		if err != nil {
			return Value{}, fmt.Errorf("object member %d: %w", i, err)
		}

		val, err := d.decodeValue(r)
		if err != nil {
			return Value{}, fmt.Errorf("object member %q: %w", key, err)
		}

		members = append(members, Member{Key: key, Value: val})
	}

	return Object(members...), nil
}

// decodeKey decodes one object key. Keys travel as general string values
// (String, StringAdd, StringGet, or EmptyString), so any other decoded kind
// is malformed input.
func (d *Decoder) decodeKey(r *buffer.Reader) (string, error) {
	v, err := d.decodeValue(r)
	if err != nil {
		return "", err
	}
	if v.Kind() != KindString {
		return "", fmt.Errorf("%w: got %v", errs.ErrInvalidKey, v.Kind())
	}

	return v.Text(), nil
}
