package pson

// Tag identifies the wire variant of an encoded value. Every encoded value
// starts with exactly one tag byte.
//
// The tag space splits into two disjoint ranges. Bytes 0x00..MaxSmallTag are
// the small-integer fast path: the tag byte itself is the zigzag encoding of
// an integral number, with no payload. Bytes 0xF0..0xFF are the symbolic
// markers below, each followed by its variant-specific payload.
type Tag uint8

// MaxSmallTag is the largest tag byte used by the small-integer fast path.
// Zigzag values 0..239 map to the signed range -120..119.
const MaxSmallTag = 0xEF

const (
	TagNull        Tag = 0xF0 // null, no payload
	TagTrue        Tag = 0xF1 // boolean true, no payload
	TagFalse       Tag = 0xF2 // boolean false, no payload
	TagEmptyObject Tag = 0xF3 // object with zero members, no payload
	TagEmptyArray  Tag = 0xF4 // array with zero elements, no payload
	TagEmptyString Tag = 0xF5 // empty string, no payload
	TagObject      Tag = 0xF6 // member count uvarint, then key/value pairs
	TagArray       Tag = 0xF7 // element count uvarint, then elements
	TagInteger     Tag = 0xF8 // zigzag32 varint
	TagLong        Tag = 0xF9 // zigzag64 varint
	TagFloat       Tag = 0xFA // 4-byte IEEE-754 float
	TagDouble      Tag = 0xFB // 8-byte IEEE-754 double
	TagString      Tag = 0xFC // uvarint byte length + UTF-8 bytes
	TagStringAdd   Tag = 0xFD // like TagString; decoder appends it to the dictionary
	TagStringGet   Tag = 0xFE // uvarint dictionary index
	TagBinary      Tag = 0xFF // uvarint byte length + raw bytes
)

func (t Tag) String() string {
	if t <= MaxSmallTag {
		return "SmallInt"
	}

	switch t {
	case TagNull:
		return "Null"
	case TagTrue:
		return "True"
	case TagFalse:
		return "False"
	case TagEmptyObject:
		return "EmptyObject"
	case TagEmptyArray:
		return "EmptyArray"
	case TagEmptyString:
		return "EmptyString"
	case TagObject:
		return "Object"
	case TagArray:
		return "Array"
	case TagInteger:
		return "Integer"
	case TagLong:
		return "Long"
	case TagFloat:
		return "Float"
	case TagDouble:
		return "Double"
	case TagString:
		return "String"
	case TagStringAdd:
		return "StringAdd"
	case TagStringGet:
		return "StringGet"
	case TagBinary:
		return "Binary"
	default:
		return "Unknown"
	}
}
