package pson

import (
	"fmt"
	"math"
	"sort"

	"github.com/arloliu/pson/errs"
)

// Kind classifies a Value. The set is closed: every value the codec can
// encode is one of these kinds, so classification is a switch rather than
// reflection.
type Kind uint8

const (
	KindAbsent Kind = iota // field not present; omitted from encoded objects
	KindNull               // explicit null
	KindBool
	KindNumber // double-precision number, narrowed on the wire
	KindLong   // explicit 64-bit integer
	KindString
	KindBytes
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "Absent"
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindLong:
		return "Long"
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// Member is a single key/value pair of an object value. Members keep their
// insertion order; an object must not contain two members with the same key.
type Member struct {
	Key   string
	Value Value
}

// Value is a JSON-like value: the closed input domain of the codec.
//
// The zero Value is Absent, which is distinct from Null: an Absent member is
// omitted entirely from its enclosing object (no key, no value bytes), while
// Null encodes as an explicit null tag.
type Value struct {
	arr     []Value
	obj     []Member
	bin     []byte
	str     string
	num     float64
	long    int64
	kind    Kind
	boolVal bool
	exclude bool
}

// Absent returns the not-present marker value.
func Absent() Value {
	return Value{kind: KindAbsent}
}

// Null returns the explicit null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(v bool) Value {
	return Value{kind: KindBool, boolVal: v}
}

// Number returns a double-precision number value. The encoder picks the
// narrowest wire form that reproduces v exactly.
func Number(v float64) Value {
	return Value{kind: KindNumber, num: v}
}

// Long returns an explicit 64-bit integer value. Unlike an integral Number,
// a Long always encodes with the Long tag and a zigzag64 varint.
func Long(v int64) Value {
	return Value{kind: KindLong, long: v}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bytes returns a binary value. The slice is not copied; the caller must not
// modify it while the value is in use.
func Bytes(p []byte) Value {
	return Value{kind: KindBytes, bin: p}
}

// Array returns an array value holding the given elements in order.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// Object returns an object value holding the given members in order.
// Members with Absent values are legal and are omitted during encoding.
func Object(members ...Member) Value {
	return Value{kind: KindObject, obj: members}
}

// ExcludeKeys returns a copy of obj whose keys will not be added to the
// encoder's dictionary, even in progressive mode. Keys already present in
// the dictionary are still referenced by index. The marker applies to this
// object's own keys only; it does not propagate into nested values.
//
// Non-object values are returned unchanged.
func ExcludeKeys(obj Value) Value {
	if obj.kind == KindObject {
		obj.exclude = true
	}

	return obj
}

// Kind returns the value's classification.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether the value is the not-present marker.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// Bool returns the boolean payload. It is only meaningful for KindBool.
func (v Value) Bool() bool {
	return v.boolVal
}

// Number returns the numeric payload. It is only meaningful for KindNumber.
func (v Value) Number() float64 {
	return v.num
}

// Long returns the 64-bit integer payload. It is only meaningful for
// KindLong.
func (v Value) Long() int64 {
	return v.long
}

// Text returns the string payload. It is only meaningful for KindString.
func (v Value) Text() string {
	return v.str
}

// Bin returns the binary payload without copying. It is only meaningful for
// KindBytes.
func (v Value) Bin() []byte {
	return v.bin
}

// Elems returns the array elements without copying. It is only meaningful
// for KindArray.
func (v Value) Elems() []Value {
	return v.arr
}

// Members returns the object members without copying. It is only meaningful
// for KindObject.
func (v Value) Members() []Member {
	return v.obj
}

// KeysExcluded reports whether the object carries the key-exclusion marker
// set by ExcludeKeys.
func (v Value) KeysExcluded() bool {
	return v.exclude
}

// FromAny converts a plain Go value into the pson value domain.
//
// Supported inputs: nil, Value, bool, string, all integer and float types,
// []byte, []any, and map[string]any. int64 and uint64 map to Long; all other
// numeric types map to Number. Map keys are sorted so the conversion is
// deterministic despite Go's randomized map iteration order.
//
// Any other input type fails with errs.ErrUnsupportedType; there is no
// silent skip.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Long(x), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: uint64 %d overflows int64", errs.ErrUnsupportedType, x)
		}

		return Long(int64(x)), nil
	case []byte:
		return Bytes(x), nil
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("array element %d: %w", i, err)
			}
			elems[i] = ev
		}

		return Array(elems...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		members := make([]Member, 0, len(keys))
		for _, k := range keys {
			mv, err := FromAny(x[k])
			if err != nil {
				return Value{}, fmt.Errorf("member %q: %w", k, err)
			}
			members = append(members, Member{Key: k, Value: mv})
		}

		return Object(members...), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", errs.ErrUnsupportedType, v)
	}
}

// Interface converts the value back into plain Go types: nil for Null and
// Absent, bool, float64, int64, string, []byte, []any, and map[string]any.
// Object member order is lost in the map form.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.boolVal
	case KindNumber:
		return v.num
	case KindLong:
		return v.long
	case KindString:
		return v.str
	case KindBytes:
		return v.bin
	case KindArray:
		out := make([]any, len(v.arr))
		for i := range v.arr {
			out[i] = v.arr[i].Interface()
		}

		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for i := range v.obj {
			if v.obj[i].Value.IsAbsent() {
				continue
			}
			out[v.obj[i].Key] = v.obj[i].Value.Interface()
		}

		return out
	default:
		return nil
	}
}
