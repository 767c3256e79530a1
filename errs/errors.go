// Package errs defines the sentinel errors returned by the pson codec.
//
// All errors returned by the encoder and decoder either are one of these
// sentinels or wrap one with fmt.Errorf("%w: ..."), so callers can classify
// failures with errors.Is.
package errs

import "errors"

var (
	// ErrAbsentValue is returned when an Absent value appears anywhere other
	// than as an object member value. Absent members are omitted from the
	// encoded object; an Absent array element or top-level value has no wire
	// representation and would desynchronize container counts, so encoding
	// fails instead of silently skipping it.
	ErrAbsentValue = errors.New("absent value outside object member")

	// ErrUnsupportedType is returned by FromAny for Go values that have no
	// mapping onto the pson value domain.
	ErrUnsupportedType = errors.New("unsupported value type")

	// ErrTruncated is returned when the input ends before a complete value
	// has been decoded.
	ErrTruncated = errors.New("truncated input")

	// ErrVarintOverflow is returned when a variable-length integer does not
	// terminate within 10 bytes or overflows 64 bits.
	ErrVarintOverflow = errors.New("varint overflow")

	// ErrDictIndexRange is returned when a StringGet reference points past
	// the end of the decoder's dictionary.
	ErrDictIndexRange = errors.New("dictionary index out of range")

	// ErrInvalidKey is returned when an encoded object key decodes to a
	// non-string value.
	ErrInvalidKey = errors.New("object key is not a string")

	// ErrTrailingBytes is returned by Unmarshal when input remains after the
	// first complete value.
	ErrTrailingBytes = errors.New("trailing bytes after value")

	// ErrLengthRange is returned when a decoded length or count prefix does
	// not fit the remaining input.
	ErrLengthRange = errors.New("length prefix exceeds remaining input")
)
