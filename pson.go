// Package pson implements PSON, a compact tagged binary encoding for
// JSON-like values with a session dictionary.
//
// Every encoded value is a tag byte followed by a variant-specific payload.
// Repeated strings, typically object keys, are substituted with small
// integer references into a dictionary shared between an encoder/decoder
// pair, so long-lived sessions pay for each key name only once. Numbers are
// narrowed to the smallest wire form that reproduces them exactly: a single
// tag byte for small integers, a zigzag varint, a 4-byte float, or an 8-byte
// double.
//
// # One-shot encoding
//
//	v := pson.Object(
//	    pson.Member{Key: "hello", Value: pson.String("world")},
//	    pson.Member{Key: "count", Value: pson.Number(3)},
//	)
//	data, _ := pson.Marshal(v)
//	back, _ := pson.Unmarshal(data)
//
// # Sessions
//
// A progressive pair amortizes key names across messages: the first message
// carrying a key adds it to both dictionaries, and later messages reference
// it by index.
//
//	sender := pson.NewProgressivePair()
//	receiver := pson.NewProgressivePair()
//
//	msg, _ := sender.Encode(v)       // "hello" and "count" added to dictionary
//	out, _ := receiver.Decoder().Decode(msg)
//	msg2, _ := sender.Encode(v)      // keys now encode as dictionary indices
//
// A static pair never grows its dictionary; seed both ends with an identical
// word list and verify with Encoder().DictFingerprint().
//
// Encoders and decoders are not safe for concurrent use; use one per
// session, or serialize calls externally.
package pson

// Marshal encodes v with a one-shot static encoder and an empty dictionary.
// For repeated messages within a session, a shared Encoder in progressive
// mode produces substantially smaller output.
func Marshal(v Value) ([]byte, error) {
	return NewEncoder().Encode(v)
}

// Unmarshal decodes a single value produced by Marshal or by any static
// encoder with an empty dictionary. Input with trailing bytes after the
// value is rejected with errs.ErrTrailingBytes.
func Unmarshal(data []byte) (Value, error) {
	return decodeStrict(NewDecoder(), data)
}
