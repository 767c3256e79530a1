package pson

import (
	"fmt"

	"github.com/arloliu/pson/buffer"
	"github.com/arloliu/pson/errs"
)

// Pair bundles an encoder and decoder with symmetrically seeded
// dictionaries, the usual arrangement for one end of a pson session.
//
// A static pair can encode and decode messages in any order. A progressive
// pair stays symmetric only while every message encoded by one end is
// decoded in order by the other; the local pair's own decoder is for the
// peer's messages, not for re-reading its own output (decoding a locally
// encoded progressive message would grow the local decoder's dictionary a
// second time).
type Pair struct {
	enc *Encoder
	dec *Decoder
}

// NewStaticPair creates a pair whose dictionaries are fixed at the given
// seed words.
func NewStaticPair(seed ...string) *Pair {
	return &Pair{
		enc: NewEncoder(WithInitialDictionary(seed...)),
		dec: NewDecoder(WithInitialDictionary(seed...)),
	}
}

// NewProgressivePair creates a pair seeded with the given words whose
// encoder grows its dictionary as new object keys appear.
func NewProgressivePair(seed ...string) *Pair {
	return &Pair{
		enc: NewEncoder(WithInitialDictionary(seed...), WithProgressive(true)),
		dec: NewDecoder(WithInitialDictionary(seed...)),
	}
}

// Encoder returns the pair's encoder.
func (p *Pair) Encoder() *Encoder {
	return p.enc
}

// Decoder returns the pair's decoder.
func (p *Pair) Decoder() *Decoder {
	return p.dec
}

// Encode encodes v with the pair's encoder.
func (p *Pair) Encode(v Value) ([]byte, error) {
	return p.enc.Encode(v)
}

// Decode decodes one value from data with the pair's decoder, rejecting
// trailing bytes.
func (p *Pair) Decode(data []byte) (Value, error) {
	return decodeStrict(p.dec, data)
}

func decodeStrict(d *Decoder, data []byte) (Value, error) {
	r := buffer.NewReader(data)

	v, err := d.DecodeFrom(r)
	if err != nil {
		return Value{}, err
	}
	if r.Remaining() > 0 {
		return Value{}, fmt.Errorf("%w: %d bytes", errs.ErrTrailingBytes, r.Remaining())
	}

	return v, nil
}
