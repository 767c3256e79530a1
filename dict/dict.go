// Package dict implements the pson session dictionary.
//
// A Dict maps strings to small non-negative indices. Indices are assigned
// sequentially from 0 in insertion order and are never reused, reassigned, or
// removed: the dictionary is strictly append-only for its lifetime. The
// encoder uses the forward mapping (Lookup) to substitute repeated object
// keys with index references; the decoder uses the reverse mapping (WordAt)
// to resolve them.
//
// A Dict is not safe for concurrent use; it is mutable shared state owned by
// exactly one encoder or decoder.
package dict

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Dict is an insertion-ordered, append-only string dictionary.
type Dict struct {
	index map[string]uint32
	words []string
}

// New creates a dictionary seeded with the given words, assigned indices
// 0..len(seed)-1 in list order. A duplicate seed word still consumes an
// index position (the reverse mapping keeps every position), but forward
// lookups resolve to the first occurrence. The seed slice is not retained.
func New(seed []string) *Dict {
	d := &Dict{
		index: make(map[string]uint32, len(seed)),
		words: make([]string, 0, len(seed)),
	}

	for _, w := range seed {
		d.Add(w)
	}

	return d
}

// Len returns the number of index positions assigned so far. It is also the
// index the next Add will assign.
func (d *Dict) Len() int {
	return len(d.words)
}

// Lookup returns the index assigned to w and whether w is present.
func (d *Dict) Lookup(w string) (uint32, bool) {
	idx, ok := d.index[w]
	return idx, ok
}

// Add assigns the next sequential index to w and returns it. If w is already
// present, the new position is still consumed but forward lookups keep
// resolving to the earlier index.
func (d *Dict) Add(w string) uint32 {
	idx := uint32(len(d.words))
	d.words = append(d.words, w)

	if _, exists := d.index[w]; !exists {
		d.index[w] = idx
	}

	return idx
}

// WordAt returns the word at index idx and whether idx is in range.
func (d *Dict) WordAt(idx uint32) (string, bool) {
	if int64(idx) >= int64(len(d.words)) {
		return "", false
	}

	return d.words[idx], true
}

// Words returns a copy of the dictionary contents in insertion order.
// Seeding a new Dict with the result reproduces this dictionary exactly.
func (d *Dict) Words() []string {
	out := make([]string, len(d.words))
	copy(out, d.words)

	return out
}

// Fingerprint returns an xxHash64 digest over the dictionary contents in
// insertion order. Two dictionaries have equal fingerprints if and only if
// they hold the same words in the same positions (up to hash collision), so
// an encoder/decoder pair can cheaply verify symmetric seeding before
// exchanging progressive-mode messages.
func (d *Dict) Fingerprint() uint64 {
	h := xxhash.New()

	var lenBuf [binary.MaxVarintLen64]byte
	for _, w := range d.words {
		n := binary.PutUvarint(lenBuf[:], uint64(len(w)))
		_, _ = h.Write(lenBuf[:n])
		_, _ = h.WriteString(w)
	}

	return h.Sum64()
}
