package pson

// Option configures an Encoder or Decoder at construction. The option set is
// open-ended; unrecognized concerns can be added without breaking the
// constructor signatures.
type Option func(*config)

type config struct {
	seed        []string
	progressive bool
}

// WithInitialDictionary seeds the session dictionary with the given words,
// assigned indices 0..len(words)-1 in order. An encoder/decoder pair must be
// seeded with identical word lists; dict.Fingerprint can verify this.
func WithInitialDictionary(words ...string) Option {
	return func(c *config) {
		c.seed = words
	}
}

// WithProgressive selects progressive mode: object keys not yet in the
// dictionary are appended to it as they are first encoded, so later messages
// reference them by index. The default is static mode, where the dictionary
// is fixed at construction and never grows.
//
// Progressive mode requires the decoding side to observe every encoded
// message in order so both dictionaries grow identically.
func WithProgressive(enabled bool) Option {
	return func(c *config) {
		c.progressive = enabled
	}
}

func newConfig(opts ...Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	return c
}
