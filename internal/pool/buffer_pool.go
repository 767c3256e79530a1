// Package pool provides pooled write buffers so repeated encode calls on a
// long-lived encoder amortize allocations.
package pool

import (
	"sync"

	"github.com/arloliu/pson/buffer"
)

const (
	// DefaultBufferSize is the initial capacity of pooled buffers.
	DefaultBufferSize = 4 * 1024
	// MaxRetainedSize caps the capacity of buffers returned to the pool;
	// larger buffers are discarded to avoid retaining memory after an
	// unusually large value.
	MaxRetainedSize = 256 * 1024
)

var bufferPool = sync.Pool{
	New: func() any {
		return buffer.NewBuffer(DefaultBufferSize)
	},
}

// GetBuffer retrieves a reset Buffer from the pool.
func GetBuffer() *buffer.Buffer {
	b, _ := bufferPool.Get().(*buffer.Buffer)
	return b
}

// PutBuffer returns a Buffer to the pool for reuse.
func PutBuffer(b *buffer.Buffer) {
	if b == nil || b.Cap() > MaxRetainedSize {
		return
	}

	b.Reset()
	bufferPool.Put(b)
}
