package buffers

import (
	"sync"
)

const (
	// StreamChunkSize is the chunk size used when streaming generator
	// output to HTTP clients.
	StreamChunkSize = 32 * 1024
)

// BufferPool maintains a pool of byte slices to reduce GC pressure
type BufferPool struct {
	pool sync.Pool
	size int
}

// NewBufferPool creates a new buffer pool with the specified buffer size
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				buf := make([]byte, size)
				return &buf
			},
		},
		size: size,
	}
}

// Get retrieves a buffer from the pool
func (p *BufferPool) Get() []byte {
	buffer := *(p.pool.Get().(*[]byte))

	if cap(buffer) < p.size {
		// Unlikely but possible if the buffer was resized
		buffer = make([]byte, p.size)
	} else {
		buffer = buffer[:p.size]
		// Stale contents are fine, callers overwrite what they send
	}

	return buffer
}

// Put returns a buffer to the pool
func (p *BufferPool) Put(buffer []byte) {
	if buffer == nil || cap(buffer) < p.size {
		return // Don't keep undersized buffers
	}

	buffer = buffer[:p.size]
	p.pool.Put(&buffer)
}

// StreamBufferPool is the shared pool for chunked response bodies.
var StreamBufferPool = NewBufferPool(StreamChunkSize)
