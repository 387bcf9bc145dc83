package pool

import (
	"io"
	"sync"
)

const (
	DecodeBufferDefaultSize  = 1024 * 64       // 64KiB, the default read-ahead window of a decoder
	DecodeBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB, larger buffers are not returned to the pool
)

// ByteBuffer is a growable byte slice that can drop consumed bytes in place.
type ByteBuffer struct {
	// B is the underlying byte slice. Bytes in B[len(B):cap(B)] are free space.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Available returns the number of free bytes after the buffered data.
func (bb *ByteBuffer) Available() int {
	return cap(bb.B) - len(bb.B)
}

// MustWrite writes data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Discard drops the first n bytes and moves the remaining bytes to the front of the buffer.
// Panics if n is negative or greater than the length.
func (bb *ByteBuffer) Discard(n int) {
	if n < 0 || n > len(bb.B) {
		panic("Discard: invalid length")
	}
	if n == 0 {
		return
	}

	remaining := copy(bb.B, bb.B[n:])
	bb.B = bb.B[:remaining]
}

// Grow doubles the capacity until at least requiredBytes bytes are free.
// If the buffer already has sufficient free space, Grow does nothing.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if bb.Available() >= requiredBytes {
		return
	}

	newCap := cap(bb.B)
	if newCap == 0 {
		newCap = 1
	}
	for newCap-len(bb.B) < requiredBytes {
		newCap *= 2
	}

	newBuf := make([]byte, len(bb.B), newCap)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ReadFrom performs a single Read from r into the free space of the buffer.
// Unlike io.ReaderFrom it does not loop until EOF. The caller must ensure free
// space is available.
func (bb *ByteBuffer) ReadFrom(r io.Reader) (int, error) {
	start := len(bb.B)
	n, err := r.Read(bb.B[start:cap(bb.B)])
	if n < 0 || start+n > cap(bb.B) {
		panic("ReadFrom: reader returned invalid count")
	}
	bb.B = bb.B[:start+n]

	return n, err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally to manage the buffers.
// The pool can be configured with a maximum size threshold to avoid retaining
// overly large buffers that could lead to memory bloat.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var decodeDefaultPool = NewByteBufferPool(DecodeBufferDefaultSize, DecodeBufferMaxThreshold)

// GetDecodeBuffer retrieves an empty ByteBuffer with at least size bytes of capacity.
func GetDecodeBuffer(size int) *ByteBuffer {
	bb := decodeDefaultPool.Get()
	bb.Grow(size)

	return bb
}

// PutDecodeBuffer returns a ByteBuffer to the default decode pool.
func PutDecodeBuffer(bb *ByteBuffer) {
	decodeDefaultPool.Put(bb)
}
