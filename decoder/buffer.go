package decoder

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/clpir/errs"
	"github.com/arloliu/clpir/internal/pool"
)

// DecodeFunc decodes one unit from the front of data.
//
// It returns the value and the number of bytes consumed, or errs.ErrIncompleteIR
// when data ends before the unit does. Returning io.EOF marks the end of the
// stream; the consumed count is still honoured. data must not be retained.
type DecodeFunc[T any] func(data []byte) (T, int, error)

// Buffer is a read-ahead window over a byte source.
//
// Unconsumed bytes live in buf.B[r:]. Before every refill the buffer either
// doubles its storage, when more than half of it holds unconsumed bytes, or
// moves the unconsumed bytes to the front.
type Buffer struct {
	src                   io.Reader
	buf                   *pool.ByteBuffer
	r                     int
	consumed              int64
	exhausted             bool
	allowIncompleteStream bool
}

// NewBuffer creates a Buffer reading from src with an initial capacity of size bytes.
//
// With allowIncompleteStream a source that ends inside a unit is reported as
// io.EOF instead of errs.ErrIncompleteStream.
func NewBuffer(src io.Reader, size int, allowIncompleteStream bool) *Buffer {
	if size <= 0 {
		size = pool.DecodeBufferDefaultSize
	}

	return &Buffer{
		src:                   src,
		buf:                   pool.GetDecodeBuffer(size),
		allowIncompleteStream: allowIncompleteStream,
	}
}

// Unconsumed returns the number of buffered bytes not yet decoded.
func (b *Buffer) Unconsumed() int {
	if b.buf == nil {
		return 0
	}

	return b.buf.Len() - b.r
}

// Cap returns the current capacity of the backing storage.
func (b *Buffer) Cap() int {
	if b.buf == nil {
		return 0
	}

	return b.buf.Cap()
}

// Consumed returns the total number of bytes decoded so far.
func (b *Buffer) Consumed() int64 {
	return b.consumed
}

// Release returns the backing storage to the pool. The buffer must not be used afterwards.
func (b *Buffer) Release() {
	if b.buf != nil {
		pool.PutDecodeBuffer(b.buf)
		b.buf = nil
	}
}

// Decode runs fn over the unconsumed bytes of b, refilling from the source
// until fn has enough data.
//
// Returns:
//   - T: the decoded value
//   - error: nil on success; io.EOF at the end of the stream; errs.ErrIncompleteStream
//     when the source ends inside a unit; the wrapped error of fn or of the source otherwise
func Decode[T any](b *Buffer, fn DecodeFunc[T]) (T, error) {
	var zero T

	if b.buf == nil {
		return zero, fmt.Errorf("%w: buffer released", errs.ErrUsage)
	}

	for {
		value, n, err := fn(b.buf.B[b.r:])
		switch {
		case err == nil:
			b.advance(n)
			return value, nil

		case errors.Is(err, io.EOF):
			b.advance(n)
			return zero, io.EOF

		case errors.Is(err, errs.ErrIncompleteIR):
			if b.exhausted {
				return zero, b.endOfSource()
			}
			if err := b.fill(); err != nil {
				return zero, err
			}

		default:
			return zero, err
		}
	}
}

func (b *Buffer) advance(n int) {
	b.r += n
	b.consumed += int64(n)
}

func (b *Buffer) endOfSource() error {
	if b.Unconsumed() == 0 || b.allowIncompleteStream {
		return io.EOF
	}

	return fmt.Errorf("%w: %d trailing bytes", errs.ErrIncompleteStream, b.Unconsumed())
}

// fill makes room and performs a single read from the source.
func (b *Buffer) fill() error {
	grow := b.Unconsumed() > b.buf.Cap()/2

	b.buf.Discard(b.r)
	b.r = 0
	if grow {
		b.buf.Grow(b.buf.Cap())
	}

	_, err := b.buf.ReadFrom(b.src)
	if errors.Is(err, io.EOF) {
		b.exhausted = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read IR source: %w", err)
	}

	return nil
}
