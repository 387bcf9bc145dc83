package reader

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/clpir/format"
	"github.com/arloliu/clpir/internal/options"
	"github.com/arloliu/clpir/internal/pool"
)

// Option configures a StreamReader.
type Option = options.Option[*config]

// Metrics receives decoding counters. *metrics.Collector implements it.
type Metrics interface {
	StreamOpened()
	StreamFailed(kind string)
	RecordsDecoded(n uint64)
	EventEmitted()
	BytesConsumed(n int64)
}

type config struct {
	bufferSize      int
	compression     format.CompressionType
	allowIncomplete bool
	logger          *zap.Logger
	metrics         Metrics
	timezone        *time.Location
}

func newConfig() *config {
	return &config{
		bufferSize:  pool.DecodeBufferDefaultSize,
		compression: format.CompressionZstd,
		logger:      zap.NewNop(),
		metrics:     nopMetrics{},
	}
}

// Validate rejects unknown compression types.
func (c *config) Validate() error {
	switch c.compression {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		return nil
	default:
		return fmt.Errorf("unsupported compression type: %s", c.compression)
	}
}

// WithBufferSize sets the initial size of the read-ahead window in bytes.
// The window grows when a single record does not fit.
func WithBufferSize(size int) Option {
	return options.Named("WithBufferSize", func(c *config) error {
		if size <= 0 {
			return fmt.Errorf("buffer size must be positive: %d", size)
		}
		c.bufferSize = size

		return nil
	})
}

// WithCompression sets the outer compression of the stream. Streams are
// assumed to be zstd compressed by default.
func WithCompression(compression format.CompressionType) Option {
	return options.NoError(func(c *config) {
		c.compression = compression
	})
}

// WithoutCompression reads the source as raw IR bytes.
func WithoutCompression() Option {
	return WithCompression(format.CompressionNone)
}

// WithAllowIncompleteStream treats a source that ends inside a record as a
// normal end of stream. Useful for files that are still being written.
func WithAllowIncompleteStream(allow bool) Option {
	return options.NoError(func(c *config) {
		c.allowIncomplete = allow
	})
}

// WithLogger sets the logger. Readers do not log by default.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithMetrics reports decoding counters to m.
func WithMetrics(m Metrics) Option {
	return options.NoError(func(c *config) {
		if m != nil {
			c.metrics = m
		}
	})
}

// WithTimezoneOverride formats Dump output in loc instead of the stream's timezone.
func WithTimezoneOverride(loc *time.Location) Option {
	return options.NoError(func(c *config) {
		c.timezone = loc
	})
}

type nopMetrics struct{}

func (nopMetrics) StreamOpened()         {}
func (nopMetrics) StreamFailed(string)   {}
func (nopMetrics) RecordsDecoded(uint64) {}
func (nopMetrics) EventEmitted()         {}
func (nopMetrics) BytesConsumed(int64)   {}
