package reader

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"go.uber.org/zap"

	"github.com/arloliu/clpir/compress"
	"github.com/arloliu/clpir/decoder"
	"github.com/arloliu/clpir/errs"
	"github.com/arloliu/clpir/event"
	"github.com/arloliu/clpir/internal/options"
	"github.com/arloliu/clpir/query"
)

type state uint8

const (
	stateUnopened state = iota
	statePreambleDecoded
	stateIterating
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateUnopened:
		return "unopened"
	case statePreambleDecoded:
		return "preamble_decoded"
	case stateIterating:
		return "iterating"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StreamReader decodes log events from an IR byte source.
type StreamReader struct {
	cfg          *config
	src          io.ReadCloser
	decompressor io.ReadCloser
	decoder      *decoder.Decoder
	state        state
	failed       bool

	reportedBytes   int64
	reportedRecords uint64
}

// NewStreamReader creates a reader over src. No bytes are read until the
// preamble is needed. The reader takes ownership of src and closes it in Close.
func NewStreamReader(src io.ReadCloser, opts ...Option) (*StreamReader, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", errs.ErrUsage)
	}

	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &StreamReader{cfg: cfg, src: src}, nil
}

// open attaches the decompressor and the decoder on first use.
func (r *StreamReader) open() error {
	if r.decoder != nil {
		return nil
	}

	codec, err := compress.GetCodec(r.cfg.compression)
	if err != nil {
		return err
	}

	rc, err := codec.NewReader(r.src)
	if err != nil {
		return fmt.Errorf("open %s stream: %w", r.cfg.compression, err)
	}

	r.decompressor = rc
	r.decoder = decoder.NewDecoder(decoder.NewBuffer(rc, r.cfg.bufferSize, r.cfg.allowIncomplete))

	return nil
}

// ReadPreamble decodes the stream preamble. It is a no-op once the preamble
// was decoded.
func (r *StreamReader) ReadPreamble() error {
	if r.state == stateClosed {
		return errs.ErrReaderClosed
	}
	if r.state != stateUnopened {
		return nil
	}

	if err := r.open(); err != nil {
		return err
	}

	metadata, err := r.decoder.DecodePreamble()
	r.report()
	if err != nil {
		r.observeError(err)
		return err
	}

	r.state = statePreambleDecoded
	r.cfg.metrics.StreamOpened()
	r.cfg.logger.Debug("decoded IR preamble",
		zap.Int64("ref_timestamp", metadata.RefTimestamp()),
		zap.String("timestamp_format", metadata.TimestampFormat()),
		zap.String("timezone", metadata.TimezoneID()),
		zap.String("version", metadata.Version()),
		zap.Stringer("compression", r.cfg.compression),
	)

	return nil
}

// HasMetadata reports whether the preamble has been decoded.
func (r *StreamReader) HasMetadata() bool {
	return r.decoder != nil && r.decoder.Metadata() != nil
}

// Metadata returns the stream metadata without doing any I/O.
//
// Returns errs.ErrMetadataNotDecoded before the preamble was decoded.
func (r *StreamReader) Metadata() (*event.Metadata, error) {
	if !r.HasMetadata() {
		return nil, errs.ErrMetadataNotDecoded
	}

	return r.decoder.Metadata(), nil
}

// NextEvent returns the next log event. It returns io.EOF at the end of the
// stream and errs.ErrReaderClosed after Close.
func (r *StreamReader) NextEvent() (*event.LogEvent, error) {
	return r.next(nil)
}

func (r *StreamReader) next(q *query.Query) (*event.LogEvent, error) {
	if r.state == stateClosed {
		return nil, errs.ErrReaderClosed
	}
	if err := r.ReadPreamble(); err != nil {
		return nil, err
	}
	r.state = stateIterating

	e, err := r.decoder.DecodeNext(q)
	r.report()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.observeError(err)
		}

		return nil, err
	}
	r.cfg.metrics.EventEmitted()

	return e, nil
}

// Search returns the events matching q, in stream order. A nil q matches
// every event.
//
// The sequence is lazy, forward-only and shares the reader's cursor: each step
// decodes records until one matches. It ends at the end of the stream, once a
// record's timestamp passes the query's termination point, or after yielding
// an error.
func (r *StreamReader) Search(q *query.Query) iter.Seq2[*event.LogEvent, error] {
	return func(yield func(*event.LogEvent, error) bool) {
		for {
			e, err := r.next(q)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Events returns every remaining event in stream order.
func (r *StreamReader) Events() iter.Seq2[*event.LogEvent, error] {
	return r.Search(nil)
}

// Close closes the decompressor and then the source. Calling Close more than
// once is a no-op.
func (r *StreamReader) Close() error {
	if r.state == stateClosed {
		return nil
	}
	prev := r.state
	r.state = stateClosed

	var closeErrs []error
	if r.decompressor != nil {
		if err := r.decompressor.Close(); err != nil {
			closeErrs = append(closeErrs, fmt.Errorf("close decompressor: %w", err))
		}
	}
	if err := r.src.Close(); err != nil {
		closeErrs = append(closeErrs, fmt.Errorf("close source: %w", err))
	}
	if r.decoder != nil {
		r.decoder.Release()
	}

	r.cfg.logger.Debug("closed IR stream", zap.Stringer("state", prev))

	return errors.Join(closeErrs...)
}

// Open decodes the preamble, runs fn and closes the reader, whatever fn
// returns. An error from the preamble or fn takes precedence over an error
// from Close.
func (r *StreamReader) Open(fn func(*StreamReader) error) (err error) {
	defer func() {
		if closeErr := r.Close(); err == nil {
			err = closeErr
		}
	}()

	if err := r.ReadPreamble(); err != nil {
		return err
	}

	return fn(r)
}

// report forwards consumption counters accumulated since the last call.
func (r *StreamReader) report() {
	consumed := r.decoder.Consumed()
	decoded := r.decoder.Decoded()

	r.cfg.metrics.BytesConsumed(consumed - r.reportedBytes)
	if decoded > r.reportedRecords {
		r.cfg.metrics.RecordsDecoded(decoded - r.reportedRecords)
	}

	r.reportedBytes = consumed
	r.reportedRecords = decoded
}

// observeError logs and counts the first fatal error of the stream.
func (r *StreamReader) observeError(err error) {
	if r.failed || errors.Is(err, errs.ErrUsage) {
		return
	}
	r.failed = true

	kind := errorKind(err)
	r.cfg.metrics.StreamFailed(kind)
	r.cfg.logger.Warn("IR stream failed",
		zap.String("kind", kind),
		zap.Int64("offset", r.decoder.Consumed()),
		zap.Error(err),
	)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, errs.ErrUnsupportedEncoding):
		return "unsupported_encoding"
	case errors.Is(err, errs.ErrMalformedPreamble):
		return "malformed_preamble"
	case errors.Is(err, errs.ErrUnresolvedTimezone):
		return "unresolved_timezone"
	case errors.Is(err, errs.ErrMalformedRecord):
		return "malformed_record"
	default:
		return "io"
	}
}
