package decoder

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/arloliu/clpir/errs"
	"github.com/arloliu/clpir/event"
	"github.com/arloliu/clpir/format"
	"github.com/arloliu/clpir/ir"
	"github.com/arloliu/clpir/query"
)

// Decoder decodes the preamble and records of one IR stream.
type Decoder struct {
	buf          *Buffer
	metadata     *event.Metadata
	refTimestamp int64
	index        uint64
	done         bool
	err          error
}

// NewDecoder creates a Decoder reading from buf.
func NewDecoder(buf *Buffer) *Decoder {
	return &Decoder{buf: buf}
}

// Metadata returns the decoded metadata, or nil before DecodePreamble succeeded.
func (d *Decoder) Metadata() *event.Metadata {
	return d.metadata
}

// Consumed returns the number of stream bytes decoded so far.
func (d *Decoder) Consumed() int64 {
	return d.buf.Consumed()
}

// Decoded returns the number of records decoded so far, including records
// skipped by a query.
func (d *Decoder) Decoded() uint64 {
	return d.index
}

// Err returns the fatal error the decoder stopped on, if any.
func (d *Decoder) Err() error {
	return d.err
}

// Release returns the buffer storage to its pool.
func (d *Decoder) Release() {
	d.buf.Release()
}

func (d *Decoder) fail(err error) error {
	d.err = err
	return err
}

// DecodePreamble decodes the magic number and the preamble of the stream.
//
// Once it succeeded, further calls return the cached metadata without reading.
//
// Error conditions:
//   - errs.ErrInvalidMagicNumber: the stream is not CLP IR
//   - errs.ErrUnsupportedEncoding: the stream uses the eight-byte encoding
//   - errs.ErrMalformedPreamble: the preamble is truncated or its metadata invalid
//   - errs.ErrUnresolvedTimezone: the metadata timezone id is unknown
func (d *Decoder) DecodePreamble() (*event.Metadata, error) {
	if d.metadata != nil {
		return d.metadata, nil
	}
	if d.err != nil {
		return nil, d.err
	}

	encoding, err := Decode(d.buf, ir.DecodeEncodingType)
	if err != nil {
		return nil, d.fail(preambleError("magic number", err))
	}
	if encoding != format.EncodingFourByte {
		return nil, d.fail(fmt.Errorf("%w: %s", errs.ErrUnsupportedEncoding, encoding))
	}

	raw, err := Decode(d.buf, ir.DecodePreamble)
	if err != nil {
		return nil, d.fail(preambleError("preamble", err))
	}

	metadata, err := parseMetadata(raw)
	if err != nil {
		return nil, d.fail(err)
	}

	d.metadata = metadata
	d.refTimestamp = metadata.RefTimestamp()

	return metadata, nil
}

func preambleError(unit string, err error) error {
	switch {
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: stream ends before the %s", errs.ErrMalformedPreamble, unit)
	case errors.Is(err, errs.ErrIncompleteStream):
		return fmt.Errorf("%w: truncated %s", errs.ErrMalformedPreamble, unit)
	case errors.Is(err, errs.ErrInvalidMagicNumber), errors.Is(err, errs.ErrCorruptedIR):
		return fmt.Errorf("%w: %w", errs.ErrMalformedPreamble, err)
	default:
		return err
	}
}

func parseMetadata(raw []byte) (*event.Metadata, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: metadata is not valid JSON", errs.ErrMalformedPreamble)
	}

	fields := gjson.GetManyBytes(raw,
		ir.MetadataVersionKey,
		ir.MetadataReferenceTimestampKey,
		ir.MetadataTimestampPatternKey,
		ir.MetadataTimezoneIDKey,
	)
	version, refField, pattern, tzID := fields[0], fields[1], fields[2], fields[3]

	var refTimestamp int64
	switch refField.Type {
	case gjson.String:
		v, err := strconv.ParseInt(refField.Str, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid %s %q", errs.ErrMalformedPreamble, ir.MetadataReferenceTimestampKey, refField.Str)
		}
		refTimestamp = v
	case gjson.Number:
		refTimestamp = refField.Int()
	default:
		return nil, fmt.Errorf("%w: missing %s", errs.ErrMalformedPreamble, ir.MetadataReferenceTimestampKey)
	}

	if pattern.Type != gjson.String {
		return nil, fmt.Errorf("%w: missing %s", errs.ErrMalformedPreamble, ir.MetadataTimestampPatternKey)
	}
	if tzID.Type != gjson.String {
		return nil, fmt.Errorf("%w: missing %s", errs.ErrMalformedPreamble, ir.MetadataTimezoneIDKey)
	}

	return event.NewMetadataWithVersion(version.String(), refTimestamp, pattern.Str, tzID.Str)
}

// DecodeNext decodes records until one matches q and returns it as a LogEvent.
// A nil q matches every record.
//
// The preamble is decoded first if needed. Records whose timestamp is outside
// the query range are skipped without expanding their message. Once a record's
// timestamp passes the query's termination point, DecodeNext returns io.EOF and
// leaves the stream positioned after that record.
//
// Returns io.EOF at the end of the stream. Corrupted or truncated records
// return an error wrapping errs.ErrMalformedRecord, and so does every later call.
func (d *Decoder) DecodeNext(q *query.Query) (*event.LogEvent, error) {
	if _, err := d.DecodePreamble(); err != nil {
		return nil, err
	}
	if d.done {
		return nil, io.EOF
	}

	for {
		msg, err := Decode(d.buf, ir.DecodeNextMessage)
		if errors.Is(err, io.EOF) {
			d.done = true
			return nil, io.EOF
		}
		if err != nil {
			return nil, d.fail(recordError(d.index, err))
		}

		ts := d.refTimestamp + msg.TimestampDelta
		d.refTimestamp = ts
		index := d.index
		d.index++

		if q != nil {
			if q.TerminatesAt(ts) {
				return nil, io.EOF
			}
			if !q.MatchesTimeRange(ts) {
				continue
			}
		}

		text, err := msg.Decode()
		if err != nil {
			return nil, d.fail(recordError(index, err))
		}

		e := event.NewLogEvent(text, ts, index, d.metadata)
		if q != nil && !q.Matches(e) {
			continue
		}

		return e, nil
	}
}

func recordError(index uint64, err error) error {
	if errors.Is(err, errs.ErrCorruptedIR) {
		return fmt.Errorf("%w: record %d: %w", errs.ErrMalformedRecord, index, err)
	}

	return fmt.Errorf("record %d: %w", index, err)
}
