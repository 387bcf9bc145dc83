// Package errs defines the sentinel errors shared by the clpir packages.
//
// Errors are grouped by how a caller is expected to react to them:
//
//   - ErrIncompleteIR is transient and never leaves the decoder package; it only
//     tells the decode buffer to read more bytes from the source.
//   - io.EOF is used for the normal end of an IR stream and is not defined here.
//   - ErrMalformedRecord and the preamble errors are fatal for the stream; a
//     reader that returned one of them will keep returning it.
//   - ErrUnresolvedTimezone is returned when metadata is constructed with an
//     unknown timezone id.
//   - ErrUsage marks programming errors such as reading metadata before the
//     preamble was decoded or iterating a closed reader.
//
// All errors are returned wrapped with context, so callers should compare them
// with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

// Codec level errors.
var (
	// ErrIncompleteIR indicates that the given bytes end in the middle of an IR unit.
	ErrIncompleteIR = errors.New("incomplete IR")
	// ErrCorruptedIR indicates that the bytes cannot be a valid IR unit.
	ErrCorruptedIR = errors.New("corrupted IR")
	// ErrInvalidMagicNumber indicates that the stream does not start with a CLP IR magic number.
	ErrInvalidMagicNumber = errors.New("invalid IR magic number")
	// ErrUnsupportedEncoding indicates a valid but unsupported IR encoding (eight-byte IR).
	ErrUnsupportedEncoding = errors.New("unsupported IR encoding")
)

// Stream level errors.
var (
	// ErrMalformedRecord indicates that a record in the stream is corrupted.
	ErrMalformedRecord = errors.New("malformed IR record")
	// ErrIncompleteStream indicates that the source ended in the middle of a record.
	ErrIncompleteStream = fmt.Errorf("%w: stream ends inside a record", ErrMalformedRecord)
	// ErrMalformedPreamble indicates that the stream preamble or its metadata is invalid.
	ErrMalformedPreamble = errors.New("malformed IR preamble")
	// ErrUnresolvedTimezone indicates that a timezone id cannot be resolved.
	ErrUnresolvedTimezone = errors.New("unresolved timezone")
)

// Usage errors.
var (
	// ErrUsage is the parent of all errors caused by calling an operation in the wrong state.
	ErrUsage = errors.New("invalid usage")
	// ErrMetadataNotDecoded is returned when metadata is requested before the preamble was decoded.
	ErrMetadataNotDecoded = fmt.Errorf("%w: metadata has not been decoded yet", ErrUsage)
	// ErrReaderClosed is returned when a closed reader is used.
	ErrReaderClosed = fmt.Errorf("%w: reader is closed", ErrUsage)
)
