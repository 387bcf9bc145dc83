// Package ir implements the byte level codec of the CLP four-byte IR format.
//
// An IR stream is laid out as:
//
//	magic number | preamble | record... | end-of-stream tag
//
// Every function in this package works on a window of bytes and is stateless.
// A decode function returns the decoded value together with the number of bytes
// it consumed, or one of the following errors:
//
//   - errs.ErrIncompleteIR: the window ends before the unit does; retry with more bytes.
//   - errs.ErrCorruptedIR: the bytes can never form a valid unit.
//   - io.EOF: the end-of-stream tag was read (DecodeNextMessage only, consumes one byte).
//
// Decoded values never alias the input window, so callers may reuse or compact
// their buffers right after a call returns.
package ir
