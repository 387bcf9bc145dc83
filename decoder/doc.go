// Package decoder turns a byte source carrying a four-byte CLP IR stream into
// log events.
//
// Buffer owns the read-ahead window and absorbs partial reads: a codec function
// run through Decode only ever sees a complete unit or an error that cannot be
// fixed by reading more bytes. Decoder layers the stream state on top of it:
// the decoded Metadata, the running reference timestamp that chains record
// deltas together, the record index, and the first fatal error, which it keeps
// returning once seen.
//
// Decoders are not safe for concurrent use.
package decoder
