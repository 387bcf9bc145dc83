// Package clpir decodes CLP four-byte IR log streams.
//
// An IR stream is a compact binary encoding of log events produced by the
// CLP log compressor. Each stream starts with a magic number and a JSON
// preamble carrying the reference timestamp, timestamp pattern and timezone,
// followed by records holding a logtype template, its variables and a
// timestamp delta relative to the previous record. Streams are usually
// wrapped in an outer compression layer (Zstd by default).
//
// # Basic Usage
//
// Reading every event of a file:
//
//	r, err := clpir.OpenFile("app.clp.zst")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	for ev, err := range r.Events() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Print(ev.FormattedMessage(nil))
//	}
//
// Filtering by time range and text:
//
//	q, _ := query.New(
//	    query.WithTimeRange(from, to),
//	    query.WithWildcard("*ERROR*", false),
//	)
//	for ev, err := range r.Search(q) {
//	    ...
//	}
//
// # Package Structure
//
// This package provides top-level wrappers around the reader package for the
// most common use cases. The lower layers are usable on their own:
//
//   - ir: the four-byte IR codec (preamble, records, logtype expansion)
//   - decoder: buffered incremental decoding of a byte source
//   - event: Metadata and LogEvent values
//   - query: time range, wildcard and expression filters
//   - reader: the stream lifecycle, iterators and dumping
//   - compress: outer compression codecs
package clpir

import (
	"io"

	"github.com/arloliu/clpir/reader"
)

// NewStreamReader creates a reader over src. The reader owns src and closes
// it on Close.
//
// Available options:
//   - reader.WithCompression(format.CompressionZstd|S2|LZ4|None)
//   - reader.WithBufferSize(n)
//   - reader.WithAllowIncompleteStream(true|false)
//   - reader.WithTimezoneOverride(loc)
//   - reader.WithLogger(logger) / reader.WithMetrics(m)
func NewStreamReader(src io.ReadCloser, opts ...reader.Option) (*reader.StreamReader, error) {
	return reader.NewStreamReader(src, opts...)
}

// OpenFile opens an IR file, guessing its compression from the file extension
// unless reader.WithCompression is given.
func OpenFile(path string, opts ...reader.Option) (*reader.FileReader, error) {
	return reader.OpenFile(path, opts...)
}

// DecompressFile writes the formatted log lines of the IR file src to dst.
func DecompressFile(src, dst string, opts ...reader.Option) (reader.Stats, error) {
	return reader.DecompressFile(src, dst, opts...)
}
