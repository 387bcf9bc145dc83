// Package compress provides the streaming compression layers that wrap CLP IR byte streams.
//
// IR streams are rarely stored raw. Log appenders usually write them through a
// general-purpose compressor, appending one frame per flush. This package turns
// such a compressed byte stream back into the raw IR byte stream consumed by the
// decoder package, and offers the matching writers for tooling and tests.
//
// # Supported Algorithms
//
// **NoOp** (format.CompressionNone)
//
//	codec := compress.NewNoOpCompressor()
//	r, _ := codec.NewReader(file) // returns file bytes unchanged
//
// **Zstandard** (format.CompressionZstd)
//
//	codec := compress.NewZstdCompressor()
//	r, _ := codec.NewReader(file)
//	defer r.Close()
//
// Zstd is the default layer for CLP IR files. The pure Go decoder from
// klauspost/compress is used by default; building with `-tags gozstd` and cgo
// enabled switches to the reference C implementation through valyala/gozstd.
// Both decoders continue across concatenated frames.
//
// **S2** (format.CompressionS2)
//
//	codec := compress.NewS2Compressor()
//
// **LZ4** (format.CompressionLZ4)
//
//	codec := compress.NewLZ4Compressor()
//
// # Resource Ownership
//
// Readers and writers returned by this package never close the wrapped
// io.Reader or io.Writer. Closing them only releases decompression or
// compression state, so callers close the underlying file themselves.
//
// # Thread Safety
//
// Codec values are stateless and safe for concurrent use. The readers and
// writers they create are not; each must be used by a single goroutine.
package compress
