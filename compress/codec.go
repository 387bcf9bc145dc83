package compress

import (
	"fmt"
	"io"

	"github.com/arloliu/clpir/format"
)

// Decompressor wraps a compressed byte stream into a reader of the original bytes.
//
// IR streams are typically produced by a log appender that keeps appending frames
// to the same file, so decompressors must keep reading across frame boundaries
// until the underlying reader is exhausted.
//
// The returned reader owns decompression state only. Closing it releases that
// state but never closes r; the caller remains responsible for the source.
type Decompressor interface {
	// NewReader returns a reader that decompresses the bytes read from r.
	//
	// Error conditions:
	//   - Returns error if the decompression state cannot be allocated
	//
	// Corrupted input is reported by the returned reader's Read method.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Compressor wraps a byte sink into a writer that compresses everything written to it.
//
// Closing the returned writer flushes the final frame but does not close w.
type Compressor interface {
	// NewWriter returns a writer that compresses into w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid stream compression: %s", compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// readCloser pairs a reader with a release function.
type readCloser struct {
	io.Reader
	release func() error
}

func (rc *readCloser) Close() error {
	if rc.release == nil {
		return nil
	}
	release := rc.release
	rc.release = nil

	return release()
}
