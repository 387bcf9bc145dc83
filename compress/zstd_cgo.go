//go:build cgo && gozstd

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

// NewReader returns a streaming zstd decoder backed by the reference C library.
func (c ZstdCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	zr := gozstd.NewReader(r)

	return &readCloser{
		Reader: zr,
		release: func() error {
			zr.Release()
			return nil
		},
	}, nil
}

// NewWriter returns a streaming zstd encoder backed by the reference C library.
func (c ZstdCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return &cgoZstdWriter{zw: gozstd.NewWriterLevel(w, gozstd.DefaultCompressionLevel)}, nil
}

type cgoZstdWriter struct {
	zw *gozstd.Writer
}

func (w *cgoZstdWriter) Write(p []byte) (int, error) {
	return w.zw.Write(p)
}

func (w *cgoZstdWriter) Close() error {
	if w.zw == nil {
		return nil
	}
	err := w.zw.Close()
	w.zw.Release()
	w.zw = nil

	return err
}
