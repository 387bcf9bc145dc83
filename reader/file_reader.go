package reader

import (
	"errors"
	"fmt"
	"os"

	"github.com/arloliu/clpir/format"
)

// FileReader is a StreamReader over a file.
type FileReader struct {
	*StreamReader
	path string
}

// OpenFile opens path for reading. Unless WithCompression is given, the
// compression is guessed from the file extension (see format.CompressionFromPath).
func OpenFile(path string, opts ...Option) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	allOpts := make([]Option, 0, len(opts)+1)
	allOpts = append(allOpts, WithCompression(format.CompressionFromPath(path)))
	allOpts = append(allOpts, opts...)

	sr, err := NewStreamReader(f, allOpts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &FileReader{StreamReader: sr, path: path}, nil
}

// Path returns the path the reader was opened with.
func (f *FileReader) Path() string {
	return f.path
}

// DecompressFile decodes the IR file src and writes its formatted log lines
// to the file dst, creating or truncating it.
func DecompressFile(src, dst string, opts ...Option) (stats Stats, err error) {
	fr, err := OpenFile(src, opts...)
	if err != nil {
		return Stats{}, err
	}

	out, err := os.Create(dst)
	if err != nil {
		_ = fr.Close()
		return Stats{}, err
	}

	stats, err = fr.Dump(out)
	if closeErr := out.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("close %s: %w", dst, closeErr))
	}

	return stats, err
}
