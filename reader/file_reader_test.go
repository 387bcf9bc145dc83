package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/clpir/format"
	"github.com/arloliu/clpir/internal/irtest"
)

func writeStreamFile(t *testing.T, name string, compression format.CompressionType) string {
	t.Helper()

	data, err := irtest.Compress(sampleStream(), compression)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestOpenFile(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		compression format.CompressionType
	}{
		{"zstd by default", "app.clp", format.CompressionZstd},
		{"zst extension", "app.clp.zst", format.CompressionZstd},
		{"s2 extension", "app.clp.s2", format.CompressionS2},
		{"lz4 extension", "app.clp.lz4", format.CompressionLZ4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeStreamFile(t, tt.file, tt.compression)

			fr, err := OpenFile(path)
			require.NoError(t, err)
			defer fr.Close()

			require.Equal(t, path, fr.Path())
			require.Len(t, collect(t, fr.StreamReader, nil), 10)
		})
	}
}

func TestOpenFile_ExplicitCompressionWins(t *testing.T) {
	path := writeStreamFile(t, "raw.clp.zst", format.CompressionNone)

	fr, err := OpenFile(path, WithoutCompression())
	require.NoError(t, err)
	defer fr.Close()

	require.Len(t, collect(t, fr.StreamReader, nil), 10)
}

func TestOpenFile_Errors(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.clp"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := writeStreamFile(t, "app.clp", format.CompressionZstd)
	_, err = OpenFile(path, WithBufferSize(-1))
	require.Error(t, err)
}

func TestDecompressFile(t *testing.T) {
	src := writeStreamFile(t, "app.clp.zst", format.CompressionZstd)
	dst := filepath.Join(t.TempDir(), "app.log")

	stats, err := DecompressFile(src, dst)
	require.NoError(t, err)
	require.Equal(t, uint64(10), stats.Events)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, stats.Bytes, int64(len(data)))
	require.Contains(t, string(data), "2033-07-22 19:00:03.190-05:00 ERROR request failed\n")
}

func TestDecompressFile_Errors(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		_, err := DecompressFile(filepath.Join(t.TempDir(), "missing.clp"), filepath.Join(t.TempDir(), "out.log"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unwritable destination", func(t *testing.T) {
		src := writeStreamFile(t, "app.clp", format.CompressionZstd)
		_, err := DecompressFile(src, filepath.Join(t.TempDir(), "no", "such", "dir", "out.log"))
		require.Error(t, err)
	})
}
