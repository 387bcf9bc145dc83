package clpir

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/clpir/format"
	"github.com/arloliu/clpir/internal/irtest"
	"github.com/arloliu/clpir/query"
	"github.com/arloliu/clpir/reader"
)

const refTimestamp = 2005689603190

func testStream() *irtest.Builder {
	return irtest.NewBuilder().
		Magic().
		Preamble(refTimestamp, "yyyy-MM-dd HH:mm:ss.SSSZ", "America/Chicago").
		Message(" INFO service started\n", 0).
		Message(" ERROR disk full\n", 1000).
		Message(" INFO retrying\n", 1000).
		EndOfStream()
}

func TestNewStreamReader(t *testing.T) {
	data, err := testStream().Compressed(format.CompressionZstd)
	require.NoError(t, err)

	r, err := NewStreamReader(io.NopCloser(bytes.NewReader(data)))
	require.NoError(t, err)
	defer r.Close()

	var lines []string
	for ev, err := range r.Events() {
		require.NoError(t, err)
		lines = append(lines, ev.FormattedMessage(nil))
	}

	require.Equal(t, []string{
		"2033-07-22 19:00:03.190-05:00 INFO service started\n",
		"2033-07-22 19:00:04.190-05:00 ERROR disk full\n",
		"2033-07-22 19:00:05.190-05:00 INFO retrying\n",
	}, lines)
}

func TestNewStreamReader_NilSource(t *testing.T) {
	_, err := NewStreamReader(nil)
	require.Error(t, err)
}

func TestOpenFile_Search(t *testing.T) {
	data, err := testStream().Compressed(format.CompressionLZ4)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "app.clp.lz4")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	fr, err := OpenFile(path)
	require.NoError(t, err)
	defer fr.Close()

	q, err := query.New(query.WithWildcard("*error*", false))
	require.NoError(t, err)

	var matched []uint64
	for ev, err := range fr.Search(q) {
		require.NoError(t, err)
		matched = append(matched, ev.Index())
	}
	require.Equal(t, []uint64{1}, matched)
}

func TestDecompressFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.clp")
	dst := filepath.Join(dir, "app.log")

	require.NoError(t, os.WriteFile(src, testStream().Bytes(), 0o600))

	stats, err := DecompressFile(src, dst, reader.WithoutCompression())
	require.NoError(t, err)
	require.Equal(t, uint64(3), stats.Events)
	require.Equal(t, int64(refTimestamp), stats.FirstTimestamp)
	require.Equal(t, int64(refTimestamp+2000), stats.LastTimestamp)

	out, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(string(out), "\n"))
	require.Equal(t, int64(len(out)), stats.Bytes)
}
