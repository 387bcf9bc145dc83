package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/clpir/errs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clpir.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, 64*1024, cfg.Reader.BufferSize)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  path: /var/log/clpir/clpir.log
  max_size: 10
reader:
  buffer_size: 4096
  compression: lz4
  allow_incomplete_stream: true
  timezone: Asia/Tokyo
metrics:
  textfile: /var/lib/node_exporter/clpir.prom
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "/var/log/clpir/clpir.log", cfg.Logging.Path)
	require.Equal(t, 10, cfg.Logging.MaxSize)
	require.Equal(t, 3, cfg.Logging.MaxBackups, "unset keys keep their defaults")
	require.Equal(t, 4096, cfg.Reader.BufferSize)
	require.Equal(t, "lz4", cfg.Reader.Compression)
	require.True(t, cfg.Reader.AllowIncompleteStream)
	require.Equal(t, "Asia/Tokyo", cfg.Reader.Timezone)
	require.Equal(t, "/var/lib/node_exporter/clpir.prom", cfg.Metrics.Textfile)

	opts, err := cfg.ReaderOptions()
	require.NoError(t, err)
	require.Len(t, opts, 4)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "reader:\n  buffer: 10\n"},
		{"invalid yaml", "reader: [\n"},
		{"bad buffer size", "reader:\n  buffer_size: 0\n"},
		{"bad compression", "reader:\n  compression: brotli\n"},
		{"bad timezone", "reader:\n  timezone: Nowhere/Town\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("timezone error kind", func(t *testing.T) {
		_, err := Load(writeConfig(t, "reader:\n  timezone: Nowhere/Town\n"))
		require.ErrorIs(t, err, errs.ErrUnresolvedTimezone)
	})
}

func TestReaderOptions_Defaults(t *testing.T) {
	opts, err := Default().ReaderOptions()
	require.NoError(t, err)
	require.Len(t, opts, 2)
}
