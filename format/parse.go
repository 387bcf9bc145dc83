package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ParseCompressionType parses a case-insensitive compression name.
//
// Accepted names are "none", "zstd", "s2" and "lz4". "zst" is accepted as an alias of "zstd".
func ParseCompressionType(name string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "raw":
		return CompressionNone, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression type: %q", name)
	}
}

// CompressionFromPath guesses the compression of an IR file from its extension.
//
// Files without a recognized compression extension are assumed to be zstd compressed,
// which is what the CLP log appenders produce by default.
func CompressionFromPath(path string) CompressionType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".s2":
		return CompressionS2
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionZstd
	}
}
