// Package config loads the clpir command configuration from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/clpir/event"
	"github.com/arloliu/clpir/format"
	"github.com/arloliu/clpir/internal/logger"
	"github.com/arloliu/clpir/internal/pool"
	"github.com/arloliu/clpir/reader"
)

// Config is the root of the configuration file.
type Config struct {
	Logging logger.Config `yaml:"logging"`
	Reader  ReaderConfig  `yaml:"reader"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ReaderConfig holds the defaults applied to every opened stream.
type ReaderConfig struct {
	BufferSize int `yaml:"buffer_size"`
	// Compression is "none", "zstd", "s2" or "lz4". Empty means guess from the
	// file extension.
	Compression           string `yaml:"compression"`
	AllowIncompleteStream bool   `yaml:"allow_incomplete_stream"`
	// Timezone overrides the stream timezone when formatting output.
	Timezone string `yaml:"timezone"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// Textfile is written in the Prometheus text format on exit when set.
	Textfile string `yaml:"textfile"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: logger.DefaultConfig(),
		Reader: ReaderConfig{
			BufferSize: pool.DecodeBufferDefaultSize,
		},
	}
}

// Load reads the configuration at path on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that cannot be checked by the YAML decoder.
func (c Config) Validate() error {
	if c.Reader.BufferSize <= 0 {
		return fmt.Errorf("reader.buffer_size must be positive: %d", c.Reader.BufferSize)
	}
	if c.Reader.Compression != "" {
		if _, err := format.ParseCompressionType(c.Reader.Compression); err != nil {
			return fmt.Errorf("reader.compression: %w", err)
		}
	}
	if c.Reader.Timezone != "" {
		if _, err := event.LoadTimezone(c.Reader.Timezone); err != nil {
			return fmt.Errorf("reader.timezone: %w", err)
		}
	}

	return nil
}

// ReaderOptions converts the reader section into reader options.
func (c Config) ReaderOptions() ([]reader.Option, error) {
	opts := []reader.Option{
		reader.WithBufferSize(c.Reader.BufferSize),
		reader.WithAllowIncompleteStream(c.Reader.AllowIncompleteStream),
	}

	if c.Reader.Compression != "" {
		compression, err := format.ParseCompressionType(c.Reader.Compression)
		if err != nil {
			return nil, err
		}
		opts = append(opts, reader.WithCompression(compression))
	}

	if c.Reader.Timezone != "" {
		loc, err := event.LoadTimezone(c.Reader.Timezone)
		if err != nil {
			return nil, err
		}
		opts = append(opts, reader.WithTimezoneOverride(loc))
	}

	return opts, nil
}
