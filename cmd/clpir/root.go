package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/clpir/event"
	"github.com/arloliu/clpir/format"
	"github.com/arloliu/clpir/internal/config"
	"github.com/arloliu/clpir/internal/logger"
	"github.com/arloliu/clpir/internal/metrics"
	"github.com/arloliu/clpir/reader"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	configPath      string
	logLevel        string
	logFile         string
	metricsTextfile string

	cfg     config.Config
	log     *zap.Logger
	metrics *metrics.Collector
}

// readerFlags are the per-command overrides of the reader configuration.
type readerFlags struct {
	compression     string
	timezone        string
	allowIncomplete bool
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               "clpir",
		Short:             "Decode CLP IR log streams",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to a rotated file instead of stderr")
	flags.StringVar(&a.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(newDumpCommand(a), newSearchCommand(a), newInfoCommand(a))

	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.Path = a.logFile
	}
	if flags.Changed("metrics-textfile") {
		cfg.Metrics.Textfile = a.metricsTextfile
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.metrics = metrics.NewCollector()

	return nil
}

func (a *app) teardown() error {
	if a.log != nil {
		defer func() { _ = a.log.Sync() }()
	}

	if a.cfg.Metrics.Textfile != "" && a.metrics != nil {
		if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			return err
		}
		a.log.Debug("wrote metrics textfile", zap.String("path", a.cfg.Metrics.Textfile))
	}

	return nil
}

func addReaderFlags(cmd *cobra.Command, rf *readerFlags) {
	flags := cmd.Flags()
	flags.StringVar(&rf.compression, "compression", "", "outer compression: none, zstd, s2, lz4 (default: from file extension)")
	flags.StringVar(&rf.timezone, "tz", "", "format timestamps in this IANA timezone instead of the stream's")
	flags.BoolVar(&rf.allowIncomplete, "allow-incomplete", false, "treat a stream truncated inside a record as complete")
}

// readerOptions merges the configuration file with the command flags.
func (a *app) readerOptions(cmd *cobra.Command, rf *readerFlags) ([]reader.Option, *time.Location, error) {
	opts, err := a.cfg.ReaderOptions()
	if err != nil {
		return nil, nil, err
	}

	var tz *time.Location
	if a.cfg.Reader.Timezone != "" {
		tz, _ = event.LoadTimezone(a.cfg.Reader.Timezone)
	}

	flags := cmd.Flags()
	if flags.Changed("compression") {
		compression, err := format.ParseCompressionType(rf.compression)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, reader.WithCompression(compression))
	}
	if flags.Changed("tz") {
		loc, err := event.LoadTimezone(rf.timezone)
		if err != nil {
			return nil, nil, fmt.Errorf("--tz: %w", err)
		}
		tz = loc
		opts = append(opts, reader.WithTimezoneOverride(loc))
	}
	if flags.Changed("allow-incomplete") {
		opts = append(opts, reader.WithAllowIncompleteStream(rf.allowIncomplete))
	}

	opts = append(opts, reader.WithLogger(a.log), reader.WithMetrics(a.metrics))

	return opts, tz, nil
}
