package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/clpir/reader"
)

func newDumpCommand(a *app) *cobra.Command {
	var (
		rf     readerFlags
		output string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Write every log event of an IR file as text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := a.readerOptions(cmd, &rf)
			if err != nil {
				return err
			}

			start := time.Now()
			var stats reader.Stats
			if output != "" {
				stats, err = reader.DecompressFile(args[0], output, opts...)
			} else {
				var fr *reader.FileReader
				fr, err = reader.OpenFile(args[0], opts...)
				if err != nil {
					return err
				}
				stats, err = fr.Dump(cmd.OutOrStdout())
			}
			if err != nil {
				return err
			}

			a.log.Info("dumped IR file",
				zap.String("path", args[0]),
				zap.Uint64("events", stats.Events),
				zap.Int64("bytes", stats.Bytes),
			)
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s events, %s written in %s (xxh64 %016x)\n",
					humanize.Comma(int64(stats.Events)), //nolint:gosec
					humanize.Bytes(uint64(stats.Bytes)), //nolint:gosec
					time.Since(start).Round(time.Millisecond),
					stats.Digest,
				)
			}

			return nil
		},
	}

	addReaderFlags(cmd, &rf)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print a summary")

	return cmd
}
