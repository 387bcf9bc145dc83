package main

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arloliu/clpir/event"
	"github.com/arloliu/clpir/reader"
)

var funcMap = template.FuncMap{
	"humanBytes": func(n int64) string {
		return humanize.Bytes(uint64(n)) //nolint:gosec
	},
	"comma": func(n uint64) string {
		return humanize.Comma(int64(n)) //nolint:gosec
	},
	"formatMillis": func(ms int64, loc *time.Location) string {
		return event.NewLogEvent("", ms, 0, nil).FormattedTimestamp(loc)
	},
	"humanTime": func(ms int64) string {
		return humanize.Time(time.UnixMilli(ms))
	},
}

var infoTemplate = template.Must(template.New("info").Funcs(funcMap).Parse(
	`Path:              {{ .Path }}
Version:           {{ .Metadata.Version }}
Timezone:          {{ .Metadata.TimezoneID }}
Timestamp format:  {{ .Metadata.TimestampFormat }}
Reference time:    {{ formatMillis .Metadata.RefTimestamp .Metadata.Timezone }}
Events:            {{ comma .Stats.Events }}
{{- if .Stats.Events }}
First event:       {{ formatMillis .Stats.FirstTimestamp .Metadata.Timezone }} ({{ humanTime .Stats.FirstTimestamp }})
Last event:        {{ formatMillis .Stats.LastTimestamp .Metadata.Timezone }} ({{ humanTime .Stats.LastTimestamp }})
{{- end }}
Decoded text size: {{ humanBytes .Stats.Bytes }}
`))

type infoView struct {
	Path     string
	Metadata *event.Metadata
	Stats    reader.Stats
}

func newInfoCommand(a *app) *cobra.Command {
	var rf readerFlags

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print the metadata and event range of an IR file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := a.readerOptions(cmd, &rf)
			if err != nil {
				return err
			}

			fr, err := reader.OpenFile(args[0], opts...)
			if err != nil {
				return err
			}
			if err := fr.ReadPreamble(); err != nil {
				_ = fr.Close()
				return err
			}

			metadata, err := fr.Metadata()
			if err != nil {
				_ = fr.Close()
				return err
			}

			stats, err := fr.Dump(io.Discard)
			if err != nil {
				return err
			}

			if err := infoTemplate.Execute(cmd.OutOrStdout(), infoView{
				Path:     fr.Path(),
				Metadata: metadata,
				Stats:    stats,
			}); err != nil {
				return fmt.Errorf("render info: %w", err)
			}

			return nil
		},
	}

	addReaderFlags(cmd, &rf)

	return cmd
}
