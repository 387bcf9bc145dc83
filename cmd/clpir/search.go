package main

import (
	"bufio"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/clpir/query"
	"github.com/arloliu/clpir/reader"
)

type searchFlags struct {
	from       int64
	to         int64
	margin     int64
	wildcards  []string
	substrings []string
	ignoreCase bool
	expression string
	limit      int
}

func (sf *searchFlags) query(cmd *cobra.Command) (*query.Query, error) {
	var opts []query.Option

	flags := cmd.Flags()
	if flags.Changed("from") {
		opts = append(opts, query.WithLowerBound(sf.from))
	}
	if flags.Changed("to") {
		opts = append(opts, query.WithUpperBound(sf.to))
	}
	if flags.Changed("margin") {
		opts = append(opts, query.WithTerminationMargin(sf.margin))
	}
	for _, w := range sf.wildcards {
		opts = append(opts, query.WithWildcard(w, !sf.ignoreCase))
	}
	for _, s := range sf.substrings {
		opts = append(opts, query.WithSubstring(s, !sf.ignoreCase))
	}
	if sf.expression != "" {
		opts = append(opts, query.WithExpression(sf.expression))
	}

	return query.New(opts...)
}

func newSearchCommand(a *app) *cobra.Command {
	var (
		rf readerFlags
		sf searchFlags
	)

	cmd := &cobra.Command{
		Use:   "search <file>",
		Short: "Print the log events of an IR file that match a query",
		Example: `  clpir search app.clp.zst --from 1700000000000 --to 1700003600000 --contains ERROR
  clpir search app.clp.zst --wildcard '*user ? logged in*' --ignore-case
  clpir search app.clp.zst --expr 'message contains "timeout" && index > 100'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := sf.query(cmd)
			if err != nil {
				return err
			}

			opts, tz, err := a.readerOptions(cmd, &rf)
			if err != nil {
				return err
			}

			fr, err := reader.OpenFile(args[0], opts...)
			if err != nil {
				return err
			}
			a.log.Debug("searching IR file", zap.String("path", args[0]), zap.Stringer("query", q))

			out := bufio.NewWriter(cmd.OutOrStdout())
			matched := 0
			err = fr.Open(func(r *reader.StreamReader) error {
				for e, err := range r.Search(q) {
					if err != nil {
						return err
					}
					if _, err := out.WriteString(e.FormattedMessage(tz)); err != nil {
						return err
					}
					matched++
					if sf.limit > 0 && matched >= sf.limit {
						break
					}
				}

				return nil
			})
			if flushErr := out.Flush(); err == nil {
				err = flushErr
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s matching events\n", humanize.Comma(int64(matched)))

			return nil
		},
	}

	addReaderFlags(cmd, &rf)
	flags := cmd.Flags()
	flags.Int64Var(&sf.from, "from", 0, "lower timestamp bound in epoch milliseconds (inclusive)")
	flags.Int64Var(&sf.to, "to", 0, "upper timestamp bound in epoch milliseconds (inclusive)")
	flags.Int64Var(&sf.margin, "margin", query.DefaultTerminationMargin, "milliseconds past --to to keep scanning for out-of-order events")
	flags.StringArrayVar(&sf.wildcards, "wildcard", nil, "wildcard pattern matching the whole message (repeatable)")
	flags.StringArrayVar(&sf.substrings, "contains", nil, "literal text the message must contain (repeatable)")
	flags.BoolVarP(&sf.ignoreCase, "ignore-case", "i", false, "match wildcards case-insensitively")
	flags.StringVar(&sf.expression, "expr", "", "boolean expression over message, timestamp, index and timezone")
	flags.IntVar(&sf.limit, "limit", 0, "stop after this many matches (0 = no limit)")

	return cmd
}
