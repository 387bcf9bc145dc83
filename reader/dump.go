package reader

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// Stats summarizes a drained stream.
type Stats struct {
	Events         uint64
	Bytes          int64  // bytes written to the output
	Digest         uint64 // xxhash64 of the output
	FirstTimestamp int64
	LastTimestamp  int64
}

// Dump writes every remaining event to w as a formatted line and closes the
// reader.
//
// Lines are formatted in the stream's timezone, or in the timezone given by
// WithTimezoneOverride.
func (r *StreamReader) Dump(w io.Writer) (stats Stats, err error) {
	defer func() {
		if closeErr := r.Close(); err == nil {
			err = closeErr
		}
	}()

	if err := r.ReadPreamble(); err != nil {
		return stats, err
	}

	hasher := xxhash.New()
	bw := bufio.NewWriterSize(io.MultiWriter(w, hasher), 32*1024)

	for e, err := range r.Events() {
		if err != nil {
			return stats, err
		}

		n, err := bw.WriteString(e.FormattedMessage(r.cfg.timezone))
		stats.Bytes += int64(n)
		if err != nil {
			return stats, fmt.Errorf("write event %d: %w", e.Index(), err)
		}

		if stats.Events == 0 {
			stats.FirstTimestamp = e.Timestamp()
		}
		stats.LastTimestamp = e.Timestamp()
		stats.Events++
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("flush output: %w", err)
	}
	stats.Digest = hasher.Sum64()

	r.cfg.logger.Debug("dumped IR stream",
		zap.Uint64("events", stats.Events),
		zap.Int64("bytes", stats.Bytes),
		zap.Uint64("digest", stats.Digest),
	)

	return stats, nil
}
