package event

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	timestampLayout        = "2006-01-02 15:04:05.000-07:00"
	timestampLayoutSeconds = "2006-01-02 15:04:05.000-07:00:00"
)

// LogEvent is one decoded log record.
type LogEvent struct {
	message   string
	timestamp int64
	index     uint64
	metadata  *Metadata
	timezone  *time.Location
}

// NewLogEvent creates a LogEvent.
//
// Parameters:
//   - message: the message text, usually ending with a newline
//   - timestamp: epoch milliseconds
//   - index: 0-based position of the record in its stream
//   - metadata: the stream metadata, may be nil
//
// The event captures metadata's timezone, or UTC when metadata is nil.
func NewLogEvent(message string, timestamp int64, index uint64, metadata *Metadata) *LogEvent {
	tz := time.UTC
	if metadata != nil && metadata.timezone != nil {
		tz = metadata.timezone
	}

	return &LogEvent{
		message:   message,
		timestamp: timestamp,
		index:     index,
		metadata:  metadata,
		timezone:  tz,
	}
}

// Message returns the message text.
func (e *LogEvent) Message() string {
	return e.message
}

// Timestamp returns the timestamp in epoch milliseconds.
func (e *LogEvent) Timestamp() int64 {
	return e.timestamp
}

// Index returns the 0-based position of the record in its stream.
func (e *LogEvent) Index() uint64 {
	return e.index
}

// Metadata returns the metadata the event was decoded with, or nil.
func (e *LogEvent) Metadata() *Metadata {
	return e.metadata
}

// Timezone returns the timezone captured when the event was created.
func (e *LogEvent) Timezone() *time.Location {
	return e.timezone
}

// Time returns the timestamp as a time.Time in the event's timezone.
func (e *LogEvent) Time() time.Time {
	return time.UnixMilli(e.timestamp).In(e.timezone)
}

// FormattedTimestamp formats the timestamp as ISO-8601 with a space separator,
// millisecond precision and a numeric UTC offset, e.g.
// "2033-07-22 19:00:03.190-05:00".
//
// loc overrides the event's timezone when non-nil.
func (e *LogEvent) FormattedTimestamp(loc *time.Location) string {
	if loc == nil {
		loc = e.timezone
	}

	t := time.UnixMilli(e.timestamp).In(loc)
	if _, offset := t.Zone(); offset%60 != 0 {
		return t.Format(timestampLayoutSeconds)
	}

	return t.Format(timestampLayout)
}

// FormattedMessage returns the formatted timestamp followed by the message,
// reconstructing the original log line.
func (e *LogEvent) FormattedMessage(loc *time.Location) string {
	return e.FormattedTimestamp(loc) + e.message
}

// String returns the formatted message in the event's timezone.
func (e *LogEvent) String() string {
	return e.FormattedMessage(nil)
}

type logEventJSON struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	Index     uint64 `json:"index"`
	Timezone  string `json:"timezone"`
}

// MarshalJSON encodes the event with the name of its captured timezone.
// Metadata is not encoded.
func (e *LogEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(logEventJSON{
		Message:   e.message,
		Timestamp: e.timestamp,
		Index:     e.index,
		Timezone:  e.timezone.String(),
	})
}

// UnmarshalJSON restores an event encoded by MarshalJSON. The restored event
// has no Metadata but keeps the original timezone.
func (e *LogEvent) UnmarshalJSON(data []byte) error {
	var v logEventJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	tz := time.UTC
	if v.Timezone != "" && v.Timezone != "UTC" {
		loc, err := LoadTimezone(v.Timezone)
		if err != nil {
			return fmt.Errorf("log event: %w", err)
		}
		tz = loc
	}

	*e = LogEvent{
		message:   v.Message,
		timestamp: v.Timestamp,
		index:     v.Index,
		timezone:  tz,
	}

	return nil
}
