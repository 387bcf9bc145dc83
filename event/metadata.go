package event

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/arloliu/clpir/errs"
)

// Metadata holds the values decoded from an IR stream preamble.
type Metadata struct {
	refTimestamp    int64
	timestampFormat string
	timezoneID      string
	timezone        *time.Location
	version         string
}

// NewMetadata creates Metadata and resolves timezoneID.
//
// Parameters:
//   - refTimestamp: epoch milliseconds the first record's delta is relative to
//   - timestampFormat: display pattern of the original timestamps
//   - timezoneID: IANA timezone id, e.g. "America/Chicago"
//
// Returns:
//   - *Metadata: the immutable metadata
//   - error: errs.ErrUnresolvedTimezone if timezoneID is empty or unknown
func NewMetadata(refTimestamp int64, timestampFormat, timezoneID string) (*Metadata, error) {
	return NewMetadataWithVersion("", refTimestamp, timestampFormat, timezoneID)
}

// NewMetadataWithVersion is like NewMetadata and also records the IR protocol version.
func NewMetadataWithVersion(version string, refTimestamp int64, timestampFormat, timezoneID string) (*Metadata, error) {
	loc, err := LoadTimezone(timezoneID)
	if err != nil {
		return nil, err
	}

	return &Metadata{
		refTimestamp:    refTimestamp,
		timestampFormat: timestampFormat,
		timezoneID:      timezoneID,
		timezone:        loc,
		version:         version,
	}, nil
}

// LoadTimezone resolves an IANA timezone id.
//
// Unlike time.LoadLocation, the empty id and "Local" are rejected: a stream's
// timezone must not depend on the host it is decoded on.
func LoadTimezone(id string) (*time.Location, error) {
	if id == "" || id == "Local" {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnresolvedTimezone, id)
	}

	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", errs.ErrUnresolvedTimezone, id, err)
	}

	return loc, nil
}

// RefTimestamp returns the reference timestamp in epoch milliseconds.
func (m *Metadata) RefTimestamp() int64 {
	return m.refTimestamp
}

// TimestampFormat returns the display pattern of the original timestamps.
func (m *Metadata) TimestampFormat() string {
	return m.timestampFormat
}

// TimezoneID returns the IANA timezone id.
func (m *Metadata) TimezoneID() string {
	return m.timezoneID
}

// Timezone returns the resolved timezone.
func (m *Metadata) Timezone() *time.Location {
	return m.timezone
}

// Version returns the IR protocol version, or "" if the preamble had none.
func (m *Metadata) Version() string {
	return m.version
}

// IsFourByteEncoding reports whether the stream uses the four-byte encoding.
// Only four-byte streams can be decoded, so this is always true.
func (m *Metadata) IsFourByteEncoding() bool {
	return true
}

func (m *Metadata) String() string {
	return fmt.Sprintf("Metadata(version=%q, ref_timestamp=%d, timestamp_format=%q, timezone_id=%q)",
		m.version, m.refTimestamp, m.timestampFormat, m.timezoneID)
}
