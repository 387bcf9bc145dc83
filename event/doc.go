// Package event defines the immutable values produced by an IR decoder: the
// stream Metadata decoded from the preamble and one LogEvent per record.
//
// Timezones are resolved exactly once, when Metadata is constructed, and a
// LogEvent captures the resolved *time.Location at construction. Formatting an
// event therefore never depends on the Metadata value still being around, and an
// event restored from its JSON form formats byte-for-byte like the original.
//
// The package embeds the IANA timezone database (time/tzdata) so that timezone
// ids from a stream resolve on hosts without a system zoneinfo.
package event
