// Package reader reads log events from CLP four-byte IR streams.
//
// A StreamReader wraps a byte source, optionally compressed, and moves through
// the states Unopened, PreambleDecoded, Iterating and Closed:
//
//	r, err := reader.NewStreamReader(f, reader.WithCompression(format.CompressionZstd))
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
//	q, _ := query.New(query.WithTimeRange(from, to))
//	for e, err := range r.Search(q) {
//		if err != nil {
//			return err
//		}
//		fmt.Print(e.FormattedMessage(nil))
//	}
//
// The preamble is decoded lazily by the first ReadPreamble, NextEvent, Search,
// Events, Dump or Open call. NextEvent, Search and Events share one cursor.
// Readers are not safe for concurrent use.
package reader
