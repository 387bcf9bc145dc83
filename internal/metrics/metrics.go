// Package metrics exposes decode counters as Prometheus metrics.
//
// A Collector owns a private registry so that several readers can share one
// collector without touching the global default registry. The CLI writes the
// registry to a node_exporter textfile when it exits.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clpir"

// Collector counts decoding work across readers. It is safe for concurrent use.
type Collector struct {
	registry       *prometheus.Registry
	streamsOpened  prometheus.Counter
	streamsFailed  *prometheus.CounterVec
	recordsDecoded prometheus.Counter
	eventsEmitted  prometheus.Counter
	bytesConsumed  prometheus.Counter
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		streamsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_opened_total",
			Help:      "IR streams whose preamble was decoded",
		}),
		streamsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_failed_total",
			Help:      "IR streams that stopped on a fatal error, by error kind",
		}, []string{"kind"}),
		recordsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_decoded_total",
			Help:      "IR records decoded, including records rejected by a query",
		}),
		eventsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_emitted_total",
			Help:      "Log events returned to callers",
		}),
		bytesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_consumed_total",
			Help:      "Decompressed IR bytes consumed by decoders",
		}),
	}

	c.registry.MustRegister(c.streamsOpened, c.streamsFailed, c.recordsDecoded, c.eventsEmitted, c.bytesConsumed)

	return c
}

// Registry returns the registry the collector's metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// StreamOpened records a successfully decoded preamble.
func (c *Collector) StreamOpened() {
	c.streamsOpened.Inc()
}

// StreamFailed records a stream that stopped on an error of the given kind,
// e.g. "malformed_record" or "malformed_preamble".
func (c *Collector) StreamFailed(kind string) {
	c.streamsFailed.WithLabelValues(kind).Inc()
}

// RecordsDecoded adds n decoded records.
func (c *Collector) RecordsDecoded(n uint64) {
	c.recordsDecoded.Add(float64(n))
}

// EventEmitted records one event returned to a caller.
func (c *Collector) EventEmitted() {
	c.eventsEmitted.Inc()
}

// BytesConsumed adds n consumed bytes.
func (c *Collector) BytesConsumed(n int64) {
	if n > 0 {
		c.bytesConsumed.Add(float64(n))
	}
}

// WriteTextfile writes all metrics to path in the Prometheus text format,
// for the node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
