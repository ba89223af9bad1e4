package kura

import (
	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// NewStatsdClient dials a DogStatsD agent at address. All metrics are
// prefixed with "kura." and carry tags.
func NewStatsdClient(address string, tags []string) (ddstatsd.ClientInterface, error) {
	if address == "" {
		return nil, eris.New("statsd address must not be empty")
	}
	opts := []ddstatsd.Option{
		ddstatsd.WithNamespace("kura"),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}
	client, err := ddstatsd.New(address, opts...)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to create statsd client for %s", address)
	}
	return client, nil
}

// metrics forwards world counters to a statsd client. A nil *metrics
// discards everything.
type metrics struct {
	client ddstatsd.ClientInterface
	logger zerolog.Logger
	tags   []string
}

func newMetrics(client ddstatsd.ClientInterface, logger zerolog.Logger, tags []string) *metrics {
	if client == nil {
		client = &ddstatsd.NoOpClient{}
	}
	return &metrics{client: client, logger: logger, tags: tags}
}

func (m *metrics) count(name string, n int64) {
	if m == nil {
		return
	}
	if err := m.client.Count(name, n, m.tags, 1); err != nil {
		m.logger.Warn().Err(err).Str("metric", name).Msg("failed to emit count")
	}
}

func (m *metrics) gauge(name string, v float64) {
	if m == nil {
		return
	}
	if err := m.client.Gauge(name, v, m.tags, 1); err != nil {
		m.logger.Warn().Err(err).Str("metric", name).Msg("failed to emit gauge")
	}
}

// Stats is a snapshot of world occupancy.
type Stats struct {
	Entities   int
	Archetypes int
	Chunks     ChunkStats
}

// Stats returns the world's current occupancy.
func (w *World) Stats() Stats {
	return Stats{
		Entities:   w.entities.alive,
		Archetypes: len(w.archetypes),
		Chunks:     w.chunks.Stats(),
	}
}

// ReportStats emits the world's occupancy as statsd gauges.
func (w *World) ReportStats() Stats {
	s := w.Stats()
	w.metrics.gauge("entities", float64(s.Entities))
	w.metrics.gauge("archetypes", float64(s.Archetypes))
	w.metrics.gauge("chunks.in_use", float64(s.Chunks.InUse))
	w.metrics.gauge("chunks.free", float64(s.Chunks.Free))
	return s
}
