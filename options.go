package kura

import (
	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rs/zerolog"
)

// Option configures a World at construction.
type Option func(w *World)

// settings holds construction-time values that are applied once the world's
// logger and identity are known.
type settings struct {
	statsd          ddstatsd.ClientInterface
	statsdTags      []string
	initialCapacity int
	chunkPool       int
}

func defaultSettings() settings {
	return settings{
		initialCapacity: 1024,
	}
}

// WithLogger sets the logger the world writes diagnostics to.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithStatsd sends world metrics to client, tagged with tags.
func WithStatsd(client ddstatsd.ClientInterface, tags ...string) Option {
	return func(w *World) {
		w.settings.statsd = client
		w.settings.statsdTags = tags
	}
}

// WithRegistry makes the world use r instead of a private registry, so that
// component IDs agree with other worlds sharing r.
func WithRegistry(r *Registry) Option {
	return func(w *World) {
		w.registry = r
	}
}

// WithInitialCapacity preallocates the entity table for n entities.
func WithInitialCapacity(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.settings.initialCapacity = n
		}
	}
}

// WithChunkPool fills the chunk pool with n chunks up front.
func WithChunkPool(n int) Option {
	return func(w *World) {
		w.settings.chunkPool = n
	}
}
