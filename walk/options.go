package walk

import (
	"time"

	"github.com/gobeaver/icekit"
	"github.com/rs/zerolog"
)

// Default walk settings
const (
	DefaultManifestConcurrency = 7
	DefaultProbeConcurrency    = 13
	DefaultRetryBackoff        = 100 * time.Millisecond
)

// Option configures a Walker
type Option func(*Walker)

// WithManifestConcurrency sets how many manifests are fetched ahead
func WithManifestConcurrency(n int) Option {
	return func(w *Walker) {
		if n > 0 {
			w.manifestWidth = n
		}
	}
}

// WithProbeConcurrency sets how many existence probes run at once per manifest
func WithProbeConcurrency(n int) Option {
	return func(w *Walker) {
		if n > 0 {
			w.probeWidth = n
		}
	}
}

// WithProbeRetries retries a failed existence probe n times, sleeping
// backoff times the attempt number in between, before counting the file
// as missing.
func WithProbeRetries(n int, backoff time.Duration) Option {
	return func(w *Walker) {
		if n >= 0 {
			w.probeRetries = n
		}
		w.retryBackoff = backoff
	}
}

// WithBatchedVerification enables or disables the list-once strategy
func WithBatchedVerification(enabled bool) Option {
	return func(w *Walker) {
		w.batched = enabled
	}
}

// WithLogger sets the logger for strategy decisions and downgraded probes
func WithLogger(log zerolog.Logger) Option {
	return func(w *Walker) {
		w.log = log
	}
}

// FromConfig applies the walk tunables of cfg
func FromConfig(cfg *icekit.Config) Option {
	return func(w *Walker) {
		WithManifestConcurrency(cfg.ManifestConcurrency)(w)
		WithProbeConcurrency(cfg.ProbeConcurrency)(w)
		WithProbeRetries(cfg.ProbeRetries, DefaultRetryBackoff)(w)
		WithBatchedVerification(cfg.BatchedVerification)(w)
	}
}
