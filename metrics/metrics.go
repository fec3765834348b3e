// Package metrics exposes Prometheus collectors for mapping activity.
// The facade feeds them through its hook seam; nothing here touches the
// engine.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"remap/errset"
)

var (
	denormalizeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "remap_denormalize_total", Help: "denormalize calls by target type and outcome"},
		[]string{"type", "outcome"},
	)

	denormalizeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "remap_denormalize_errors_total", Help: "recorded field failures by kind"},
		[]string{"type", "kind"},
	)

	denormalizeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "remap_denormalize_duration_seconds",
			Help:    "denormalize call duration.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	normalizeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "remap_normalize_total", Help: "normalize calls by source type and outcome"},
		[]string{"type", "outcome"},
	)

	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "remap_cache_hits_total", Help: "descriptor cache hits"},
	)

	cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "remap_cache_misses_total", Help: "descriptor cache misses"},
	)
)

func init() {
	prometheus.MustRegister(
		denormalizeTotal,
		denormalizeErrors,
		denormalizeDuration,
		normalizeTotal,
		cacheHits,
		cacheMisses,
	)
}

// ObserveDenormalize records one completed denormalize call.
func ObserveDenormalize(typeName string, elapsed time.Duration, err error) {
	denormalizeTotal.WithLabelValues(typeName, outcome(err)).Inc()
	denormalizeDuration.Observe(elapsed.Seconds())

	var set *errset.Set
	if errors.As(err, &set) {
		for _, e := range set.Entries() {
			denormalizeErrors.WithLabelValues(typeName, kindLabel(e.Kind)).Inc()
		}
	}
}

// ObserveNormalize records one completed normalize call.
func ObserveNormalize(typeName string, err error) {
	normalizeTotal.WithLabelValues(typeName, outcome(err)).Inc()
}

// ObserveCache records a descriptor cache probe.
func ObserveCache(hit bool) {
	if hit {
		cacheHits.Inc()
	} else {
		cacheMisses.Inc()
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}

func kindLabel(kind error) string {
	switch {
	case errors.Is(kind, errset.ErrTypeCoercion):
		return "type_coercion"
	case errors.Is(kind, errset.ErrMissingField):
		return "missing_field"
	case errors.Is(kind, errset.ErrInvalidPathSyntax):
		return "invalid_path"
	case errors.Is(kind, errset.ErrCircularReference):
		return "circular_reference"
	case errors.Is(kind, errset.ErrMissingDiscriminator),
		errors.Is(kind, errset.ErrInvalidDiscriminatorType),
		errors.Is(kind, errset.ErrUnknownVariant):
		return "discriminator"
	case errors.Is(kind, errset.ErrUnknownKey):
		return "unknown_key"
	case errors.Is(kind, errset.ErrHydrator):
		return "hydrator"
	case errors.Is(kind, errset.ErrValidation):
		return "validation"
	default:
		return "other"
	}
}
