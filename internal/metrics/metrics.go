// Package metrics holds the Prometheus collectors for link validation and reloads.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
)

const namespace = "linkdeck"

// Reload outcomes.
const (
	ReloadOK        = "ok"
	ReloadError     = "error"
	ReloadUnchanged = "unchanged"
)

var (
	// recordsValidated counts schema checks per collection.
	// result is "valid" or "invalid".
	recordsValidated = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: namespace,
		Name:      "records_validated_total",
		Help:      "Records checked against a collection schema",
	}, []string{"collection", "result"})

	// fieldFailures counts individual field problems so a dashboard can show
	// which field authors get wrong most.
	fieldFailures = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: namespace,
		Name:      "field_failures_total",
		Help:      "Field-level validation failures",
	}, []string{"collection", "field", "kind"})

	links = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Namespace: namespace,
		Name:      "links",
		Help:      "Links currently known, by state",
	}, []string{"state"})

	reloads = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: namespace,
		Name:      "reloads_total",
		Help:      "Link directory reloads, by outcome",
	}, []string{"result"})

	reloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Namespace: namespace,
		Name:      "reload_duration_seconds",
		Help:      "Time spent loading and validating the link directory",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	})
)

// init creates every known series at zero so rate() works from the first scrape.
func init() {
	for _, result := range []string{"valid", "invalid"} {
		recordsValidated.WithLabelValues("links", result).Add(0)
	}
	for _, field := range linkschema.Fields() {
		for _, kind := range linkschema.Kinds() {
			fieldFailures.WithLabelValues("links", field, string(kind)).Add(0)
		}
	}
	for _, state := range []string{"active", "disabled", "rejected"} {
		links.WithLabelValues(state).Set(0)
	}
	for _, result := range []string{ReloadOK, ReloadError, ReloadUnchanged} {
		reloads.WithLabelValues(result).Add(0)
	}
}

// ObserveValidation records the outcome of validating one record.
func ObserveValidation(collection string, err error) {
	if err == nil {
		recordsValidated.WithLabelValues(collection, "valid").Inc()
		return
	}
	recordsValidated.WithLabelValues(collection, "invalid").Inc()

	if ve, ok := linkschema.AsValidationError(err); ok {
		for _, f := range ve.Fields {
			fieldFailures.WithLabelValues(collection, f.Field, string(f.Kind)).Inc()
		}
	}
}

// SetLinkCounts publishes the current index population.
func SetLinkCounts(active, disabled, rejected int) {
	links.WithLabelValues("active").Set(float64(active))
	links.WithLabelValues("disabled").Set(float64(disabled))
	links.WithLabelValues("rejected").Set(float64(rejected))
}

// ObserveReload records one reload attempt.
func ObserveReload(result string, took time.Duration) {
	reloads.WithLabelValues(result).Inc()
	reloadDuration.Observe(took.Seconds())
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
