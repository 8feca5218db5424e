package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

const namespace = "paramguard"

// Collector counts reported validation failures.
type Collector struct {
	failures *prometheus.CounterVec
}

var _ validator.Observer = (*Collector)(nil)

// New registers the failure counter with reg. A nil reg registers with
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Collector{
		failures: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Total number of parameter and upload validation failures",
			},
			[]string{"component", "param", "rule", "kind", "status"},
		),
	}
}

// ObserveFailure implements validator.Observer.
func (c *Collector) ObserveFailure(_ context.Context, component, param string, f *validator.Failure) {
	if c == nil || f == nil {
		return
	}
	c.failures.WithLabelValues(
		component,
		param,
		f.Rule,
		f.Kind.String(),
		strconv.Itoa(f.Status),
	).Inc()
}

// Handler exposes the metrics gathered by g. A nil g uses
// prometheus.DefaultGatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
