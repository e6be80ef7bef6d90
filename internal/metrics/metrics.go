// Package metrics exposes Prometheus counters for attendee imports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Import holds the counters updated by each import run.
type Import struct {
	Imported    *prometheus.CounterVec
	Ignored     *prometheus.CounterVec
	FetchErrors *prometheus.CounterVec
}

// NewImport builds the import counters and registers them with reg when
// reg is not nil.
func NewImport(reg prometheus.Registerer) *Import {
	m := &Import{
		Imported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendees_imported_total",
			Help: "Tickets inserted by the importer",
		}, []string{"source"}),
		Ignored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendees_ignored_total",
			Help: "Tickets skipped by the importer because they already existed",
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendee_source_errors_total",
			Help: "Feed fetch or decode failures",
		}, []string{"source"}),
	}
	if reg != nil {
		reg.MustRegister(m.Imported, m.Ignored, m.FetchErrors)
	}
	return m
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
