package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	ScansTotal       prometheus.Counter
	ScansAutoResolve prometheus.Counter
	ScansManualEntry prometheus.Counter
	ScansUserChoice  prometheus.Counter
	ItemsCreated     prometheus.Counter
}

// New creates and registers all metrics on the default registry
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on the given registerer; tests pass a fresh
// registry so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScansTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "freshtrack_scans_total",
			Help: "Total number of label scans processed",
		}),
		ScansAutoResolve: factory.NewCounter(prometheus.CounterOpts{
			Name: "freshtrack_scans_auto_resolved_total",
			Help: "Scans that resolved to exactly one expiry date",
		}),
		ScansManualEntry: factory.NewCounter(prometheus.CounterOpts{
			Name: "freshtrack_scans_manual_entry_total",
			Help: "Scans where no plausible date was found",
		}),
		ScansUserChoice: factory.NewCounter(prometheus.CounterOpts{
			Name: "freshtrack_scans_user_choice_total",
			Help: "Scans that surfaced multiple candidate dates",
		}),
		ItemsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "freshtrack_items_created_total",
			Help: "Total number of food items recorded",
		}),
	}
}
