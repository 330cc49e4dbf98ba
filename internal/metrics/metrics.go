// Package metrics holds the Prometheus counters for donation matching.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Match failure reasons.
const (
	ReasonNoReceiver = "no_receiver"
	ReasonRaceLost   = "race_lost"
	ReasonUnknown    = "unknown_donor"
)

// Donations counts lifecycle events. A nil *Donations is a valid no-op recorder.
type Donations struct {
	assigned  prometheus.Counter
	collected prometheus.Counter
	failures  *prometheus.CounterVec
	quantity  prometheus.Histogram
}

// NewDonations creates the counters and registers them with reg.
func NewDonations(reg prometheus.Registerer) (*Donations, error) {
	m := &Donations{
		assigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "donations_assigned_total",
			Help: "Donations matched to a receiver and debited from its capacity.",
		}),
		collected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "donations_collected_total",
			Help: "Donations collected by their receiver.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "donation_match_failures_total",
			Help: "Donations that could not be assigned, by reason.",
		}, []string{"reason"}),
		quantity: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "donation_quantity_units",
			Help:    "Quantity of assigned donations.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}

	for _, c := range []prometheus.Collector{m.assigned, m.collected, m.failures, m.quantity} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Assigned records a successful assignment of quantity units.
func (m *Donations) Assigned(quantity int) {
	if m == nil {
		return
	}
	m.assigned.Inc()
	m.quantity.Observe(float64(quantity))
}

// Collected records a collection.
func (m *Donations) Collected() {
	if m == nil {
		return
	}
	m.collected.Inc()
}

// MatchFailed records a failed assignment.
func (m *Donations) MatchFailed(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}
