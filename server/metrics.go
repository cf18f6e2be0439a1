package server

import (
	"net/http"

	"github.com/jrsteele09/bunai/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const unmatchedRoute = "unmatched"

// Metrics owns a private registry so tests can build servers side by side.
type Metrics struct {
	registry  *prometheus.Registry
	decisions *prometheus.CounterVec
	signedIn  *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bunai",
			Name:      "gate_decisions_total",
			Help:      "Navigation outcomes by route pattern.",
		}, []string{"decision", "route"}),
		signedIn: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "bunai",
			Name:      "sessions_active",
			Help:      "Sessions signed in through this process, by role. Expiry is not observed.",
		}, []string{"role"}),
	}
	m.registry.MustRegister(
		m.decisions,
		m.signedIn,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveOutcome counts one navigation.
func (m *Metrics) ObserveOutcome(out Outcome) {
	route := unmatchedRoute
	if out.Matched {
		route = out.Match.Pattern()
	}
	m.decisions.WithLabelValues(out.State.String(), route).Inc()
}

// TrackSessions keeps the signed-in gauge in step with store writes.
func (m *Metrics) TrackSessions(store *sessions.Store) (untrack func()) {
	return store.Subscribe(func(c sessions.Change) {
		if c.Previous.Authenticated {
			m.signedIn.WithLabelValues(c.Previous.Role.String()).Dec()
		}
		if c.Current.Authenticated {
			m.signedIn.WithLabelValues(c.Current.Role.String()).Inc()
		}
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
