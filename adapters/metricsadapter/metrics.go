package metricsadapter

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-countrygate/activity"
)

// Metrics counts country resolution transitions.
type Metrics struct {
	Transitions *prometheus.CounterVec
	Mismatches  *prometheus.CounterVec
	Redirects   prometheus.Counter
}

// New registers the countrygate metrics with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "countrygate_transitions_total",
			Help: "Country resolution transitions by action",
		}, []string{"action"}),
		Mismatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "countrygate_mismatch_total",
			Help: "Mismatch dialog outcomes by URL country",
		}, []string{"outcome", "url_country"}),
		Redirects: factory.NewCounter(prometheus.CounterOpts{
			Name: "countrygate_redirects_total",
			Help: "Route guard redirects",
		}),
	}
}

// OnTransition implements activity.Hook.
func (m *Metrics) OnTransition(_ context.Context, event activity.Event) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(string(event.Action)).Inc()
	switch event.Action {
	case activity.ActionMismatchOpened:
		m.Mismatches.WithLabelValues("opened", event.URLCountry).Inc()
	case activity.ActionMismatchResolved:
		m.Mismatches.WithLabelValues("resolved", event.URLCountry).Inc()
	case activity.ActionMismatchDismissed:
		m.Mismatches.WithLabelValues("dismissed", event.URLCountry).Inc()
	case activity.ActionRedirected:
		m.Redirects.Inc()
	}
}

var _ activity.Hook = (*Metrics)(nil)
