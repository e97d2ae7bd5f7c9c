// Package metrics exposes Prometheus counters for the rewards program.
//
// A nil *Metrics is valid and records nothing, so services can be built without metrics in tests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pataverde"

type Metrics struct {
	registry *prometheus.Registry

	registrations      prometheus.Counter
	logins             *prometheus.CounterVec
	collectionRequests prometheus.Counter
	statusUpdates      *prometheus.CounterVec
	pointsAwarded      prometheus.Counter
	couponsRedeemed    prometheus.Counter
	pointsRedeemed     prometheus.Counter
}

// New registers every counter on a fresh registry together with the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Users registered.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		collectionRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_requests_created_total",
			Help:      "Collection requests created.",
		}),
		statusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_status_updates_total",
			Help:      "Collection request status updates by new status.",
		}, []string{"status"}),
		pointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Points awarded for completed collection requests.",
		}),
		couponsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupons_redeemed_total",
			Help:      "Coupons redeemed.",
		}),
		pointsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_redeemed_total",
			Help:      "Points spent on coupons.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.registrations,
		m.logins,
		m.collectionRequests,
		m.statusUpdates,
		m.pointsAwarded,
		m.couponsRedeemed,
		m.pointsRedeemed,
	)
	return m
}

// Registry returns the registry backing the counters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) UserRegistered() {
	if m == nil {
		return
	}
	m.registrations.Inc()
}

func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) CollectionRequestCreated() {
	if m == nil {
		return
	}
	m.collectionRequests.Inc()
}

func (m *Metrics) StatusUpdated(status string) {
	if m == nil {
		return
	}
	m.statusUpdates.WithLabelValues(status).Inc()
}

func (m *Metrics) PointsAwarded(points int) {
	if m == nil {
		return
	}
	m.pointsAwarded.Add(float64(points))
}

func (m *Metrics) CouponRedeemed(points int) {
	if m == nil {
		return
	}
	m.couponsRedeemed.Inc()
	m.pointsRedeemed.Add(float64(points))
}
