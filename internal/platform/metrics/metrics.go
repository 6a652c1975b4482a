package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "transport_ticket"

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	ticketsCreated     *prometheus.CounterVec
	ticketsValidated   *prometheus.CounterVec
	validationRejected *prometheus.CounterVec
	ticketsExpired     prometheus.Counter
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		ticketsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_created_total",
			Help:      "Tickets issued, by category.",
		}, []string{"category"}),
		ticketsValidated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_validated_total",
			Help:      "Successful ticket validations, by category.",
		}, []string{"category"}),
		validationRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_rejected_total",
			Help:      "Rejected validation attempts, by reason.",
		}, []string{"reason"}),
		ticketsExpired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_expired_total",
			Help:      "Tickets observed crossing their expiration instant.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) TicketCreated(category string) {
	if m == nil {
		return
	}
	m.ticketsCreated.WithLabelValues(category).Inc()
}

func (m *Metrics) TicketValidated(category string) {
	if m == nil {
		return
	}
	m.ticketsValidated.WithLabelValues(category).Inc()
}

func (m *Metrics) ValidationRejected(reason string) {
	if m == nil {
		return
	}
	m.validationRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) TicketsExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ticketsExpired.Add(float64(n))
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
