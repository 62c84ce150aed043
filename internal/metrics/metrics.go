package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BookingMetrics exposes counters for the booking and calendar flows.
// A nil *BookingMetrics is valid and records nothing.
type BookingMetrics struct {
	bookingsTotal  *prometheus.CounterVec
	webhookTotal   *prometheus.CounterVec
	calendarTotal  *prometheus.CounterVec
	rateLimitTotal prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "bookings",
			Name:      "requests_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome"}),
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "bookings",
			Name:      "webhook_forward_total",
			Help:      "Spreadsheet webhook forwards by result",
		}, []string{"result"}),
		calendarTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "calendar",
			Name:      "inserts_total",
			Help:      "Calendar event inserts by result",
		}, []string{"result"}),
		rateLimitTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-IP limiter",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.webhookTotal, m.calendarTotal, m.rateLimitTotal)
	return m
}

// ObserveBooking records a submission outcome: created, invalid or store_error.
func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

// ObserveWebhook records a forward result: delivered, failed or disabled.
func (m *BookingMetrics) ObserveWebhook(result string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveCalendar(success bool) {
	if m == nil {
		return
	}
	result := "failed"
	if success {
		result = "inserted"
	}
	m.calendarTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimitTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
