package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for booking conversations.
type BookingMetrics struct {
	turnsTotal     *prometheus.CounterVec
	llmCallsTotal  *prometheus.CounterVec
	bookingsTotal  *prometheus.CounterVec
	turnLatency    *prometheus.HistogramVec
	notifyFailures prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Conversation turns processed, by the step they ended on",
		}, []string{"next_step"}),
		llmCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "LLM calls made by the assistant",
		}, []string{"operation", "status"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "appointments",
			Name:      "confirmed_total",
			Help:      "Appointments confirmed",
		}, []string{"specialty"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "booking",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of a full conversation turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "appointments",
			Name:      "notify_failures_total",
			Help:      "Confirmation notifications that could not be delivered",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.llmCallsTotal, m.bookingsTotal, m.turnLatency, m.notifyFailures)
	return m
}

func (m *BookingMetrics) ObserveTurn(nextStep string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(nextStep).Inc()
}

func (m *BookingMetrics) ObserveLLMCall(operation string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.llmCallsTotal.WithLabelValues(operation, status).Inc()
}

func (m *BookingMetrics) ObserveBooking(specialty string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(specialty).Inc()
}

func (m *BookingMetrics) ObserveTurnLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.WithLabelValues(operation).Observe(seconds)
}

func (m *BookingMetrics) ObserveNotifyFailure() {
	if m == nil {
		return
	}
	m.notifyFailures.Inc()
}
