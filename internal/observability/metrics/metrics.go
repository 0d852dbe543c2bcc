package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the conversational booking
// flow.
type ChatMetrics struct {
	inboundTotal    *prometheus.CounterVec
	sendTotal       *prometheus.CounterVec
	requestsCreated *prometheus.CounterVec
	webhookLatency  *prometheus.HistogramVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "chat",
			Name:      "inbound_events_total",
			Help:      "Total inbound chat events by kind and outcome",
		}, []string{"kind", "outcome"}),
		sendTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "chat",
			Name:      "outbound_sends_total",
			Help:      "Total outbound prompt sends",
		}, []string{"shape", "status"}),
		requestsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "chat",
			Name:      "booking_requests_created_total",
			Help:      "Pending booking requests created by the router",
		}, []string{"flow"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "chat",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of inbound webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.sendTotal, m.requestsCreated, m.webhookLatency)
	return m
}

func (m *ChatMetrics) ObserveInbound(kind, outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *ChatMetrics) ObserveSend(shape, status string) {
	if m == nil {
		return
	}
	m.sendTotal.WithLabelValues(shape, status).Inc()
}

func (m *ChatMetrics) ObserveRequestCreated(flow string) {
	if m == nil {
		return
	}
	m.requestsCreated.WithLabelValues(flow).Inc()
}

func (m *ChatMetrics) ObserveWebhookLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(kind).Observe(seconds)
}
