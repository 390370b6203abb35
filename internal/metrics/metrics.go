package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters for webhook intake and flow progress.
// All methods are nil-safe so wiring metrics stays optional in tests.
type BotMetrics struct {
	inboundTotal     *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	sendFailures     prometheus.Counter
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "topup",
			Subsystem: "webhook",
			Name:      "inbound_events_total",
			Help:      "Inbound WhatsApp webhook events by outcome",
		}, []string{"result"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "topup",
			Subsystem: "flow",
			Name:      "transitions_total",
			Help:      "Flow step transitions by destination step",
		}, []string{"step"}),
		sendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "topup",
			Subsystem: "messaging",
			Name:      "send_failures_total",
			Help:      "Outbound message sends that returned an error",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.transitionsTotal, m.sendFailures)
	return m
}

func (m *BotMetrics) ObserveInbound(result string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(result).Inc()
}

func (m *BotMetrics) ObserveTransition(step string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(step).Inc()
}

func (m *BotMetrics) ObserveSendFailure() {
	if m == nil {
		return
	}
	m.sendFailures.Inc()
}
