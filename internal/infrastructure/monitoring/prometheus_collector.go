package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	connectionsActive prometheus.Gauge
	usersOnline       prometheus.Gauge
	callsActive       prometheus.Gauge

	handshakesTotal      *prometheus.CounterVec
	eventsDeliveredTotal *prometheus.CounterVec
	eventsReceivedTotal  *prometheus.CounterVec
	callSetupsTotal      *prometheus.CounterVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		connectionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "wavelink_connections_active",
			Help: "Number of live WebSocket connections",
		}),

		usersOnline: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "wavelink_users_online",
			Help: "Number of users with at least one live connection",
		}),

		callsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "wavelink_calls_active",
			Help: "Number of ringing or active call sessions",
		}),

		handshakesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wavelink_handshakes_total",
			Help: "Total number of WebSocket handshakes by auth result",
		}, []string{"result"}),

		eventsDeliveredTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wavelink_events_delivered_total",
			Help: "Total number of events delivered to connections",
		}, []string{"type"}),

		eventsReceivedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wavelink_events_received_total",
			Help: "Total number of events received from connections",
		}, []string{"type"}),

		callSetupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wavelink_call_setups_total",
			Help: "Total number of call setup attempts by outcome",
		}, []string{"outcome"}),
	}
}

func (p *PrometheusCollector) RecordConnectionOpened(authenticated bool) {
	p.connectionsActive.Inc()

	result := "anonymous"
	if authenticated {
		result = "authenticated"
	}
	p.handshakesTotal.WithLabelValues(result).Inc()
}

func (p *PrometheusCollector) RecordConnectionClosed() {
	p.connectionsActive.Dec()
}

func (p *PrometheusCollector) SetUsersOnline(n int) {
	p.usersOnline.Set(float64(n))
}

func (p *PrometheusCollector) SetCallsActive(n int) {
	p.callsActive.Set(float64(n))
}

func (p *PrometheusCollector) RecordEventsDelivered(eventType string, count int) {
	p.eventsDeliveredTotal.WithLabelValues(eventType).Add(float64(count))
}

func (p *PrometheusCollector) RecordEventReceived(eventType string) {
	p.eventsReceivedTotal.WithLabelValues(eventType).Inc()
}

func (p *PrometheusCollector) RecordCallSetup(outcome string) {
	p.callSetupsTotal.WithLabelValues(outcome).Inc()
}
