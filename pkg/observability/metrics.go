package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ChatTurns      *prometheus.CounterVec
	TurnLatency    prometheus.Histogram
	MemoriesFound  prometheus.Histogram
	ProviderErrors *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ChatTurns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_turns_total",
			Help:      "Chat turns by outcome.",
		}, []string{"outcome"}),
		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_turn_latency_ms",
			Help:      "Wall-clock latency of a full chat turn in milliseconds.",
			Buckets:   []float64{250, 500, 1000, 1500, 2000, 3000, 5000, 10000},
		}),
		MemoriesFound: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "memories_found",
			Help:      "Memories retrieved per chat turn.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10},
		}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "External provider errors by provider.",
		}, []string{"provider"}),
	}
}

func (m *Metrics) ObserveTurn(outcome string, found int, d time.Duration) {
	m.ChatTurns.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		m.TurnLatency.Observe(float64(d.Milliseconds()))
		m.MemoriesFound.Observe(float64(found))
	}
}

func (m *Metrics) ObserveProviderError(provider string) {
	m.ProviderErrors.WithLabelValues(provider).Inc()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
