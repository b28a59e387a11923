package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics tracks document analysis throughput and latency.
type PipelineMetrics struct {
	registry *prometheus.Registry

	analyzeTotal    *prometheus.CounterVec
	analyzeDuration *prometheus.HistogramVec
	analyzeInFlight prometheus.Gauge
	confidence      *prometheus.HistogramVec
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()

	analyzeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prequal",
			Subsystem: "pipeline",
			Name:      "document_analyze_total",
			Help:      "Total analyzed documents by document type and outcome.",
		},
		[]string{"service", "document_type", "outcome"},
	)
	analyzeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prequal",
			Subsystem: "pipeline",
			Name:      "document_analyze_duration_seconds",
			Help:      "Document analysis duration in seconds by document type.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "document_type"},
	)
	analyzeInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "prequal",
			Subsystem: "pipeline",
			Name:      "document_analyze_in_flight",
			Help:      "Number of in-flight document analyses.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	confidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prequal",
			Subsystem: "pipeline",
			Name:      "document_confidence",
			Help:      "Extraction confidence distribution by acquisition method.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service", "method"},
	)

	registry.MustRegister(analyzeTotal, analyzeDuration, analyzeInFlight, confidence)

	return &PipelineMetrics{
		registry:        registry,
		analyzeTotal:    analyzeTotal,
		analyzeDuration: analyzeDuration,
		analyzeInFlight: analyzeInFlight,
		confidence:      confidence,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) AnalyzeStarted() {
	if m == nil {
		return
	}
	m.analyzeInFlight.Inc()
}

func (m *PipelineMetrics) AnalyzeFinished(service, documentType, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.analyzeInFlight.Dec()
	m.analyzeTotal.WithLabelValues(service, documentType, outcome).Inc()
	m.analyzeDuration.WithLabelValues(service, documentType).Observe(time.Since(started).Seconds())
}

func (m *PipelineMetrics) ObserveConfidence(service, method string, confidence float64) {
	if m == nil {
		return
	}
	m.confidence.WithLabelValues(service, method).Observe(confidence)
}
