// Package metrics はbiometricフィーチャーのPrometheusコレクターを提供します。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"safari_backend/internal/feature/biometric/usecase"
)

// Metrics holds Prometheus collectors for enrollment and verification.
type Metrics struct {
	EnrollTotal        *prometheus.CounterVec
	VerifyTotal        *prometheus.CounterVec
	VerifyConfidence   prometheus.Histogram
	EngineInitFailures prometheus.Counter
}

var _ usecase.Recorder = (*Metrics)(nil)

// New registers and returns biometric collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EnrollTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "safari_biometric_enroll_total",
			Help: "Total number of enrollment attempts, labeled by outcome",
		}, []string{"outcome"}),
		VerifyTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "safari_biometric_verify_total",
			Help: "Total number of verification and identification attempts, labeled by outcome",
		}, []string{"outcome"}),
		VerifyConfidence: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "safari_biometric_verify_confidence",
			Help:    "Distribution of verification confidence scores",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		EngineInitFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "safari_biometric_engine_init_failures_total",
			Help: "Total number of failed processing engine initializations",
		}),
	}
}

func (m *Metrics) ObserveEnroll(outcome string) {
	m.EnrollTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveVerify(outcome string, confidence float64) {
	m.VerifyTotal.WithLabelValues(outcome).Inc()
	m.VerifyConfidence.Observe(confidence)
}

func (m *Metrics) ObserveEngineInitFailure() {
	m.EngineInitFailures.Inc()
}
