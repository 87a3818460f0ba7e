// Package metrics はattendanceフィーチャーのPrometheusコレクターを提供します。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"safari_backend/internal/feature/attendance/usecase"
)

// Metrics holds Prometheus collectors for boarding scans.
type Metrics struct {
	ScanTotal *prometheus.CounterVec
}

var _ usecase.ScanObserver = (*Metrics)(nil)

// New registers and returns attendance collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ScanTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "safari_attendance_scan_total",
			Help: "Total number of boarding scans, labeled by scan type and outcome",
		}, []string{"type", "status"}),
	}
}

func (m *Metrics) ObserveScan(scanType, status string) {
	m.ScanTotal.WithLabelValues(scanType, status).Inc()
}
