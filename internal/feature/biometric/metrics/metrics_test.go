package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"safari_backend/internal/feature/biometric/metrics"
	"safari_backend/internal/feature/biometric/usecase"
)

func TestMetrics_Observe(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveEnroll(usecase.OutcomeSuccess)
	m.ObserveEnroll(usecase.OutcomeSuccess)
	m.ObserveEnroll(usecase.OutcomeNoMinutiae)
	m.ObserveVerify(usecase.OutcomeMatch, 75)
	m.ObserveEngineInitFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EnrollTotal.WithLabelValues(usecase.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EnrollTotal.WithLabelValues(usecase.OutcomeNoMinutiae)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VerifyTotal.WithLabelValues(usecase.OutcomeMatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EngineInitFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(m.VerifyConfidence))
}
