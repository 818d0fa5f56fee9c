package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue sums the counter samples of name whose labels include want.
func counterValue(t *testing.T, m *MetricsService, name string, want map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue metrics
				}
			}
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetricsServiceRecordsEnrollmentOutcomes(t *testing.T) {
	m := NewMetricsService()
	m.RecordEnrollment(ActionEnroll, OutcomeCreated)
	m.RecordEnrollment(ActionEnroll, OutcomeCreated)
	m.RecordEnrollment(ActionCancel, OutcomeRejected)
	m.RecordStateMismatch()

	assert.Equal(t, 2.0, counterValue(t, m, "exam_enrollment_operations_total", map[string]string{"action": "enroll", "outcome": "created"}))
	assert.Equal(t, 1.0, counterValue(t, m, "exam_enrollment_operations_total", map[string]string{"action": "cancel"}))
	assert.Equal(t, 1.0, counterValue(t, m, "exam_enrollment_state_mismatch_total", nil))
}

func TestMetricsServiceHandlerExposesRegistry(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/subjects", http.StatusOK, 5*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{method="GET",path="/api/v1/subjects",status="200"} 1`))
	assert.Contains(t, body, "cache_hit_ratio 0.5")
}

func TestMetricsServiceNilIsSafe(t *testing.T) {
	var m *MetricsService
	m.RecordEnrollment(ActionEnroll, OutcomeError)
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
