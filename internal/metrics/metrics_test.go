package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				out[mf.GetName()+"_count"] = float64(m.GetHistogram().GetSampleCount())
				out[mf.GetName()+"_sum"] = m.GetHistogram().GetSampleSum()
			}
		}
	}
	return out
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.PlanGenerated(12, 3)
	p.PlanGenerated(5, 1)
	p.PlanCached()
	p.FilesRejected(2)
	p.RowsRejected(0)
	p.RowsRejected(4)
	p.Warnings(1)

	got := gather(t, reg)
	require.Equal(t, 2.0, got["test_plan_generated_total"])
	require.Equal(t, 1.0, got["test_plan_cache_hits_total"])
	require.Equal(t, 2.0, got["test_plan_students_count"])
	require.Equal(t, 17.0, got["test_plan_students_sum"])
	require.Equal(t, 4.0, got["test_plan_batches_sum"])
	require.Equal(t, 2.0, got["test_roster_files_rejected_total"])
	require.Equal(t, 4.0, got["test_roster_rows_rejected_total"])
	require.Equal(t, 1.0, got["test_roster_quality_warnings_total"])
}

func TestNewPrometheusDefaultsNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg, "").PlanCached()

	require.Contains(t, gather(t, reg), "batches_plan_cache_hits_total")
}
