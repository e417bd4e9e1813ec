package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gathered(t *testing.T, reg *prom.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		out[mf.GetName()] = mf
	}
	return out
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("copy_static", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("copy_static", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.IncStaticFile(StaticCopied)
	pr.IncStaticFile(StaticSkipped)
	pr.IncStaticFile(StaticSkipped)
	pr.IncPageRendered(true)
	pr.IncPageRendered(false)
	pr.SetArticles(3)

	mfs := gathered(t, reg)
	require.Contains(t, mfs, "mksite_stage_duration_seconds")
	require.Contains(t, mfs, "mksite_build_outcomes_total")

	static := mfs["mksite_static_files_total"]
	require.NotNil(t, static)
	counts := map[string]float64{}
	for _, m := range static.GetMetric() {
		counts[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"copied": 1, "skipped": 2}, counts)

	articles := mfs["mksite_blog_articles"]
	require.NotNil(t, articles)
	assert.InDelta(t, 3, articles.GetMetric()[0].GetGauge().GetValue(), 0)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("x", time.Second)
		pr.IncStaticFile(StaticCopied)
		pr.IncPageRendered(false)
		pr.SetArticles(1)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome(BuildOutcomeFailed)

	path := filepath.Join(t.TempDir(), "nested", "mksite.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mksite_build_outcomes_total{outcome="failed"} 1`)
}
