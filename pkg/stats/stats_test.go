package stats_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fastfill-network/matching-engine/pkg/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestDumpMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_dumped_total",
		Help: "Test counter.",
	})
	registry.MustRegister(counter)
	counter.Add(3)

	path := filepath.Join(t.TempDir(), "stats")
	require.NoError(t, stats.DumpMetrics(registry, path))
	require.NoError(t, stats.DumpMetrics(registry, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "test_dumped_total")
}

func TestEnableMemoryStatistics(t *testing.T) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_gauge",
		Help: "Test gauge.",
	}))
	path := filepath.Join(t.TempDir(), "stats")

	ctx, cancel := context.WithCancel(context.Background())
	stats.EnableMemoryStatistics(ctx, 10*time.Millisecond, registry, path)
	time.Sleep(30 * time.Millisecond)
	cancel()

	require.Eventually(t, func() bool {
		content, err := os.ReadFile(path)
		return err == nil && len(content) > 0
	}, time.Second, 10*time.Millisecond)
}
