package workers

import (
	"collab-hub/observability"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shirou/gopsutil/process"
	"github.com/stretchr/testify/require"
)

func TestHealthMonitoringWorker_Sample(t *testing.T) {
	req := require.New(t)
	stats := observability.NewHubStats(slog.Default())
	worker := NewHealthMonitoringWorker(slog.Default(), stats, time.Second)

	p, err := process.NewProcess(int32(os.Getpid()))
	req.NoError(err)

	// When the current process is sampled
	worker.sample(p)

	// Then the snapshot carries its pid and resident memory
	sample := stats.GetLatest(0, 0).Process
	req.Equal(int32(os.Getpid()), sample.PID)
	req.Positive(sample.RSSBytes)
	req.False(sample.SampledAt.IsZero())
}
