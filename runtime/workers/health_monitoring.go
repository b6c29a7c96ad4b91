package workers

import (
	"collab-hub/observability"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HealthMonitoringWorker samples CPU and memory of the hub process.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	stats          *observability.HubStats
	pid            int32
	metricInterval time.Duration
}

func NewHealthMonitoringWorker(log *slog.Logger, stats *observability.HubStats, metricInterval time.Duration) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		stats:          stats,
		pid:            int32(os.Getpid()),
		metricInterval: metricInterval,
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(w.pid)
	if err != nil {
		w.log.Error("Error while retrieving process", "pid", w.pid, "error", err)
		return err
	}
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping process sampling")
			return nil
		case <-ticker.C:
			w.sample(p)
		}
	}
}

func (w *HealthMonitoringWorker) sample(p *process.Process) {
	status, err := p.Status()
	if err != nil {
		w.log.Debug("Error while finding process status", "error", err)
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		w.log.Error("Error while finding process cpu usage", "error", err)
		return
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		w.log.Error("Error while finding process memory usage", "error", err)
		return
	}
	w.stats.RecordProcess(observability.ProcessSample{
		PID:        w.pid,
		Status:     status,
		CPUPercent: cpu,
		RSSBytes:   mem.RSS,
		SampledAt:  time.Now().UTC(),
	})
}
