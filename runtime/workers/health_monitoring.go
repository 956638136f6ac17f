package workers

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"context"
	"log/slog"
	"os"
	goruntime "runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*HealthMonitoringWorker)(nil)

// HealthMonitoringWorker periodically logs the relay load and the process footprint.
// The history grows for the whole process lifetime, so RSS is the number to watch.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	stats          func() domain.Stats
	pid            int32
}

func NewHealthMonitoringWorker(log *slog.Logger, metricInterval time.Duration, stats func() domain.Stats) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		metricInterval: metricInterval,
		stats:          stats,
		pid:            int32(os.Getpid()),
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *HealthMonitoringWorker) report() {
	stats := w.stats()
	attrs := []any{
		"participants", stats.Participants,
		"history", stats.HistorySize,
		"goroutines", goruntime.NumGoroutine(),
	}

	p, err := process.NewProcess(w.pid)
	if err != nil {
		w.log.Debug("Error while retrieving process", "pid", w.pid, "err", err)
		w.log.Info("Relay health", attrs...)
		return
	}
	if mem, err := p.MemoryInfo(); err == nil {
		attrs = append(attrs, "rss", mem.RSS)
	} else {
		w.log.Debug("Error while finding process ram usage", "err", err)
	}
	if cpu, err := p.CPUPercent(); err == nil {
		attrs = append(attrs, "cpu", cpu)
	} else {
		w.log.Debug("Error while finding process cpu usage", "err", err)
	}
	w.log.Info("Relay health", attrs...)
}
