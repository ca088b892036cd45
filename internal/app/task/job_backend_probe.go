package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
)

// BackendProber 由聚合层实现
type BackendProber interface {
	Health(ctx context.Context) *model.GatewayHealth
}

// BackendProbeJob 周期性探测后端，只在状态变化时记录告警或恢复日志
type BackendProbeJob struct {
	prober BackendProber
	logger *slog.Logger

	mu   sync.Mutex
	last map[string]string
}

func NewBackendProbeJob(prober BackendProber, logger *slog.Logger) *BackendProbeJob {
	return &BackendProbeJob{
		prober: prober,
		logger: logger,
		last:   make(map[string]string),
	}
}

func (j *BackendProbeJob) Name() string { return "BackendProbeJob" }

func (j *BackendProbeJob) Run() {
	// Health 内部已经为每个后端设置了超时，这里只兜底
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	health := j.prober.Health(ctx)

	j.mu.Lock()
	defer j.mu.Unlock()
	for name, status := range health.Backends {
		previous, seen := j.last[name]
		j.last[name] = status
		switch {
		case status != model.BackendHealthy && previous != status:
			j.logger.Warn("Backend became unreachable", slog.String("backend", name))
		case status == model.BackendHealthy && seen && previous != model.BackendHealthy:
			j.logger.Info("Backend recovered", slog.String("backend", name))
		}
	}
}

// Snapshot 最近一次探测的结果
func (j *BackendProbeJob) Snapshot() map[string]string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[string]string, len(j.last))
	for k, v := range j.last {
		out[k] = v
	}
	return out
}
