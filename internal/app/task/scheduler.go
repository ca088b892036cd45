/*
 * @Description: 主服务定时任务调度
 * @Author: 安知鱼
 * @Date: 2025-07-12 16:09:46
 * @LastEditTime: 2025-10-15 17:42:30
 * @LastEditors: 安知鱼
 */
package task

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"
)

// DefaultProbeSchedule 后端探测的默认周期
const DefaultProbeSchedule = "@every 1m"

// Scheduler 封装了 cron 实例和其依赖，负责任务的注册、启动和停止。
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	prober BackendProber
}

// NewScheduler 创建调度器，所有任务都经过 panic 恢复与日志装饰器
func NewScheduler(prober BackendProber) *Scheduler {
	slogHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(slogHandler).With("system", "cron")

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		),
	)

	return &Scheduler{
		cron:   c,
		logger: logger,
		prober: prober,
	}
}

// RegisterJobs 注册所有定时任务；schedule 为空时使用默认周期
func (s *Scheduler) RegisterJobs(probeSchedule string) error {
	s.logger.Info("Registering all periodic jobs...")

	if probeSchedule == "" {
		probeSchedule = DefaultProbeSchedule
	}
	probeJob := NewBackendProbeJob(s.prober, s.logger)
	if _, err := s.cron.AddJob(probeSchedule, probeJob); err != nil {
		s.logger.Error("Failed to add 'BackendProbeJob'", slog.Any("error", err))
		return fmt.Errorf("注册后端探测任务失败: %w", err)
	}
	s.logger.Info("-> Successfully registered 'BackendProbeJob'", "schedule", probeSchedule)

	s.logger.Info("All periodic jobs registered.")
	return nil
}

// Entries 已注册的任务数
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start 启动 cron 调度器。
func (s *Scheduler) Start() {
	s.logger.Info("Cron scheduler started.")
	s.cron.Start()
}

// Stop 优雅地停止 cron 调度器，等待正在执行的任务结束。
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler gracefully stopped.")
}
