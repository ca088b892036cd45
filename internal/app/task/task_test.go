package task

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/anime-explorer/pkg/domain/model"
)

type scriptedProber struct {
	rounds []map[string]string
	calls  int
}

func (p *scriptedProber) Health(ctx context.Context) *model.GatewayHealth {
	backends := p.rounds[p.calls]
	p.calls++
	return &model.GatewayHealth{Backends: backends}
}

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestBackendProbeJob(t *testing.T) {
	prober := &scriptedProber{rounds: []map[string]string{
		{"dataServer": model.BackendHealthy},
		{"dataServer": model.BackendUnreachable},
		{"dataServer": model.BackendUnreachable},
		{"dataServer": model.BackendHealthy},
	}}
	logger, buf := newBufferLogger()
	job := NewBackendProbeJob(prober, logger)

	job.Run()
	require.Empty(t, buf.String())

	job.Run()
	require.Contains(t, buf.String(), "Backend became unreachable")
	buf.Reset()

	job.Run()
	require.Empty(t, buf.String(), "状态未变化时不重复告警")

	job.Run()
	require.Contains(t, buf.String(), "Backend recovered")
	require.Equal(t, map[string]string{"dataServer": model.BackendHealthy}, job.Snapshot())
}

func TestPanicRecoveryWrapper(t *testing.T) {
	logger, buf := newBufferLogger()
	wrapped := NewPanicRecoveryWrapper(logger)(cron.FuncJob(func() { panic("boom") }))

	require.NotPanics(t, wrapped.Run)
	require.Contains(t, buf.String(), "Job panicked")
}

func TestLoggingWrapperUsesJobName(t *testing.T) {
	logger, buf := newBufferLogger()
	job := NewBackendProbeJob(&scriptedProber{rounds: []map[string]string{{}}}, logger)
	NewLoggingWrapper(logger)(job).Run()

	require.Contains(t, buf.String(), "job_name=BackendProbeJob")
	require.Contains(t, buf.String(), "execution_id=")
	require.Contains(t, buf.String(), "Job execution finished")
}

func TestRegisterJobs(t *testing.T) {
	s := NewScheduler(&scriptedProber{})
	require.NoError(t, s.RegisterJobs(""))
	require.Equal(t, 1, s.Entries())

	require.Error(t, NewScheduler(&scriptedProber{}).RegisterJobs("not a schedule"))
}
