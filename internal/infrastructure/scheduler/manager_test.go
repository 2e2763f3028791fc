package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Execute(context.Context) (int, error) {
	j.runs.Add(1)
	return 2, j.err
}

func TestSchedulerManager_RunsOrphanAuditOnStart(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	job := &countingJob{}
	require.NoError(t, m.RegisterOrphanAuditJob(job, time.Hour))
	require.Len(t, m.Jobs(), 1)
	assert.Equal(t, "orphan-audit", m.Jobs()[0].Name())

	m.Start()
	assert.True(t, m.IsStarted())
	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	assert.NoError(t, m.Stop())
}

func TestSchedulerManager_JobErrorDoesNotStopScheduler(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	job := &countingJob{err: errors.New("readdir failed")}
	require.NoError(t, m.RegisterOrphanAuditJob(job, time.Hour))

	m.Start()
	defer func() { _ = m.Stop() }()
	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, m.IsStarted())
}
