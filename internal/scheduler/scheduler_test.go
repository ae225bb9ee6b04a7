package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingJob struct {
	calls atomic.Int32
	err   error
}

func (j *countingJob) RunOnce(ctx context.Context) (int, error) {
	j.calls.Add(1)
	return 1, j.err
}

func TestStart_RejectsBadSpec(t *testing.T) {
	s := New(&countingJob{}, time.UTC, time.Second, zap.NewNop())
	assert.Error(t, s.Start("not a cron spec"))
}

func TestRun_InvokesJob(t *testing.T) {
	job := &countingJob{err: errors.New("store down")}
	s := New(job, nil, time.Second, zap.NewNop())

	s.run()
	s.run()

	assert.Equal(t, int32(2), job.calls.Load())
}

func TestStartStop(t *testing.T) {
	s := New(&countingJob{}, time.UTC, time.Second, zap.NewNop())
	require.NoError(t, s.Start("0 8 * * *"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
