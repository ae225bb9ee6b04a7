// Package scheduler runs the daily due-follow-up scan on a cron schedule.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scan; it reports how many notices it published.
type Job interface {
	RunOnce(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	job     Job
	timeout time.Duration
	logger  *zap.Logger
}

// New builds a scheduler whose spec is evaluated in loc. Each run is bounded by timeout.
func New(job Job, loc *time.Location, timeout time.Duration, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		job:     job,
		timeout: timeout,
		logger:  logger,
	}
}

// Start registers the scan under spec (standard five-field cron) and starts the loop.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("due scan scheduled", zap.String("spec", spec))
	return nil
}

// Stop waits for a running scan to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) run() {
	ctx := context.Background()
	var cancel context.CancelFunc = func() {}
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	}
	defer cancel()

	n, err := s.job.RunOnce(ctx)
	if err != nil {
		s.logger.Error("due scan failed", zap.Int("published", n), zap.Error(err))
	}
}
