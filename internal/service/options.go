package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/followup-tracker/internal/followup"
)

// Options carries what every service needs: the calendar zone dates are
// normalised in, the per-step store timeout, a clock and a logger.
type Options struct {
	Location    *time.Location
	StepTimeout time.Duration
	Now         func() time.Time
	Logger      *zap.Logger
}

func (o Options) loc() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) today() time.Time {
	return followup.StartOfDay(o.now(), o.loc())
}

func (o Options) log() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// step bounds a single store round trip.
func (o Options) step(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.StepTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.StepTimeout)
}
