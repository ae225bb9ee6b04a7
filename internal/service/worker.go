package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/followup-tracker/internal/followup"
	"github.com/unclebandit/followup-tracker/internal/model"
	"github.com/unclebandit/followup-tracker/internal/queue"
	"github.com/unclebandit/followup-tracker/internal/repository"
)

// OwnerLister is the part of the campaign store the worker needs to find owners.
type OwnerLister interface {
	OwnerIDs(ctx context.Context) ([]string, error)
}

// Worker scans every owner's board and publishes a DueNotice for each
// campaign whose next pending follow-up is due today or earlier.
type Worker struct {
	Options
	Owners    OwnerLister
	Campaigns *CampaignService
	Queue     queue.Queue
}

var _ OwnerLister = (*repository.CampaignRepository)(nil)

// RunOnce performs one scan and returns how many notices were published.
// A failure for one owner is logged and does not stop the others.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	stepCtx, cancel := w.step(ctx)
	owners, err := w.Owners.OwnerIDs(stepCtx)
	cancel()
	if err != nil {
		return 0, err
	}

	today := w.today()
	published := 0
	for _, ownerID := range owners {
		if ctx.Err() != nil {
			return published, ctx.Err()
		}

		board, err := w.Campaigns.Board(ctx, ownerID, BoardQuery{Sort: followup.SortNextDue})
		if err != nil {
			w.log().Warn("due scan failed for owner", zap.String("owner_id", ownerID), zap.Error(err))
			continue
		}

		for _, c := range board.ActionRequired {
			notice, ok := dueNotice(c, today, w.loc())
			if !ok {
				continue
			}
			if err := w.Queue.Publish(queue.TopicFollowUpsDue, notice); err != nil {
				w.log().Warn("failed to enqueue due notice",
					zap.String("campaign_id", c.ID),
					zap.Error(err))
				continue
			}
			published++
		}
	}

	w.log().Info("due scan finished", zap.Int("owners", len(owners)), zap.Int("published", published))
	return published, nil
}

func dueNotice(c model.Campaign, today time.Time, loc *time.Location) (queue.DueNotice, bool) {
	var next *model.FollowUp
	for i := range c.FollowUps {
		fu := &c.FollowUps[i]
		if fu.Status != model.FollowUpPending || fu.ScheduledDate.IsZero() {
			continue
		}
		if next == nil || fu.ScheduledDate.Before(next.ScheduledDate) {
			next = fu
		}
	}
	if next == nil {
		return queue.DueNotice{}, false
	}
	return queue.DueNotice{
		OwnerID:     c.OwnerID,
		CampaignID:  c.ID,
		Title:       c.Title,
		CompanyName: c.CompanyNameCache,
		FollowUpID:  next.ID,
		DueDate:     next.ScheduledDate,
		OverdueDays: followup.DaysBetween(next.ScheduledDate, today, loc),
	}, true
}
