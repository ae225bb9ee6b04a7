package followup

import (
	"slices"
	"strings"

	"github.com/unclebandit/followup-tracker/internal/model"
)

// DeriveStatus recomputes a campaign's status from its full follow-up history.
// ok is false when current is a manual status, which derivation never touches.
// Otherwise the Sent count maps onto the emailing cycle, saturating at the
// third follow-up. Callers skip the write when the result equals current.
func DeriveStatus(current model.CampaignStatus, history []model.FollowUp) (status model.CampaignStatus, ok bool) {
	if !current.InEmailingCycle() {
		return "", false
	}

	sent := 0
	for _, fu := range OrderByCreation(history) {
		if fu.Status == model.FollowUpSent {
			sent++
		}
	}

	last := len(model.EmailingCycle) - 1
	if sent > last {
		sent = last
	}
	return model.EmailingCycle[sent], true
}

// OrderByCreation returns a copy of history sorted by creation time, then id.
func OrderByCreation(history []model.FollowUp) []model.FollowUp {
	out := slices.Clone(history)
	slices.SortStableFunc(out, func(a, b model.FollowUp) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// OrderForDisplay sorts by original due date, falling back to creation time
// for records that never had one.
func OrderForDisplay(history []model.FollowUp) []model.FollowUp {
	out := slices.Clone(history)
	key := func(fu model.FollowUp) int64 {
		if fu.OriginalDueDate != nil {
			return fu.OriginalDueDate.UnixNano()
		}
		return fu.CreatedAt.UnixNano()
	}
	slices.SortStableFunc(out, func(a, b model.FollowUp) int {
		ka, kb := key(a), key(b)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
