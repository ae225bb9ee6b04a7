package followup

import (
	"fmt"
	"slices"
	"time"

	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
	"github.com/unclebandit/followup-tracker/internal/model"
)

type SortMode string

const (
	SortNextDue   SortMode = "next_due"
	SortStartDesc SortMode = "start_desc"
	SortStartAsc  SortMode = "start_asc"
)

// ParseSortMode maps a query value to a mode; empty means next-due.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "":
		return SortNextDue, nil
	case SortNextDue, SortStartDesc, SortStartAsc:
		return SortMode(s), nil
	}
	return "", appErrors.NewValidation("sort", fmt.Sprintf("unknown sort mode %q", s))
}

// Board is the presentation order of an owner's campaigns. Next-due mode fills
// ActionRequired and Upcoming, both present even when empty; chronological
// modes fill All.
type Board struct {
	Mode           SortMode         `json:"sort"`
	ActionRequired []model.Campaign `json:"action_required"`
	Upcoming       []model.Campaign `json:"upcoming"`
	All            []model.Campaign `json:"all,omitempty"`
}

func (b Board) Len() int {
	return len(b.ActionRequired) + len(b.Upcoming) + len(b.All)
}

// NextPending returns the earliest scheduled date among pending follow-ups,
// or nil. Zero dates are ignored.
func NextPending(c model.Campaign) *time.Time {
	var next *time.Time
	for i := range c.FollowUps {
		fu := c.FollowUps[i]
		if fu.Status != model.FollowUpPending || fu.ScheduledDate.IsZero() {
			continue
		}
		if next == nil || fu.ScheduledDate.Before(*next) {
			d := fu.ScheduledDate
			next = &d
		}
	}
	return next
}

// Partition orders campaigns for mode. today is any instant on the current day.
// The input slice is not modified.
func Partition(campaigns []model.Campaign, mode SortMode, today time.Time, loc *time.Location) Board {
	sorted := slices.Clone(campaigns)
	board := Board{Mode: mode}

	switch mode {
	case SortStartAsc:
		slices.SortStableFunc(sorted, func(a, b model.Campaign) int {
			return a.InitialContactDate.Compare(b.InitialContactDate)
		})
		board.All = sorted
		return board
	case SortNextDue:
	default:
		board.Mode = SortStartDesc
		slices.SortStableFunc(sorted, newestFirst)
		board.All = sorted
		return board
	}

	type entry struct {
		campaign model.Campaign
		next     *time.Time
	}
	entries := make([]entry, len(sorted))
	for i, c := range sorted {
		entries[i] = entry{campaign: c, next: NextPending(c)}
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		switch {
		case a.next != nil && b.next == nil:
			return -1
		case a.next == nil && b.next != nil:
			return 1
		case a.next == nil && b.next == nil:
			return newestFirst(a.campaign, b.campaign)
		}
		return a.next.Compare(*b.next)
	})

	cutoff := StartOfDay(today, loc)
	board.ActionRequired = []model.Campaign{}
	board.Upcoming = []model.Campaign{}
	for _, e := range entries {
		if e.next != nil && !StartOfDay(*e.next, loc).After(cutoff) {
			board.ActionRequired = append(board.ActionRequired, e.campaign)
			continue
		}
		board.Upcoming = append(board.Upcoming, e.campaign)
	}
	return board
}

func newestFirst(a, b model.Campaign) int {
	return b.InitialContactDate.Compare(a.InitialContactDate)
}
