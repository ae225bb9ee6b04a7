package followup

import (
	"strings"

	"github.com/unclebandit/followup-tracker/internal/model"
)

// Filter keeps campaigns whose company, title, contacts, status or tags contain
// term, case-insensitively. Notes are searched only when includeNotes is set.
func Filter(campaigns []model.Campaign, term string, includeNotes bool) []model.Campaign {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return campaigns
	}

	out := make([]model.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if matches(c, term, includeNotes) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c model.Campaign, term string, includeNotes bool) bool {
	has := func(s string) bool { return strings.Contains(strings.ToLower(s), term) }

	if has(c.CompanyNameCache) || has(c.Title) || has(string(c.Status)) {
		return true
	}
	for _, ac := range c.Contacts {
		if has(ac.Name) || has(ac.Email) {
			return true
		}
	}
	for _, tag := range c.Tags {
		if has(tag) {
			return true
		}
	}
	return includeNotes && has(c.Notes)
}
