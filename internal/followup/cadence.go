// Package followup holds the pure follow-up engine: cadence generation,
// campaign status derivation and the urgency board.
package followup

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
	"github.com/unclebandit/followup-tracker/internal/model"
)

// Cadence is the day offsets of the three follow-ups, relative to the
// campaign's initial contact date.
type Cadence [3]int

var DefaultCadence = Cadence{3, 7, 14}

func (c Cadence) Validate() error {
	for i, d := range c {
		if d < 0 {
			return appErrors.NewValidation("follow_up_cadence_days",
				fmt.Sprintf("offset %d is negative (%d)", i+1, d))
		}
	}
	return nil
}

// ParseCadence reads "3,7,14".
func ParseCadence(s string) (Cadence, error) {
	parts := strings.Split(s, ",")
	if len(parts) != len(Cadence{}) {
		return Cadence{}, appErrors.NewValidation("follow_up_cadence_days",
			fmt.Sprintf("expected %d offsets, got %d", len(Cadence{}), len(parts)))
	}
	var c Cadence
	for i, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Cadence{}, appErrors.NewValidation("follow_up_cadence_days", err.Error())
		}
		c[i] = d
	}
	return c, c.Validate()
}

func (c Cadence) String() string {
	return fmt.Sprintf("%d,%d,%d", c[0], c[1], c[2])
}

// ResolveCadence picks the owner's override, else fallback.
func ResolveCadence(settings *model.OwnerSettings, fallback Cadence) Cadence {
	if settings == nil || settings.CadenceDays == nil {
		return fallback
	}
	return Cadence(*settings.CadenceDays)
}

// Generate produces the three pending follow-ups for a campaign starting on start.
// Scheduled and original due dates are equal at creation.
func Generate(start time.Time, cadence Cadence, loc *time.Location) []model.FollowUp {
	base := StartOfDay(start, loc)
	out := make([]model.FollowUp, 0, len(cadence))
	for _, days := range cadence {
		due := AddDays(base, days, loc)
		original := due
		out = append(out, model.FollowUp{
			ScheduledDate:   due,
			OriginalDueDate: &original,
			Status:          model.FollowUpPending,
		})
	}
	return out
}
