// internal/model/follow_up.go
package model

import "time"

type FollowUpStatus string

const (
	FollowUpPending FollowUpStatus = "Pending"
	FollowUpSent    FollowUpStatus = "Sent"
	FollowUpSkipped FollowUpStatus = "Skipped"
)

// FollowUp is one scheduled or sent reminder tied to a campaign.
// OriginalDueDate is set once at creation and is the only way back from Sent to Pending.
type FollowUp struct {
	ID              string         `db:"id" json:"id"`
	CampaignID      string         `db:"campaign_id" json:"campaign_id"`
	OwnerID         string         `db:"user_id" json:"owner_id"`
	ScheduledDate   time.Time      `db:"follow_up_date" json:"scheduled_date"`
	OriginalDueDate *time.Time     `db:"original_due_date" json:"original_due_date,omitempty"`
	Status          FollowUpStatus `db:"status" json:"status"`
	EmailSubject    string         `db:"email_subject" json:"email_subject"`
	EmailBody       string         `db:"email_body" json:"email_body"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}
