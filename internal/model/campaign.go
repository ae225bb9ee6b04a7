// internal/model/campaign.go
package model

import "time"

type CampaignStatus string

const (
	StatusWatching        CampaignStatus = "Watching"
	StatusApplied         CampaignStatus = "Applied"
	StatusEmailed         CampaignStatus = "Emailed"
	StatusFirstFollowUp   CampaignStatus = "1st Follow Up"
	StatusSecondFollowUp  CampaignStatus = "2nd Follow Up"
	StatusThirdFollowUp   CampaignStatus = "3rd Follow Up"
	StatusNoResponse      CampaignStatus = "No Response"
	StatusRepliedPositive CampaignStatus = "Replied - Positive"
	StatusRepliedNegative CampaignStatus = "Replied - Negative"
	StatusInterviewing    CampaignStatus = "Interviewing"
	StatusOffer           CampaignStatus = "Offer"
	StatusRejected        CampaignStatus = "Rejected"
	StatusClosed          CampaignStatus = "Closed"
)

// EmailingCycle lists the statuses the engine moves a campaign through, in order.
var EmailingCycle = []CampaignStatus{
	StatusEmailed,
	StatusFirstFollowUp,
	StatusSecondFollowUp,
	StatusThirdFollowUp,
}

var allStatuses = []CampaignStatus{
	StatusWatching, StatusApplied, StatusEmailed, StatusFirstFollowUp,
	StatusSecondFollowUp, StatusThirdFollowUp, StatusNoResponse,
	StatusRepliedPositive, StatusRepliedNegative, StatusInterviewing,
	StatusOffer, StatusRejected, StatusClosed,
}

// InEmailingCycle reports whether s is updated automatically by follow-up logging.
func (s CampaignStatus) InEmailingCycle() bool {
	for _, c := range EmailingCycle {
		if c == s {
			return true
		}
	}
	return false
}

func (s CampaignStatus) Valid() bool {
	for _, c := range allStatuses {
		if c == s {
			return true
		}
	}
	return false
}

// Campaign is one tracked opportunity (job application or sales lead).
type Campaign struct {
	ID                 string         `db:"id" json:"id"`
	OwnerID            string         `db:"user_id" json:"owner_id"`
	CompanyID          *string        `db:"company_id" json:"company_id,omitempty"`
	CompanyNameCache   string         `db:"company_name_cache" json:"company_name"`
	Title              string         `db:"title" json:"title"`
	InitialContactDate time.Time      `db:"initial_contact_date" json:"initial_contact_date"`
	Status             CampaignStatus `db:"status" json:"status"`
	Notes              string         `db:"notes" json:"notes"`
	Tags               []string       `db:"tags" json:"tags"`
	JobDescriptionURL  *string        `db:"job_description_url" json:"job_description_url,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`

	FollowUps []FollowUp          `db:"-" json:"follow_ups,omitempty"`
	Contacts  []AssociatedContact `db:"-" json:"contacts,omitempty"`
}
