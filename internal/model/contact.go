// internal/model/contact.go
package model

import "time"

type Contact struct {
	ID               string    `db:"id" json:"id"`
	OwnerID          string    `db:"user_id" json:"owner_id"`
	Name             string    `db:"name" json:"name"`
	Role             string    `db:"role" json:"role"`
	Email            string    `db:"email" json:"email"`
	LinkedInURL      string    `db:"linkedin_url" json:"linkedin_url"`
	Phone            string    `db:"phone" json:"phone"`
	CompanyID        *string   `db:"company_id" json:"company_id,omitempty"`
	CompanyNameCache string    `db:"company_name_cache" json:"company_name"`
	Notes            string    `db:"notes" json:"notes"`
	Tags             []string  `db:"tags" json:"tags"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// AssociatedContact is the slice of a Contact shown on a campaign.
type AssociatedContact struct {
	ContactID string `json:"contact_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// CampaignContact links a contact to a campaign.
type CampaignContact struct {
	CampaignID string `db:"campaign_id" json:"campaign_id"`
	ContactID  string `db:"contact_id" json:"contact_id"`
	OwnerID    string `db:"user_id" json:"owner_id"`
	Name       string `db:"name" json:"name"`
	Email      string `db:"email" json:"email"`
}
