// internal/model/settings.go
package model

import "time"

type UsagePreference string

const (
	UsageJobHunt    UsagePreference = "job_hunt"
	UsageSales      UsagePreference = "sales"
	UsageNetworking UsagePreference = "networking"
	UsageOther      UsagePreference = "other"
)

// TemplateContent is the default text for one follow-up step.
type TemplateContent struct {
	Subject     string `json:"subject"`
	OpeningLine string `json:"opening_line"`
	Signature   string `json:"signature"`
}

type DefaultTemplates struct {
	FollowUp1 TemplateContent `json:"follow_up_1"`
	FollowUp2 TemplateContent `json:"follow_up_2"`
	FollowUp3 TemplateContent `json:"follow_up_3"`
}

// Step returns the template for follow-up i (0-based).
func (d DefaultTemplates) Step(i int) TemplateContent {
	switch i {
	case 0:
		return d.FollowUp1
	case 1:
		return d.FollowUp2
	case 2:
		return d.FollowUp3
	}
	return TemplateContent{}
}

// OwnerSettings holds per-owner overrides. CadenceDays nil means the system default.
type OwnerSettings struct {
	OwnerID          string           `db:"user_id" json:"owner_id"`
	CadenceDays      *[3]int          `db:"follow_up_cadence_days" json:"follow_up_cadence_days,omitempty"`
	DefaultTemplates DefaultTemplates `db:"default_email_templates" json:"default_email_templates"`
	UsagePreference  UsagePreference  `db:"usage_preference" json:"usage_preference"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        *time.Time       `db:"updated_at" json:"updated_at,omitempty"`
}
