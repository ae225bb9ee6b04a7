// internal/model/company.go
package model

import "time"

type Company struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"user_id" json:"owner_id"`
	Name        string    `db:"name" json:"name"`
	Website     string    `db:"website" json:"website"`
	LinkedInURL string    `db:"linkedin_url" json:"linkedin_url"`
	Notes       string    `db:"notes" json:"notes"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
