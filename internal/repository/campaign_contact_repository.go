package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/followup-tracker/internal/model"
)

type CampaignContactRepositoryInterface interface {
	Link(ctx context.Context, link model.CampaignContact) error
	UnlinkAll(ctx context.Context, ownerID, campaignID string) error
	ListForOwner(ctx context.Context, ownerID string) ([]model.CampaignContact, error)
}

type CampaignContactRepository struct {
	DB *sql.DB
}

// Link is idempotent.
func (r *CampaignContactRepository) Link(ctx context.Context, link model.CampaignContact) error {
	query := `
        INSERT INTO campaign_contacts (campaign_id, contact_id, user_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (campaign_id, contact_id) DO NOTHING
    `
	_, err := r.DB.ExecContext(ctx, query, link.CampaignID, link.ContactID, link.OwnerID)
	return err
}

func (r *CampaignContactRepository) UnlinkAll(ctx context.Context, ownerID, campaignID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM campaign_contacts WHERE campaign_id=$1 AND user_id=$2`, campaignID, ownerID)
	return err
}

// ListForOwner returns every link for the owner joined with the contact's name and email.
func (r *CampaignContactRepository) ListForOwner(ctx context.Context, ownerID string) ([]model.CampaignContact, error) {
	query := `
        SELECT cc.campaign_id, cc.contact_id, cc.user_id, c.name, c.email
        FROM campaign_contacts cc
        JOIN contacts c ON c.id = cc.contact_id
        WHERE cc.user_id = $1
        ORDER BY c.name
    `
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []model.CampaignContact{}
	for rows.Next() {
		var l model.CampaignContact
		if err := rows.Scan(&l.CampaignID, &l.ContactID, &l.OwnerID, &l.Name, &l.Email); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

var _ CampaignContactRepositoryInterface = (*CampaignContactRepository)(nil)
