package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
	"github.com/unclebandit/followup-tracker/internal/model"
)

type CampaignRepositoryInterface interface {
	List(ctx context.Context, ownerID string) ([]*model.Campaign, error)
	GetByID(ctx context.Context, ownerID, id string) (*model.Campaign, error)
	Create(ctx context.Context, c *model.Campaign) error
	Update(ctx context.Context, c *model.Campaign) error
	UpdateStatus(ctx context.Context, ownerID, id string, status model.CampaignStatus) error
	Delete(ctx context.Context, ownerID, id string) error
	OwnerIDs(ctx context.Context) ([]string, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, user_id, company_id, company_name_cache, title, initial_contact_date,
        status, notes, tags, job_description_url, created_at`

func scanCampaign(row interface{ Scan(...any) error }, c *model.Campaign) error {
	return row.Scan(
		&c.ID, &c.OwnerID, &c.CompanyID, &c.CompanyNameCache, &c.Title, &c.InitialContactDate,
		&c.Status, &c.Notes, (*pq.StringArray)(&c.Tags), &c.JobDescriptionURL, &c.CreatedAt,
	)
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.StatusEmailed
	}
	query := `
        INSERT INTO campaigns (id, user_id, company_id, company_name_cache, title, initial_contact_date,
            status, notes, tags, job_description_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.OwnerID, c.CompanyID, c.CompanyNameCache, c.Title, c.InitialContactDate,
		c.Status, c.Notes, pq.Array(nonNil(c.Tags)), c.JobDescriptionURL, c.CreatedAt,
	)
	return err
}

func (r *CampaignRepository) Update(ctx context.Context, c *model.Campaign) error {
	query := `
        UPDATE campaigns
        SET company_id=$1, company_name_cache=$2, title=$3, initial_contact_date=$4,
            status=$5, notes=$6, tags=$7, job_description_url=$8
        WHERE id=$9 AND user_id=$10
    `
	res, err := r.DB.ExecContext(ctx, query,
		c.CompanyID, c.CompanyNameCache, c.Title, c.InitialContactDate,
		c.Status, c.Notes, pq.Array(nonNil(c.Tags)), c.JobDescriptionURL,
		c.ID, c.OwnerID,
	)
	if err != nil {
		return err
	}
	return expectOne(res, appErrors.NewCampaignNotFound(c.ID))
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, ownerID, id string, status model.CampaignStatus) error {
	query := `UPDATE campaigns SET status=$1 WHERE id=$2 AND user_id=$3`
	res, err := r.DB.ExecContext(ctx, query, status, id, ownerID)
	if err != nil {
		return err
	}
	return expectOne(res, appErrors.NewCampaignNotFound(id))
}

func (r *CampaignRepository) GetByID(ctx context.Context, ownerID, id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1 AND user_id=$2`
	var c model.Campaign
	err := scanCampaign(r.DB.QueryRowContext(ctx, query, id, ownerID), &c)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) List(ctx context.Context, ownerID string) ([]*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE user_id=$1 ORDER BY initial_contact_date DESC, id`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c := &model.Campaign{}
		if err := scanCampaign(rows, c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	return expectOne(res, appErrors.NewCampaignNotFound(id))
}

// OwnerIDs lists every owner that has at least one campaign.
func (r *CampaignRepository) OwnerIDs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT user_id FROM campaigns ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
