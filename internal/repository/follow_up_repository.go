package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
	"github.com/unclebandit/followup-tracker/internal/model"
)

type FollowUpRepositoryInterface interface {
	ListByCampaign(ctx context.Context, ownerID, campaignID string) ([]model.FollowUp, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.FollowUp, error)
	GetByID(ctx context.Context, ownerID, id string) (*model.FollowUp, error)
	CreateBatch(ctx context.Context, fus []model.FollowUp) ([]model.FollowUp, error)
	UpdateState(ctx context.Context, ownerID, campaignID, id string, status model.FollowUpStatus, scheduled time.Time) (*model.FollowUp, error)
	DeleteByCampaign(ctx context.Context, ownerID, campaignID string) error
}

type FollowUpRepository struct {
	DB *sql.DB
}

const followUpColumns = `id, campaign_id, user_id, follow_up_date, original_due_date, status,
        email_subject, email_body, created_at`

func scanFollowUp(row interface{ Scan(...any) error }, fu *model.FollowUp) error {
	return row.Scan(
		&fu.ID, &fu.CampaignID, &fu.OwnerID, &fu.ScheduledDate, &fu.OriginalDueDate, &fu.Status,
		&fu.EmailSubject, &fu.EmailBody, &fu.CreatedAt,
	)
}

// CreateBatch inserts all follow-ups in one transaction and returns them with ids set.
func (r *FollowUpRepository) CreateBatch(ctx context.Context, fus []model.FollowUp) ([]model.FollowUp, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO follow_ups
        (id, campaign_id, user_id, follow_up_date, original_due_date, status, email_subject, email_body, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	now := time.Now()
	out := make([]model.FollowUp, len(fus))
	for i, fu := range fus {
		fu.ID = uuid.NewString()
		// keeps creation order stable within the batch
		fu.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		if fu.Status == "" {
			fu.Status = model.FollowUpPending
		}
		if _, err := tx.ExecContext(ctx, query,
			fu.ID, fu.CampaignID, fu.OwnerID, fu.ScheduledDate, fu.OriginalDueDate, fu.Status,
			fu.EmailSubject, fu.EmailBody, fu.CreatedAt,
		); err != nil {
			return nil, err
		}
		out[i] = fu
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateState sets status and scheduled date. original_due_date is never written here.
// A follow-up outside campaignID is reported as not found and left untouched.
func (r *FollowUpRepository) UpdateState(ctx context.Context, ownerID, campaignID, id string, status model.FollowUpStatus, scheduled time.Time) (*model.FollowUp, error) {
	query := `
        UPDATE follow_ups
        SET status=$1, follow_up_date=$2
        WHERE id=$3 AND campaign_id=$4 AND user_id=$5
        RETURNING ` + followUpColumns
	var fu model.FollowUp
	err := scanFollowUp(r.DB.QueryRowContext(ctx, query, status, scheduled, id, campaignID, ownerID), &fu)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewFollowUpNotFound(id)
		}
		return nil, err
	}
	return &fu, nil
}

func (r *FollowUpRepository) GetByID(ctx context.Context, ownerID, id string) (*model.FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM follow_ups WHERE id=$1 AND user_id=$2`
	var fu model.FollowUp
	err := scanFollowUp(r.DB.QueryRowContext(ctx, query, id, ownerID), &fu)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewFollowUpNotFound(id)
		}
		return nil, err
	}
	return &fu, nil
}

// ListByCampaign returns the campaign's history oldest first.
func (r *FollowUpRepository) ListByCampaign(ctx context.Context, ownerID, campaignID string) ([]model.FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM follow_ups
        WHERE campaign_id=$1 AND user_id=$2
        ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, campaignID, ownerID)
}

func (r *FollowUpRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM follow_ups
        WHERE user_id=$1
        ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, ownerID)
}

func (r *FollowUpRepository) list(ctx context.Context, query string, args ...any) ([]model.FollowUp, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fus := []model.FollowUp{}
	for rows.Next() {
		var fu model.FollowUp
		if err := scanFollowUp(rows, &fu); err != nil {
			return nil, err
		}
		fus = append(fus, fu)
	}
	return fus, rows.Err()
}

func (r *FollowUpRepository) DeleteByCampaign(ctx context.Context, ownerID, campaignID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM follow_ups WHERE campaign_id=$1 AND user_id=$2`, campaignID, ownerID)
	return err
}

var _ FollowUpRepositoryInterface = (*FollowUpRepository)(nil)
