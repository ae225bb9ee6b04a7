package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/unclebandit/followup-tracker/internal/model"
)

type SettingsRepositoryInterface interface {
	Get(ctx context.Context, ownerID string) (*model.OwnerSettings, error)
	Upsert(ctx context.Context, s *model.OwnerSettings) error
}

type SettingsRepository struct {
	DB *sql.DB
}

// Get returns nil, nil when the owner has never saved settings.
func (r *SettingsRepository) Get(ctx context.Context, ownerID string) (*model.OwnerSettings, error) {
	query := `
        SELECT user_id, follow_up_cadence_days, default_email_templates, usage_preference, created_at, updated_at
        FROM user_settings WHERE user_id=$1
    `
	var (
		s         model.OwnerSettings
		cadence   pq.Int64Array
		templates []byte
	)
	err := r.DB.QueryRowContext(ctx, query, ownerID).Scan(
		&s.OwnerID, &cadence, &templates, &s.UsagePreference, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if len(cadence) == 3 {
		c := [3]int{int(cadence[0]), int(cadence[1]), int(cadence[2])}
		s.CadenceDays = &c
	}
	if len(templates) > 0 {
		if err := json.Unmarshal(templates, &s.DefaultTemplates); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, s *model.OwnerSettings) error {
	var cadence pq.Int64Array
	if s.CadenceDays != nil {
		cadence = pq.Int64Array{int64(s.CadenceDays[0]), int64(s.CadenceDays[1]), int64(s.CadenceDays[2])}
	}
	templates, err := json.Marshal(s.DefaultTemplates)
	if err != nil {
		return err
	}
	if s.UsagePreference == "" {
		s.UsagePreference = model.UsageJobHunt
	}

	now := time.Now()
	s.UpdatedAt = &now
	query := `
        INSERT INTO user_settings (user_id, follow_up_cadence_days, default_email_templates, usage_preference, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $5)
        ON CONFLICT (user_id) DO UPDATE
        SET follow_up_cadence_days=EXCLUDED.follow_up_cadence_days,
            default_email_templates=EXCLUDED.default_email_templates,
            usage_preference=EXCLUDED.usage_preference,
            updated_at=EXCLUDED.updated_at
        RETURNING created_at
    `
	return r.DB.QueryRowContext(ctx, query, s.OwnerID, cadence, templates, s.UsagePreference, now).Scan(&s.CreatedAt)
}

var _ SettingsRepositoryInterface = (*SettingsRepository)(nil)
