package service

import (
	"context"
	"fmt"

	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
	"github.com/unclebandit/followup-tracker/internal/followup"
	"github.com/unclebandit/followup-tracker/internal/model"
	"github.com/unclebandit/followup-tracker/internal/repository"
)

type SettingsService struct {
	Options
	SettingsRepo   repository.SettingsRepositoryInterface
	DefaultCadence *followup.Cadence
}

// EffectiveSettings is what the owner sees: their overrides with defaults filled in.
type EffectiveSettings struct {
	model.OwnerSettings
	Cadence    followup.Cadence `json:"cadence"`
	IsOverride bool             `json:"cadence_is_override"`
}

// SettingsInput is a partial update; nil fields are left unchanged.
// ResetCadence drops the override and returns the owner to the default.
type SettingsInput struct {
	CadenceDays      *[3]int                 `json:"follow_up_cadence_days"`
	ResetCadence     bool                    `json:"reset_cadence"`
	DefaultTemplates *model.DefaultTemplates `json:"default_email_templates"`
	UsagePreference  *model.UsagePreference  `json:"usage_preference"`
}

func (s *SettingsService) GetSettings(ctx context.Context, ownerID string) (*EffectiveSettings, error) {
	if ownerID == "" {
		return nil, appErrors.NewValidation("owner_id", "required")
	}

	stepCtx, cancel := s.step(ctx)
	stored, err := s.SettingsRepo.Get(stepCtx, ownerID)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("get", "settings", err)
	}
	if stored == nil {
		stored = &model.OwnerSettings{OwnerID: ownerID, UsagePreference: model.UsageJobHunt}
	}
	return s.effective(stored), nil
}

func (s *SettingsService) UpdateSettings(ctx context.Context, ownerID string, in SettingsInput) (*EffectiveSettings, error) {
	if ownerID == "" {
		return nil, appErrors.NewValidation("owner_id", "required")
	}
	if in.CadenceDays != nil {
		if err := followup.Cadence(*in.CadenceDays).Validate(); err != nil {
			return nil, err
		}
	}
	if in.UsagePreference != nil {
		switch *in.UsagePreference {
		case model.UsageJobHunt, model.UsageSales, model.UsageNetworking, model.UsageOther:
		default:
			return nil, appErrors.NewValidation("usage_preference", fmt.Sprintf("unknown value %q", *in.UsagePreference))
		}
	}

	stepCtx, cancel := s.step(ctx)
	stored, err := s.SettingsRepo.Get(stepCtx, ownerID)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("get", "settings", err)
	}
	if stored == nil {
		stored = &model.OwnerSettings{OwnerID: ownerID, UsagePreference: model.UsageJobHunt}
	}

	switch {
	case in.ResetCadence:
		stored.CadenceDays = nil
	case in.CadenceDays != nil:
		c := *in.CadenceDays
		stored.CadenceDays = &c
	}
	if in.DefaultTemplates != nil {
		stored.DefaultTemplates = *in.DefaultTemplates
	}
	if in.UsagePreference != nil {
		stored.UsagePreference = *in.UsagePreference
	}

	stepCtx, cancel = s.step(ctx)
	err = s.SettingsRepo.Upsert(stepCtx, stored)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("upsert", "settings", err)
	}
	return s.effective(stored), nil
}

func (s *SettingsService) effective(stored *model.OwnerSettings) *EffectiveSettings {
	fallback := followup.DefaultCadence
	if s.DefaultCadence != nil {
		fallback = *s.DefaultCadence
	}
	return &EffectiveSettings{
		OwnerSettings: *stored,
		Cadence:       followup.ResolveCadence(stored, fallback),
		IsOverride:    stored.CadenceDays != nil,
	}
}
