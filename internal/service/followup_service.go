package service

import (
	"context"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
	"github.com/unclebandit/followup-tracker/internal/followup"
	"github.com/unclebandit/followup-tracker/internal/model"
	"github.com/unclebandit/followup-tracker/internal/repository"
)

// FollowUpService moves single follow-ups between Pending and Sent and keeps
// the owning campaign's status in line with its history.
type FollowUpService struct {
	Options
	CampaignRepo repository.CampaignRepositoryInterface
	FollowUpRepo repository.FollowUpRepositoryInterface
}

// FollowUpResult reports the outcome of a log or unlog.
// Warning is set when the follow-up change committed but the campaign status
// write did not.
type FollowUpResult struct {
	FollowUp       *model.FollowUp      `json:"follow_up"`
	PreviousStatus model.CampaignStatus `json:"previous_status"`
	CampaignStatus model.CampaignStatus `json:"campaign_status"`
	StatusChanged  bool                 `json:"status_changed"`
	Warning        error                `json:"-"`
}

// LogFollowUp marks the follow-up Sent as of today and re-derives the campaign status.
// A follow-up that does not belong to campaignID is not found.
func (s *FollowUpService) LogFollowUp(ctx context.Context, ownerID, followUpID, campaignID string) (*FollowUpResult, error) {
	if err := requireIDs(ownerID, followUpID, campaignID); err != nil {
		return nil, err
	}

	stepCtx, cancel := s.step(ctx)
	fu, err := s.FollowUpRepo.UpdateState(stepCtx, ownerID, campaignID, followUpID, model.FollowUpSent, s.today())
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("update", "follow-up", err)
	}

	s.log().Info("follow-up logged",
		zap.String("follow_up_id", followUpID),
		zap.String("campaign_id", campaignID))

	return s.reconcile(ctx, ownerID, campaignID, fu)
}

// UnlogFollowUp reverts a follow-up to Pending on its original due date.
// It refuses to guess a date when the original one is missing.
func (s *FollowUpService) UnlogFollowUp(ctx context.Context, ownerID, followUpID, campaignID string) (*FollowUpResult, error) {
	if err := requireIDs(ownerID, followUpID, campaignID); err != nil {
		return nil, err
	}

	stepCtx, cancel := s.step(ctx)
	current, err := s.FollowUpRepo.GetByID(stepCtx, ownerID, followUpID)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("get", "follow-up", err)
	}
	if current.CampaignID != campaignID {
		return nil, appErrors.NewValidation("campaign_id", "follow-up belongs to a different campaign")
	}
	if current.OriginalDueDate == nil {
		return nil, appErrors.NewValidation("original_due_date", "not recorded for this follow-up; cannot revert")
	}
	if current.OriginalDueDate.IsZero() {
		return nil, appErrors.NewValidation("original_due_date", "stored value is not a valid date")
	}

	reverted := followup.StartOfDay(*current.OriginalDueDate, s.loc())

	stepCtx, cancel = s.step(ctx)
	fu, err := s.FollowUpRepo.UpdateState(stepCtx, ownerID, campaignID, followUpID, model.FollowUpPending, reverted)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("update", "follow-up", err)
	}

	s.log().Info("follow-up unlogged",
		zap.String("follow_up_id", followUpID),
		zap.String("campaign_id", campaignID),
		zap.Time("scheduled_date", reverted))

	return s.reconcile(ctx, ownerID, campaignID, fu)
}

// reconcile re-reads the campaign and its whole follow-up history and writes
// the derived status when it differs. Read failures abort; a failed write is
// downgraded to a warning because the follow-up is the source of truth.
func (s *FollowUpService) reconcile(ctx context.Context, ownerID, campaignID string, fu *model.FollowUp) (*FollowUpResult, error) {
	stepCtx, cancel := s.step(ctx)
	campaign, err := s.CampaignRepo.GetByID(stepCtx, ownerID, campaignID)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("get", "campaign", err)
	}

	stepCtx, cancel = s.step(ctx)
	history, err := s.FollowUpRepo.ListByCampaign(stepCtx, ownerID, campaignID)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("list", "follow-up", err)
	}

	result := &FollowUpResult{
		FollowUp:       fu,
		PreviousStatus: campaign.Status,
		CampaignStatus: campaign.Status,
	}

	derived, ok := followup.DeriveStatus(campaign.Status, history)
	if !ok || derived == campaign.Status {
		return result, nil
	}

	stepCtx, cancel = s.step(ctx)
	err = s.CampaignRepo.UpdateStatus(stepCtx, ownerID, campaignID, derived)
	cancel()
	if err != nil {
		result.Warning = appErrors.NewStore("update status", "campaign", err)
		s.log().Warn("follow-up saved but campaign status update failed",
			zap.String("campaign_id", campaignID),
			zap.String("derived_status", string(derived)),
			zap.Error(err))
		return result, nil
	}

	result.CampaignStatus = derived
	result.StatusChanged = true
	return result, nil
}

func requireIDs(ownerID, followUpID, campaignID string) error {
	switch {
	case ownerID == "":
		return appErrors.NewValidation("owner_id", "required")
	case followUpID == "":
		return appErrors.NewValidation("follow_up_id", "required")
	case campaignID == "":
		return appErrors.NewValidation("campaign_id", "required")
	}
	return nil
}
