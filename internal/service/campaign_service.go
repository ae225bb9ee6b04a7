// internal/service/campaign_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
	"github.com/unclebandit/followup-tracker/internal/followup"
	"github.com/unclebandit/followup-tracker/internal/model"
	"github.com/unclebandit/followup-tracker/internal/repository"
)

type CampaignService struct {
	Options
	CampaignRepo repository.CampaignRepositoryInterface
	FollowUpRepo repository.FollowUpRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
	CompanyRepo  repository.CompanyRepositoryInterface
	LinkRepo     repository.CampaignContactRepositoryInterface
	SettingsRepo repository.SettingsRepositoryInterface
	// DefaultCadence applies to owners without an override; nil means followup.DefaultCadence.
	DefaultCadence *followup.Cadence
}

// ContactRef points at an existing contact, or describes a new one to create.
type ContactRef struct {
	ContactID string `json:"contact_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// FollowUpContent is the message text for one step. Empty fields fall back to
// the owner's default templates.
type FollowUpContent struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type CampaignInput struct {
	CompanyID          *string              `json:"company_id"`
	CompanyName        string               `json:"company_name"`
	Title              string               `json:"title"`
	InitialContactDate time.Time            `json:"initial_contact_date"`
	Status             model.CampaignStatus `json:"status"`
	Notes              string               `json:"notes"`
	Tags               []string             `json:"tags"`
	JobDescriptionURL  *string              `json:"job_description_url"`
	Contacts           []ContactRef         `json:"contacts"`
	FollowUps          [3]FollowUpContent   `json:"follow_ups"`
}

// CampaignResult is a saved campaign plus the non-fatal problems met on the way.
type CampaignResult struct {
	Campaign *model.Campaign `json:"campaign"`
	Warnings []string        `json:"warnings,omitempty"`
}

func (r *CampaignResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// BoardQuery selects and orders an owner's campaigns.
type BoardQuery struct {
	Sort         followup.SortMode
	Search       string
	IncludeNotes bool
}

func (in CampaignInput) validate(editing bool) error {
	if strings.TrimSpace(in.Title) == "" {
		return appErrors.NewValidation("title", "required")
	}
	if in.InitialContactDate.IsZero() {
		return appErrors.NewValidation("initial_contact_date", "required")
	}
	if (in.CompanyID == nil || *in.CompanyID == "") && strings.TrimSpace(in.CompanyName) == "" {
		return appErrors.NewValidation("company_name", "company id or name required")
	}
	if editing && !in.Status.Valid() {
		return appErrors.NewValidation("status", fmt.Sprintf("unknown status %q", in.Status))
	}
	for i, c := range in.Contacts {
		if c.ContactID == "" && (strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == "") {
			return appErrors.NewValidation(fmt.Sprintf("contacts[%d]", i), "contact id or name and email required")
		}
	}
	return nil
}

// CreateCampaign saves a new campaign in the Emailed state with three pending
// follow-ups from the owner's cadence. Contact links and follow-ups that fail
// to save are reported as warnings; the campaign itself is kept.
func (s *CampaignService) CreateCampaign(ctx context.Context, ownerID string, in CampaignInput) (*CampaignResult, error) {
	if ownerID == "" {
		return nil, appErrors.NewValidation("owner_id", "required")
	}
	if err := in.validate(false); err != nil {
		return nil, err
	}

	companyID, companyName, err := s.resolveCompany(ctx, ownerID, in.CompanyID, in.CompanyName)
	if err != nil {
		return nil, err
	}

	c := &model.Campaign{
		OwnerID:            ownerID,
		CompanyID:          companyID,
		CompanyNameCache:   companyName,
		Title:              strings.TrimSpace(in.Title),
		InitialContactDate: followup.StartOfDay(in.InitialContactDate, s.loc()),
		Status:             model.StatusEmailed,
		Notes:              in.Notes,
		Tags:               nonNilTags(in.Tags),
		JobDescriptionURL:  in.JobDescriptionURL,
	}

	stepCtx, cancel := s.step(ctx)
	err = s.CampaignRepo.Create(stepCtx, c)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("create", "campaign", err)
	}

	result := &CampaignResult{Campaign: c}
	s.linkContacts(ctx, result, in.Contacts)
	s.generateFollowUps(ctx, result, in.FollowUps)

	s.log().Info("campaign created",
		zap.String("campaign_id", c.ID),
		zap.Int("follow_ups", len(c.FollowUps)),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

// UpdateCampaign saves the edited fields, re-links contacts and replaces the
// follow-ups with a fresh pending batch. Sent history is discarded.
func (s *CampaignService) UpdateCampaign(ctx context.Context, ownerID, campaignID string, in CampaignInput) (*CampaignResult, error) {
	if ownerID == "" {
		return nil, appErrors.NewValidation("owner_id", "required")
	}
	if err := in.validate(true); err != nil {
		return nil, err
	}

	stepCtx, cancel := s.step(ctx)
	c, err := s.CampaignRepo.GetByID(stepCtx, ownerID, campaignID)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("get", "campaign", err)
	}

	companyID, companyName, err := s.resolveCompany(ctx, ownerID, in.CompanyID, in.CompanyName)
	if err != nil {
		return nil, err
	}

	c.CompanyID = companyID
	c.CompanyNameCache = companyName
	c.Title = strings.TrimSpace(in.Title)
	c.InitialContactDate = followup.StartOfDay(in.InitialContactDate, s.loc())
	c.Status = in.Status
	c.Notes = in.Notes
	c.JobDescriptionURL = in.JobDescriptionURL
	if in.Tags != nil {
		c.Tags = in.Tags
	}

	stepCtx, cancel = s.step(ctx)
	err = s.CampaignRepo.Update(stepCtx, c)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("update", "campaign", err)
	}

	stepCtx, cancel = s.step(ctx)
	err = s.LinkRepo.UnlinkAll(stepCtx, ownerID, c.ID)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("unlink", "campaign contacts", err)
	}

	result := &CampaignResult{Campaign: c}
	s.linkContacts(ctx, result, in.Contacts)

	stepCtx, cancel = s.step(ctx)
	err = s.FollowUpRepo.DeleteByCampaign(stepCtx, ownerID, c.ID)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("delete", "follow-up", err)
	}
	s.generateFollowUps(ctx, result, in.FollowUps)

	s.log().Info("campaign updated, follow-ups regenerated",
		zap.String("campaign_id", c.ID),
		zap.Int("follow_ups", len(c.FollowUps)))
	return result, nil
}

// DeleteCampaign removes contact links, follow-ups and then the campaign.
func (s *CampaignService) DeleteCampaign(ctx context.Context, ownerID, campaignID string) error {
	stepCtx, cancel := s.step(ctx)
	err := s.LinkRepo.UnlinkAll(stepCtx, ownerID, campaignID)
	cancel()
	if err != nil {
		s.log().Warn("could not delete contact links", zap.String("campaign_id", campaignID), zap.Error(err))
	}

	stepCtx, cancel = s.step(ctx)
	err = s.FollowUpRepo.DeleteByCampaign(stepCtx, ownerID, campaignID)
	cancel()
	if err != nil {
		return appErrors.NewStore("delete", "follow-up", err)
	}

	stepCtx, cancel = s.step(ctx)
	err = s.CampaignRepo.Delete(stepCtx, ownerID, campaignID)
	cancel()
	if err != nil {
		return appErrors.NewStore("delete", "campaign", err)
	}
	return nil
}

// GetCampaign returns one campaign with its follow-ups and contacts attached.
func (s *CampaignService) GetCampaign(ctx context.Context, ownerID, campaignID string) (*model.Campaign, error) {
	stepCtx, cancel := s.step(ctx)
	c, err := s.CampaignRepo.GetByID(stepCtx, ownerID, campaignID)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("get", "campaign", err)
	}

	stepCtx, cancel = s.step(ctx)
	fus, err := s.FollowUpRepo.ListByCampaign(stepCtx, ownerID, campaignID)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("list", "follow-up", err)
	}
	c.FollowUps = followup.OrderForDisplay(fus)

	stepCtx, cancel = s.step(ctx)
	links, err := s.LinkRepo.ListForOwner(stepCtx, ownerID)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("list", "campaign contacts", err)
	}
	c.Contacts = contactsByCampaign(links)[c.ID]
	return c, nil
}

// Board loads every campaign of the owner with its follow-ups and contacts,
// applies the search filter and orders the result for q.Sort.
func (s *CampaignService) Board(ctx context.Context, ownerID string, q BoardQuery) (followup.Board, error) {
	if ownerID == "" {
		return followup.Board{}, appErrors.NewValidation("owner_id", "required")
	}
	if q.Sort == "" {
		q.Sort = followup.SortNextDue
	}

	stepCtx, cancel := s.step(ctx)
	ptrs, err := s.CampaignRepo.List(stepCtx, ownerID)
	cancel()
	if err != nil {
		return followup.Board{}, appErrors.NewStore("list", "campaign", err)
	}

	stepCtx, cancel = s.step(ctx)
	fus, err := s.FollowUpRepo.ListByOwner(stepCtx, ownerID)
	cancel()
	if err != nil {
		return followup.Board{}, appErrors.NewStore("list", "follow-up", err)
	}

	stepCtx, cancel = s.step(ctx)
	links, err := s.LinkRepo.ListForOwner(stepCtx, ownerID)
	cancel()
	if err != nil {
		return followup.Board{}, appErrors.NewStore("list", "campaign contacts", err)
	}

	byCampaign := map[string][]model.FollowUp{}
	for _, fu := range fus {
		byCampaign[fu.CampaignID] = append(byCampaign[fu.CampaignID], fu)
	}
	contacts := contactsByCampaign(links)

	campaigns := make([]model.Campaign, 0, len(ptrs))
	for _, p := range ptrs {
		c := *p
		c.InitialContactDate = followup.StartOfDay(c.InitialContactDate, s.loc())
		c.FollowUps = followup.OrderForDisplay(byCampaign[c.ID])
		c.Contacts = contacts[c.ID]
		campaigns = append(campaigns, c)
	}

	campaigns = followup.Filter(campaigns, q.Search, q.IncludeNotes)
	return followup.Partition(campaigns, q.Sort, s.now(), s.loc()), nil
}

func (s *CampaignService) resolveCompany(ctx context.Context, ownerID string, companyID *string, name string) (*string, string, error) {
	if companyID != nil && *companyID != "" {
		stepCtx, cancel := s.step(ctx)
		company, err := s.CompanyRepo.GetByID(stepCtx, ownerID, *companyID)
		cancel()
		if err != nil {
			return nil, "", appErrors.NewStore("get", "company", err)
		}
		return &company.ID, company.Name, nil
	}

	name = strings.TrimSpace(name)
	stepCtx, cancel := s.step(ctx)
	company, err := s.CompanyRepo.FindByName(stepCtx, ownerID, name)
	cancel()
	if err != nil {
		return nil, "", appErrors.NewStore("find", "company", err)
	}
	if company == nil {
		company = &model.Company{OwnerID: ownerID, Name: name}
		stepCtx, cancel = s.step(ctx)
		err = s.CompanyRepo.Create(stepCtx, company)
		cancel()
		if err != nil {
			return nil, "", appErrors.NewStore("create", "company", err)
		}
	}
	return &company.ID, company.Name, nil
}

func (s *CampaignService) linkContacts(ctx context.Context, result *CampaignResult, refs []ContactRef) {
	c := result.Campaign
	c.Contacts = nil
	for _, ref := range refs {
		contactID := ref.ContactID
		name, email := ref.Name, ref.Email
		if contactID == "" {
			contact := &model.Contact{
				OwnerID:          c.OwnerID,
				Name:             strings.TrimSpace(ref.Name),
				Email:            strings.TrimSpace(ref.Email),
				CompanyID:        c.CompanyID,
				CompanyNameCache: c.CompanyNameCache,
			}
			stepCtx, cancel := s.step(ctx)
			err := s.ContactRepo.Create(stepCtx, contact)
			cancel()
			if err != nil {
				result.warn("could not create contact %s: %v", ref.Name, err)
				continue
			}
			contactID = contact.ID
		}

		stepCtx, cancel := s.step(ctx)
		err := s.LinkRepo.Link(stepCtx, model.CampaignContact{CampaignID: c.ID, ContactID: contactID, OwnerID: c.OwnerID})
		cancel()
		if err != nil {
			result.warn("could not link contact %s: %v", contactID, err)
			continue
		}
		c.Contacts = append(c.Contacts, model.AssociatedContact{ContactID: contactID, Name: name, Email: email})
	}
}

func (s *CampaignService) generateFollowUps(ctx context.Context, result *CampaignResult, content [3]FollowUpContent) {
	c := result.Campaign

	stepCtx, cancel := s.step(ctx)
	settings, err := s.SettingsRepo.Get(stepCtx, c.OwnerID)
	cancel()
	if err != nil {
		s.log().Warn("could not load owner settings, using default cadence", zap.String("owner_id", c.OwnerID), zap.Error(err))
	}

	cadence := followup.ResolveCadence(settings, s.cadence())
	fus := followup.Generate(c.InitialContactDate, cadence, s.loc())

	var templates model.DefaultTemplates
	if settings != nil {
		templates = settings.DefaultTemplates
	}
	for i := range fus {
		fus[i].CampaignID = c.ID
		fus[i].OwnerID = c.OwnerID
		fus[i].EmailSubject, fus[i].EmailBody = stepContent(content[i], templates.Step(i), c)
	}

	stepCtx, cancel = s.step(ctx)
	saved, err := s.FollowUpRepo.CreateBatch(stepCtx, fus)
	cancel()
	if err != nil {
		result.warn("campaign saved, but follow-ups had an issue: %v", err)
		s.log().Warn("follow-up batch failed", zap.String("campaign_id", c.ID), zap.Error(err))
		return
	}
	c.FollowUps = saved
}

func (s *CampaignService) cadence() followup.Cadence {
	if s.DefaultCadence == nil {
		return followup.DefaultCadence
	}
	return *s.DefaultCadence
}

func contactsByCampaign(links []model.CampaignContact) map[string][]model.AssociatedContact {
	out := map[string][]model.AssociatedContact{}
	for _, l := range links {
		out[l.CampaignID] = append(out[l.CampaignID], model.AssociatedContact{
			ContactID: l.ContactID,
			Name:      l.Name,
			Email:     l.Email,
		})
	}
	return out
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
