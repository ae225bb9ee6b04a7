package service

import (
	"context"
	"net/mail"
	"strings"

	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
	"github.com/unclebandit/followup-tracker/internal/model"
	"github.com/unclebandit/followup-tracker/internal/repository"
)

// DirectoryService manages the owner's contacts and companies.
type DirectoryService struct {
	Options
	ContactRepo repository.ContactRepositoryInterface
	CompanyRepo repository.CompanyRepositoryInterface
}

func (s *DirectoryService) ListContacts(ctx context.Context, ownerID string) ([]model.Contact, error) {
	stepCtx, cancel := s.step(ctx)
	defer cancel()
	contacts, err := s.ContactRepo.List(stepCtx, ownerID)
	return contacts, appErrors.NewStore("list", "contact", err)
}

// CreateContact saves c. A company given by name is found or created first.
func (s *DirectoryService) CreateContact(ctx context.Context, ownerID string, c model.Contact) (*model.Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" {
		return nil, appErrors.NewValidation("name", "required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return nil, appErrors.NewValidation("email", "not a valid address")
	}
	c.OwnerID = ownerID

	if c.CompanyID == nil && strings.TrimSpace(c.CompanyNameCache) != "" {
		company, err := s.findOrCreateCompany(ctx, ownerID, c.CompanyNameCache)
		if err != nil {
			return nil, err
		}
		c.CompanyID = &company.ID
		c.CompanyNameCache = company.Name
	}

	stepCtx, cancel := s.step(ctx)
	defer cancel()
	if err := s.ContactRepo.Create(stepCtx, &c); err != nil {
		return nil, appErrors.NewStore("create", "contact", err)
	}
	return &c, nil
}

func (s *DirectoryService) DeleteContact(ctx context.Context, ownerID, id string) error {
	stepCtx, cancel := s.step(ctx)
	defer cancel()
	return appErrors.NewStore("delete", "contact", s.ContactRepo.Delete(stepCtx, ownerID, id))
}

func (s *DirectoryService) ListCompanies(ctx context.Context, ownerID string) ([]model.Company, error) {
	stepCtx, cancel := s.step(ctx)
	defer cancel()
	companies, err := s.CompanyRepo.List(stepCtx, ownerID)
	return companies, appErrors.NewStore("list", "company", err)
}

func (s *DirectoryService) CreateCompany(ctx context.Context, ownerID string, c model.Company) (*model.Company, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, appErrors.NewValidation("name", "required")
	}
	c.OwnerID = ownerID

	stepCtx, cancel := s.step(ctx)
	defer cancel()
	if err := s.CompanyRepo.Create(stepCtx, &c); err != nil {
		return nil, appErrors.NewStore("create", "company", err)
	}
	return &c, nil
}

func (s *DirectoryService) DeleteCompany(ctx context.Context, ownerID, id string) error {
	stepCtx, cancel := s.step(ctx)
	defer cancel()
	return appErrors.NewStore("delete", "company", s.CompanyRepo.Delete(stepCtx, ownerID, id))
}

func (s *DirectoryService) findOrCreateCompany(ctx context.Context, ownerID, name string) (*model.Company, error) {
	name = strings.TrimSpace(name)
	stepCtx, cancel := s.step(ctx)
	existing, err := s.CompanyRepo.FindByName(stepCtx, ownerID, name)
	cancel()
	if err != nil {
		return nil, appErrors.NewStore("find", "company", err)
	}
	if existing != nil {
		return existing, nil
	}
	return s.CreateCompany(ctx, ownerID, model.Company{Name: name})
}
