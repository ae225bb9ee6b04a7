package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/followup-tracker/internal/handler"
	"github.com/unclebandit/followup-tracker/internal/model"
	"github.com/unclebandit/followup-tracker/internal/service"
)

// Directory is implemented by *service.DirectoryService.
type Directory interface {
	ListContacts(ctx context.Context, ownerID string) ([]model.Contact, error)
	CreateContact(ctx context.Context, ownerID string, c model.Contact) (*model.Contact, error)
	DeleteContact(ctx context.Context, ownerID, id string) error
	ListCompanies(ctx context.Context, ownerID string) ([]model.Company, error)
	CreateCompany(ctx context.Context, ownerID string, c model.Company) (*model.Company, error)
	DeleteCompany(ctx context.Context, ownerID, id string) error
}

var _ Directory = (*service.DirectoryService)(nil)

type DirectoryController struct {
	DirectoryService Directory
	Logger           *zap.Logger
}

func (c *DirectoryController) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := c.DirectoryService.ListContacts(r.Context(), handler.OwnerID(r.Context()))
	if err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, contacts)
}

func (c *DirectoryController) CreateContact(w http.ResponseWriter, r *http.Request) {
	var body model.Contact
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	contact, err := c.DirectoryService.CreateContact(r.Context(), handler.OwnerID(r.Context()), body)
	if err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, contact)
}

func (c *DirectoryController) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := c.DirectoryService.DeleteContact(r.Context(), handler.OwnerID(r.Context()), chi.URLParam(r, "id")); err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *DirectoryController) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := c.DirectoryService.ListCompanies(r.Context(), handler.OwnerID(r.Context()))
	if err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, companies)
}

func (c *DirectoryController) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var body model.Company
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	company, err := c.DirectoryService.CreateCompany(r.Context(), handler.OwnerID(r.Context()), body)
	if err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, company)
}

func (c *DirectoryController) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := c.DirectoryService.DeleteCompany(r.Context(), handler.OwnerID(r.Context()), chi.URLParam(r, "id")); err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
