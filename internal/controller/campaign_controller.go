// internal/controller/campaign_controller.go
package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/followup-tracker/internal/followup"
	"github.com/unclebandit/followup-tracker/internal/handler"
	"github.com/unclebandit/followup-tracker/internal/model"
	"github.com/unclebandit/followup-tracker/internal/service"
)

// CampaignManager is implemented by *service.CampaignService.
type CampaignManager interface {
	Board(ctx context.Context, ownerID string, q service.BoardQuery) (followup.Board, error)
	CreateCampaign(ctx context.Context, ownerID string, in service.CampaignInput) (*service.CampaignResult, error)
	GetCampaign(ctx context.Context, ownerID, campaignID string) (*model.Campaign, error)
	UpdateCampaign(ctx context.Context, ownerID, campaignID string, in service.CampaignInput) (*service.CampaignResult, error)
	DeleteCampaign(ctx context.Context, ownerID, campaignID string) error
}

var _ CampaignManager = (*service.CampaignService)(nil)

type CampaignController struct {
	CampaignService CampaignManager
	Logger          *zap.Logger
}

// ListCampaigns returns the owner's board. Query: sort, q, notes=true.
func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	sort, err := followup.ParseSortMode(r.URL.Query().Get("sort"))
	if err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}

	board, err := c.CampaignService.Board(r.Context(), handler.OwnerID(r.Context()), service.BoardQuery{
		Sort:         sort,
		Search:       r.URL.Query().Get("q"),
		IncludeNotes: r.URL.Query().Get("notes") == "true",
	})
	if err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, board)
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body service.CampaignInput
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}

	result, err := c.CampaignService.CreateCampaign(r.Context(), handler.OwnerID(r.Context()), body)
	if err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, result)
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := c.CampaignService.GetCampaign(r.Context(), handler.OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, campaign)
}

// UpdateCampaign saves the edit and regenerates the campaign's follow-ups.
func (c *CampaignController) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var body service.CampaignInput
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}

	result, err := c.CampaignService.UpdateCampaign(r.Context(), handler.OwnerID(r.Context()), chi.URLParam(r, "id"), body)
	if err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, result)
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := c.CampaignService.DeleteCampaign(r.Context(), handler.OwnerID(r.Context()), chi.URLParam(r, "id")); err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
