package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/followup-tracker/internal/handler"
	"github.com/unclebandit/followup-tracker/internal/service"
)

// FollowUpLogger is implemented by *service.FollowUpService.
type FollowUpLogger interface {
	LogFollowUp(ctx context.Context, ownerID, followUpID, campaignID string) (*service.FollowUpResult, error)
	UnlogFollowUp(ctx context.Context, ownerID, followUpID, campaignID string) (*service.FollowUpResult, error)
}

var _ FollowUpLogger = (*service.FollowUpService)(nil)

type FollowUpController struct {
	FollowUpService FollowUpLogger
	Logger          *zap.Logger
}

type followUpResponse struct {
	*service.FollowUpResult
	Warning string `json:"warning,omitempty"`
}

func (c *FollowUpController) Log(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, c.FollowUpService.LogFollowUp)
}

func (c *FollowUpController) Unlog(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, c.FollowUpService.UnlogFollowUp)
}

func (c *FollowUpController) respond(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, ownerID, followUpID, campaignID string) (*service.FollowUpResult, error)) {
	result, err := op(r.Context(), handler.OwnerID(r.Context()), chi.URLParam(r, "followUpID"), chi.URLParam(r, "id"))
	if err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}

	resp := followUpResponse{FollowUpResult: result}
	if result.Warning != nil {
		resp.Warning = "follow-up saved, but the campaign status could not be updated: " + result.Warning.Error()
	}
	handler.WriteJSON(w, http.StatusOK, resp)
}
