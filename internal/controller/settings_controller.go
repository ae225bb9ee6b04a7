package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/followup-tracker/internal/handler"
	"github.com/unclebandit/followup-tracker/internal/service"
)

// SettingsStore is implemented by *service.SettingsService.
type SettingsStore interface {
	GetSettings(ctx context.Context, ownerID string) (*service.EffectiveSettings, error)
	UpdateSettings(ctx context.Context, ownerID string, in service.SettingsInput) (*service.EffectiveSettings, error)
}

var _ SettingsStore = (*service.SettingsService)(nil)

type SettingsController struct {
	SettingsService SettingsStore
	Logger          *zap.Logger
}

func (c *SettingsController) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := c.SettingsService.GetSettings(r.Context(), handler.OwnerID(r.Context()))
	if err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, settings)
}

func (c *SettingsController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body service.SettingsInput
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	settings, err := c.SettingsService.UpdateSettings(r.Context(), handler.OwnerID(r.Context()), body)
	if err != nil {
		handler.WriteError(w, r, c.Logger, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, settings)
}
