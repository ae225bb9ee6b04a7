package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/unclebandit/followup-tracker/internal/handler"
)

// Controllers groups everything NewRouter mounts.
type Controllers struct {
	Campaigns *CampaignController
	FollowUps *FollowUpController
	Directory *DirectoryController
	Settings  *SettingsController
}

func NewRouter(c Controllers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		handler.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(handler.RequireOwner)

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", c.Campaigns.ListCampaigns)
			r.Post("/", c.Campaigns.CreateCampaign)
			r.Get("/{id}", c.Campaigns.GetCampaign)
			r.Put("/{id}", c.Campaigns.UpdateCampaign)
			r.Delete("/{id}", c.Campaigns.DeleteCampaign)
			r.Post("/{id}/follow-ups/{followUpID}/log", c.FollowUps.Log)
			r.Post("/{id}/follow-ups/{followUpID}/unlog", c.FollowUps.Unlog)
		})

		r.Get("/contacts", c.Directory.ListContacts)
		r.Post("/contacts", c.Directory.CreateContact)
		r.Delete("/contacts/{id}", c.Directory.DeleteContact)

		r.Get("/companies", c.Directory.ListCompanies)
		r.Post("/companies", c.Directory.CreateCompany)
		r.Delete("/companies/{id}", c.Directory.DeleteCompany)

		r.Get("/settings", c.Settings.GetSettings)
		r.Put("/settings", c.Settings.UpdateSettings)
	})
	return r
}
