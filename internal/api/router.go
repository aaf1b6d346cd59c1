package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ad-decision-engine/internal/observability"
)

func Router(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(observability.Measure)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Serving may wait on two 5s provider calls before the breakers open.
	r.Use(middleware.Timeout(12 * time.Second))

	r.Get("/ad/templates", h.Templates)
	r.Get("/ad/{campaignID}", h.ServeAd)
	r.Get("/ad/{campaignID}/preview", h.PreviewAd)
	r.Get("/ad/{campaignID}/debug", h.DebugAd)
	r.Get("/ad/{campaignID}/simulate", h.SimulateAd)

	r.Get("/analytics/click/{campaignID}/{variantID}", h.ClickRedirect)
	r.Post("/analytics/impression", h.TrackImpression)
	r.With(h.RequireAPIKey).Get("/analytics/campaigns/{campaignID}/stats", h.CampaignStats)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", observability.MetricsHandler())
	return r
}
