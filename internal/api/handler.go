package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"ad-decision-engine/internal/analytics"
	"ad-decision-engine/internal/decision"
	"ad-decision-engine/internal/observability"
	"ad-decision-engine/internal/render"
	"ad-decision-engine/internal/signals"
	"ad-decision-engine/internal/storage"
)

// Store is the campaign/analytics persistence the handlers depend on.
type Store interface {
	GetCampaign(ctx context.Context, id string) (decision.Campaign, error)
	CampaignStats(ctx context.Context, campaignID string, days int) (analytics.CampaignStats, error)
	LookupAPIKey(ctx context.Context, keyHash string) (storage.APIKey, error)
}

// Tracker receives fire-and-forget analytics events.
type Tracker interface {
	TrackImpression(analytics.Impression)
	TrackClick(analytics.Click)
}

type Handler struct {
	store     Store
	collector *signals.Collector
	selector  *decision.Selector
	sink      Tracker
	now       func() time.Time
}

func NewHandler(store Store, collector *signals.Collector, selector *decision.Selector, sink Tracker) *Handler {
	return &Handler{
		store:     store,
		collector: collector,
		selector:  selector,
		sink:      sink,
		now:       time.Now,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (decision.Campaign, bool) {
	id := chi.URLParam(r, "campaignID")
	campaign, err := h.store.GetCampaign(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "campaign not found")
		return decision.Campaign{}, false
	}
	if err != nil {
		log.Error().Err(err).Str("campaign_id", id).Msg("load campaign")
		writeError(w, http.StatusInternalServerError, "internal error")
		return decision.Campaign{}, false
	}
	return campaign, true
}

// ServeAd decides and renders one creative for the campaign.
func (h *Handler) ServeAd(w http.ResponseWriter, r *http.Request) {
	campaign, ok := h.load(w, r)
	if !ok {
		return
	}
	if !campaign.Servable(h.now().UTC()) {
		writeError(w, http.StatusNotFound, "campaign not available")
		return
	}

	sig := h.collector.Collect(r)
	variant := h.selector.Select(campaign, sig)
	if variant == nil {
		writeError(w, http.StatusNotFound, "no variant available")
		return
	}

	mode := campaign.ABTestMode
	if mode == "" {
		mode = decision.ModeOff
	}
	observability.SelectionsTotal.WithLabelValues(string(mode)).Inc()

	clickURL := "/analytics/click/" + campaign.ID + "/" + variant.ID + "?url=" + url.QueryEscape(variant.CTAURL)

	q := r.URL.Query()
	if q.Get("track") != "false" && h.sink != nil {
		ip, _ := sig[signals.KeyIP].(string)
		h.sink.TrackImpression(analytics.Impression{
			CampaignID: campaign.ID,
			VariantID:  variant.ID,
			Signals:    sig,
			IPAddress:  ip,
		})
	}

	if q.Get("format") == "json" {
		writeJSON(w, http.StatusOK, map[string]any{
			"variant":   variant,
			"signals":   sig,
			"click_url": clickURL,
		})
		return
	}

	h.renderAd(w, r, campaign, *variant, clickURL)
}

func (h *Handler) renderAd(w http.ResponseWriter, r *http.Request, campaign decision.Campaign, v decision.Variant, clickURL string) {
	q := r.URL.Query()
	name := q.Get("template")
	if name == "" {
		name = campaign.Template
	}
	width, _ := strconv.Atoi(q.Get("width"))
	height, _ := strconv.Atoi(q.Get("height"))

	html, err := render.Ad(v, name, render.Params{Width: width, Height: height, ClickURL: clickURL})
	if err != nil {
		log.Error().Err(err).Str("template", name).Msg("render")
		writeError(w, http.StatusInternalServerError, "render error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// PreviewAd renders a specific (or the first) variant without signals or
// tracking. Draft campaigns are previewable.
func (h *Handler) PreviewAd(w http.ResponseWriter, r *http.Request) {
	campaign, ok := h.load(w, r)
	if !ok {
		return
	}

	var variant *decision.Variant
	if want := r.URL.Query().Get("variant_id"); want != "" {
		for i := range campaign.Variants {
			if campaign.Variants[i].ID == want {
				variant = &campaign.Variants[i]
				break
			}
		}
		if variant == nil {
			writeError(w, http.StatusNotFound, "variant not found")
			return
		}
	} else {
		if len(campaign.Variants) == 0 {
			writeError(w, http.StatusNotFound, "no variant available")
			return
		}
		variant = &campaign.Variants[0]
	}

	h.renderAd(w, r, campaign, *variant, "")
}

// DebugAd reports signals, the selected variant, and decision timing.
func (h *Handler) DebugAd(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	campaign, ok := h.load(w, r)
	if !ok {
		return
	}

	sig := h.collector.Collect(r)
	variant := h.selector.Select(campaign, sig)

	writeJSON(w, http.StatusOK, map[string]any{
		"campaign_id":      campaign.ID,
		"ab_test_mode":     campaign.ABTestMode,
		"signals":          sig,
		"selected_variant": variant,
		"total_variants":   len(campaign.Variants),
		"total_rules":      len(campaign.Rules),
		"timing_ms":        float64(time.Since(start).Microseconds()) / 1000,
	})
}

// SimulateAd collects real signals, overrides them from signal_* query
// params, and reports the resulting selection without tracking.
func (h *Handler) SimulateAd(w http.ResponseWriter, r *http.Request) {
	campaign, ok := h.load(w, r)
	if !ok {
		return
	}

	sig := h.collector.Collect(r)
	for key, vals := range r.URL.Query() {
		if !strings.HasPrefix(key, "signal_") || len(vals) == 0 {
			continue
		}
		sig[strings.TrimPrefix(key, "signal_")] = coerceSignal(vals[0])
	}

	variant := h.selector.Select(campaign, sig)
	writeJSON(w, http.StatusOK, map[string]any{
		"signals":          sig,
		"selected_variant": variant,
	})
}

// coerceSignal parses an override into bool, int, float64, or string.
func coerceSignal(v string) any {
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

// Templates lists the renderer's template names.
func (h *Handler) Templates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": render.Names})
}

// ClickRedirect records a click best-effort and redirects to the
// click-through URL.
func (h *Handler) ClickRedirect(w http.ResponseWriter, r *http.Request) {
	if h.sink != nil {
		h.sink.TrackClick(analytics.Click{
			CampaignID: chi.URLParam(r, "campaignID"),
			VariantID:  chi.URLParam(r, "variantID"),
			IPAddress:  signals.ClientIP(r),
		})
	}
	target := r.URL.Query().Get("url")
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// TrackImpression accepts an out-of-band impression event.
func (h *Handler) TrackImpression(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CampaignID string      `json:"campaign_id"`
		VariantID  string      `json:"variant_id"`
		Signals    signals.Map `json:"signals"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.CampaignID == "" || body.VariantID == "" {
		writeError(w, http.StatusBadRequest, "invalid impression event")
		return
	}
	if h.sink != nil {
		h.sink.TrackImpression(analytics.Impression{
			CampaignID: body.CampaignID,
			VariantID:  body.VariantID,
			Signals:    body.Signals,
			IPAddress:  signals.ClientIP(r),
		})
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CampaignStats returns the aggregated impression/click report.
func (h *Handler) CampaignStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "campaignID")
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 7
	}
	stats, err := h.store.CampaignStats(r.Context(), id, days)
	if err != nil {
		log.Error().Err(err).Str("campaign_id", id).Msg("campaign stats")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
