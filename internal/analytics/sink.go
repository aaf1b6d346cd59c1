// Package analytics records impressions and clicks off the serving path.
// Writes are best-effort: a full queue drops the event and serving never
// waits on the sink.
package analytics

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"ad-decision-engine/internal/observability"
	"ad-decision-engine/internal/signals"
)

// Impression is one ad serve, with the signal mapping it was decided on.
type Impression struct {
	CampaignID string
	VariantID  string
	Signals    signals.Map
	IPAddress  string
}

// Click is one click-through.
type Click struct {
	CampaignID string
	VariantID  string
	IPAddress  string
}

// EventWriter persists analytics events.
type EventWriter interface {
	InsertImpression(ctx context.Context, imp Impression) error
	InsertClick(ctx context.Context, c Click) error
}

type event struct {
	impression *Impression
	click      *Click
}

// Sink queues events on a bounded channel and writes them from a single
// background worker.
type Sink struct {
	writer EventWriter
	events chan event
}

func NewSink(w EventWriter, queueSize int) *Sink {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Sink{writer: w, events: make(chan event, queueSize)}
}

// Run drains the queue until ctx is cancelled. Call on its own goroutine.
func (s *Sink) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("analytics sink stopped")
			return
		case ev := <-s.events:
			s.write(ev)
		}
	}
}

func (s *Sink) write(ev event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch {
	case ev.impression != nil:
		if err := s.writer.InsertImpression(ctx, *ev.impression); err != nil {
			observability.AnalyticsEvents.WithLabelValues("impression", "error").Inc()
			log.Error().Err(err).Str("campaign_id", ev.impression.CampaignID).Msg("impression write failed")
			return
		}
		observability.AnalyticsEvents.WithLabelValues("impression", "written").Inc()
	case ev.click != nil:
		if err := s.writer.InsertClick(ctx, *ev.click); err != nil {
			observability.AnalyticsEvents.WithLabelValues("click", "error").Inc()
			log.Error().Err(err).Str("campaign_id", ev.click.CampaignID).Msg("click write failed")
			return
		}
		observability.AnalyticsEvents.WithLabelValues("click", "written").Inc()
	}
}

// TrackImpression enqueues an impression; drops it when the queue is full.
func (s *Sink) TrackImpression(imp Impression) {
	select {
	case s.events <- event{impression: &imp}:
	default:
		observability.AnalyticsEvents.WithLabelValues("impression", "dropped").Inc()
	}
}

// TrackClick enqueues a click; drops it when the queue is full.
func (s *Sink) TrackClick(c Click) {
	select {
	case s.events <- event{click: &c}:
	default:
		observability.AnalyticsEvents.WithLabelValues("click", "dropped").Inc()
	}
}
