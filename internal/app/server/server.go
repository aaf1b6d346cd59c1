package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"ad-decision-engine/internal/analytics"
	"ad-decision-engine/internal/api"
	"ad-decision-engine/internal/config"
	"ad-decision-engine/internal/decision"
	"ad-decision-engine/internal/listener"
	"ad-decision-engine/internal/resilience"
	"ad-decision-engine/internal/signals"
	"ad-decision-engine/internal/storage"
)

func Run(cfg config.Config) {
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	store, err := storage.New(rootCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init storage")
	}
	defer store.Close()

	// Analytics sink
	sink := analytics.NewSink(store, cfg.Analytics.QueueSize)
	go sink.Run(rootCtx)

	// Signal enrichment
	client := &http.Client{Timeout: cfg.ProviderTimeout()}
	geo := signals.NewGeoResolver(cfg.Providers.GeoURL, client, resilience.Options{
		Threshold: cfg.Providers.BreakerThreshold,
		Cooldown:  cfg.BreakerCooldown(),
		TTL:       cfg.GeoTTL(),
	})
	weather := signals.NewWeatherResolver(cfg.Providers.WeatherURL, client, resilience.Options{
		Threshold: cfg.Providers.BreakerThreshold,
		Cooldown:  cfg.BreakerCooldown(),
		TTL:       cfg.WeatherTTL(),
	})
	collector := signals.NewCollector(geo, weather)

	// HTTP
	h := api.NewHandler(store, collector, decision.NewSelector(), sink)
	r := api.Router(h)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Campaign cache invalidation (LISTEN/NOTIFY)
	go listener.ListenAndInvalidate(rootCtx, store, cfg.Listener.Channel, cfg.Backoff())

	// Server goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server crashed")
		}
	}()

	// Wait for signal
	waitForSignal()
	log.Info().Msg("shutdown...")

	// Graceful shutdown
	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	cancel() // stop background goroutines
	_ = srv.Shutdown(shCtx)
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
