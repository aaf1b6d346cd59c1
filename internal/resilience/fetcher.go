// Package resilience wraps outbound provider calls with a per-service
// circuit breaker and a per-key TTL cache. Enrichment failures are collapsed
// into ErrUnavailable so callers can degrade without inspecting causes.
package resilience

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"ad-decision-engine/internal/observability"
)

// ErrUnavailable is returned for any producer failure, timeout, or open circuit.
var ErrUnavailable = errors.New("upstream unavailable")

// Options tunes one Fetcher instance.
type Options struct {
	// Threshold is the consecutive-failure count that opens the circuit.
	Threshold int
	// Cooldown is how long the circuit stays open before one trial call.
	Cooldown time.Duration
	// TTL bounds cached value lifetime.
	TTL time.Duration
}

// Fetcher is instantiated once per upstream service ("geo", "weather") and
// shared across concurrent requests. Cache and breaker state are the only
// mutable pieces; both are internally synchronized.
type Fetcher[T any] struct {
	service string
	cache   *gocache.Cache
	breaker *gobreaker.CircuitBreaker[T]
}

func NewFetcher[T any](service string, opts Options) *Fetcher[T] {
	if opts.Threshold <= 0 {
		opts.Threshold = 3
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 30 * time.Second
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	settings := gobreaker.Settings{
		Name:        service,
		MaxRequests: 1, // single half-open trial
		Timeout:     opts.Cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(opts.Threshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("service", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state change")
		},
	}
	return &Fetcher[T]{
		service: service,
		cache:   gocache.New(opts.TTL, 2*opts.TTL),
		breaker: gobreaker.NewCircuitBreaker[T](settings),
	}
}

// Fetch returns the cached value for key when fresh, otherwise invokes
// producer at most once through the circuit breaker. An open circuit
// short-circuits before the cache is consulted, mirroring the breaker-first
// check in the serving path this replaces.
func (f *Fetcher[T]) Fetch(ctx context.Context, key string, producer func(context.Context) (T, error)) (T, error) {
	var zero T
	if f.breaker.State() == gobreaker.StateOpen {
		observability.ProviderFetches.WithLabelValues(f.service, "open").Inc()
		return zero, ErrUnavailable
	}

	if v, ok := f.cache.Get(key); ok {
		observability.ProviderFetches.WithLabelValues(f.service, "hit").Inc()
		return v.(T), nil
	}

	v, err := f.breaker.Execute(func() (T, error) {
		return producer(ctx)
	})
	if err != nil {
		observability.ProviderFetches.WithLabelValues(f.service, "error").Inc()
		log.Debug().Err(err).Str("service", f.service).Str("key", key).Msg("producer failed")
		return zero, ErrUnavailable
	}

	f.cache.Set(key, v, gocache.DefaultExpiration)
	observability.ProviderFetches.WithLabelValues(f.service, "fetch").Inc()
	return v, nil
}
