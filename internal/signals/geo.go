package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ad-decision-engine/internal/resilience"
)

// GeoResult is coarse geography for a client address.
type GeoResult struct {
	Country  string
	Region   string
	City     string
	Lat      float64
	Lon      float64
	Timezone string
}

// GeoSource resolves a client network address to geography.
type GeoSource interface {
	Resolve(ctx context.Context, ip string) (GeoResult, error)
}

// GeoResolver queries an ip-api-shaped endpoint through a resilient fetcher
// keyed by client address.
type GeoResolver struct {
	baseURL string
	client  *http.Client
	fetcher *resilience.Fetcher[GeoResult]
}

func NewGeoResolver(baseURL string, client *http.Client, opts resilience.Options) *GeoResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &GeoResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		fetcher: resilience.NewFetcher[GeoResult]("geo", opts),
	}
}

func (g *GeoResolver) Resolve(ctx context.Context, ip string) (GeoResult, error) {
	return g.fetcher.Fetch(ctx, ip, func(ctx context.Context) (GeoResult, error) {
		return g.lookup(ctx, ip)
	})
}

type geoResponse struct {
	Status     string  `json:"status"`
	Country    string  `json:"country"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Timezone   string  `json:"timezone"`
}

func (g *GeoResolver) lookup(ctx context.Context, ip string) (GeoResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/"+ip, nil)
	if err != nil {
		return GeoResult{}, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return GeoResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GeoResult{}, fmt.Errorf("geo lookup status %d", resp.StatusCode)
	}
	var body geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return GeoResult{}, fmt.Errorf("decode geo response: %w", err)
	}
	if body.Status != "success" {
		return GeoResult{}, fmt.Errorf("geo lookup failed for %s", ip)
	}
	return GeoResult{
		Country:  body.Country,
		Region:   body.RegionName,
		City:     body.City,
		Lat:      body.Lat,
		Lon:      body.Lon,
		Timezone: body.Timezone,
	}, nil
}
