package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"ad-decision-engine/internal/resilience"
)

const (
	hotThreshold  = 30.0
	coldThreshold = 5.0
)

// WeatherResult is the current weather at a coordinate.
type WeatherResult struct {
	Temp      float64
	Code      int
	Condition string
}

func (w WeatherResult) IsHot() bool  { return w.Temp >= hotThreshold }
func (w WeatherResult) IsCold() bool { return w.Temp <= coldThreshold }

// WeatherSource resolves a coordinate to current weather.
type WeatherSource interface {
	Resolve(ctx context.Context, lat, lon float64) (WeatherResult, error)
}

// WeatherResolver queries an open-meteo-shaped endpoint through a resilient
// fetcher keyed by the coordinate rounded to two decimal places.
type WeatherResolver struct {
	baseURL string
	client  *http.Client
	fetcher *resilience.Fetcher[WeatherResult]
}

func NewWeatherResolver(baseURL string, client *http.Client, opts resilience.Options) *WeatherResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &WeatherResolver{
		baseURL: baseURL,
		client:  client,
		fetcher: resilience.NewFetcher[WeatherResult]("weather", opts),
	}
}

func (w *WeatherResolver) Resolve(ctx context.Context, lat, lon float64) (WeatherResult, error) {
	key := fmt.Sprintf("%.2f,%.2f", lat, lon)
	return w.fetcher.Fetch(ctx, key, func(ctx context.Context) (WeatherResult, error) {
		return w.lookup(ctx, lat, lon)
	})
}

type weatherResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

func (w *WeatherResolver) lookup(ctx context.Context, lat, lon float64) (WeatherResult, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.2f", lat))
	q.Set("longitude", fmt.Sprintf("%.2f", lon))
	q.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return WeatherResult{}, err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return WeatherResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WeatherResult{}, fmt.Errorf("weather lookup status %d", resp.StatusCode)
	}
	var body weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return WeatherResult{}, fmt.Errorf("decode weather response: %w", err)
	}
	cw := body.CurrentWeather
	return WeatherResult{
		Temp:      cw.Temperature,
		Code:      cw.WeatherCode,
		Condition: Condition(cw.WeatherCode),
	}, nil
}

// Condition maps a WMO weather code to the condition vocabulary. Ranges are
// ordered and inclusive of their upper bound.
func Condition(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code >= 1 && code <= 3:
		return "cloudy"
	case code >= 4 && code <= 49:
		return "foggy"
	case code >= 50 && code <= 69:
		return "rainy"
	case code >= 70 && code <= 79:
		return "snowy"
	case code >= 80 && code <= 99:
		return "stormy"
	default:
		return "unknown"
	}
}
