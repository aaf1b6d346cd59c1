package signals

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ad-decision-engine/internal/resilience"
)

type stubGeo struct {
	res GeoResult
	err error
}

func (s stubGeo) Resolve(context.Context, string) (GeoResult, error) { return s.res, s.err }

type stubWeather struct {
	res    WeatherResult
	err    error
	called bool
}

func (s *stubWeather) Resolve(context.Context, float64, float64) (WeatherResult, error) {
	s.called = true
	return s.res, s.err
}

func fixedClock(hour int) func() time.Time {
	// 2026-08-31 is a Monday.
	return func() time.Time { return time.Date(2026, 8, 31, hour, 30, 0, 0, time.UTC) }
}

func TestCollect_AllSignals(t *testing.T) {
	geo := stubGeo{res: GeoResult{
		Country: "Germany", Region: "Berlin", City: "Berlin",
		Lat: 52.52, Lon: 13.41, Timezone: "Europe/Berlin",
	}}
	weather := &stubWeather{res: WeatherResult{Temp: 21.5, Code: 61, Condition: "rainy"}}
	c := NewCollector(geo, weather).WithClock(fixedClock(14))

	r := httptest.NewRequest("GET", "/ad/c1", nil)
	r.RemoteAddr = "203.0.113.9:4242"
	r.Header.Set("User-Agent", "test-agent")
	r.Header.Set("Referer", "https://example.com")

	sig := c.Collect(r)

	assert.Equal(t, "203.0.113.9", sig[KeyIP])
	assert.Equal(t, "test-agent", sig[KeyUserAgent])
	assert.Equal(t, "https://example.com", sig[KeyReferer])

	assert.Equal(t, "Germany", sig[KeyGeoCountry])
	assert.Equal(t, 52.52, sig[KeyGeoLat])
	assert.Equal(t, "Europe/Berlin", sig[KeyGeoTimezone])

	assert.True(t, weather.called)
	assert.Equal(t, "rainy", sig[KeyWeatherCondition])
	assert.Equal(t, 61, sig[KeyWeatherCode])
	assert.Equal(t, false, sig[KeyWeatherIsHot])
	assert.Equal(t, false, sig[KeyWeatherIsCold])

	assert.Equal(t, "afternoon", sig[KeyDaypart])
	assert.Equal(t, 14, sig[KeyDaypartHour])
	assert.Equal(t, false, sig[KeyDaypartIsWeekend])
}

func TestCollect_GeoUnavailable(t *testing.T) {
	weather := &stubWeather{res: WeatherResult{Temp: 10, Code: 0, Condition: "clear"}}
	c := NewCollector(stubGeo{err: resilience.ErrUnavailable}, weather).WithClock(fixedClock(2))

	r := httptest.NewRequest("GET", "/ad/c1", nil)
	sig := c.Collect(r)

	_, hasGeo := sig[KeyGeoCountry]
	assert.False(t, hasGeo, "geo keys must be absent, not zero")
	_, hasWeather := sig[KeyWeatherCondition]
	assert.False(t, hasWeather, "weather must be skipped without geo")
	assert.False(t, weather.called)

	// Always-present signals survive the degradation.
	assert.Contains(t, sig, KeyIP)
	assert.Equal(t, "night", sig[KeyDaypart])
}

func TestCollect_WeatherUnavailable(t *testing.T) {
	geo := stubGeo{res: GeoResult{Country: "France", Lat: 48.85, Lon: 2.35}}
	weather := &stubWeather{err: resilience.ErrUnavailable}
	c := NewCollector(geo, weather)

	sig := c.Collect(httptest.NewRequest("GET", "/ad/c1", nil))

	assert.Equal(t, "France", sig[KeyGeoCountry])
	_, hasWeather := sig[KeyWeatherCondition]
	assert.False(t, hasWeather)
}

func TestGeoResolver_Lookup(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"status":"success","country":"Japan","regionName":"Tokyo","city":"Tokyo","lat":35.68,"lon":139.76,"timezone":"Asia/Tokyo"}`)
	}))
	defer srv.Close()

	g := NewGeoResolver(srv.URL, srv.Client(), resilience.Options{TTL: time.Minute})
	res, err := g.Resolve(context.Background(), "198.51.100.7")
	require.NoError(t, err)
	assert.Equal(t, "/198.51.100.7", gotPath)
	assert.Equal(t, "Japan", res.Country)
	assert.Equal(t, 35.68, res.Lat)
	assert.Equal(t, "Asia/Tokyo", res.Timezone)
}

func TestGeoResolver_ProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"fail"}`)
	}))
	defer srv.Close()

	g := NewGeoResolver(srv.URL, srv.Client(), resilience.Options{TTL: time.Minute})
	_, err := g.Resolve(context.Background(), "198.51.100.7")
	assert.ErrorIs(t, err, resilience.ErrUnavailable)
}

func TestWeatherResolver_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "52.52", r.URL.Query().Get("latitude"))
		assert.Equal(t, "true", r.URL.Query().Get("current_weather"))
		fmt.Fprint(w, `{"current_weather":{"temperature":31.2,"weathercode":1}}`)
	}))
	defer srv.Close()

	wr := NewWeatherResolver(srv.URL, srv.Client(), resilience.Options{TTL: time.Minute})
	res, err := wr.Resolve(context.Background(), 52.52, 13.41)
	require.NoError(t, err)
	assert.Equal(t, 31.2, res.Temp)
	assert.Equal(t, "cloudy", res.Condition)
	assert.True(t, res.IsHot())
}

func TestWeatherResolver_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	wr := NewWeatherResolver(srv.URL, srv.Client(), resilience.Options{TTL: time.Minute})
	_, err := wr.Resolve(context.Background(), 1, 2)
	assert.ErrorIs(t, err, resilience.ErrUnavailable)
}

var _ GeoSource = (*GeoResolver)(nil)
var _ WeatherSource = (*WeatherResolver)(nil)
