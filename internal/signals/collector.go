package signals

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Collector assembles the signal mapping for one request. Enrichment is
// best-effort: an unavailable resolver leaves its keys absent and never
// fails the request. At most two sequential provider calls are made per
// request (geo, then weather), each independently circuit-broken.
type Collector struct {
	geo     GeoSource
	weather WeatherSource
	now     func() time.Time
}

func NewCollector(geo GeoSource, weather WeatherSource) *Collector {
	return &Collector{geo: geo, weather: weather, now: time.Now}
}

// WithClock overrides the time source; used by tests.
func (c *Collector) WithClock(now func() time.Time) *Collector {
	c.now = now
	return c
}

// Collect builds the signal mapping for r.
func (c *Collector) Collect(r *http.Request) Map {
	ctx := r.Context()
	sig := Map{}

	ip := ClientIP(r)
	sig[KeyIP] = ip
	sig[KeyUserAgent] = r.UserAgent()
	sig[KeyReferer] = r.Referer()

	var geo GeoResult
	geoOK := false
	if c.geo != nil {
		g, err := c.geo.Resolve(ctx, ip)
		if err != nil {
			log.Debug().Err(err).Str("ip", ip).Msg("geo unavailable")
		} else {
			geo, geoOK = g, true
			sig[KeyGeoCountry] = geo.Country
			sig[KeyGeoRegion] = geo.Region
			sig[KeyGeoCity] = geo.City
			sig[KeyGeoLat] = geo.Lat
			sig[KeyGeoLon] = geo.Lon
			sig[KeyGeoTimezone] = geo.Timezone
		}
	}

	if geoOK && c.weather != nil && geo.Lat != 0 && geo.Lon != 0 {
		w, err := c.weather.Resolve(ctx, geo.Lat, geo.Lon)
		if err != nil {
			log.Debug().Err(err).Msg("weather unavailable")
		} else {
			sig[KeyWeatherTemp] = w.Temp
			sig[KeyWeatherCondition] = w.Condition
			sig[KeyWeatherCode] = w.Code
			sig[KeyWeatherIsHot] = w.IsHot()
			sig[KeyWeatherIsCold] = w.IsCold()
		}
	}

	now := c.now().UTC()
	sig[KeyDaypart] = Daypart(now.Hour())
	sig[KeyDaypartHour] = now.Hour()
	sig[KeyDaypartIsWeekend] = IsWeekend(now)

	return sig
}

// ClientIP returns the first X-Forwarded-For address when present,
// otherwise the peer address without its port.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
