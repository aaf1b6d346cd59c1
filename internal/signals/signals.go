// Package signals collects per-request context used for variant targeting:
// network identity, derived geography, derived weather, and time-of-day.
// A signal mapping is built fresh per request and never persisted.
package signals

// Map is the open-ended per-request signal mapping. Values are string,
// float64, int, or bool; consumers must tolerate absent keys.
type Map map[string]any

// Signal key vocabulary. Geo and weather keys are only present when the
// corresponding lookup succeeded.
const (
	KeyIP        = "ip"
	KeyUserAgent = "user_agent"
	KeyReferer   = "referer"

	KeyGeoCountry  = "geo_country"
	KeyGeoRegion   = "geo_region"
	KeyGeoCity     = "geo_city"
	KeyGeoLat      = "geo_lat"
	KeyGeoLon      = "geo_lon"
	KeyGeoTimezone = "geo_timezone"

	KeyWeatherTemp      = "weather_temp"
	KeyWeatherCondition = "weather_condition"
	KeyWeatherCode      = "weather_code"
	KeyWeatherIsHot     = "weather_is_hot"
	KeyWeatherIsCold    = "weather_is_cold"

	KeyDaypart          = "daypart"
	KeyDaypartHour      = "daypart_hour"
	KeyDaypartIsWeekend = "daypart_is_weekend"
)
