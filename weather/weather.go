// Package weather builds short-term weather outlooks for a destination
// from the Open-Meteo forecast API.
package weather

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/effective-security/tripintel/geocode"
	"github.com/effective-security/tripintel/pkg/errkind"
	"github.com/effective-security/tripintel/pkg/upstream"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/tripintel", "weather")

// API Docs: https://open-meteo.com/en/docs
const (
	// DefaultBaseURL is the Open-Meteo forecast endpoint
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"
	// DefaultDays is the number of daily entries when not specified
	DefaultDays = 5
	// MaxDays is the longest forecast supported upstream
	MaxDays = 16

	hourlyDays = 2
)

var dailyVars = []string{
	"temperature_2m_max",
	"temperature_2m_min",
	"precipitation_probability_max",
	"sunrise",
	"sunset",
	"uv_index_max",
	"wind_speed_10m_max",
	"precipitation_sum",
}

var hourlyVars = []string{
	"temperature_2m",
	"precipitation_probability",
	"weathercode",
	"relativehumidity_2m",
}

// Fetcher retrieves weather summaries.
// It holds no per-call state and is safe for concurrent use.
type Fetcher struct {
	baseURL  string
	resolver geocode.Resolver
	client   *upstream.Client
	now      func() time.Time
}

// NewFetcher returns a Fetcher which resolves locations with resolver.
// Empty baseURL uses DefaultBaseURL.
func NewFetcher(resolver geocode.Resolver, baseURL string, opts ...upstream.Option) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		baseURL:  baseURL,
		resolver: resolver,
		client:   upstream.New("forecast", opts...),
		now:      time.Now,
	}
}

// WithClock sets the clock used for the hourly window
func (f *Fetcher) WithClock(now func() time.Time) *Fetcher {
	f.now = now
	return f
}

// FetchSummary returns current conditions and the daily forecast for the location,
// and the next 24 hours when req.IncludeHourly is set.
func (f *Fetcher) FetchSummary(ctx context.Context, req *Request) (*Summary, error) {
	if err := geocode.ValidateLocation(req.Location); err != nil {
		return nil, err
	}
	days := req.Days
	if days == 0 {
		days = DefaultDays
	}
	if days < 1 || days > MaxDays {
		return nil, errkind.InvalidArgument("days must be between 1 and %d", MaxDays)
	}

	loc, err := f.resolver.Resolve(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("timezone", "auto")
	q.Set("current_weather", "true")
	q.Set("daily", strings.Join(dailyVars, ","))
	forecastDays := days
	if req.IncludeHourly {
		q.Set("hourly", strings.Join(hourlyVars, ","))
		// the hourly series covers whole local days, the next 24h may span two
		forecastDays = max(forecastDays, hourlyDays)
	}
	q.Set("forecast_days", strconv.Itoa(forecastDays))

	var payload forecastResponse
	if err = f.client.GetJSON(ctx, f.baseURL, q, &payload); err != nil {
		return nil, err
	}

	summary := &Summary{
		Location:          loc.DisplayName,
		Latitude:          loc.Latitude,
		Longitude:         loc.Longitude,
		CurrentConditions: currentConditions(payload.CurrentWeather),
		DailyForecast:     payload.Daily.entries(days),
		Source:            Source,
	}

	if req.IncludeHourly && payload.Hourly != nil {
		summary.HourlyOutlook, err = payload.Hourly.window(f.now())
		if err != nil {
			return nil, err
		}
		summary.HasHourlyOutlook = true
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"location", summary.Location,
		"timezone", payload.Timezone,
		"days", len(summary.DailyForecast),
		"hours", len(summary.HourlyOutlook),
	)

	return summary, nil
}

func currentConditions(cw *currentWeather) *CurrentConditions {
	if cw == nil {
		return &CurrentConditions{}
	}
	return &CurrentConditions{
		TemperatureC:    cw.Temperature,
		WindSpeedKmh:    cw.WindSpeed,
		WeatherCode:     cw.WeatherCode,
		ObservationTime: cw.Time,
	}
}
