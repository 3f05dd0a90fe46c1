package weather

import (
	"time"

	"github.com/effective-security/tripintel/pkg/errkind"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// at returns the element at i, or nil when the series is too short
func at[T any](s []*T, i int) *T {
	if i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}

func (d *dailySeries) entries(days int) []*DailyEntry {
	if d == nil {
		return []*DailyEntry{}
	}
	n := min(days, len(d.Time))
	list := make([]*DailyEntry, 0, n)
	for i := range n {
		list = append(list, &DailyEntry{
			Date: d.Time[i],
			Summary: DailySummary{
				MaxTempC:             at(d.TemperatureMax, i),
				MinTempC:             at(d.TemperatureMin, i),
				PrecipProbability:    at(d.PrecipitationProbabilityMax, i),
				PrecipitationTotalMm: at(d.PrecipitationSum, i),
				UVIndexMax:           at(d.UVIndexMax, i),
				WindSpeedMaxKmh:      at(d.WindSpeedMax, i),
			},
			Sunrise: at(d.Sunrise, i),
			Sunset:  at(d.Sunset, i),
		})
	}
	return list
}

// window returns the entries with now <= t < now+24h, in series order
func (h *hourlySeries) window(now time.Time) ([]*HourlyEntry, error) {
	list := []*HourlyEntry{}
	if h == nil {
		return list, nil
	}
	now = now.UTC()
	end := now.Add(24 * time.Hour)
	for i, ts := range h.Time {
		t, err := parseTimestamp(ts)
		if err != nil {
			return nil, err
		}
		if t.Before(now) || !t.Before(end) {
			continue
		}
		list = append(list, &HourlyEntry{
			Time:              ts,
			TemperatureC:      at(h.Temperature, i),
			PrecipProbability: at(h.PrecipitationProbability, i),
			RelativeHumidity:  at(h.RelativeHumidity, i),
			WeatherCode:       at(h.WeatherCode, i),
		})
	}
	return list, nil
}

// parseTimestamp parses an ISO-8601 timestamp in UTC,
// timestamps without an offset are treated as UTC.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errkind.Upstream("forecast: invalid hourly timestamp %q", s)
}
