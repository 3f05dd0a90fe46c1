package weather

// Source is the attribution returned with every summary
const Source = "Open-Meteo (https://open-meteo.com)"

// Request describes a weather summary request
type Request struct {
	// Location is a free-form place name: city, landmark, etc.
	Location string `json:"location" yaml:"location"`
	// Days is the number of daily entries, 0 means DefaultDays
	Days int `json:"days,omitempty" yaml:"days,omitempty"`
	// IncludeHourly adds the next 24 hours of hourly data
	IncludeHourly bool `json:"include_hourly,omitempty" yaml:"include_hourly,omitempty"`
}

// Summary is a short-term weather outlook for a destination.
// Absent upstream values are explicit nulls.
type Summary struct {
	Location          string             `json:"location" yaml:"location"`
	Latitude          float64            `json:"latitude" yaml:"latitude"`
	Longitude         float64            `json:"longitude" yaml:"longitude"`
	CurrentConditions *CurrentConditions `json:"current_conditions" yaml:"current_conditions"`
	DailyForecast     []*DailyEntry      `json:"daily_forecast" yaml:"daily_forecast"`
	// HourlyOutlook is populated only when HasHourlyOutlook is true
	HourlyOutlook    []*HourlyEntry `json:"hourly_outlook,omitempty" yaml:"hourly_outlook,omitempty"`
	HasHourlyOutlook bool           `json:"has_hourly_outlook" yaml:"has_hourly_outlook"`
	Source           string         `json:"source" yaml:"source"`
}

// CurrentConditions at observation time
type CurrentConditions struct {
	TemperatureC    *float64 `json:"temperature_c" yaml:"temperature_c"`
	WindSpeedKmh    *float64 `json:"windspeed_kmh" yaml:"windspeed_kmh"`
	WeatherCode     *int     `json:"weather_code" yaml:"weather_code"`
	ObservationTime *string  `json:"observation_time" yaml:"observation_time"`
}

// DailyEntry is one day of the forecast
type DailyEntry struct {
	Date    string       `json:"date" yaml:"date"`
	Summary DailySummary `json:"summary" yaml:"summary"`
	Sunrise *string      `json:"sunrise" yaml:"sunrise"`
	Sunset  *string      `json:"sunset" yaml:"sunset"`
}

// DailySummary holds the daily aggregates
type DailySummary struct {
	MaxTempC             *float64 `json:"max_temp_c" yaml:"max_temp_c"`
	MinTempC             *float64 `json:"min_temp_c" yaml:"min_temp_c"`
	PrecipProbability    *float64 `json:"precip_probability" yaml:"precip_probability"`
	PrecipitationTotalMm *float64 `json:"precipitation_total_mm" yaml:"precipitation_total_mm"`
	UVIndexMax           *float64 `json:"uv_index_max" yaml:"uv_index_max"`
	WindSpeedMaxKmh      *float64 `json:"wind_speed_max_kmh" yaml:"wind_speed_max_kmh"`
}

// HourlyEntry is one hour of the outlook
type HourlyEntry struct {
	Time              string   `json:"time" yaml:"time"`
	TemperatureC      *float64 `json:"temperature_c" yaml:"temperature_c"`
	PrecipProbability *float64 `json:"precip_probability" yaml:"precip_probability"`
	RelativeHumidity  *float64 `json:"relative_humidity" yaml:"relative_humidity"`
	WeatherCode       *int     `json:"weather_code" yaml:"weather_code"`
}

// forecastResponse is the subset of the Open-Meteo forecast payload in use.
// Daily and hourly fields are parallel arrays indexed by position.
type forecastResponse struct {
	Timezone       string          `json:"timezone"`
	CurrentWeather *currentWeather `json:"current_weather"`
	Daily          *dailySeries    `json:"daily"`
	Hourly         *hourlySeries   `json:"hourly"`
}

type currentWeather struct {
	Temperature *float64 `json:"temperature"`
	WindSpeed   *float64 `json:"windspeed"`
	WeatherCode *int     `json:"weathercode"`
	Time        *string  `json:"time"`
}

type dailySeries struct {
	Time                        []string   `json:"time"`
	TemperatureMax              []*float64 `json:"temperature_2m_max"`
	TemperatureMin              []*float64 `json:"temperature_2m_min"`
	PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max"`
	PrecipitationSum            []*float64 `json:"precipitation_sum"`
	UVIndexMax                  []*float64 `json:"uv_index_max"`
	WindSpeedMax                []*float64 `json:"wind_speed_10m_max"`
	Sunrise                     []*string  `json:"sunrise"`
	Sunset                      []*string  `json:"sunset"`
}

type hourlySeries struct {
	Time                     []string   `json:"time"`
	Temperature              []*float64 `json:"temperature_2m"`
	PrecipitationProbability []*float64 `json:"precipitation_probability"`
	RelativeHumidity         []*float64 `json:"relativehumidity_2m"`
	WeatherCode              []*int     `json:"weathercode"`
}
