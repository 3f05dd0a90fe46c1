// Package geocode resolves free-form place names to coordinates using the Open-Meteo geocoding API.
package geocode

import (
	"context"
	"math"
	"net/url"
	"strings"

	"github.com/effective-security/tripintel/pkg/errkind"
	"github.com/effective-security/tripintel/pkg/upstream"
	"github.com/effective-security/xlog"
)

//go:generate mockgen -source=geocode.go -destination=../mocks/mockgeocode/geocode_mock.gen.go -package mockgeocode

var logger = xlog.NewPackageLogger("github.com/effective-security/tripintel", "geocode")

// API Docs: https://open-meteo.com/en/docs/geocoding-api
// Sample request: https://geocoding-api.open-meteo.com/v1/search?name=Jaipur&count=1&language=en&format=json
const (
	// DefaultBaseURL is the Open-Meteo geocoding endpoint
	DefaultBaseURL = "https://geocoding-api.open-meteo.com/v1/search"
)

// Location is a resolved place
type Location struct {
	Latitude    float64 `json:"latitude" yaml:"latitude"`
	Longitude   float64 `json:"longitude" yaml:"longitude"`
	DisplayName string  `json:"display_name" yaml:"display_name"`
}

// Resolver resolves a free-form location into coordinates
type Resolver interface {
	Resolve(ctx context.Context, location string) (*Location, error)
}

// Client implements Resolver
type Client struct {
	baseURL string
	client  *upstream.Client
}

var _ Resolver = (*Client)(nil)

// NewClient returns a geocoding client.
// Empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...upstream.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  upstream.New("geocoding", opts...),
	}
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Name      string   `json:"name"`
	Admin1    string   `json:"admin1"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Resolve returns the top match for the location.
func (c *Client) Resolve(ctx context.Context, location string) (*Location, error) {
	if err := ValidateLocation(location); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("name", location)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")

	var res searchResponse
	if err := c.client.GetJSON(ctx, c.baseURL, q, &res); err != nil {
		return nil, err
	}
	if len(res.Results) == 0 {
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "not_found",
			"location", location,
		)
		return nil, errkind.NotFound("unable to geocode location %q", location)
	}

	top := res.Results[0]
	if top.Latitude == nil || top.Longitude == nil || !validCoordinates(*top.Latitude, *top.Longitude) {
		return nil, errkind.Upstream("geocoding: invalid coordinates for %q", location)
	}

	return &Location{
		Latitude:    *top.Latitude,
		Longitude:   *top.Longitude,
		DisplayName: DisplayName(top.Name, top.Admin1, top.Country),
	}, nil
}

// ValidateLocation returns ErrInvalidArgument if location is blank
func ValidateLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return errkind.InvalidArgument("location is required")
	}
	return nil
}

// DisplayName joins the present parts with ", "
func DisplayName(parts ...string) string {
	present := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			present = append(present, p)
		}
	}
	return strings.Join(present, ", ")
}

func validCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
