// Package config provides the configuration of the tripintel server.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tripintel/encoding"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

const (
	// DefaultTimeout is the per-request upstream timeout
	DefaultTimeout = "10s"
	// DefaultLogLevel is used when log_level is not set
	DefaultLogLevel = "INFO"
)

// Config of the server
type Config struct {
	// Geocoding specifies the geocoding service, empty base_url uses Open-Meteo
	Geocoding Endpoint `json:"geocoding" yaml:"geocoding"`
	// Forecast specifies the forecast service, empty base_url uses Open-Meteo
	Forecast Endpoint `json:"forecast" yaml:"forecast"`
	// News specifies the news feed, empty base_url uses Google News RSS
	News Endpoint `json:"news" yaml:"news"`
	// OutputFormat specifies the format of the tool output: json|yaml
	OutputFormat string `json:"output_format,omitempty" yaml:"output_format,omitempty"`
	// LogLevel specifies the log level: ERROR|WARNING|NOTICE|INFO|DEBUG|TRACE
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Endpoint of an upstream service
type Endpoint struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// Timeout is a duration string such as 5s, DefaultTimeout when empty
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// RequestTimeout returns the parsed timeout
func (e *Endpoint) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(values.StringsCoalesce(e.Timeout, DefaultTimeout))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid timeout: %q", e.Timeout)
	}
	if d <= 0 {
		return 0, errors.Newf("invalid timeout: %q", e.Timeout)
	}
	return d, nil
}

// Mode returns the output encoding mode
func (c *Config) Mode() (encoding.Mode, error) {
	return encoding.ParseMode(c.OutputFormat)
}

var levels = map[string]xlog.LogLevel{
	"CRITICAL": xlog.CRITICAL,
	"ERROR":    xlog.ERROR,
	"WARNING":  xlog.WARNING,
	"WARN":     xlog.WARNING,
	"NOTICE":   xlog.NOTICE,
	"INFO":     xlog.INFO,
	"DEBUG":    xlog.DEBUG,
	"TRACE":    xlog.TRACE,
}

// Level returns the log level
func (c *Config) Level() (xlog.LogLevel, error) {
	name := strings.ToUpper(values.StringsCoalesce(strings.TrimSpace(c.LogLevel), DefaultLogLevel))
	if l, ok := levels[name]; ok {
		return l, nil
	}
	return xlog.INFO, errors.Newf("unsupported log level: %q", c.LogLevel)
}

// Validate returns an error if the configuration is invalid
func (c *Config) Validate() error {
	if _, err := c.Mode(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for name, ep := range map[string]*Endpoint{
		"geocoding": &c.Geocoding,
		"forecast":  &c.Forecast,
		"news":      &c.News,
	} {
		if _, err := ep.RequestTimeout(); err != nil {
			return errors.WithMessage(err, name)
		}
	}
	return nil
}

// LoadConfig from file, environment variables in values are expanded.
// Empty file returns the default configuration.
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		err := configloader.UnmarshalAndExpand(file, cfg)
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid configuration")
	}
	return cfg, nil
}
