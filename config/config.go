// Package config loads and validates application configuration from a TOML
// file with ANTREAN_* environment overrides. Validation failures carry a
// descriptive message; callers are expected to treat them as fatal at
// startup rather than limping along with a half-configured client.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Environment names accepted by Validate.
const (
	Development = "development"
	Staging     = "staging"
	Production  = "production"
)

const (
	defaultBaseURL     = "http://localhost:3000/api"
	defaultTimeout     = 10 * time.Second
	defaultEnvironment = Development
)

// API configures the HTTP client.
type API struct {
	BaseURL string
	Timeout time.Duration
}

// Features toggles optional integrations.
type Features struct {
	Analytics      bool
	CrashReporting bool
}

// Config is the resolved application configuration.
type Config struct {
	API         API
	Features    Features
	Environment string
}

// Load parses the TOML file at path (missing file falls back to defaults),
// applies ANTREAN_* environment overrides, and validates the result. An
// empty path skips the file and uses defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		API:         API{BaseURL: defaultBaseURL, Timeout: defaultTimeout},
		Environment: defaultEnvironment,
	}

	if strings.TrimSpace(path) != "" {
		bytes, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else {
			var raw struct {
				API struct {
					BaseURL        string `toml:"base_url"`
					TimeoutSeconds int    `toml:"timeout_seconds"`
				} `toml:"api"`
				Features struct {
					Analytics      bool `toml:"analytics"`
					CrashReporting bool `toml:"crash_reporting"`
				} `toml:"features"`
				Environment string `toml:"environment"`
			}
			if err := toml.Unmarshal(bytes, &raw); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
			if v := strings.TrimSpace(raw.API.BaseURL); v != "" {
				cfg.API.BaseURL = v
			}
			if raw.API.TimeoutSeconds != 0 {
				cfg.API.Timeout = time.Duration(raw.API.TimeoutSeconds) * time.Second
			}
			cfg.Features.Analytics = raw.Features.Analytics
			cfg.Features.CrashReporting = raw.Features.CrashReporting
			if v := strings.TrimSpace(raw.Environment); v != "" {
				cfg.Environment = v
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays ANTREAN_* environment variables onto cfg. Overrides win
// over both defaults and file values.
func applyEnv(cfg *Config) error {
	if v, ok := lookup("ANTREAN_API_BASE_URL"); ok {
		cfg.API.BaseURL = v
	}
	if v, ok := lookup("ANTREAN_API_TIMEOUT_SECONDS"); ok {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ANTREAN_API_TIMEOUT_SECONDS: %q is not an integer", v)
		}
		cfg.API.Timeout = time.Duration(seconds) * time.Second
	}
	if v, ok := lookup("ANTREAN_ENVIRONMENT"); ok {
		cfg.Environment = v
	}
	if v, ok := lookup("ANTREAN_FEATURE_ANALYTICS"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ANTREAN_FEATURE_ANALYTICS: %q is not a boolean", v)
		}
		cfg.Features.Analytics = enabled
	}
	if v, ok := lookup("ANTREAN_FEATURE_CRASH_REPORTING"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ANTREAN_FEATURE_CRASH_REPORTING: %q is not a boolean", v)
		}
		cfg.Features.CrashReporting = enabled
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("api.base_url: %q is not an absolute URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout_seconds: must be positive, got %s", c.API.Timeout)
	}
	switch c.Environment {
	case Development, Staging, Production:
	default:
		return fmt.Errorf("environment: %q must be one of %s, %s, %s",
			c.Environment, Development, Staging, Production)
	}
	return nil
}

// IsDevelopment reports whether the environment is development.
func (c Config) IsDevelopment() bool { return c.Environment == Development }

// IsProduction reports whether the environment is production.
func (c Config) IsProduction() bool { return c.Environment == Production }
