package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads and validates the agency configuration from path, applying
// defaults for unset durations.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Feed.Source == "" {
		cfg.Feed.Source = "html"
	}
	if cfg.Feed.TimeoutSeconds == 0 {
		cfg.Feed.TimeoutSeconds = 7
	}
	if cfg.Feed.StationPage.CacheSeconds == 0 {
		cfg.Feed.StationPage.CacheSeconds = 60
	}
	if cfg.Feed.GTFSRT.CacheSeconds == 0 {
		cfg.Feed.GTFSRT.CacheSeconds = 45
	}
	if cfg.Feed.DelayCacheSecs == 0 {
		cfg.Feed.DelayCacheSecs = 60
	}
	if cfg.Feed.DepartedGraceM == 0 {
		cfg.Feed.DepartedGraceM = 5
	}
	if cfg.Feed.FutureHorizonHr == 0 {
		cfg.Feed.FutureHorizonHr = 3
	}
	if cfg.Agency.Timezone == "" {
		cfg.Agency.Timezone = "America/New_York"
	}
}

// StationURL resolves the station page URL for a stop's status id
func (c Config) StationURL(statusID string) string {
	return strings.ReplaceAll(c.Feed.StationPage.URL, "{{STATUS_ID}}", statusID)
}

// FeedURL resolves the GTFS-RT feed URL, substituting the api key
func (c Config) FeedURL() string {
	return strings.ReplaceAll(c.Feed.GTFSRT.URL, "{{GTFS_RT_API_KEY}}", c.Feed.GTFSRT.APIKey)
}

// DelaysURL resolves the delay-only feed URL, substituting the api key
func (c Config) DelaysURL() string {
	return strings.ReplaceAll(c.Feed.GTFSRT.DelaysURL, "{{GTFS_RT_API_KEY}}", c.Feed.GTFSRT.APIKey)
}
