package config

import "time"

// AgencyConfig identifies the agency and its operating timezone
type AgencyConfig struct {
	ID       string `yaml:"id" validate:"required"`
	Timezone string `yaml:"timezone" validate:"required"`
}

// StationPageConfig describes the per-station status page source.
// The URL carries a {{STATUS_ID}} placeholder replaced with the stop's
// status id at fetch time.
type StationPageConfig struct {
	URL string `yaml:"url" validate:"omitempty,url"`
	// Stops with this status id carry a remarks cell instead of a
	// status-text cell in the page table.
	RemarksStatusID string `yaml:"remarksStatusId"`
	CacheSeconds    int    `yaml:"cacheSeconds" validate:"gte=0"`
}

// GTFSRTConfig describes the binary GTFS-RT feed sources.
// URL carries an optional {{GTFS_RT_API_KEY}} placeholder; the api key is
// also sent as an x-api-key header.
type GTFSRTConfig struct {
	URL          string `yaml:"url" validate:"omitempty,url"`
	DelaysURL    string `yaml:"delaysUrl" validate:"omitempty,url"`
	APIKey       string `yaml:"apiKey"`
	CacheSeconds int    `yaml:"cacheSeconds" validate:"gte=0"`
}

// FeedConfig ties the sources together and selects the active generation.
type FeedConfig struct {
	// Source generation for the station feed: html|full.
	// The delay-only feed never acts as a primary source.
	Source          string            `yaml:"source" validate:"omitempty,oneof=html full"`
	StationPage     StationPageConfig `yaml:"stationPage"`
	GTFSRT          GTFSRTConfig      `yaml:"gtfsrt"`
	TimeoutSeconds  int               `yaml:"timeoutSeconds" validate:"gte=0"`
	DelayCacheSecs  int               `yaml:"delayCacheSeconds" validate:"gte=0"`
	TerminalStopID  string            `yaml:"terminalStopId"`
	DepartedGraceM  int               `yaml:"departedGraceMinutes" validate:"gte=0"`
	FutureHorizonHr int               `yaml:"futureHorizonHours" validate:"gte=0"`
}

// DBConfig locates the agency's schedule database
type DBConfig struct {
	Location string `yaml:"location"`
}

// Config is the root agency configuration
type Config struct {
	Agency AgencyConfig `yaml:"agency" validate:"required"`
	Feed   FeedConfig   `yaml:"feed"`
	DB     DBConfig     `yaml:"db"`
}

// Timeout returns the feed download timeout
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Feed.TimeoutSeconds) * time.Second
}

// StationPageTTL returns the per-station page cache TTL
func (c Config) StationPageTTL() time.Duration {
	return time.Duration(c.Feed.StationPage.CacheSeconds) * time.Second
}

// FeedTTL returns the fleet-wide feed cache TTL
func (c Config) FeedTTL() time.Duration {
	return time.Duration(c.Feed.GTFSRT.CacheSeconds) * time.Second
}

// DelayFeedTTL returns the delay-only feed cache TTL
func (c Config) DelayFeedTTL() time.Duration {
	return time.Duration(c.Feed.DelayCacheSecs) * time.Second
}

// DepartedGrace returns how long a Departed record is kept after its
// departure time has passed
func (c Config) DepartedGrace() time.Duration {
	return time.Duration(c.Feed.DepartedGraceM) * time.Minute
}

// FutureHorizon returns how far ahead records are kept
func (c Config) FutureHorizon() time.Duration {
	return time.Duration(c.Feed.FutureHorizonHr) * time.Hour
}
