package config

// Config holds application settings (in-memory representation).
// Persistence is handled by the internal/db package.
type Config struct {
	// FeedURL is the upstream dashboard-data endpoint this instance consumes.
	FeedURL string `json:"feed_url"`

	// CacheMaxAgeHours bounds how old the SQLite payload cache may be before
	// a refresh re-fetches the upstream feed. Serving stale cache is still
	// preferred over serving nothing when the upstream is down.
	CacheMaxAgeHours int `json:"cache_max_age_hours"`

	// DemoEnabled allows synthesizing fake price trajectories for catalog
	// products that have no real data. Never applied to real observations.
	DemoEnabled bool `json:"demo_enabled"`
	DemoDays    int  `json:"demo_days"`

	// DefaultRanges overrides the initial chart range per product ID.
	// Products not listed start at "all".
	DefaultRanges map[string]string `json:"default_ranges"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		FeedURL:          "http://localhost:5001/api/dashboard-data",
		CacheMaxAgeHours: 24,
		DemoEnabled:      true,
		DemoDays:         90,
		DefaultRanges: map[string]string{
			"eucerin-advanced-repair-lotion-16.9oz": "60",
		},
	}
}
