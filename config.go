package yellow

import (
	"strconv"
	"time"
)

const (
	// DefaultRecentNotes is how many notes the default view retrieves.
	DefaultRecentNotes = 6

	defaultHTTPTimeout = 10 * time.Second
)

// Config carries the settings of a network-backed controller.
type Config struct {
	// ServerURL is the base URL of the remote notes service.
	ServerURL string
	// HTTPTimeout bounds each remote request.
	HTTPTimeout time.Duration
	// RecentNotes is the number of notes fetched for the default view.
	RecentNotes int
}

// ConfigFromEnv reads YELLOW_SERVER_URL, YELLOW_HTTP_TIMEOUT and
// YELLOW_RECENT_NOTES, falling back to defaults for anything unset or
// unparsable.
func ConfigFromEnv() Config {
	cfg := Config{
		ServerURL:   GetEnvOrDefault("YELLOW_SERVER_URL", "http://localhost:8080"),
		HTTPTimeout: defaultHTTPTimeout,
		RecentNotes: DefaultRecentNotes,
	}
	if v := GetEnvOrDefault("YELLOW_HTTP_TIMEOUT", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if v := GetEnvOrDefault("YELLOW_RECENT_NOTES", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RecentNotes = n
		}
	}
	return cfg
}

func (c Config) withDefaults() Config {
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
	if c.RecentNotes <= 0 {
		c.RecentNotes = DefaultRecentNotes
	}
	return c
}
