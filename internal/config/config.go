package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the match service.
// Environment variables are automatically parsed from the MATCH_BACKEND_ prefix.
type Config struct {
	// Build target selects the high-level environment: local | cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override driver: sqlite | postgres | auto
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Postgres Configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// SQLite Configuration. Empty resolves to ~/.castmatch/castmatch.db.
	SQLitePath string `envconfig:"SQLITE_PATH" default:""`

	// Hub (external cast source) Configuration
	HubBaseURL        string `envconfig:"HUB_BASE_URL" default:"http://localhost:2281"`
	HubAPIKey         string `envconfig:"HUB_API_KEY" default:""`
	HubAuthorBatchCap int    `envconfig:"HUB_AUTHOR_BATCH_CAP" default:"100"`
	HubPageLimit      int    `envconfig:"HUB_PAGE_LIMIT" default:"150"`
	HubTimeoutSeconds int    `envconfig:"HUB_TIMEOUT_SECONDS" default:"10"`

	// Discovery policy
	DiscoverMaxPageSize int `envconfig:"DISCOVER_MAX_PAGE_SIZE" default:"50"`

	// Feed policy
	FeedDefaultLimit int `envconfig:"FEED_DEFAULT_LIMIT" default:"25"`
	FeedMaxLimit     int `envconfig:"FEED_MAX_LIMIT" default:"100"`

	// Connection graph cache
	ConnectionCacheTTLSeconds int `envconfig:"CONNECTION_CACHE_TTL_SECONDS" default:"30"`

	// Notification throttling
	NotifyThrottleWindowSeconds int `envconfig:"NOTIFY_THROTTLE_WINDOW_SECONDS" default:"600"`
	NotifyThrottleCapacity      int `envconfig:"NOTIFY_THROTTLE_CAPACITY" default:"10000"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`

	// Store bootstrap check
	BootstrapTimeoutSeconds int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"5"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when it is set
// to "auto" or left empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"sqlite": true, "postgres": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	if c.HubAuthorBatchCap < 1 {
		return fmt.Errorf("HUB_AUTHOR_BATCH_CAP must be >= 1, got %d", c.HubAuthorBatchCap)
	}
	if c.HubPageLimit < 1 {
		return fmt.Errorf("HUB_PAGE_LIMIT must be >= 1, got %d", c.HubPageLimit)
	}
	if c.DiscoverMaxPageSize < 1 {
		return fmt.Errorf("DISCOVER_MAX_PAGE_SIZE must be >= 1, got %d", c.DiscoverMaxPageSize)
	}
	if c.FeedDefaultLimit < 1 || c.FeedMaxLimit < c.FeedDefaultLimit {
		return fmt.Errorf("feed limits out of range: default=%d max=%d", c.FeedDefaultLimit, c.FeedMaxLimit)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with MATCH_BACKEND_
// Example: MATCH_BACKEND_HTTP_PORT, MATCH_BACKEND_HUB_BASE_URL
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("MATCH_BACKEND", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Str("hub_base_url", cfg.HubBaseURL).
		Int("hub_author_batch_cap", cfg.HubAuthorBatchCap).
		Int("hub_page_limit", cfg.HubPageLimit).
		Int("discover_max_page_size", cfg.DiscoverMaxPageSize).
		Int("feed_default_limit", cfg.FeedDefaultLimit).
		Int("feed_max_limit", cfg.FeedMaxLimit).
		Str("postgres_dsn_present", func() string {
			if cfg.PostgresDSN != "" {
				return "true"
			}
			return "false"
		}()).
		Msg("Configuration loaded")

	return &cfg, nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
