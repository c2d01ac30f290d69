package ratelimit

import (
	"net/http"
	"time"

	"github.com/jonathan/portfolio/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method; empty matches any
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Endpoints       []EndpointConfig
}

// FromConfig builds the limiter configuration for the site API. Reads not
// listed are unlimited.
func FromConfig(cfg config.RateLimitConfig) *Config {
	if !cfg.Enabled {
		return &Config{}
	}
	return &Config{
		Enabled:         true,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Endpoints:       EndpointConfigs(cfg),
	}
}

// EndpointConfigs returns the endpoint rules, most specific first.
func EndpointConfigs(cfg config.RateLimitConfig) []EndpointConfig {
	return []EndpointConfig{
		// Credentials and anonymous writes.
		{Path: "/api/admin/login", Method: http.MethodPost, Limit: cfg.LoginPerMinute, Window: time.Minute, Burst: cfg.LoginBurst},
		{Path: "/api/contact", Method: http.MethodPost, Limit: cfg.ContactPerHour, Window: time.Hour, Burst: cfg.ContactBurst},

		// Authenticated admin calls share one bucket per client.
		{Path: "/api/admin/", Limit: cfg.AdminPerMinute, Window: time.Minute, Burst: cfg.AdminBurst},
	}
}
