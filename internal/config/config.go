// Package config provides configuration loading and validation for the
// portfolio server and CLI.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Site      SiteConfig      `yaml:"site"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server settings. MaxBodyBytes caps request bodies,
// which carry images inline as data URLs.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"16777216"`
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL connection settings. URL may be empty when
// the server runs on the in-memory store.
type DatabaseConfig struct {
	URL             string        `yaml:"url"                env:"DATABASE_URL"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds the admin credentials and token settings.
type AuthConfig struct {
	AdminEmail         string `yaml:"admin_email"          env:"ADMIN_EMAIL"`
	AdminPasswordHash  string `yaml:"admin_password_hash"  env:"ADMIN_PASSWORD_HASH"`
	JWTSecret          string `yaml:"jwt_secret"           env:"JWT_SECRET"`
	JWTIssuer          string `yaml:"jwt_issuer"           env:"JWT_ISSUER"           env-default:"portfolio"`
	JWTExpirationHours int    `yaml:"jwt_expiration_hours" env:"JWT_EXPIRATION_HOURS" env-default:"24"`
	BcryptCost         int    `yaml:"bcrypt_cost"          env:"BCRYPT_COST"          env-default:"12"`
	PasswordPepper     string `yaml:"password_pepper"      env:"PASSWORD_PEPPER"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"300"`
}

// Origins splits AllowedOrigins on commas.
func (c CORSConfig) Origins() []string { return splitList(c.AllowedOrigins) }

// Methods splits AllowedMethods on commas.
func (c CORSConfig) Methods() []string { return splitList(c.AllowedMethods) }

// Headers splits AllowedHeaders on commas.
func (c CORSConfig) Headers() []string { return splitList(c.AllowedHeaders) }

// SiteConfig holds settings of the public site and its content.
type SiteConfig struct {
	BaseURL          string        `yaml:"base_url"          env:"SITE_BASE_URL"          env-default:"http://localhost:5173"`
	DataDir          string        `yaml:"data_dir"          env:"SITE_DATA_DIR"          env-default:"./data"`
	RefreshInterval  time.Duration `yaml:"refresh_interval"  env:"SITE_REFRESH_INTERVAL"  env-default:"0s"`
	NotificationFeed int           `yaml:"notification_feed" env:"SITE_NOTIFICATION_FEED" env-default:"50"`
	ContactRecipient string        `yaml:"contact_recipient" env:"SITE_CONTACT_RECIPIENT"`
}

// RateLimitConfig holds per-client token bucket settings for the endpoints
// that accept anonymous writes or credentials.
type RateLimitConfig struct {
	Enabled        bool `yaml:"enabled"          env:"RATE_LIMIT_ENABLED"          env-default:"true"`
	LoginPerMinute int  `yaml:"login_per_minute" env:"RATE_LIMIT_LOGIN_PER_MINUTE" env-default:"5"`
	LoginBurst     int  `yaml:"login_burst"      env:"RATE_LIMIT_LOGIN_BURST"      env-default:"5"`
	ContactPerHour int  `yaml:"contact_per_hour" env:"RATE_LIMIT_CONTACT_PER_HOUR" env-default:"10"`
	ContactBurst   int  `yaml:"contact_burst"    env:"RATE_LIMIT_CONTACT_BURST"    env-default:"3"`
	AdminPerMinute int  `yaml:"admin_per_minute" env:"RATE_LIMIT_ADMIN_PER_MINUTE" env-default:"120"`
	AdminBurst     int  `yaml:"admin_burst"      env:"RATE_LIMIT_ADMIN_BURST"      env-default:"30"`
}

// Validate checks the values every command depends on. Credentials and the
// database URL are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}
	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url cannot be empty")
	}
	if c.Site.RefreshInterval < 0 {
		return fmt.Errorf("site.refresh_interval cannot be negative")
	}
	if _, err := c.Auth.PasswordConfig(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
