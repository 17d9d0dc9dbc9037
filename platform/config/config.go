// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetShutdownTimeout() time.Duration
}

// RateLimitConfig provides settings for limiting the public upstream-backed routes.
type RateLimitConfig interface {
	GetRedisURL() string
	GetPublicRateLimitPerMinute() int
}

// OverpassConfig provides settings for the geodata query service.
type OverpassConfig interface {
	GetOverpassURL() string
	GetOverpassTimeout() time.Duration
	GetUpstreamUserAgent() string
}

// RoutingConfig provides settings for the routing service.
type RoutingConfig interface {
	GetRoutingURL() string
	GetRoutingTimeout() time.Duration
	GetUpstreamUserAgent() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	DatabaseURL              string
	JWTAccessSecret          string
	CORSAllowAll             bool
	CORSOrigins              []string
	CORSAllowCreds           bool
	ShutdownTimeout          time.Duration
	RedisURL                 string
	PublicRateLimitPerMinute int
	OverpassURL              string
	OverpassTimeout          time.Duration
	RoutingURL               string
	RoutingTimeout           time.Duration
	UpstreamUserAgent        string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string                { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool              { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string           { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool            { return c.CORSAllowCreds }
func (c *Config) GetShutdownTimeout() time.Duration { return c.ShutdownTimeout }

// RateLimitConfig implementation
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetPublicRateLimitPerMinute() int { return c.PublicRateLimitPerMinute }

// OverpassConfig implementation
func (c *Config) GetOverpassURL() string             { return c.OverpassURL }
func (c *Config) GetOverpassTimeout() time.Duration { return c.OverpassTimeout }
func (c *Config) GetUpstreamUserAgent() string       { return c.UpstreamUserAgent }

// RoutingConfig implementation
func (c *Config) GetRoutingURL() string             { return c.RoutingURL }
func (c *Config) GetRoutingTimeout() time.Duration { return c.RoutingTimeout }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		JWTAccessSecret:          getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		CORSAllowCreds:           strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		ShutdownTimeout:          mustDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")),
		RedisURL:                 getEnv("REDIS_URL", ""),
		PublicRateLimitPerMinute: mustInt(getEnv("PUBLIC_RATE_LIMIT_PER_MINUTE", "60")),
		OverpassURL:              getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		OverpassTimeout:          mustDuration(getEnv("OVERPASS_TIMEOUT", "100s")),
		RoutingURL:               strings.TrimRight(getEnv("ROUTING_URL", "https://router.project-osrm.org"), "/"),
		RoutingTimeout:           mustDuration(getEnv("ROUTING_TIMEOUT", "15s")),
		UpstreamUserAgent:        getEnv("UPSTREAM_USER_AGENT", "FamilyPlaces/1.0"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.OverpassTimeout <= 0 || cfg.RoutingTimeout <= 0 {
		return nil, fmt.Errorf("OVERPASS_TIMEOUT and ROUTING_TIMEOUT must be positive durations")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT must be a positive duration")
	}
	if cfg.PublicRateLimitPerMinute <= 0 {
		return nil, fmt.Errorf("PUBLIC_RATE_LIMIT_PER_MINUTE must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
