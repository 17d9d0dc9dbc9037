package http

import (
	"context"

	"familyplaces_backend/platform/config"
	"familyplaces_backend/platform/httpkit"
	"familyplaces_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// UpstreamStatus reports the circuit breaker state of an external service.
type UpstreamStatus interface {
	UpstreamState() (name, state string)
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// Health is used for readiness checks (DB ping).
	Health HealthChecker
	// RateLimiter backs the public upstream-backed routes.
	RateLimiter httpkit.Limiter
	// Upstreams are listed in the readiness response. An open breaker does
	// not fail readiness.
	Upstreams []UpstreamStatus
	Modules   []Module
}
