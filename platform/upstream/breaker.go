// Package upstream guards calls to external services with a circuit breaker
// and records their outcome. Calls are never retried.
package upstream

import (
	"context"
	"errors"
	"time"

	"familyplaces_backend/platform/apperr"
	"familyplaces_backend/platform/logger"
	"familyplaces_backend/platform/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
)

// Breaker wraps one external service.
type Breaker[T any] struct {
	name string
	cb   *gobreaker.CircuitBreaker[T]
	log  *logger.Logger
}

// Settings tunes a Breaker. Zero values fall back to defaults.
type Settings struct {
	// MinRequests before the failure ratio is considered.
	MinRequests uint32
	// FailureRatio at or above which the breaker opens.
	FailureRatio float64
	// OpenTimeout is how long the breaker stays open before a trial call.
	OpenTimeout time.Duration
}

// NewBreaker creates a breaker named after the upstream it protects.
// Only KindUpstream errors count as failures; a valid "no result" answer
// from the service does not trip the breaker, and neither does a call the
// client abandoned.
func NewBreaker[T any](name string, s Settings, log *logger.Logger) *Breaker[T] {
	if s.MinRequests == 0 {
		s.MinRequests = 10
	}
	if s.FailureRatio == 0 {
		s.FailureRatio = 0.6
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = time.Minute
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Breaker[T]{name: name, cb: cb, log: log}
}

// Execute runs fn unless the breaker is open. A rejected call returns an
// upstream error without touching the network.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := b.cb.Execute(fn)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.UpstreamRequests.WithLabelValues(b.name, "rejected").Inc()
		b.log.Warn("upstream call rejected by circuit breaker", "upstream", b.name)
		var zero T
		return zero, apperr.Upstream(b.name+" temporarily unavailable", err)
	}

	metrics.UpstreamRequestDuration.WithLabelValues(b.name).Observe(time.Since(start).Seconds())
	switch {
	case errors.Is(err, context.Canceled):
		metrics.UpstreamRequests.WithLabelValues(b.name, "canceled").Inc()
		return result, err
	case countsAsFailure(err):
		metrics.UpstreamRequests.WithLabelValues(b.name, "failure").Inc()
		return result, err
	}

	metrics.UpstreamRequests.WithLabelValues(b.name, "success").Inc()
	return result, err
}

// State reports the breaker state: "closed", "half-open" or "open".
func (b *Breaker[T]) State() string {
	return b.cb.State().String()
}

func countsAsFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return apperr.Is(err, apperr.KindUpstream)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
