package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidConfig indicates a limiter configuration that would never admit
// or never reject correctly. It is fatal at startup.
var ErrInvalidConfig = errors.New("invalid rate limit configuration")

// Config holds the settings for a fixed-window limiter instance.
type Config struct {
	// Requests is the maximum number of admitted requests per window.
	Requests int64
	// Window is the length of the counting window.
	Window time.Duration
	// KeyPrefix namespaces this limiter's counters in the shared store.
	KeyPrefix string
	// Enabled toggles the limiter. When false, Check admits every request
	// without touching the store.
	Enabled bool
	// FailOpen selects the behavior when the store is unreachable:
	// true admits the request, false rejects it. Both are logged.
	FailOpen bool
}

// Validate checks the configuration for values that must be rejected at
// startup rather than producing implicit reject-all or divide-by-zero
// behavior at request time.
func (c Config) Validate() error {
	if c.Requests <= 0 {
		return fmt.Errorf("%w: requests must be positive, got %d", ErrInvalidConfig, c.Requests)
	}

	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %s", ErrInvalidConfig, c.Window)
	}

	return nil
}

// Result is the outcome of an admission check.
type Result struct {
	// Allowed reports whether the request fits the budget.
	Allowed bool
	// Count is the number of requests observed in the current window,
	// including this one. Zero when the limiter is disabled.
	Count int64
	// Limit is the configured budget.
	Limit int64
}

// Remaining returns the number of requests left in the current window,
// never negative.
func (r Result) Remaining() int64 {
	if remaining := r.Limit - r.Count; remaining > 0 {
		return remaining
	}

	return 0
}

// Limiter defines the interface for admission control.
type Limiter interface {
	// Check records the request against the client's budget and reports
	// whether it is admitted. Every call counts, including rejected ones.
	Check(ctx context.Context, clientKey string) (Result, error)

	// Reset clears the client's counter, immediately restoring the full
	// budget. Administrative override only, never part of admission.
	Reset(ctx context.Context, clientKey string) error
}

// FixedWindowLimiter admits requests using a fixed-window counting algorithm
// backed by a shared store. All state lives in the store, so any number of
// process instances can share one budget.
type FixedWindowLimiter struct {
	store  Store
	cfg    Config
	logger *zap.Logger
}

// NewFixedWindowLimiter creates a limiter for the given configuration.
// Returns ErrInvalidConfig for a non-positive budget or window.
func NewFixedWindowLimiter(store Store, cfg Config, logger *zap.Logger) (*FixedWindowLimiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &FixedWindowLimiter{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Check increments the client's counter and compares it against the budget.
// A store failure never surfaces to the caller: the request is admitted or
// rejected per the configured FailOpen policy and the error is logged.
func (l *FixedWindowLimiter) Check(ctx context.Context, clientKey string) (Result, error) {
	if !l.cfg.Enabled {
		return Result{Allowed: true, Limit: l.cfg.Requests}, nil
	}

	count, err := l.store.Incr(ctx, l.cfg.KeyPrefix+clientKey, l.cfg.Window)
	if err != nil {
		l.logger.Error("rate limit store unavailable",
			zap.String("client_key", clientKey),
			zap.Bool("fail_open", l.cfg.FailOpen),
			zap.Error(err),
		)

		return Result{Allowed: l.cfg.FailOpen, Limit: l.cfg.Requests}, nil
	}

	return Result{
		Allowed: count <= l.cfg.Requests,
		Count:   count,
		Limit:   l.cfg.Requests,
	}, nil
}

// Reset deletes the client's counter.
func (l *FixedWindowLimiter) Reset(ctx context.Context, clientKey string) error {
	return l.store.Reset(ctx, l.cfg.KeyPrefix+clientKey)
}

var _ Limiter = (*FixedWindowLimiter)(nil)
