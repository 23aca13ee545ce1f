package store

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"whiteboard/diagram"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("store temporarily unavailable")

// BreakerConfig tunes the circuit breaker around a Store.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns settings for an interactive editor: a few
// consecutive failed saves open the breaker for half a minute.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// Guarded wraps a Store in a circuit breaker so a dead database fails fast
// instead of stalling every autosave.
type Guarded struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

// NewGuarded wraps next.
func NewGuarded(next Store, cfg BreakerConfig, logger *zap.Logger) *Guarded {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("store breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
	})
	return &Guarded{next: next, cb: cb}
}

func (g *Guarded) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUnavailable
	}
	return err
}

// Save implements Store.
func (g *Guarded) Save(ctx context.Context, project string, s diagram.Snapshot) error {
	_, err := g.cb.Execute(func() (interface{}, error) {
		return nil, g.next.Save(ctx, project, s)
	})
	return g.translate(err)
}

// Load implements Store.
func (g *Guarded) Load(ctx context.Context, project string) (diagram.Snapshot, error) {
	v, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.Load(ctx, project)
	})
	if err != nil {
		return diagram.Snapshot{}, g.translate(err)
	}
	return v.(diagram.Snapshot), nil
}

// List implements Store.
func (g *Guarded) List(ctx context.Context) ([]string, error) {
	v, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.List(ctx)
	})
	if err != nil {
		return nil, g.translate(err)
	}
	return v.([]string), nil
}

// Close implements Store.
func (g *Guarded) Close() error { return g.next.Close() }

// State reports the breaker state for status display.
func (g *Guarded) State() string { return g.cb.State().String() }
