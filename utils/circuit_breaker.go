package utils

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

var (
	ErrCircuitOpen     = gobreaker.ErrOpenState
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// BreakerSettings tunes when a breaker trips and how long it stays open.
type BreakerSettings struct {
	MinRequests  uint32  // calls needed in an interval before the failure ratio counts
	FailureRatio float64 // share of failed calls that trips the breaker
	Interval     time.Duration
	Timeout      time.Duration
}

var DefaultBreakerSettings = BreakerSettings{
	MinRequests:  10,
	FailureRatio: 0.6,
	Interval:     60 * time.Second,
	Timeout:      30 * time.Second,
}

// CircuitBreaker stops calling a failing dependency for a cool-down period.
// While half open it lets a single trial call through.
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(name string) *CircuitBreaker {
	return NewCircuitBreakerWithSettings(name, DefaultBreakerSettings)
}

func NewCircuitBreakerWithSettings(name string, s BreakerSettings) *CircuitBreaker {
	return &CircuitBreaker{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Interval:    s.Interval,
			Timeout:     s.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.Requests >= s.MinRequests &&
					float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Info("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

func (b *CircuitBreaker) State() gobreaker.State {
	return b.cb.State()
}

// Execute runs req unless the breaker is open. A panic in req counts as a failure.
func (b *CircuitBreaker) Execute(ctx context.Context, req func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, req()
	})
	return err
}
