package utils

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Circuit Breaker Tests

const testTimeout = 20 * time.Millisecond

func newTestBreaker(minRequests uint32, ratio float64) *CircuitBreaker {
	return NewCircuitBreakerWithSettings("test", BreakerSettings{
		MinRequests:  minRequests,
		FailureRatio: ratio,
		Interval:     time.Minute,
		Timeout:      testTimeout,
	})
}

// tripBreaker opens a breaker built with minRequests 2 and ratio 0.5.
func tripBreaker(t *testing.T, cb *CircuitBreaker) {
	t.Helper()
	cb.Execute(context.Background(), fail)
	cb.Execute(context.Background(), fail)
	require.Equal(t, gobreaker.StateOpen, cb.State())
}

var errFailure = errors.New("failure")

func succeed() error { return nil }
func fail() error    { return errFailure }

func TestCircuitBreaker_NewCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker("pubnub-board")

	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.NoError(t, cb.Execute(context.Background(), succeed))
}

func TestCircuitBreaker_ExecuteFailurePassesErrorThrough(t *testing.T) {
	cb := newTestBreaker(5, 0.6)

	err := cb.Execute(context.Background(), fail)

	assert.ErrorIs(t, err, errFailure)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_CancelledContextSkipsCall(t *testing.T) {
	cb := newTestBreaker(1, 0.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cb.Execute(ctx, func() error {
		t.Fatal("request must not run with a cancelled context")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_ClosedToOpen(t *testing.T) {
	cb := newTestBreaker(5, 0.6)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, cb.Execute(ctx, succeed))
	}
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(ctx, fail), errFailure)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())

	err := cb.Execute(ctx, func() error {
		t.Fatal("request must not run while open")
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_StaysClosedBelowMinRequests(t *testing.T) {
	cb := newTestBreaker(5, 0.6)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		assert.ErrorIs(t, cb.Execute(ctx, fail), errFailure)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_StaysClosedBelowFailureRatio(t *testing.T) {
	cb := newTestBreaker(4, 0.6)
	ctx := context.Background()

	cb.Execute(ctx, succeed)
	cb.Execute(ctx, succeed)
	cb.Execute(ctx, fail)
	cb.Execute(ctx, fail)

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_OpenToHalfOpenToClosed(t *testing.T) {
	cb := newTestBreaker(2, 0.5)
	tripBreaker(t, cb)

	time.Sleep(2 * testTimeout)
	assert.Equal(t, gobreaker.StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(context.Background(), succeed))
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker(2, 0.5)
	tripBreaker(t, cb)

	time.Sleep(2 * testTimeout)

	assert.ErrorIs(t, cb.Execute(context.Background(), fail), errFailure)
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}

func TestCircuitBreaker_HalfOpenAllowsOneTrialCall(t *testing.T) {
	cb := newTestBreaker(2, 0.5)
	ctx := context.Background()
	tripBreaker(t, cb)

	time.Sleep(2 * testTimeout)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- cb.Execute(ctx, func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.ErrorIs(t, cb.Execute(ctx, succeed), ErrTooManyRequests)

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_PanicCountsAsFailure(t *testing.T) {
	cb := newTestBreaker(1, 0.5)

	assert.Panics(t, func() {
		cb.Execute(context.Background(), func() error {
			panic("publish exploded")
		})
	})

	assert.Equal(t, gobreaker.StateOpen, cb.State())
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := newTestBreaker(1000, 0.9)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				cb.Execute(ctx, succeed)
			} else {
				cb.Execute(ctx, fail)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

// Redis Client Tests

func TestRedisHealthCheck_Success(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.ExpectPing().SetVal("PONG")

	err := RedisHealthCheck(context.Background(), db)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisHealthCheck_Failure(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.ExpectPing().SetErr(errors.New("connection failed"))

	err := RedisHealthCheck(context.Background(), db)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis health check failed")
	assert.Contains(t, err.Error(), "connection failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisHealthCheck_NilClient(t *testing.T) {
	assert.NoError(t, RedisHealthCheck(context.Background(), nil))
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(8)

	require.NoError(t, err)
	assert.Len(t, code, 16)
	assert.Regexp(t, "^[0-9A-F]+$", code)

	other, err := GenerateCode(8)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func BenchmarkCircuitBreaker_Execute_Success(b *testing.B) {
	cb := NewCircuitBreaker("benchmark")
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cb.Execute(ctx, succeed)
	}
}
