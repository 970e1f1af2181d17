package security

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *core.BaseApp {
	t.Helper()
	return core.NewBaseApp(core.BaseAppConfig{DataDir: t.TempDir()})
}

func newJoinEvent(app core.App, remoteAddr, forwardedFor string) *core.RequestEvent {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/queue/join", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}

	e := &core.RequestEvent{App: app}
	e.Request = req
	e.Response = httptest.NewRecorder()
	return e
}

func TestRateLimiter_FirstRequestStartsWindow(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 2)

	mock.ExpectIncr("ratelimit:join:10.0.0.5").SetVal(1)
	mock.ExpectExpire("ratelimit:join:10.0.0.5", time.Minute).SetVal(true)

	err := limiter.Limit("join")(newJoinEvent(newTestApp(t), "10.0.0.5:5123", ""))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 2)

	mock.ExpectIncr("ratelimit:join:10.0.0.5").SetVal(2)
	mock.ExpectIncr("ratelimit:join:10.0.0.5").SetVal(3)

	app := newTestApp(t)
	mw := limiter.Limit("join")
	assert.NoError(t, mw(newJoinEvent(app, "10.0.0.5:5123", "")))

	err := mw(newJoinEvent(app, "10.0.0.5:5123", ""))
	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_IgnoresUntrustedForwardedFor(t *testing.T) {
	app := newTestApp(t)
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 1)

	mock.ExpectIncr("ratelimit:join:198.51.100.7").SetVal(1)
	mock.ExpectExpire("ratelimit:join:198.51.100.7", time.Minute).SetVal(true)
	for i := 2; i <= 5; i++ {
		mock.ExpectIncr("ratelimit:join:198.51.100.7").SetVal(int64(i))
	}

	mw := limiter.Limit("join")
	assert.NoError(t, mw(newJoinEvent(app, "198.51.100.7:4000", "spoof-0")))
	for i := 1; i < 5; i++ {
		err := mw(newJoinEvent(app, "198.51.100.7:4000", fmt.Sprintf("spoof-%d", i)))

		var apiErr *router.ApiError
		require.True(t, errors.As(err, &apiErr), "request %d", i)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_UsesTrustedProxyHeader(t *testing.T) {
	app := newTestApp(t)
	app.Settings().TrustedProxy.Headers = []string{"X-Forwarded-For"}

	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 5)

	mock.ExpectIncr("ratelimit:join:203.0.113.9").SetVal(3)

	err := limiter.Limit("join")(newJoinEvent(app, "10.0.0.1:80", "203.0.113.9"))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_FailedExpireDropsCounter(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 2)

	mock.ExpectIncr("ratelimit:join:10.0.0.5").SetVal(1)
	mock.ExpectExpire("ratelimit:join:10.0.0.5", time.Minute).SetErr(errors.New("connection reset"))
	mock.ExpectDel("ratelimit:join:10.0.0.5").SetVal(1)

	err := limiter.Limit("join")(newJoinEvent(newTestApp(t), "10.0.0.5:5123", ""))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_RedisFailureFailsOpen(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 1)

	mock.ExpectIncr("ratelimit:join:10.0.0.5").SetErr(errors.New("connection refused"))

	assert.NoError(t, limiter.Limit("join")(newJoinEvent(newTestApp(t), "10.0.0.5:5123", "")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_WithoutRedis(t *testing.T) {
	limiter := NewRateLimiter(nil, 1)

	for i := 0; i < 3; i++ {
		assert.NoError(t, limiter.Limit("join")(newJoinEvent(newTestApp(t), "10.0.0.5:5123", "")))
	}
}
