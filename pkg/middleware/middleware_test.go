package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRateLimiter(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewRateLimiter(1))

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	require.Equal(t, http.StatusOK, codes[0])
	require.Contains(t, codes, http.StatusTooManyRequests)
}

func TestRedisStore_FailsOpen(t *testing.T) {
	t.Parallel()

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	s := NewRedisStore(rdb, "rl", 1, time.Minute, zap.NewNop())
	for i := 0; i < 3; i++ {
		allowed, err := s.Allow("10.0.0.1")
		require.NoError(t, err)
		require.True(t, allowed)
	}
}

func TestRedisStore_Key(t *testing.T) {
	t.Parallel()

	s := NewRedisStore(nil, "rl", 10, time.Minute, zap.NewNop())
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	k1 := s.key("1.2.3.4", base)
	require.Equal(t, k1, s.key("1.2.3.4", base.Add(30*time.Second)))
	require.NotEqual(t, k1, s.key("1.2.3.4", base.Add(time.Minute)))
	require.NotEqual(t, k1, s.key("5.6.7.8", base))
}
