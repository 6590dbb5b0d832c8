package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store:               echomw.NewRateLimiterMemoryStore(rps),
		IdentifierExtractor: realIP,
		DenyHandler:         deny,
	})
}

// NewRedisRateLimiter shares the request budget between replicas. Each
// identifier gets limit requests per window.
func NewRedisRateLimiter(rdb redis.Cmdable, prefix string, limit int64, window time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store:               NewRedisStore(rdb, prefix, limit, window, log),
		IdentifierExtractor: realIP,
		DenyHandler:         deny,
	})
}

func realIP(c echo.Context) (string, error) {
	return c.RealIP(), nil
}

func deny(c echo.Context, _ string, _ error) error {
	return c.JSON(http.StatusTooManyRequests, map[string]string{
		"error": "Trop de requêtes, réessayez plus tard",
	})
}

// RedisStore is a fixed-window echo.RateLimiterStore backed by INCR + EXPIRE.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
	log    *zap.Logger
}

var _ echomw.RateLimiterStore = (*RedisStore)(nil)

func NewRedisStore(rdb redis.Cmdable, prefix string, limit int64, window time.Duration, log *zap.Logger) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
		log:    log.Named("ratelimit"),
	}
}

func (s *RedisStore) key(identifier string, now time.Time) string {
	bucket := now.UnixNano() / int64(s.window)
	return fmt.Sprintf("%s:%s:%d", s.prefix, identifier, bucket)
}

// Allow fails open when redis is unreachable.
func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	key := s.key(identifier, time.Now())
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn("rate limit store unavailable", zap.Error(err))
		return true, nil
	}
	return incr.Val() <= s.limit, nil
}

func RequestLoggerConfig(log *zap.Logger) echomw.RequestLoggerConfig {
	log = log.Named("http")
	return echomw.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			switch {
			case v.Status >= http.StatusInternalServerError:
				level = zapcore.ErrorLevel
			case v.Error != nil:
				level = zapcore.WarnLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
}
