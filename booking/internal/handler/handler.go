package handler

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ruelucas/booking-service/booking/internal/model"
	mw "github.com/ruelucas/booking-service/pkg/middleware"
	"github.com/ruelucas/booking-service/pkg/validate"
	_ "github.com/ruelucas/booking-service/swagger"
)

const (
	ServiceName = "Rue Lucas API"
	Version     = "1.0.0"
)

type Handler struct {
	reservationSvc ReservationService
	reviewSvc      ReviewService
	log            *zap.Logger

	env        string
	corsOrigin string
	rdb        redis.Cmdable
	now        func() time.Time
}

type Option func(h *Handler)

func WithEnv(env string) Option {
	return func(h *Handler) {
		h.env = env
	}
}

func WithCORSOrigin(origin string) Option {
	return func(h *Handler) {
		if origin != "" {
			h.corsOrigin = origin
		}
	}
}

// WithRedis makes rate limits shared between replicas.
func WithRedis(rdb redis.Cmdable) Option {
	return func(h *Handler) {
		h.rdb = rdb
	}
}

func New(reservationSvc ReservationService, reviewSvc ReviewService, log *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		reservationSvc: reservationSvc,
		reviewSvc:      reviewSvc,
		log:            log,
		env:            "production",
		corsOrigin:     "*",
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) development() bool {
	return h.env == "development"
}

func calendarDate(fl validator.FieldLevel) bool {
	_, ok := model.ParseDate(fl.Field().String())
	return ok
}

func (h *Handler) rateLimiter(name string, rps rate.Limit) echo.MiddlewareFunc {
	if h.rdb != nil {
		return mw.NewRedisRateLimiter(h.rdb, "ratelimit:"+name, int64(rps), time.Second, h.log)
	}
	return mw.NewRateLimiter(rps)
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HTTPErrorHandler = h.errorHandler
	e.Validator = validate.NewCustomValidator(validate.WithValidation("calendar_date", calendarDate))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{h.corsOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.RequestLoggerWithConfig(mw.RequestLoggerConfig(h.log)))

	base := e.Group("", h.rateLimiter("base", baseRPS))
	base.GET("/", h.Index)
	base.GET("/health", h.Health)
	base.GET("/manage/health", h.ManageHealth)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("", h.rateLimiter("api", apiRPS))

	api.GET("/reservations", h.ListReservations)
	api.POST("/reservations", h.CreateReservation)
	api.GET("/reservations/stats", h.ReservationStats)
	api.GET("/reservations/code/:code", h.GetReservationByCode)
	api.GET("/reservations/:id", h.GetReservation)
	api.PATCH("/reservations/:id", h.UpdateReservation)
	api.DELETE("/reservations/:id", h.DeleteReservation)

	api.GET("/api/reviews", h.ListReviews)
	api.POST("/api/reviews", h.CreateReview)
	api.GET("/api/reviews/:id", h.GetReview)
	api.PUT("/api/reviews/:id", h.ReplaceReview)
	api.DELETE("/api/reviews/:id", h.DeleteReview)

	return e
}

func (h *Handler) ManageHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

type healthResponse struct {
	OK        bool      `json:"ok"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		OK:        true,
		Timestamp: h.now().UTC(),
		Service:   ServiceName,
	})
}
