package stubapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Options configures the stub backend.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	Log       zerolog.Logger
}

// NewRouter builds the Echo instance with the Hunter Xpress wire contract
// registered. The returned server is self-contained: handlers share one
// in-memory store that lives as long as the Echo instance.
func NewRouter(opts Options) *echo.Echo {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = newHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	// --- Dependencies ---
	store := newMemoryStore()
	authH := &authHandler{store: store, jwtSecret: opts.JWTSecret, tokenTTL: opts.TokenTTL, log: opts.Log}
	deliveryH := &deliveryHandler{store: store, log: opts.Log}
	requireAuth := auth(opts.JWTSecret)

	// --- Auth routes ---
	e.POST("/user/register", authH.Register)
	e.POST("/user/login", authH.Login)
	e.POST("/send-otp", authH.SendOTP)

	// --- Delivery routes (bearer token required) ---
	e.POST("/deliveries", deliveryH.Create, requireAuth)
	e.GET("/deliveries/history/:userID", deliveryH.History, requireAuth)
	e.GET("/deliveries/locations/:userID", deliveryH.Locations, requireAuth)

	// --- Health probe (no auth required) ---
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return e
}
