package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"storefront/internal/auth"
	"storefront/internal/config"
	apperrors "storefront/internal/errors"
	"storefront/internal/handler"
	"storefront/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log logrus.FieldLogger,
	sessions *session.Manager,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	itemHandler *handler.ItemHandler,
	cartHandler *handler.CartHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CorsOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(sessions.Middleware())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Credential routes are rate limited per client IP.
	user := e.Group("/user", LoginRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst))
	user.PUT("/:username", authHandler.Login)
	user.POST("/:username", authHandler.Register)
	user.DELETE("/:username", authHandler.Logout)

	e.GET("/items", itemHandler.List)
	e.GET("/items/:id", itemHandler.Get)

	cart := e.Group("/cart", CartGuard(sessions, jwtService))
	cart.GET("", cartHandler.Get)
	cart.PUT("", cartHandler.Put)
	cart.DELETE("", cartHandler.Delete)

	e.GET("/hasSession", authHandler.HasSession)
}

// CartGuard admits a request only when its session holds a token that
// verifies. The claims are stored under handler.ClaimsKey.
func CartGuard(sessions *session.Manager, jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: handler.ClaimsKey,
		TokenLookupFuncs: []middleware.ValuesExtractor{
			func(c echo.Context) ([]string, error) {
				token := sessions.Token(c.Request().Context())
				if token == "" {
					return nil, errors.New("no session token")
				}
				return []string{token}, nil
			},
		},
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			// Only the session may supply the token, never a request header.
			if token != sessions.Token(c.Request().Context()) {
				return nil, errors.New("token not held by session")
			}
			return jwtService.VerifyToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
		},
	})
}

// LoginRateLimiter limits requests per client IP to limit per second with the
// given burst.
func LoginRateLimiter(limit float64, burst int) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(limit),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{Error: "Forbidden"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{Error: "Too many requests"})
		},
	})
}

// RequestLogger emits one structured entry per request.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
				"remote_ip":  v.RemoteIP,
			})
			if v.Status >= http.StatusInternalServerError {
				entry.Warn("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
