package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig holds the options of NewRouter.
type RouterConfig struct {
	// RequestTimeout bounds the context of each request. Zero disables it.
	RequestTimeout time.Duration

	// Gatherer is exposed at /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	Logger *slog.Logger
}

// NewRouter builds the echo instance serving the tracking API, /health,
// /swagger/* and, when configured, /metrics.
func NewRouter(server ServerInterface, cfg RouterConfig) (*echo.Echo, error) {
	doc, err := LoadOpenAPI()
	if err != nil {
		return nil, err
	}
	if err := registerSwaggerDoc(doc); err != nil {
		return nil, err
	}
	validator, err := requestValidator(doc)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger.With("component", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	if cfg.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: cfg.RequestTimeout,
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if cfg.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	RegisterHandlers(routeGroup{echo: e, middleware: []echo.MiddlewareFunc{validator}}, server)

	return e, nil
}

// routeGroup registers routes with a shared middleware chain while keeping
// their full paths.
type routeGroup struct {
	echo       *echo.Echo
	middleware []echo.MiddlewareFunc
}

func (g routeGroup) GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route {
	return g.echo.GET(path, h, append(append([]echo.MiddlewareFunc{}, g.middleware...), m...)...)
}

// requestLogger logs one line per request. The route pattern is logged instead
// of the URI so that customer ids in the query string stay out of the logs.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"route", v.RoutePath,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}

			ctx := c.Request().Context()
			switch {
			case v.Error != nil:
				logger.ErrorContext(ctx, "request failed", append(attrs, "error", v.Error)...)
			case v.Status >= http.StatusInternalServerError:
				logger.WarnContext(ctx, "request completed", attrs...)
			default:
				logger.InfoContext(ctx, "request completed", attrs...)
			}
			return nil
		},
	})
}
