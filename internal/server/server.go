package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"moviegraph/internal/apperror"
	"moviegraph/internal/config"
	"moviegraph/internal/logger"
	"moviegraph/internal/movies"
	"moviegraph/internal/query"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/sync/semaphore"
)

var Module = fx.Module("server",
	fx.Provide(
		NewEcho,
		func(svc *query.Service, catalog *movies.Catalog, log *slog.Logger) *Handler {
			return NewHandler(svc, catalog, log)
		},
	),
	fx.Invoke(RegisterRoutes, StartServer),
)

// NewEcho creates and configures an Echo instance
func NewEcho(cfg *config.Config, log *slog.Logger) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(log)

	e.Use(
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}),

		middleware.RequestID(),

		middleware.SecureWithConfig(middleware.SecureConfig{
			ContentTypeNosniff: "nosniff",
			XFrameOptions:      "DENY",
			ReferrerPolicy:     "no-referrer",
		}),

		// Request logging (skip health and metrics endpoints)
		middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			Skipper: func(c echo.Context) bool {
				path := c.Request().URL.Path
				return path == "/health" || path == "/metrics"
			},
			LogURI:       true,
			LogStatus:    true,
			LogLatency:   true,
			LogError:     true,
			LogMethod:    true,
			LogRequestID: true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				attrs := []any{
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Duration("latency", v.Latency),
					slog.String("request_id", v.RequestID),
				}
				if v.Error != nil {
					attrs = append(attrs, logger.Error(v.Error))
					log.Warn("request failed", attrs...)
				} else {
					log.Info("request", attrs...)
				}
				return nil
			},
		}),

		Metrics(),

		middleware.RecoverWithConfig(middleware.RecoverConfig{
			LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
				log.Error("panic recovered",
					logger.Error(err),
					slog.String("stack", string(stack)),
				)
				return nil
			},
		}),

		middleware.BodyLimit(fmt.Sprintf("%dB", cfg.MaxBodyBytes)),
		middleware.Gzip(),

		// The deadline covers time spent waiting for admission.
		middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: cfg.RequestTimeout(),
		}),
		Admission(semaphore.NewWeighted(int64(cfg.MaxConcurrency))),
	)

	return e
}

// RegisterRoutes mounts the API, the operational endpoints and the static
// assets.
func RegisterRoutes(e *echo.Echo, h *Handler, cfg *config.Config) {
	e.GET("/graph", h.Graph)
	e.GET("/search", h.Search)
	e.GET("/movie/:title", h.Movie)
	e.POST("/movie/vote/:title", h.Vote)
	// Without this, non-POST votes fall through to /movie/:title as "vote/<title>".
	e.Match([]string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodDelete},
		"/movie/vote/:title", voteMethodNotAllowed)

	e.GET("/health", h.Health)
	e.GET("/metrics", MetricsHandler())

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusTemporaryRedirect, "/index.html")
	})
	e.Static("/", cfg.AssetsDir)
}

func voteMethodNotAllowed(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
	return echo.ErrMethodNotAllowed
}

// StartServer starts the HTTP server with graceful shutdown
func StartServer(lc fx.Lifecycle, e *echo.Echo, cfg *config.Config, log *slog.Logger) {
	log = log.With(logger.Scope("server"))

	server := &http.Server{
		Addr:        cfg.Addr(),
		ReadTimeout: cfg.ReadTimeout,
		IdleTimeout: cfg.IdleTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting HTTP server",
				slog.String("address", server.Addr),
				slog.String("neo4j_uri", cfg.Neo4jURI),
			)

			go func() {
				if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
					log.Error("server error", logger.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down HTTP server")

			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()

			return e.Shutdown(shutdownCtx)
		},
	})
}
