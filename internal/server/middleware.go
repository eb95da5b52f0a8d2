package server

import (
	"net/http"
	"strconv"
	"time"

	"moviegraph/internal/apperror"
	"moviegraph/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/semaphore"
)

// Admission caps the number of requests handled at once. Requests over the
// cap wait for a slot; a request whose context ends while waiting gets 503.
func Admission(sem *semaphore.Weighted) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			metrics.QueuedRequests.Inc()
			err := sem.Acquire(c.Request().Context(), 1)
			metrics.QueuedRequests.Dec()
			if err != nil {
				return apperror.ErrUnavailable.WithInternal(err)
			}
			defer sem.Release(1)

			metrics.InFlightRequests.Inc()
			defer metrics.InFlightRequests.Dec()

			return next(c)
		}
	}
}

// Metrics records request counts and latency per route. Errors are rendered
// here so the recorded status matches what the client receives.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			status := c.Response().Status
			if status == 0 {
				status = http.StatusOK
			}

			metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// MetricsHandler exposes the default Prometheus registry.
func MetricsHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
