package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/ryan-gang/kindle-sendto/internal/logger"
	"github.com/ryan-gang/kindle-sendto/internal/metrics"
)

type loggerKey struct{}

// requestLogging tags each request with an id and stores a request-scoped
// logger in the context locals.
func requestLogging(log logger.LoggerInterface) fiber.Handler {
	return func(c fiber.Ctx) error {
		id := uuid.NewString()
		c.Set(fiber.HeaderXRequestID, id)

		reqLog := log.With("req_id", id, "from", c.IP(), "method", c.Method(), "path", c.Path())
		c.Locals(loggerKey{}, reqLog)
		reqLog.Debug("request received")

		start := time.Now()
		err := c.Next()
		reqLog.Debugf("response status %d in %s", c.Response().StatusCode(), time.Since(start))
		return err
	}
}

func requestLogger(c fiber.Ctx, fallback logger.LoggerInterface) logger.LoggerInterface {
	if log, ok := c.Locals(loggerKey{}).(logger.LoggerInterface); ok {
		return log
	}
	return fallback
}

// requestMetrics records request count, latency and in-flight gauge. The
// route template is used as label to keep cardinality low.
func requestMetrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		metrics.HTTPInFlight.Inc()
		defer metrics.HTTPInFlight.Dec()

		err := c.Next()

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		metrics.ObserveHTTP(c.Method(), route, c.Response().StatusCode(), time.Since(start).Seconds())
		return err
	}
}
