package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"brgydocs/internal/logger"
)

// ErrorLocalKey holds an internal error a handler answered with a generic 500, so
// the access log can record the cause without leaking it to the client.
const ErrorLocalKey = "handler_error"

// statusOf resolves the status a request will be answered with. Errors returned
// by handlers are turned into responses by the app's ErrorHandler after the
// middleware chain unwinds, so the response code is not yet set for them.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	if fe, ok := err.(*fiber.Error); ok {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// Logger writes one structured line per request: request_id, method, path,
// status and latency_ms. 5xx are logged at error level and 4xx at warn.
// Method and path are copied because fasthttp reuses their buffers once the
// request ends, and a core may keep the fields past that point.
func Logger(log *zap.Logger) fiber.Handler {
	log = logger.Component(log, "http")

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := statusOf(c, err)

		level := zapcore.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= fiber.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		if ce := log.Check(level, "http_request"); ce != nil {
			fields := []zap.Field{
				zap.String("request_id", rid),
				zap.String("method", utils.CopyString(c.Method())),
				zap.String("path", utils.CopyString(c.Path())),
				zap.Int("status", status),
				zap.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
			}
			if cause, ok := c.Locals(ErrorLocalKey).(error); ok {
				fields = append(fields, zap.Error(cause))
			} else if err != nil && status >= fiber.StatusInternalServerError {
				fields = append(fields, zap.Error(err))
			}
			ce.Write(fields...)
		}

		return err
	}
}
