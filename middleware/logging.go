package middleware

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Error and trace_id are the only response fields worth echoing into the
// access log; ceremony payloads stay out of it.
type loggedResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id"`
}

// Map HTTP status codes to zap log levels
var statusToLevel = map[int]zapcore.Level{
	fiber.StatusOK:                  zap.InfoLevel,
	fiber.StatusBadRequest:          zap.WarnLevel,
	fiber.StatusUnauthorized:        zap.WarnLevel,
	fiber.StatusNotFound:            zap.WarnLevel,
	fiber.StatusTooManyRequests:     zap.WarnLevel,
	fiber.StatusInternalServerError: zap.ErrorLevel,
}

func LoggingMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		duration := time.Since(start)
		statusCode := c.Response().StatusCode()

		var body loggedResponse
		if jsonErr := json.Unmarshal(c.Response().Body(), &body); jsonErr != nil {
			body = loggedResponse{}
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
		}
		if body.Error != "" {
			fields = append(fields, zap.String("err", body.Error))
		}
		if body.TraceID != "" {
			fields = append(fields, zap.String("trace_id", body.TraceID))
		}

		level, ok := statusToLevel[statusCode]
		if !ok {
			level = zap.InfoLevel
		}
		logger.Log(level, "http request", fields...)

		return err
	}
}
