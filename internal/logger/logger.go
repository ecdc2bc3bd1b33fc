package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// New builds a production zap logger at the given textual level.
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zapcfg := zap.NewProductionConfig()
	zapcfg.Level = lvl
	return zapcfg.Build()
}

// RequestLog logs every request once the handler chain has finished. A
// chain error is handed to the app's error handler here, so the logged
// status is the one the client receives.
func RequestLog(zaplog *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Int("length", len(c.Response().Body())),
			zap.Duration("duration", time.Since(start)),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			zaplog.Error("request failed", append(fields, zap.Error(chainErr))...)
		case chainErr != nil:
			zaplog.Info("request rejected", append(fields, zap.Error(chainErr))...)
		default:
			zaplog.Info("request served", fields...)
		}
		return nil
	}
}
