package middleware

import (
	"time"

	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request after the handler returns.
func RequestLogger(base logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
			}

			log := logger.FromEcho(c, base)
			switch {
			case status >= 500:
				log.Error("request failed", append(fields, zap.Error(err))...)
			case status >= 400:
				log.Warn("request rejected", fields...)
			default:
				log.Info("request served", fields...)
			}
			return nil
		}
	}
}
