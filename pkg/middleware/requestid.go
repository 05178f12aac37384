package middleware

import (
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

// RequestID adds a unique request ID to each request and stores a logger
// tagged with it on the echo context.
func RequestID(base logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
				c.Request().Header.Set(HeaderRequestID, requestID)
			}
			c.Response().Header().Set(HeaderRequestID, requestID)

			logger.ToEcho(c, base.With(zap.String("request_id", requestID)))
			return next(c)
		}
	}
}
