package logger

import (
	"github.com/labstack/echo/v4"
)

const echoKey = "logger"

// FromEcho returns the request-scoped logger set by the request id
// middleware, or fallback when none is set.
func FromEcho(c echo.Context, fallback ZapLogger) ZapLogger {
	if l, ok := c.Get(echoKey).(ZapLogger); ok {
		return l
	}
	return fallback
}

func ToEcho(c echo.Context, l ZapLogger) {
	c.Set(echoKey, l)
}
