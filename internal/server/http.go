package server

import (
	"net/http"

	"github.com/fekuna/cardmap-service/internal/api"
	"github.com/fekuna/cardmap-service/pkg/i18n"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/fekuna/cardmap-service/pkg/metrics"
	"github.com/fekuna/cardmap-service/pkg/middleware"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const APIPrefix = "/api/v1"

// Routes is implemented by every domain handler.
type Routes interface {
	Register(g *echo.Group)
}

// NewHTTP builds the echo instance with the shared middleware chain, the
// operational endpoints and every domain route under APIPrefix.
func NewHTTP(serviceName string, tr *i18n.Translator, log logger.ZapLogger, routes ...Routes) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.NewErrorHandler(tr, log)

	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID(log))
	e.Use(middleware.RequestLogger(log))
	e.Use(metrics.NewHTTPMetrics(serviceName).Middleware())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	g := e.Group(APIPrefix)
	for _, r := range routes {
		r.Register(g)
	}
	return e
}
