package handler

import (
	"context"
	"net/http"

	"github.com/fekuna/cardmap-service/internal/reference"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

type Sweeper interface {
	Sweep(ctx context.Context) bool
}

// CacheHandler exposes cache administration under /admin/cache.
type CacheHandler struct {
	uc      reference.UseCase
	sweeper Sweeper
	logger  logger.ZapLogger
}

func NewCacheHandler(uc reference.UseCase, sweeper Sweeper, log logger.ZapLogger) *CacheHandler {
	return &CacheHandler{
		uc:      uc,
		sweeper: sweeper,
		logger:  log,
	}
}

func (h *CacheHandler) Register(g *echo.Group) {
	g.DELETE("/admin/cache", h.EvictAll)
	g.DELETE("/admin/cache/:slot", h.Evict)
	g.POST("/admin/cache/sweep", h.Sweep)
}

func (h *CacheHandler) EvictAll(c echo.Context) error {
	if err := h.uc.EvictAll(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Evict clears one slot, or a single entry when ?key= is given.
func (h *CacheHandler) Evict(c echo.Context) error {
	ctx := c.Request().Context()
	slot := c.Param("slot")

	var err error
	if key := c.QueryParam("key"); key != "" {
		err = h.uc.EvictKey(ctx, slot, key)
	} else {
		err = h.uc.Evict(ctx, slot)
	}
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CacheHandler) Sweep(c echo.Context) error {
	ran := h.sweeper.Sweep(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]bool{"swept": ran})
}
