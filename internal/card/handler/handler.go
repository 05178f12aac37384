package handler

import (
	"net/http"

	"github.com/fekuna/cardmap-service/internal/api"
	"github.com/fekuna/cardmap-service/internal/card"
	"github.com/fekuna/cardmap-service/internal/card/dto"
	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/fekuna/cardmap-service/internal/reference"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

type CardHandler struct {
	uc     card.UseCase
	ref    reference.UseCase
	logger logger.ZapLogger
}

func NewCardHandler(uc card.UseCase, ref reference.UseCase, log logger.ZapLogger) *CardHandler {
	return &CardHandler{
		uc:     uc,
		ref:    ref,
		logger: log,
	}
}

func (h *CardHandler) Register(g *echo.Group) {
	g.GET("/cards", h.ListActive)
	g.GET("/cards/search", h.Search)
	g.GET("/cards/:id", h.Get)
	g.GET("/cards/:id/statistics", h.Statistics)
	g.GET("/cards/:id/popular-categories", h.PopularCategories)
	g.POST("/cards", h.Create)
}

func (h *CardHandler) ListActive(c echo.Context) error {
	cards, err := h.ref.GetActiveCards(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cards)
}

func (h *CardHandler) Search(c echo.Context) error {
	cards, err := h.uc.SearchCards(c.Request().Context(), c.QueryParam("keyword"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cards)
}

func (h *CardHandler) Get(c echo.Context) error {
	id, err := api.PathID(c, "id")
	if err != nil {
		return err
	}
	cd, err := h.uc.GetCard(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cd)
}

func (h *CardHandler) Statistics(c echo.Context) error {
	id, err := api.PathID(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.ref.GetCardStatistics(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *CardHandler) PopularCategories(c echo.Context) error {
	id, err := api.PathID(c, "id")
	if err != nil {
		return err
	}
	ranked, err := h.ref.GetPopularCategories(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ranked)
}

func (h *CardHandler) Create(c echo.Context) error {
	var input dto.CreateCardInput
	if err := c.Bind(&input); err != nil {
		return model.ErrInvalidInput
	}
	cd, err := h.uc.CreateCard(c.Request().Context(), &input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cd)
}
