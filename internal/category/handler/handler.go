package handler

import (
	"net/http"

	"github.com/fekuna/cardmap-service/internal/api"
	"github.com/fekuna/cardmap-service/internal/category"
	"github.com/fekuna/cardmap-service/internal/category/dto"
	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/fekuna/cardmap-service/internal/reference"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	uc     category.UseCase
	ref    reference.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, ref reference.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		ref:    ref,
		logger: log,
	}
}

func (h *CategoryHandler) Register(g *echo.Group) {
	g.GET("/categories", h.ListActive)
	g.GET("/categories/:id", h.Get)
	g.POST("/categories", h.Create)
}

func (h *CategoryHandler) ListActive(c echo.Context) error {
	categories, err := h.ref.GetActiveCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := api.PathID(c, "id")
	if err != nil {
		return err
	}
	cat, err := h.uc.GetCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var input dto.CreateCategoryInput
	if err := c.Bind(&input); err != nil {
		return model.ErrInvalidInput
	}
	cat, err := h.uc.CreateCategory(c.Request().Context(), &input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cat)
}
