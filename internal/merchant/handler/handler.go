package handler

import (
	"fmt"
	"net/http"

	"github.com/fekuna/cardmap-service/config"
	"github.com/fekuna/cardmap-service/internal/api"
	"github.com/fekuna/cardmap-service/internal/geo"
	"github.com/fekuna/cardmap-service/internal/merchant"
	"github.com/fekuna/cardmap-service/internal/merchant/dto"
	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

type MerchantHandler struct {
	uc     merchant.UseCase
	cfg    config.DiscoveryConfig
	logger logger.ZapLogger
}

func NewMerchantHandler(uc merchant.UseCase, cfg config.DiscoveryConfig, log logger.ZapLogger) *MerchantHandler {
	return &MerchantHandler{
		uc:     uc,
		cfg:    cfg,
		logger: log,
	}
}

func (h *MerchantHandler) Register(g *echo.Group) {
	g.GET("/merchants", h.List)
	g.GET("/merchants/nearby", h.Nearby)
	g.GET("/merchants/search", h.Search)
	g.GET("/merchants/:id", h.Detail)
	g.POST("/merchants", h.Create)
	g.GET("/cards/:id/merchants", h.ByCard)
	g.GET("/admin/geocode/status", h.GeocodingStatus)
}

func (h *MerchantHandler) Nearby(c echo.Context) error {
	lat, err := api.RequiredFloat(c, "lat")
	if err != nil {
		return err
	}
	lng, err := api.RequiredFloat(c, "lng")
	if err != nil {
		return err
	}
	radius, err := api.QueryFloat(c, "radius")
	if err != nil {
		return err
	}
	r := h.cfg.DefaultRadius
	if radius != nil {
		r = *radius
	}

	results, err := h.uc.Nearby(c.Request().Context(), lat, lng, r, api.QueryList(c, "cardNames"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}

func (h *MerchantHandler) Search(c echo.Context) error {
	cardID, err := api.QueryInt64(c, "cardId")
	if err != nil {
		return err
	}
	categoryID, err := api.QueryInt64(c, "categoryId")
	if err != nil {
		return err
	}
	page, err := api.QueryInt(c, "page", 0)
	if err != nil {
		return err
	}
	size, err := api.QueryInt(c, "size", h.cfg.DefaultPageSize)
	if err != nil {
		return err
	}

	filters := &dto.SearchFilters{
		CardID:     cardID,
		CategoryID: categoryID,
		Page:       page,
		PageSize:   size,
	}
	if kw := c.QueryParam("keyword"); kw != "" {
		filters.Keyword = &kw
	}

	result, err := h.uc.Search(c.Request().Context(), filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *MerchantHandler) List(c echo.Context) error {
	page, err := api.QueryInt(c, "page", 0)
	if err != nil {
		return err
	}
	size, err := api.QueryInt(c, "size", h.cfg.DefaultPageSize)
	if err != nil {
		return err
	}

	result, err := h.uc.List(c.Request().Context(), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *MerchantHandler) Detail(c echo.Context) error {
	id, err := api.PathID(c, "id")
	if err != nil {
		return err
	}
	userLat, err := api.QueryFloat(c, "userLat")
	if err != nil {
		return err
	}
	userLng, err := api.QueryFloat(c, "userLng")
	if err != nil {
		return err
	}

	detail, err := h.uc.Detail(c.Request().Context(), id, userLat, userLng)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *MerchantHandler) ByCard(c echo.Context) error {
	id, err := api.PathID(c, "id")
	if err != nil {
		return err
	}
	lat, err := api.QueryFloat(c, "lat")
	if err != nil {
		return err
	}
	lng, err := api.QueryFloat(c, "lng")
	if err != nil {
		return err
	}
	radius, err := api.QueryFloat(c, "radius")
	if err != nil {
		return err
	}

	if (lat == nil) != (lng == nil) {
		return fmt.Errorf("%w: lat and lng must be given together", model.ErrInvalidInput)
	}
	var center *geo.Point
	if lat != nil {
		p, err := geo.PointFromLngLat(*lng, *lat)
		if err != nil {
			return err
		}
		center = &p
	}

	results, err := h.uc.ByCard(c.Request().Context(), id, center, radius)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}

type createMerchantRequest struct {
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Phone         *string  `json:"phone"`
	BusinessHours *string  `json:"business_hours"`
	CategoryID    *int64   `json:"category_id"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	CardIDs       []int64  `json:"card_ids"`
}

func (h *MerchantHandler) Create(c echo.Context) error {
	var req createMerchantRequest
	if err := c.Bind(&req); err != nil {
		return model.ErrInvalidInput
	}

	m, err := h.uc.CreateMerchant(c.Request().Context(), &dto.CreateMerchantInput{
		Name:          req.Name,
		Address:       req.Address,
		Phone:         req.Phone,
		BusinessHours: req.BusinessHours,
		CategoryID:    req.CategoryID,
		Lat:           req.Latitude,
		Lng:           req.Longitude,
		CardIDs:       req.CardIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.NewSearchResult(m, nil))
}

func (h *MerchantHandler) GeocodingStatus(c echo.Context) error {
	status, err := h.uc.GeocodingStatus(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}
