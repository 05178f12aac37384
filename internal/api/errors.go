// Package api holds what every HTTP handler shares: error rendering and
// query parameter parsing.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fekuna/cardmap-service/internal/geo"
	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/fekuna/cardmap-service/internal/refcache"
	"github.com/fekuna/cardmap-service/pkg/i18n"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Classify maps an error to its HTTP status and stable error code.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, geo.ErrInvalidCoordinate):
		return http.StatusBadRequest, i18n.InvalidCoordinate
	case errors.Is(err, model.ErrInvalidRadius):
		return http.StatusBadRequest, i18n.InvalidRadius
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, i18n.InvalidInput
	case errors.Is(err, refcache.ErrUnknownSlot):
		return http.StatusBadRequest, i18n.UnknownCacheSlot
	case errors.Is(err, model.ErrMerchantNotFound):
		return http.StatusNotFound, i18n.MerchantNotFound
	case errors.Is(err, model.ErrCardNotFound):
		return http.StatusNotFound, i18n.CardNotFound
	case errors.Is(err, model.ErrCategoryNotFound):
		return http.StatusNotFound, i18n.CategoryNotFound
	case errors.Is(err, model.ErrCardAlreadyExists):
		return http.StatusConflict, i18n.CardAlreadyExists
	case errors.Is(err, model.ErrCategoryAlreadyExists):
		return http.StatusConflict, i18n.CategoryAlreadyExists
	case errors.Is(err, model.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, i18n.StoreUnavailable
	default:
		return http.StatusInternalServerError, i18n.InternalError
	}
}

// NewErrorHandler renders handler errors as localized ErrorResponse bodies.
func NewErrorHandler(tr *i18n.Translator, base logger.ZapLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			// Routing and binding errors from echo itself.
			msg := fmt.Sprint(he.Message)
			code := i18n.InternalError
			if he.Code < http.StatusInternalServerError {
				code = i18n.InvalidInput
			}
			writeError(c, he.Code, ErrorResponse{Error: msg, Code: code})
			return
		}

		status, code := Classify(err)
		log := logger.FromEcho(c, base)
		if status >= http.StatusInternalServerError {
			log.Error("request failed", zap.String("code", code), zap.Error(err))
		} else {
			log.Debug("request rejected", zap.String("code", code), zap.Error(err))
		}

		lang := c.Request().Header.Get("Accept-Language")
		writeError(c, status, ErrorResponse{Error: tr.Translate(lang, code), Code: code})
	}
}

func writeError(c echo.Context, status int, body ErrorResponse) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
