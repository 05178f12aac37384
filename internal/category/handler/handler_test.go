package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/fekuna/cardmap-service/internal/api"
	"github.com/fekuna/cardmap-service/internal/category/usecase"
	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/fekuna/cardmap-service/internal/refcache"
	refusecase "github.com/fekuna/cardmap-service/internal/reference/usecase"
	"github.com/fekuna/cardmap-service/internal/store/memory"
	"github.com/fekuna/cardmap-service/pkg/i18n"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRoutes(t *testing.T) {
	store := memory.NewStore()
	cache := refcache.New(refcache.NewMemoryBackend(), logger.Nop())
	uc := usecase.NewCategoryUseCase(store.Categories(), cache, logger.Nop())
	ref := refusecase.NewReferenceUseCase(store.Cards(), store.Categories(), cache, logger.Nop())

	tr, err := i18n.NewTranslator()
	require.NoError(t, err)
	e := echo.New()
	e.HTTPErrorHandler = api.NewErrorHandler(tr, logger.Nop())
	NewCategoryHandler(uc, ref, logger.Nop()).Register(e.Group("/api/v1"))

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/api/v1/categories", `{"name":"cafe"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var cafe model.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cafe))

	rec = do(http.MethodPost, "/api/v1/categories", `{"name":"cafe"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(http.MethodGet, "/api/v1/categories/"+strconv.FormatInt(cafe.ID, 10), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodGet, "/api/v1/categories/77", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// No merchant uses the category yet.
	rec = do(http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var active []model.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Empty(t, active)
}
