package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/fekuna/cardmap-service/config"
	"github.com/fekuna/cardmap-service/internal/api"
	"github.com/fekuna/cardmap-service/internal/geo"
	"github.com/fekuna/cardmap-service/internal/merchant/dto"
	"github.com/fekuna/cardmap-service/internal/merchant/usecase"
	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/fekuna/cardmap-service/internal/refcache"
	"github.com/fekuna/cardmap-service/internal/store/memory"
	"github.com/fekuna/cardmap-service/pkg/i18n"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type server struct {
	e      *echo.Echo
	plaza  int64
	gangn  int64
	cardID int64
}

func newServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	card := model.Card{Name: "child-meal"}
	require.NoError(t, store.Cards().Create(ctx, &card))

	save := func(name string, lng, lat float64) int64 {
		p, err := geo.PointFromLngLat(lng, lat)
		require.NoError(t, err)
		m, err := store.Merchants().Save(ctx, &model.Merchant{Name: name, Address: "Seoul", Location: &p}, []int64{card.ID})
		require.NoError(t, err)
		return m.ID
	}
	s := &server{cardID: card.ID}
	s.plaza = save("plaza", 126.9781, 37.5666)
	s.gangn = save("gangnam", 127.0276, 37.4979)

	cfg := config.DiscoveryConfig{DefaultPageSize: 20, MaxPageSize: 100, DefaultRadius: 1000, CardMerchantsRadius: 5000}
	cache := refcache.New(refcache.NewMemoryBackend(), logger.Nop())
	uc := usecase.NewMerchantUseCase(store.Merchants(), store.Cards(), store.Categories(), cache, cfg, logger.Nop())

	tr, err := i18n.NewTranslator()
	require.NoError(t, err)
	s.e = echo.New()
	s.e.HTTPErrorHandler = api.NewErrorHandler(tr, logger.Nop())
	NewMerchantHandler(uc, cfg, logger.Nop()).Register(s.e.Group("/api/v1"))
	return s
}

func (s *server) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestNearby(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/v1/merchants/nearby?lat=37.5665&lng=126.9780", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var results []dto.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, s.plaza, results[0].ID)
	require.NotNil(t, results[0].Distance)

	rec = s.do(http.MethodGet, "/api/v1/merchants/nearby?lat=37.5665&lng=126.9780&radius=20000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Len(t, results, 2)
}

func TestNearbyRejectsBadInput(t *testing.T) {
	s := newServer(t)

	cases := []struct {
		query string
		code  string
	}{
		{"lat=abc&lng=126.9780", i18n.InvalidInput},
		{"lng=126.9780", i18n.InvalidInput},
		{"lat=95&lng=126.9780", i18n.InvalidCoordinate},
		{"lat=37.5&lng=126.9&radius=0", i18n.InvalidRadius},
		{"lat=37.5&lng=126.9&radius=-5", i18n.InvalidRadius},
	}
	for _, c := range cases {
		rec := s.do(http.MethodGet, "/api/v1/merchants/nearby?"+c.query, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, c.query)
		assert.Equal(t, c.code, errorCode(t, rec), c.query)
	}
}

func TestSearchPages(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/v1/merchants/search?size=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page dto.Page[dto.SearchResult]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
	require.Len(t, page.Items, 1)
	assert.Equal(t, s.plaza, page.Items[0].ID)

	rec = s.do(http.MethodGet, "/api/v1/merchants/search?cardId=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/v1/merchants?size=1&page=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page dto.Page[dto.SearchResult]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, s.gangn, page.Items[0].ID)
	assert.False(t, page.HasNext)

	rec = s.do(http.MethodGet, "/api/v1/merchants?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHugePageIsEmpty(t *testing.T) {
	s := newServer(t)

	for _, target := range []string{
		"/api/v1/merchants/search?page=9223372036854775807",
		"/api/v1/merchants/search?page=2305843009213693952&size=8",
		"/api/v1/merchants?page=9223372036854775807",
	} {
		rec := s.do(http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		var page dto.Page[dto.SearchResult]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Empty(t, page.Items, target)
		assert.False(t, page.HasNext, target)
		assert.Equal(t, 2, page.TotalItems, target)
	}
}

func TestDetail(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/v1/merchants/"+itoa(s.plaza), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail dto.MerchantDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Nil(t, detail.Distance)
	require.Len(t, detail.AvailableCards, 1)

	rec = s.do(http.MethodGet, "/api/v1/merchants/"+itoa(s.plaza)+"?userLat=37.5665&userLng=126.9780", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	require.NotNil(t, detail.Distance)
	assert.Less(t, *detail.Distance, 50.0)

	rec = s.do(http.MethodGet, "/api/v1/merchants/9999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, i18n.MerchantNotFound, errorCode(t, rec))

	rec = s.do(http.MethodGet, "/api/v1/merchants/0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestByCard(t *testing.T) {
	s := newServer(t)
	base := "/api/v1/cards/" + itoa(s.cardID) + "/merchants"

	rec := s.do(http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var results []dto.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Len(t, results, 2)
	for _, r := range results {
		assert.Nil(t, r.Distance)
	}

	rec = s.do(http.MethodGet, base+"?lat=37.5665&lng=126.9780", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, s.plaza, results[0].ID)

	rec = s.do(http.MethodGet, base+"?lat=37.5665", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/cards/9999/merchants", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, i18n.CardNotFound, errorCode(t, rec))
}

func TestCreate(t *testing.T) {
	s := newServer(t)

	body := `{"name":"new shop","address":"Seoul Jung-gu","latitude":37.5651,"longitude":126.9895,"card_ids":[` + itoa(s.cardID) + `]}`
	rec := s.do(http.MethodPost, "/api/v1/merchants", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created dto.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	require.NotNil(t, created.Latitude)
	assert.Equal(t, 37.5651, *created.Latitude)

	rec = s.do(http.MethodPost, "/api/v1/merchants", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeocodingStatus(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/v1/admin/geocode/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status model.GeocodingStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 2, status.Total)
	assert.Equal(t, 2, status.WithCoordinates)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
