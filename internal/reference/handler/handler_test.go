package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/cardmap-service/internal/api"
	"github.com/fekuna/cardmap-service/internal/refcache"
	"github.com/fekuna/cardmap-service/internal/reference/usecase"
	"github.com/fekuna/cardmap-service/internal/store/memory"
	"github.com/fekuna/cardmap-service/pkg/i18n"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSweeper struct{ calls int }

func (s *stubSweeper) Sweep(ctx context.Context) bool {
	s.calls++
	return true
}

func TestCacheAdmin(t *testing.T) {
	ctx := context.Background()
	backend := refcache.NewMemoryBackend()
	cache := refcache.New(backend, logger.Nop())
	store := memory.NewStore()
	uc := usecase.NewReferenceUseCase(store.Cards(), store.Categories(), cache, logger.Nop())
	sweeper := &stubSweeper{}

	tr, err := i18n.NewTranslator()
	require.NoError(t, err)
	e := echo.New()
	e.HTTPErrorHandler = api.NewErrorHandler(tr, logger.Nop())
	NewCacheHandler(uc, sweeper, logger.Nop()).Register(e.Group("/api/v1"))

	do := func(method, target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
		return rec
	}

	_, err = uc.GetActiveCards(ctx)
	require.NoError(t, err)
	_, ok, _ := backend.Get(ctx, refcache.SlotActiveCards, "")
	require.True(t, ok)

	rec := do(http.MethodDelete, "/api/v1/admin/cache/"+refcache.SlotActiveCards)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok, _ = backend.Get(ctx, refcache.SlotActiveCards, "")
	assert.False(t, ok)

	require.NoError(t, backend.Put(ctx, refcache.SlotCardStatistics, "7", []byte(`{}`)))
	rec = do(http.MethodDelete, "/api/v1/admin/cache/"+refcache.SlotCardStatistics+"?key=7")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok, _ = backend.Get(ctx, refcache.SlotCardStatistics, "7")
	assert.False(t, ok)

	rec = do(http.MethodDelete, "/api/v1/admin/cache/bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodDelete, "/api/v1/admin/cache")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(http.MethodPost, "/api/v1/admin/cache/sweep")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"swept":true}`, rec.Body.String())
	assert.Equal(t, 1, sweeper.calls)

}
