package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDIsGeneratedWhenMissing(t *testing.T) {
	e := echo.New()
	e.Use(RequestID(logger.Nop()))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestRequestIDIsPropagated(t *testing.T) {
	e := echo.New()
	e.Use(RequestID(logger.Nop()), RequestLogger(logger.Nop()))
	e.GET("/", func(c echo.Context) error { return echo.ErrNotFound })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
