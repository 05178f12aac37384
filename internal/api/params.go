package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/labstack/echo/v4"
)

func invalid(name, value string) error {
	return fmt.Errorf("%w: %s=%q", model.ErrInvalidInput, name, value)
}

// PathID parses a positive integer path parameter.
func PathID(c echo.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid(name, raw)
	}
	return id, nil
}

// QueryFloat returns nil when the parameter is absent or empty.
func QueryFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, invalid(name, raw)
	}
	return &v, nil
}

// RequiredFloat fails when the parameter is absent.
func RequiredFloat(c echo.Context, name string) (float64, error) {
	v, err := QueryFloat(c, name)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, invalid(name, "")
	}
	return *v, nil
}

func QueryInt64(c echo.Context, name string) (*int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, invalid(name, raw)
	}
	return &v, nil
}

func QueryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid(name, raw)
	}
	return v, nil
}

// QueryList splits comma-separated values and accepts repeated parameters,
// so both ?cardNames=a,b and ?cardNames=a&cardNames=b work.
func QueryList(c echo.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryParams()[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
