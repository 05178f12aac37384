package main

import (
	"context"
	"testing"

	"github.com/fekuna/cardmap-service/config"
	"github.com/fekuna/cardmap-service/internal/geo"
	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenAddr(t *testing.T) {
	assert.Equal(t, ":8080", listenAddr("8080"))
	assert.Equal(t, ":8080", listenAddr(":8080"))
	assert.Equal(t, "127.0.0.1:9000", listenAddr("127.0.0.1:9000"))
}

func TestBuildStatusMemoryStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.LoadEnv()
	cfg.Store.Backend = "memory"
	a := &app{cfg: cfg, log: logger.Nop()}
	require.NoError(t, a.openStore())

	c := model.Card{Name: "child-meal"}
	require.NoError(t, a.cardRepo.Create(ctx, &c))
	p, err := geo.PointFromLngLat(126.9781, 37.5666)
	require.NoError(t, err)
	_, err = a.merchantRepo.Save(ctx, &model.Merchant{Name: "plaza", Address: "Seoul", Location: &p}, []int64{c.ID})
	require.NoError(t, err)
	_, err = a.merchantRepo.Save(ctx, &model.Merchant{Name: "unmapped", Address: "Seoul"}, nil)
	require.NoError(t, err)

	report, err := buildStatus(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "memory", report.Store)
	assert.Equal(t, 2, report.Geocoding.Total)
	assert.Equal(t, 1, report.Geocoding.WithCoordinates)
	assert.Equal(t, 1, report.ActiveCards)
}

func TestOpenUnknownBackends(t *testing.T) {
	cfg := config.LoadEnv()
	cfg.Store.Backend = "mongo"
	cfg.Cache.Backend = "memcached"
	a := &app{cfg: cfg, log: logger.Nop()}

	assert.Error(t, a.openStore())
	assert.Error(t, a.openCache())
}
