package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/spf13/cobra"
)

type statusReport struct {
	Store       string                 `json:"store"`
	Geocoding   *model.GeocodingStatus `json:"geocoding"`
	ActiveCount int                    `json:"active_merchants"`
	ActiveCards int                    `json:"active_cards"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print geocoding coverage and catalog counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true, false)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := buildStatus(cmd.Context(), a)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func buildStatus(ctx context.Context, a *app) (*statusReport, error) {
	total, err := a.merchantRepo.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	geocoded, err := a.merchantRepo.CountGeocoded(ctx)
	if err != nil {
		return nil, err
	}
	active, err := a.merchantRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	cards, err := a.cardRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return &statusReport{
		Store:       a.cfg.Store.Backend,
		Geocoding:   model.NewGeocodingStatus(total, geocoded),
		ActiveCount: active,
		ActiveCards: len(cards),
	}, nil
}
