package main

import (
	"context"
	"fmt"

	"github.com/fekuna/cardmap-service/internal/refcache"
	refUCPkg "github.com/fekuna/cardmap-service/internal/reference/usecase"
	"github.com/spf13/cobra"
)

var (
	evictSlot string
	evictKey  string
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Administer the shared reference cache",
	Long: `Cache commands act on the configured cache backend. They only reach a
running server's entries when CACHE_BACKEND=redis.`,
}

var cacheEvictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Evict one cache slot, or one key of it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd.Context(), func(ctx context.Context, a *app) error {
			uc := refUCPkg.NewReferenceUseCase(nil, nil, a.cache, a.log)
			if evictKey != "" {
				return uc.EvictKey(ctx, evictSlot, evictKey)
			}
			return uc.Evict(ctx, evictSlot)
		})
	},
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Evict every cache slot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd.Context(), func(ctx context.Context, a *app) error {
			return a.cache.EvictAll(ctx)
		})
	},
}

func init() {
	cacheEvictCmd.Flags().StringVar(&evictSlot, "slot", "", fmt.Sprintf("Slot to evict, one of %v", refcache.Slots))
	cacheEvictCmd.Flags().StringVar(&evictKey, "key", "", "Evict only this key of the slot")
	_ = cacheEvictCmd.MarkFlagRequired("slot")

	cacheCmd.AddCommand(cacheEvictCmd, cacheFlushCmd)
}

func withCache(ctx context.Context, fn func(context.Context, *app) error) error {
	a, err := newApp(false, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Cache.Backend != "redis" {
		a.log.Warn("CACHE_BACKEND is not redis, eviction only affects this process")
	}
	return fn(ctx, a)
}
