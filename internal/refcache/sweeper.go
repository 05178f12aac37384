package refcache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/fekuna/cardmap-service/pkg/metrics"
	"go.uber.org/zap"
)

// Sweeper evicts the unparameterized slots once a day at a fixed wall-clock
// time. At most one sweep runs at a time; a sweep requested while another is
// in flight is skipped.
type Sweeper struct {
	cache  *Cache
	hour   int
	minute int
	loc    *time.Location
	logger logger.ZapLogger

	running atomic.Bool
	now     func() time.Time
}

// NewSweeper parses at as HH:MM in loc.
func NewSweeper(cache *Cache, at string, loc *time.Location, log logger.ZapLogger) (*Sweeper, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("parse sweep time %q: %w", at, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Sweeper{
		cache:  cache,
		hour:   t.Hour(),
		minute: t.Minute(),
		loc:    loc,
		logger: log,
		now:    time.Now,
	}, nil
}

// NextRun is the first sweep time strictly after now.
func (s *Sweeper) NextRun(now time.Time) time.Time {
	local := now.In(s.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, s.hour, s.minute, 0, 0, s.loc)
	}
	return next
}

// Start runs the schedule until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting cache sweeper",
		zap.String("at", fmt.Sprintf("%02d:%02d", s.hour, s.minute)),
		zap.String("tz", s.loc.String()),
	)
	for {
		now := s.now()
		timer := time.NewTimer(s.NextRun(now).Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Stopping cache sweeper")
			return
		case <-timer.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep evicts the swept slots. It reports false when it was skipped
// because another sweep was still running.
func (s *Sweeper) Sweep(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		metrics.CacheSweeps.WithLabelValues("skipped").Inc()
		s.logger.Warn("cache sweep skipped, previous sweep still running")
		return false
	}
	defer s.running.Store(false)

	failed := false
	for _, slot := range SweptSlots {
		if err := s.cache.Evict(ctx, slot); err != nil {
			failed = true
			s.logger.Error("cache sweep eviction failed", zap.String("slot", slot), zap.Error(err))
		}
	}
	if failed {
		metrics.CacheSweeps.WithLabelValues("failed").Inc()
	} else {
		metrics.CacheSweeps.WithLabelValues("completed").Inc()
		s.logger.Info("cache sweep completed", zap.Strings("slots", SweptSlots))
	}
	return true
}
