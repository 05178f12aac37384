package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/cardmap-service/internal/refcache"
	"github.com/fekuna/cardmap-service/internal/reference"
	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/fekuna/cardmap-service/pkg/metrics"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventCardCreated          = "CardCreated"
	EventCategoryCreated      = "CategoryCreated"
	EventMerchantUpserted     = "MerchantUpserted"
	EventMerchantCardsChanged = "MerchantCardsChanged"
	EventMerchantsImported    = "MerchantsImported"
	EventMerchantGeocoded     = "MerchantGeocoded"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// CatalogListener evicts reference cache slots when another process (CSV
// import, geocoding batch) changes the catalog.
type CatalogListener struct {
	consumer MessageReader
	uc       reference.UseCase
	logger   logger.ZapLogger
}

func NewCatalogListener(consumer MessageReader, uc reference.UseCase, logger logger.ZapLogger) *CatalogListener {
	return &CatalogListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *CatalogListener) Start(ctx context.Context) {
	l.logger.Info("Starting Catalog Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Catalog Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type CatalogEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Payload   CatalogPayload `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type CatalogPayload struct {
	MerchantID *int64  `json:"merchant_id"`
	CardID     *int64  `json:"card_id"`
	CardIDs    []int64 `json:"card_ids"`
}

func (p CatalogPayload) cardIDs() []int64 {
	ids := append([]int64{}, p.CardIDs...)
	if p.CardID != nil {
		ids = append(ids, *p.CardID)
	}
	return ids
}

func (l *CatalogListener) processMessage(ctx context.Context, value []byte) {
	var event CatalogEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	log := l.logger.With(zap.String("event_id", event.EventID), zap.String("event_type", event.EventType))

	var errs []error
	switch event.EventType {
	case EventCardCreated:
		errs = append(errs, l.uc.Evict(ctx, refcache.SlotActiveCards))
	case EventCategoryCreated:
		errs = append(errs, l.uc.Evict(ctx, refcache.SlotActiveCategories))
	case EventMerchantUpserted, EventMerchantCardsChanged:
		errs = append(errs,
			l.uc.Evict(ctx, refcache.SlotActiveCards),
			l.uc.Evict(ctx, refcache.SlotActiveCategories),
		)
		for _, id := range event.Payload.cardIDs() {
			key := refcache.Key(id)
			errs = append(errs,
				l.uc.EvictKey(ctx, refcache.SlotCardStatistics, key),
				l.uc.EvictKey(ctx, refcache.SlotPopularCategories, key),
			)
		}
	case EventMerchantsImported:
		errs = append(errs, l.uc.EvictAll(ctx))
	case EventMerchantGeocoded:
		errs = append(errs, l.uc.Evict(ctx, refcache.SlotNearbyMerchants))
	default:
		return
	}

	metrics.CatalogEvents.WithLabelValues(event.EventType).Inc()
	for _, err := range errs {
		if err != nil {
			// The daily sweep clears whatever this misses.
			log.Error("Failed to evict cache for catalog event", zap.Error(err))
		}
	}
	log.Debug("Processed catalog event")
}
