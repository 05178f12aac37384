package card

import (
	"context"

	"github.com/fekuna/cardmap-service/internal/model"
)

type Repository interface {
	// Create assigns c.ID. A taken name yields model.ErrCardAlreadyExists.
	Create(ctx context.Context, c *model.Card) error
	FindByID(ctx context.Context, id int64) (*model.Card, error)
	FindByName(ctx context.Context, name string) (*model.Card, error)
	// Search matches keyword case-insensitively against the card name, in
	// name order. A blank keyword returns every card.
	Search(ctx context.Context, keyword string) ([]model.Card, error)
	// FindActive returns cards accepted by at least one merchant, in id order.
	FindActive(ctx context.Context) ([]model.Card, error)
	CountMerchants(ctx context.Context, cardID int64) (int, error)
}
