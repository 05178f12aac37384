package category

import (
	"context"

	"github.com/fekuna/cardmap-service/internal/model"
)

type Repository interface {
	// Create assigns c.ID. A taken name yields model.ErrCategoryAlreadyExists.
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	// FindActive returns categories holding at least one merchant that
	// accepts at least one card, in id order.
	FindActive(ctx context.Context) ([]model.Category, error)
	// FindPopularByCard counts the merchants accepting cardID per category,
	// most merchants first, ties by category id.
	FindPopularByCard(ctx context.Context, cardID int64) ([]model.CategoryCount, error)
}
