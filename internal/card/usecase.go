package card

import (
	"context"

	"github.com/fekuna/cardmap-service/internal/card/dto"
	"github.com/fekuna/cardmap-service/internal/model"
)

type UseCase interface {
	CreateCard(ctx context.Context, input *dto.CreateCardInput) (*model.Card, error)
	GetCard(ctx context.Context, id int64) (*model.Card, error)
	SearchCards(ctx context.Context, keyword string) ([]model.Card, error)
}
