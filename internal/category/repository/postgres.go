package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	err := r.DB.GetContext(ctx, &c.ID, "INSERT INTO category (name) VALUES ($1) RETURNING id", c.Name)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return model.ErrCategoryAlreadyExists
		}
		return storeErr("create category", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	return r.findOne(ctx, "SELECT id, name FROM category WHERE id = $1", id)
}

func (r *PGRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	return r.findOne(ctx, "SELECT id, name FROM category WHERE name = $1", name)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Category, error) {
	var c model.Category
	err := r.DB.GetContext(ctx, &c, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("find category", err)
	}
	return &c, nil
}

func (r *PGRepository) FindActive(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	query := `
        SELECT c.id, c.name
        FROM category c
        WHERE EXISTS (
            SELECT 1 FROM merchant m
            JOIN merchant_card mc ON mc.merchant_id = m.id
            WHERE m.category_id = c.id
        )
        ORDER BY c.id ASC
    `
	if err := r.DB.SelectContext(ctx, &categories, query); err != nil {
		return nil, storeErr("find active categories", err)
	}
	return categories, nil
}

type categoryCountRow struct {
	ID            int64  `db:"id"`
	Name          string `db:"name"`
	MerchantCount int    `db:"merchant_count"`
}

func (r *PGRepository) FindPopularByCard(ctx context.Context, cardID int64) ([]model.CategoryCount, error) {
	var rows []categoryCountRow
	query := `
        SELECT c.id, c.name, count(DISTINCT m.id) AS merchant_count
        FROM category c
        JOIN merchant m ON m.category_id = c.id
        JOIN merchant_card mc ON mc.merchant_id = m.id
        WHERE mc.card_id = $1
        GROUP BY c.id, c.name
        ORDER BY merchant_count DESC, c.id ASC
    `
	if err := r.DB.SelectContext(ctx, &rows, query, cardID); err != nil {
		return nil, storeErr("find popular categories", err)
	}

	out := make([]model.CategoryCount, len(rows))
	for i, row := range rows {
		out[i] = model.CategoryCount{
			Category:      model.Category{ID: row.ID, Name: row.Name},
			MerchantCount: row.MerchantCount,
		}
	}
	return out, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
}
