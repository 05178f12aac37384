package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

func (r *PGRepository) Create(ctx context.Context, c *model.Card) error {
	query := `
        INSERT INTO card (name, color_hex, issuer)
        VALUES (:name, :color_hex, :issuer)
        RETURNING id
    `
	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return storeErr("prepare create card", err)
	}
	defer nstmt.Close()

	if err := nstmt.GetContext(ctx, &c.ID, c); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return model.ErrCardAlreadyExists
		}
		return storeErr("create card", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Card, error) {
	return r.findOne(ctx, "SELECT id, name, color_hex, issuer FROM card WHERE id = $1", id)
}

func (r *PGRepository) FindByName(ctx context.Context, name string) (*model.Card, error) {
	return r.findOne(ctx, "SELECT id, name, color_hex, issuer FROM card WHERE name = $1", name)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Card, error) {
	var c model.Card
	err := r.DB.GetContext(ctx, &c, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("find card", err)
	}
	return &c, nil
}

func (r *PGRepository) Search(ctx context.Context, keyword string) ([]model.Card, error) {
	cards := []model.Card{}
	query := "SELECT id, name, color_hex, issuer FROM card"
	args := []interface{}{}

	if kw := strings.TrimSpace(keyword); kw != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+likeEscaper.Replace(kw)+"%")
	}
	query += " ORDER BY name ASC, id ASC"

	if err := r.DB.SelectContext(ctx, &cards, query, args...); err != nil {
		return nil, storeErr("search cards", err)
	}
	return cards, nil
}

func (r *PGRepository) FindActive(ctx context.Context) ([]model.Card, error) {
	cards := []model.Card{}
	query := `
        SELECT c.id, c.name, c.color_hex, c.issuer
        FROM card c
        WHERE EXISTS (SELECT 1 FROM merchant_card mc WHERE mc.card_id = c.id)
        ORDER BY c.id ASC
    `
	if err := r.DB.SelectContext(ctx, &cards, query); err != nil {
		return nil, storeErr("find active cards", err)
	}
	return cards, nil
}

func (r *PGRepository) CountMerchants(ctx context.Context, cardID int64) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, "SELECT count(*) FROM merchant_card WHERE card_id = $1", cardID); err != nil {
		return 0, storeErr("count card merchants", err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
}
