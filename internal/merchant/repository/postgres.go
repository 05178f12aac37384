package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/cardmap-service/internal/geo"
	"github.com/fekuna/cardmap-service/internal/merchant/criteria"
	"github.com/fekuna/cardmap-service/internal/merchant/dto"
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

// Casts are spelled CAST(... AS ...) because sqlx named queries eat "::".
const merchantColumns = `m.id, m.name, m.address, m.phone, m.business_hours, m.category_id,
        m.created_at, m.updated_at,
        ST_X(CAST(m.location AS geometry)) AS lng,
        ST_Y(CAST(m.location AS geometry)) AS lat,
        c.name AS category_name`

const merchantFrom = ` FROM merchant m LEFT JOIN category c ON c.id = m.category_id`

type merchantRow struct {
	model.Merchant
	Lng          *float64 `db:"lng"`
	Lat          *float64 `db:"lat"`
	CategoryName *string  `db:"category_name"`
	Distance     float64  `db:"distance"`
}

func (row *merchantRow) toModel() (model.Merchant, error) {
	m := row.Merchant
	if row.Lng != nil && row.Lat != nil {
		p, err := geo.PointFromLngLat(*row.Lng, *row.Lat)
		if err != nil {
			return m, err
		}
		m.Location = &p
	}
	if m.CategoryID != nil && row.CategoryName != nil {
		m.Category = &model.Category{ID: *m.CategoryID, Name: *row.CategoryName}
	}
	return m, nil
}

func (r *PGRepository) FindWithinRadius(ctx context.Context, center geo.Point, radiusMeters float64) ([]model.MerchantDistance, error) {
	return r.findRanked(ctx, criteria.New().Near(center, radiusMeters))
}

func (r *PGRepository) FindWithinRadiusForCards(ctx context.Context, center geo.Point, radiusMeters float64, cardNames []string) ([]model.MerchantDistance, error) {
	return r.findRanked(ctx, criteria.New().Near(center, radiusMeters).AcceptingCardNames(cardNames))
}

func (r *PGRepository) FindByCategoryAndRadius(ctx context.Context, categoryID int64, center geo.Point, radiusMeters float64) ([]model.MerchantDistance, error) {
	return r.findRanked(ctx, criteria.New().Near(center, radiusMeters).InCategory(categoryID))
}

func (r *PGRepository) FindByMultipleFilters(ctx context.Context, f *dto.SearchFilters) ([]model.Merchant, int, error) {
	page, pageSize := 0, 0
	if f != nil {
		page, pageSize = f.Page, f.PageSize
	}
	return r.findPage(ctx, criteria.FromSearchFilters(f), page, pageSize)
}

func (r *PGRepository) FindByCardID(ctx context.Context, cardID int64, page, pageSize int) ([]model.Merchant, int, error) {
	return r.findPage(ctx, criteria.New().OnlyActive().AcceptingCard(cardID), page, pageSize)
}

func (r *PGRepository) FindAll(ctx context.Context, page, pageSize int) ([]model.Merchant, int, error) {
	return r.findPage(ctx, criteria.New(), page, pageSize)
}

func (r *PGRepository) FindAllByCardID(ctx context.Context, cardID int64) ([]model.Merchant, error) {
	merchants, _, err := r.findPage(ctx, criteria.New().AcceptingCard(cardID), 0, 0)
	return merchants, err
}

// findRanked runs a spatial criteria and returns rows nearest first.
func (r *PGRepository) findRanked(ctx context.Context, crit criteria.Criteria) ([]model.MerchantDistance, error) {
	whereClause, args := buildWhere(crit)

	query := "SELECT " + merchantColumns +
		", ROUND(CAST(ST_Distance(m.location, " + pointExpr + ", false) AS numeric), 2) AS distance" +
		merchantFrom + whereClause + " ORDER BY distance ASC, m.id ASC"

	var rows []merchantRow
	if err := r.selectNamed(ctx, &rows, query, args); err != nil {
		return nil, storeErr("find merchants within radius", err)
	}

	out := make([]model.MerchantDistance, 0, len(rows))
	for i := range rows {
		m, err := rows[i].toModel()
		if err != nil {
			return nil, storeErr("decode merchant location", err)
		}
		out = append(out, model.MerchantDistance{Merchant: m, Distance: rows[i].Distance})
	}
	return out, nil
}

// findPage runs a non-spatial criteria in id order. A pageSize of zero
// returns every row.
func (r *PGRepository) findPage(ctx context.Context, crit criteria.Criteria, page, pageSize int) ([]model.Merchant, int, error) {
	whereClause, args := buildWhere(crit)

	var count int
	countQuery := "SELECT count(*) FROM merchant m" + whereClause
	if err := r.getNamed(ctx, &count, countQuery, args); err != nil {
		return nil, 0, storeErr("count merchants", err)
	}

	query := "SELECT " + merchantColumns + merchantFrom + whereClause + " ORDER BY m.id ASC"
	if pageSize > 0 {
		start, end := dto.Bounds(page, pageSize, count)
		if start == end {
			return []model.Merchant{}, count, nil
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, start)
	}

	var merchantRows []merchantRow
	if err := r.selectNamed(ctx, &merchantRows, query, args); err != nil {
		return nil, 0, storeErr("find merchants", err)
	}

	merchants := make([]model.Merchant, 0, len(merchantRows))
	for i := range merchantRows {
		m, err := merchantRows[i].toModel()
		if err != nil {
			return nil, 0, storeErr("decode merchant location", err)
		}
		merchants = append(merchants, m)
	}
	return merchants, count, nil
}

func (r *PGRepository) getNamed(ctx context.Context, dest interface{}, query string, args map[string]interface{}) error {
	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer nstmt.Close()
	return nstmt.GetContext(ctx, dest, args)
}

func (r *PGRepository) selectNamed(ctx context.Context, dest interface{}, query string, args map[string]interface{}) error {
	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer nstmt.Close()
	return nstmt.SelectContext(ctx, dest, args)
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Merchant, error) {
	var row merchantRow
	query := "SELECT " + merchantColumns + merchantFrom + " WHERE m.id = $1 LIMIT 1"
	err := r.DB.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("find merchant", err)
	}
	m, err := row.toModel()
	if err != nil {
		return nil, storeErr("decode merchant location", err)
	}
	return &m, nil
}

func (r *PGRepository) FindCardsByMerchantID(ctx context.Context, merchantID int64) ([]model.Card, error) {
	cards := []model.Card{}
	query := `
        SELECT cd.id, cd.name, cd.color_hex, cd.issuer
        FROM card cd
        JOIN merchant_card mc ON mc.card_id = cd.id
        WHERE mc.merchant_id = $1
        ORDER BY cd.id ASC
    `
	if err := r.DB.SelectContext(ctx, &cards, query, merchantID); err != nil {
		return nil, storeErr("find merchant cards", err)
	}
	return cards, nil
}

func (r *PGRepository) CountGeocoded(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT count(*) FROM merchant WHERE location IS NOT NULL")
}

func (r *PGRepository) CountTotal(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT count(*) FROM merchant")
}

func (r *PGRepository) CountActive(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT count(*) FROM merchant m WHERE "+activeCondition)
}

func (r *PGRepository) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, query); err != nil {
		return 0, storeErr("count merchants", err)
	}
	return n, nil
}

func (r *PGRepository) Save(ctx context.Context, m *model.Merchant, cardIDs []int64) (*model.Merchant, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin save merchant", err)
	}
	defer tx.Rollback()

	var location *string
	if m.Location != nil {
		ewkt := m.Location.String()
		location = &ewkt
	}
	args := map[string]interface{}{
		"id":             m.ID,
		"name":           m.Name,
		"address":        m.Address,
		"location":       location,
		"phone":          m.Phone,
		"business_hours": m.BusinessHours,
		"category_id":    m.CategoryID,
		"now":            time.Now(),
	}

	var query string
	if m.ID == 0 {
		query = `
            INSERT INTO merchant (name, address, location, phone, business_hours, category_id, created_at, updated_at)
            VALUES (:name, :address, ST_GeogFromText(:location), :phone, :business_hours, :category_id, :now, :now)
            RETURNING id
        `
	} else {
		query = `
            UPDATE merchant
            SET name = :name,
                address = :address,
                location = ST_GeogFromText(:location),
                phone = :phone,
                business_hours = :business_hours,
                category_id = :category_id,
                updated_at = :now
            WHERE id = :id
            RETURNING id
        `
	}

	nstmt, err := tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, storeErr("prepare save merchant", err)
	}
	defer nstmt.Close()

	var id int64
	if err := nstmt.GetContext(ctx, &id, args); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMerchantNotFound
		}
		return nil, storeErr("save merchant", err)
	}

	if cardIDs != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM merchant_card WHERE merchant_id = $1", id); err != nil {
			return nil, storeErr("clear merchant cards", err)
		}
		if len(cardIDs) > 0 {
			_, err := tx.ExecContext(ctx, `
                INSERT INTO merchant_card (merchant_id, card_id)
                SELECT $1, UNNEST(CAST($2 AS bigint[]))
                ON CONFLICT DO NOTHING
            `, id, pq.Array(cardIDs))
			if err != nil {
				return nil, storeErr("save merchant cards", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit save merchant", err)
	}
	return r.FindByID(ctx, id)
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
}
