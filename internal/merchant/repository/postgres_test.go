package repository

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/cardmap-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

func expectCount(mock sqlmock.Sqlmock, n int) {
	mock.ExpectPrepare(`SELECT count\(\*\) FROM merchant m`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
}

func TestFindAllPagesWithLimitOffset(t *testing.T) {
	repo, mock := newMockRepo(t)
	expectCount(mock, 3)
	mock.ExpectPrepare(`ORDER BY m.id ASC LIMIT 2 OFFSET 2`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address"}).AddRow(3, "plaza", "Seoul"))

	merchants, total, err := repo.FindAll(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, merchants, 1)
	assert.Equal(t, int64(3), merchants[0].ID)
	assert.Nil(t, merchants[0].Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllPastLastPageSkipsListQuery(t *testing.T) {
	for _, page := range []int{2, 1 << 61, math.MaxInt} {
		repo, mock := newMockRepo(t)
		expectCount(mock, 5)

		merchants, total, err := repo.FindAll(context.Background(), page, 8)
		require.NoError(t, err, "page %d", page)
		assert.Equal(t, 5, total)
		assert.Empty(t, merchants)
		assert.NotNil(t, merchants)
		assert.NoError(t, mock.ExpectationsWereMet(), "page %d", page)
	}
}

func TestFindAllCountRowErrorIsReported(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectPrepare(`SELECT count\(\*\) FROM merchant m`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4).RowError(0, errors.New("connection reset")))

	_, _, err := repo.FindAll(context.Background(), 0, 20)
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestFindAllCountQueryFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectPrepare(`SELECT count\(\*\) FROM merchant m`).
		ExpectQuery().
		WillReturnError(errors.New("dial tcp: connection refused"))

	_, _, err := repo.FindAll(context.Background(), 0, 20)
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}
