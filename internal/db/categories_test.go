package db

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/notekeep/backend/internal/model"
	"github.com/notekeep/backend/internal/pagination"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories (user_id,label,created_at,updated_at)")).
		WithArgs(int64(3), "work").
		WillReturnRows(pgxmock.NewRows(categoryColumns).AddRow(int64(10), int64(3), "work", now, now))

	category, err := repo.CreateCategory(context.Background(), model.Category{OwnerID: 3, Label: "work"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), category.ID)
	assert.Equal(t, int64(3), category.OwnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListCategoriesIsScoped(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM categories WHERE user_id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE user_id = $1 ORDER BY id ASC LIMIT 15 OFFSET 0")).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(categoryColumns).
			AddRow(int64(1), int64(3), "home", now, now).
			AddRow(int64(2), int64(3), "work", now, now))

	categories, total, err := repo.ListCategories(context.Background(), 3, pagination.PageRequest{Page: 1, PerPage: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, categories, 2)
	assert.Equal(t, "home", categories[0].Label)
	require.NoError(t, mock.ExpectationsWereMet())
}
