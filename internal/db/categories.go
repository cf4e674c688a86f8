package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/notekeep/backend/internal/access"
	"github.com/notekeep/backend/internal/model"
	"github.com/notekeep/backend/internal/pagination"
	"github.com/notekeep/backend/internal/telemetry"
)

var categoryColumns = []string{"id", "user_id", "label", "created_at", "updated_at"}

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Label, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *Postgres) CreateCategory(ctx context.Context, category model.Category) (*model.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.CreateCategory")
	defer span.End()

	if err := access.RequireCaller(category.OwnerID); err != nil {
		return nil, err
	}

	query, args, err := psql.Insert("categories").
		Columns("user_id", "label", "created_at", "updated_at").
		Values(category.OwnerID, category.Label, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING id, user_id, label, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	created, err := scanCategory(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return created, nil
}

func (db *Postgres) ListCategories(ctx context.Context, callerID int64, page pagination.PageRequest) ([]model.Category, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.ListCategories")
	defer span.End()

	total, err := db.countOwned(ctx, "categories", callerID)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(categoryColumns...).
		From("categories").
		Where(access.Scope(nil, callerID)).
		OrderBy("id ASC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, total, nil
}
