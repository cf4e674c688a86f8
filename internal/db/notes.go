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

var noteColumns = []string{"id", "user_id", "body", "created_at", "updated_at"}

const noteReturning = "RETURNING id, user_id, body, created_at, updated_at"

func scanNote(row pgx.Row) (*model.Note, error) {
	var n model.Note
	if err := row.Scan(&n.ID, &n.OwnerID, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNote inserts a note whose owner has already been stamped.
func (db *Postgres) CreateNote(ctx context.Context, note model.Note) (*model.Note, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.CreateNote")
	defer span.End()

	if err := access.RequireCaller(note.OwnerID); err != nil {
		return nil, err
	}

	query, args, err := psql.Insert("notes").
		Columns("user_id", "body", "created_at", "updated_at").
		Values(note.OwnerID, note.Body, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix(noteReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	created, err := scanNote(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return created, nil
}

func (db *Postgres) ListNotes(ctx context.Context, callerID int64, page pagination.PageRequest) ([]model.Note, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.ListNotes")
	defer span.End()

	total, err := db.countOwned(ctx, "notes", callerID)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(noteColumns...).
		From("notes").
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
		return nil, 0, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return notes, total, nil
}

func (db *Postgres) GetNote(ctx context.Context, noteID, callerID int64) (*model.Note, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.GetNote")
	defer span.End()

	query, args, err := psql.Select(noteColumns...).
		From("notes").
		Where(access.Scope(sq.Eq{"id": noteID}, callerID)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	note, err := scanNote(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to get note %d for user %d: %w", noteID, callerID, err)
	}
	return note, nil
}

// UpdateNoteBody replaces the body. A foreign or missing note yields pgx.ErrNoRows.
func (db *Postgres) UpdateNoteBody(ctx context.Context, noteID, callerID int64, body string) (*model.Note, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.UpdateNoteBody")
	defer span.End()

	query, args, err := psql.Update("notes").
		Set("body", body).
		Set("updated_at", sq.Expr("NOW()")).
		Where(access.Scope(sq.Eq{"id": noteID}, callerID)).
		Suffix(noteReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	note, err := scanNote(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update note %d for user %d: %w", noteID, callerID, err)
	}
	return note, nil
}

func (db *Postgres) DeleteNote(ctx context.Context, noteID, callerID int64) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.DeleteNote")
	defer span.End()

	query, args, err := psql.Delete("notes").
		Where(access.Scope(sq.Eq{"id": noteID}, callerID)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete note %d for user %d: %w", noteID, callerID, err)
	}
	return tag.RowsAffected(), nil
}

func (db *Postgres) countOwned(ctx context.Context, table string, callerID int64) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").
		From(table).
		Where(access.Scope(nil, callerID)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var total int64
	if err := db.Pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return total, nil
}
