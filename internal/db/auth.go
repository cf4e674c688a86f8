package db

import (
	"context"
	"fmt"
	"time"

	"github.com/notekeep/backend/internal/model"
	"github.com/notekeep/backend/internal/telemetry"
)

func (db *Postgres) CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.CreateUser")
	defer span.End()

	query := `
		INSERT INTO users (name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, name, email, password_hash, created_at, updated_at
	`
	var user model.User
	err := db.Pool.QueryRow(ctx, query, name, email, passwordHash).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail matches case-insensitively.
func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.GetUserByEmail")
	defer span.End()

	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
	`
	var user model.User
	err := db.Pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (db *Postgres) InsertAccessToken(ctx context.Context, token model.AccessToken) (*model.AccessToken, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.InsertAccessToken")
	defer span.End()

	query := `
		INSERT INTO access_tokens (user_id, name, secret_hash, abilities, created_at, expires_at)
		VALUES ($1, $2, $3, $4, NOW(), $5)
		RETURNING id, created_at
	`
	err := db.Pool.QueryRow(ctx, query,
		token.UserID,
		token.Name,
		token.SecretHash,
		token.Abilities,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert access token: %w", err)
	}
	return &token, nil
}

// GetAccessTokenByHash loads a token together with its owner.
func (db *Postgres) GetAccessTokenByHash(ctx context.Context, secretHash string) (*model.AccessToken, *model.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.GetAccessTokenByHash")
	defer span.End()

	query := `
		SELECT t.id, t.user_id, t.name, t.secret_hash, t.abilities, t.created_at, t.expires_at, t.last_used_at,
			u.id, u.name, u.email
		FROM access_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.secret_hash = $1
	`
	var (
		token model.AccessToken
		user  model.User
	)
	err := db.Pool.QueryRow(ctx, query, secretHash).Scan(
		&token.ID,
		&token.UserID,
		&token.Name,
		&token.SecretHash,
		&token.Abilities,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.LastUsedAt,
		&user.ID,
		&user.Name,
		&user.Email,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get access token: %w", err)
	}
	return &token, &user, nil
}

func (db *Postgres) TouchAccessToken(ctx context.Context, tokenID int64, usedAt time.Time) error {
	ctx, span := telemetry.StartSpan(ctx, "db.TouchAccessToken")
	defer span.End()

	_, err := db.Pool.Exec(ctx, `UPDATE access_tokens SET last_used_at = $2 WHERE id = $1`, tokenID, usedAt)
	if err != nil {
		return fmt.Errorf("failed to touch access token %d: %w", tokenID, err)
	}
	return nil
}

// DeleteAccessToken removes a single session. The user_id filter keeps one
// user from revoking another user's token by id.
func (db *Postgres) DeleteAccessToken(ctx context.Context, tokenID, userID int64) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.DeleteAccessToken")
	defer span.End()

	tag, err := db.Pool.Exec(ctx, `DELETE FROM access_tokens WHERE id = $1 AND user_id = $2`, tokenID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete access token %d: %w", tokenID, err)
	}
	return tag.RowsAffected(), nil
}

func (db *Postgres) DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "db.DeleteExpiredAccessTokens")
	defer span.End()

	tag, err := db.Pool.Exec(ctx, `DELETE FROM access_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired access tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
