package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/notekeep/backend/internal/events"
	"github.com/notekeep/backend/internal/model"
	"github.com/notekeep/backend/internal/pagination"
)

// memStore is an in-memory stand-in for db.Postgres that applies the same
// owner filters as the SQL.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	users      map[int64]*model.User
	tokens     map[int64]*model.AccessToken
	notes      map[int64]*model.Note
	categories map[int64]*model.Category
	touched    map[int64]time.Time
	failWith   error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[int64]*model.User{},
		tokens:     map[int64]*model.AccessToken{},
		notes:      map[int64]*model.Note{},
		categories: map[int64]*model.Category{},
		touched:    map[int64]time.Time{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return nil, fmt.Errorf("failed to create user: %w", &pgconn.PgError{Code: "23505"})
		}
	}
	u := &model.User{ID: m.id(), Name: name, Email: email, PasswordHash: passwordHash}
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("failed to get user by email: %w", pgx.ErrNoRows)
}

func (m *memStore) InsertAccessToken(ctx context.Context, token model.AccessToken) (*model.AccessToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	token.ID = m.id()
	m.tokens[token.ID] = &token
	return &token, nil
}

func (m *memStore) GetAccessTokenByHash(ctx context.Context, secretHash string) (*model.AccessToken, *model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.SecretHash == secretHash {
			cp := *t
			u := *m.users[t.UserID]
			return &cp, &u, nil
		}
	}
	return nil, nil, fmt.Errorf("failed to get access token: %w", pgx.ErrNoRows)
}

func (m *memStore) TouchAccessToken(ctx context.Context, tokenID int64, usedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched[tokenID] = usedAt
	return nil
}

func (m *memStore) DeleteAccessToken(ctx context.Context, tokenID, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[tokenID]
	if !ok || t.UserID != userID {
		return 0, nil
	}
	delete(m.tokens, tokenID)
	return 1, nil
}

func (m *memStore) DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.tokens {
		if !t.ExpiresAt.After(now) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) tokenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

func (m *memStore) CreateNote(ctx context.Context, note model.Note) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if note.OwnerID <= 0 {
		return nil, errors.New("unstamped note")
	}
	note.ID = m.id()
	m.notes[note.ID] = &note
	cp := note
	return &cp, nil
}

func (m *memStore) ListNotes(ctx context.Context, callerID int64, page pagination.PageRequest) ([]model.Note, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owned := []model.Note{}
	for _, n := range m.notes {
		if n.OwnerID == callerID {
			owned = append(owned, *n)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })
	return window(owned, page), int64(len(owned)), nil
}

func (m *memStore) GetNote(ctx context.Context, noteID, callerID int64) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[noteID]
	if !ok || n.OwnerID != callerID {
		return nil, fmt.Errorf("failed to get note: %w", pgx.ErrNoRows)
	}
	cp := *n
	return &cp, nil
}

func (m *memStore) UpdateNoteBody(ctx context.Context, noteID, callerID int64, body string) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[noteID]
	if !ok || n.OwnerID != callerID {
		return nil, fmt.Errorf("failed to update note: %w", pgx.ErrNoRows)
	}
	n.Body = body
	cp := *n
	return &cp, nil
}

func (m *memStore) DeleteNote(ctx context.Context, noteID, callerID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[noteID]
	if !ok || n.OwnerID != callerID {
		return 0, nil
	}
	delete(m.notes, noteID)
	return 1, nil
}

func (m *memStore) CreateCategory(ctx context.Context, category model.Category) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if category.OwnerID <= 0 {
		return nil, errors.New("unstamped category")
	}
	category.ID = m.id()
	m.categories[category.ID] = &category
	cp := category
	return &cp, nil
}

func (m *memStore) ListCategories(ctx context.Context, callerID int64, page pagination.PageRequest) ([]model.Category, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owned := []model.Category{}
	for _, c := range m.categories {
		if c.OwnerID == callerID {
			owned = append(owned, *c)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })
	return window(owned, page), int64(len(owned)), nil
}

func window[T any](items []T, page pagination.PageRequest) []T {
	start := int(page.Offset())
	if start >= len(items) {
		return []T{}
	}
	end := start + int(page.Limit())
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
