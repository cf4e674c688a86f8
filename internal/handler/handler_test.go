package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notekeep/backend/internal/model"
	"github.com/notekeep/backend/internal/service"
	"github.com/stretchr/testify/require"
)

const (
	annToken      = "ann-token"
	bobToken      = "bob-token"
	annNotesToken = "ann-notes-only"
)

var testExpiry = time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC)

type fakeAuth struct {
	registerErr error
	loginErr    error
	logoutErr   error
	loggedOut   []int64
}

func (f *fakeAuth) ValidateToken(ctx context.Context, presented string) (*model.Identity, error) {
	switch presented {
	case annToken:
		return &model.Identity{UserID: 1, Name: "Ann", Email: "ann@x.com", TokenID: 11, Abilities: []string{"*"}}, nil
	case annNotesToken:
		return &model.Identity{UserID: 1, Name: "Ann", Email: "ann@x.com", TokenID: 12, Abilities: []string{model.AbilityNotes}}, nil
	case bobToken:
		return &model.Identity{UserID: 2, Name: "Bob", Email: "bob@x.com", TokenID: 22, Abilities: []string{"*"}}, nil
	}
	return nil, service.ErrUnauthenticated
}

func (f *fakeAuth) Register(ctx context.Context, name, email, password string) (*model.IssuedToken, *model.User, error) {
	if f.registerErr != nil {
		return nil, nil, f.registerErr
	}
	return &model.IssuedToken{Token: "new-token", ExpiresAt: testExpiry}, &model.User{ID: 1, Name: name, Email: email}, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*model.IssuedToken, *model.User, error) {
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	return &model.IssuedToken{Token: "login-token", ExpiresAt: testExpiry}, &model.User{ID: 1, Email: email}, nil
}

func (f *fakeAuth) Logout(ctx context.Context, identity *model.Identity) error {
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.loggedOut = append(f.loggedOut, identity.TokenID)
	return nil
}

// fakeNotes stores notes in memory and applies owner checks like the real service.
type fakeNotes struct {
	notes    map[int64]model.Note
	nextID   int64
	lastPage [2]*int
}

func newFakeNotes() *fakeNotes {
	return &fakeNotes{notes: map[int64]model.Note{}}
}

func (f *fakeNotes) Create(ctx context.Context, callerID int64, input model.NoteRequest) (*model.Note, error) {
	f.nextID++
	n := model.Note{ID: f.nextID, OwnerID: callerID, Body: input.Body}
	f.notes[n.ID] = n
	return &n, nil
}

func (f *fakeNotes) List(ctx context.Context, callerID int64, rawPage, rawPerPage *int) (*model.Page[model.Note], error) {
	f.lastPage = [2]*int{rawPage, rawPerPage}
	var items []model.Note
	for id := int64(1); id <= f.nextID; id++ {
		if n, ok := f.notes[id]; ok && n.OwnerID == callerID {
			items = append(items, n)
		}
	}
	return &model.Page[model.Note]{Items: items, Page: 1, PerPage: 15, Total: int64(len(items)), LastPage: 1}, nil
}

func (f *fakeNotes) Get(ctx context.Context, callerID, noteID int64) (*model.Note, error) {
	n, ok := f.notes[noteID]
	if !ok || n.OwnerID != callerID {
		return nil, service.ErrNotFound
	}
	return &n, nil
}

func (f *fakeNotes) Update(ctx context.Context, callerID, noteID int64, input model.NoteRequest) (*model.Note, error) {
	n, ok := f.notes[noteID]
	if !ok || n.OwnerID != callerID {
		return nil, service.ErrNotFound
	}
	n.Body = input.Body
	f.notes[noteID] = n
	return &n, nil
}

func (f *fakeNotes) Delete(ctx context.Context, callerID, noteID int64) error {
	n, ok := f.notes[noteID]
	if !ok || n.OwnerID != callerID {
		return service.ErrNotFound
	}
	delete(f.notes, noteID)
	return nil
}

type fakeCategories struct {
	created []model.Category
}

func (f *fakeCategories) Create(ctx context.Context, callerID int64, input model.CategoryRequest) (*model.Category, error) {
	c := model.Category{ID: int64(len(f.created) + 1), OwnerID: callerID, Label: input.Label}
	f.created = append(f.created, c)
	return &c, nil
}

func (f *fakeCategories) List(ctx context.Context, callerID int64, rawPage, rawPerPage *int) (*model.Page[model.Category], error) {
	var items []model.Category
	for _, c := range f.created {
		if c.OwnerID == callerID {
			items = append(items, c)
		}
	}
	return &model.Page[model.Category]{Items: items, Page: 1, PerPage: 15, Total: int64(len(items)), LastPage: 1}, nil
}

type testServer struct {
	router     *gin.Engine
	auth       *fakeAuth
	notes      *fakeNotes
	categories *fakeCategories
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	ts := &testServer{auth: &fakeAuth{}, notes: newFakeNotes(), categories: &fakeCategories{}}
	ts.router = NewRouter(RouterConfig{
		Auth:        ts.auth,
		Notes:       ts.notes,
		Categories:  ts.categories,
		CORSOrigins: []string{"http://localhost:3000"},
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
