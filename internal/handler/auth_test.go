package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/notekeep/backend/internal/model"
	"github.com/notekeep/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() map[string]string {
	return map[string]string{
		"name":                  "Ann",
		"email":                 "ann@x.com",
		"password":              "password123",
		"password_confirmation": "password123",
	}
}

func TestRegisterHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		ts := newTestServer()
		w := ts.do(t, http.MethodPost, "/api/auth/register", "", validRegistration())
		require.Equal(t, http.StatusCreated, w.Code)

		resp := decode[model.AuthResponse](t, w)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "new-token", resp.AccessToken)
		assert.True(t, resp.ExpiresAt.Equal(testExpiry))
	})

	t.Run("missing-fields", func(t *testing.T) {
		ts := newTestServer()
		w := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "bad"})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := decode[model.ValidationErrorResponse](t, w)
		assert.Contains(t, resp.Errors, "name")
		assert.Contains(t, resp.Errors, "email")
		assert.Contains(t, resp.Errors, "password")
		assert.NotEmpty(t, resp.Message)
	})

	t.Run("confirmation-mismatch", func(t *testing.T) {
		ts := newTestServer()
		body := validRegistration()
		body["password_confirmation"] = "different1"
		w := ts.do(t, http.MethodPost, "/api/auth/register", "", body)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := decode[model.ValidationErrorResponse](t, w)
		assert.Equal(t, []string{"The password field confirmation does not match."}, resp.Errors["password"])
	})

	t.Run("email-taken", func(t *testing.T) {
		ts := newTestServer()
		ts.auth.registerErr = service.ErrEmailTaken
		w := ts.do(t, http.MethodPost, "/api/auth/register", "", validRegistration())
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := decode[model.ValidationErrorResponse](t, w)
		assert.Equal(t, []string{msgEmailTaken}, resp.Errors["email"])
	})

	t.Run("malformed-json", func(t *testing.T) {
		ts := newTestServer()
		w := ts.do(t, http.MethodPost, "/api/auth/register", "", "{not json")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("internal-error-hides-details", func(t *testing.T) {
		ts := newTestServer()
		ts.auth.registerErr = errors.New("connection refused")
		w := ts.do(t, http.MethodPost, "/api/auth/register", "", validRegistration())
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := newTestServer()
		w := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ann@x.com", "password": "password123"})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "login-token", decode[model.AuthResponse](t, w).AccessToken)
	})

	t.Run("invalid-credentials", func(t *testing.T) {
		ts := newTestServer()
		ts.auth.loginErr = service.ErrInvalidCredentials
		w := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ann@x.com", "password": "nope"})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, msgInvalidCredentials, decode[model.ErrorResponse](t, w).Message)
	})
}

func TestCheckTokenHandler(t *testing.T) {
	ts := newTestServer()

	w := ts.do(t, http.MethodGet, "/api/v1/check/token", annToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[model.CheckTokenResponse](t, w)
	assert.Equal(t, "Token is valid", resp.Message)
	assert.Equal(t, model.CheckTokenUser{ID: 1, Name: "Ann", Email: "ann@x.com"}, resp.User)

	w = ts.do(t, http.MethodGet, "/api/v1/check/token", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthenticated.", decode[model.ErrorResponse](t, w).Message)
}

func TestLogoutHandler(t *testing.T) {
	t.Run("revokes-current-token", func(t *testing.T) {
		ts := newTestServer()
		w := ts.do(t, http.MethodPost, "/api/v1/logout", annToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Logged out successfully", decode[model.MessageResponse](t, w).Message)
		assert.Equal(t, []int64{11}, ts.auth.loggedOut)
	})

	t.Run("invalid-token", func(t *testing.T) {
		ts := newTestServer()
		w := ts.do(t, http.MethodPost, "/api/v1/logout", "invalid_token_string", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthenticated.", decode[model.ErrorResponse](t, w).Message)
		assert.Empty(t, ts.auth.loggedOut)
	})

	t.Run("already-revoked", func(t *testing.T) {
		ts := newTestServer()
		ts.auth.logoutErr = service.ErrUnauthenticated
		w := ts.do(t, http.MethodPost, "/api/v1/logout", annToken, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
