package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notekeep/backend/internal/model"
)

// Authenticator is the subset of service.AuthService the HTTP layer uses.
type Authenticator interface {
	tokenValidator
	Register(ctx context.Context, name, email, password string) (*model.IssuedToken, *model.User, error)
	Login(ctx context.Context, email, password string) (*model.IssuedToken, *model.User, error)
	Logout(ctx context.Context, identity *model.Identity) error
}

type AuthHandler struct {
	svc Authenticator
}

func NewAuthHandler(svc Authenticator) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary Register a new user
// @Description Creates the account and returns a bearer token valid for AUTH_TOKEN_TTL.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Name, email and password"
// @Success 201 {object} model.AuthResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	issued, _, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse(issued))
}

// Login godoc
// @Summary Login
// @Description Issues a new bearer token. Existing sessions stay valid.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 201 {object} model.AuthResponse
// @Failure 422 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	issued, _, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse(issued))
}

// CheckToken godoc
// @Summary Check bearer token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.CheckTokenResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/check/token [get]
func (h *AuthHandler) CheckToken(c *gin.Context) {
	identity := GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Message: msgUnauthenticated})
		return
	}
	c.JSON(http.StatusOK, model.CheckTokenResponse{
		Message: msgTokenValid,
		User: model.CheckTokenUser{
			ID:    identity.UserID,
			Name:  identity.Name,
			Email: identity.Email,
		},
	})
}

// Logout godoc
// @Summary Logout
// @Description Revokes the presented token only.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.MessageResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), GetIdentity(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: msgLoggedOut})
}

func authResponse(issued *model.IssuedToken) model.AuthResponse {
	return model.AuthResponse{
		TokenType:   model.TokenType,
		AccessToken: issued.Token,
		ExpiresAt:   issued.ExpiresAt,
	}
}
