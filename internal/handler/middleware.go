package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/notekeep/backend/internal/model"
	"github.com/notekeep/backend/internal/service"
)

const (
	identityKey     = "auth_identity"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, presented string) (*model.Identity, error)
}

// AuthMiddleware validates the bearer token on every request and stores the
// resolved identity for handlers.
func AuthMiddleware(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Message: msgUnauthenticated})
			return
		}

		identity, err := auth.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthenticated) {
				writeError(c, err)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Message: msgUnauthenticated})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireAbility rejects tokens whose abilities do not include ability.
// It must run after AuthMiddleware.
func RequireAbility(ability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Message: msgUnauthenticated})
			return
		}
		if !identity.Can(ability) {
			c.AbortWithStatusJSON(http.StatusForbidden, model.ErrorResponse{Message: msgForbidden})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func GetIdentity(c *gin.Context) *model.Identity {
	if value, ok := c.Get(identityKey); ok {
		if identity, ok := value.(*model.Identity); ok {
			return identity
		}
	}
	return nil
}

// RequestIDMiddleware keeps an incoming X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

var (
	corsAllowHeaders = strings.Join([]string{"Authorization", "Content-Type", requestIDHeader}, ", ")
	corsAllowMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ", ")
)

type corsPolicy struct {
	origins     map[string]struct{}
	credentials bool
}

func newCORSPolicy(allowedOrigins []string, allowCredentials bool) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}, len(allowedOrigins)), credentials: allowCredentials}
	for _, origin := range allowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			p.origins[trimmed] = struct{}{}
		}
	}
	return p
}

// apply reports whether origin is allowed and, if so, writes the CORS headers.
func (p corsPolicy) apply(h http.Header, origin string) bool {
	h.Add("Vary", "Origin")
	if _, ok := p.origins[origin]; !ok {
		return false
	}
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Expose-Headers", requestIDHeader)
	if p.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	return true
}

// CORSMiddleware answers preflights with 204 and decorates responses for
// allowed origins only.
func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	policy := newCORSPolicy(allowedOrigins, allowCredentials)

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			policy.apply(c.Writer.Header(), origin)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
