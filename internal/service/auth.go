package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/notekeep/backend/internal/config"
	"github.com/notekeep/backend/internal/db"
	"github.com/notekeep/backend/internal/events"
	"github.com/notekeep/backend/internal/metrics"
	"github.com/notekeep/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL   = 60 * time.Minute
	minPasswordLength = 8
	maxPasswordLength = 72
)

type authStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	InsertAccessToken(ctx context.Context, token model.AccessToken) (*model.AccessToken, error)
	GetAccessTokenByHash(ctx context.Context, secretHash string) (*model.AccessToken, *model.User, error)
	TouchAccessToken(ctx context.Context, tokenID int64, usedAt time.Time) error
	DeleteAccessToken(ctx context.Context, tokenID, userID int64) (int64, error)
	DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int64, error)
}

type AuthService struct {
	repo       authStore
	publisher  events.Publisher
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(repo authStore, cfg config.AuthConfig, publisher events.Publisher) (*AuthService, error) {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: AUTH_BCRYPT_COST must be between %d and %d", ErrMisconfigured, bcrypt.MinCost, bcrypt.MaxCost)
	}

	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &AuthService{
		repo:       repo,
		publisher:  publisher,
		tokenTTL:   ttl,
		bcryptCost: cost,
		now:        time.Now,
	}, nil
}

// Register creates the account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.IssuedToken, *model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if err := validateRegistration(name, email, password); err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.repo.CreateUser(ctx, name, email, string(hash))
	if err != nil {
		if db.IsUniqueViolation(err) {
			metrics.ObserveAuth("register", "email_taken")
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	issued, err := s.IssueToken(ctx, user, 0)
	if err != nil {
		return nil, nil, err
	}

	metrics.ObserveAuth("register", "success")
	s.publish(ctx, events.New(events.UserRegistered, user.ID, user.ID))
	return issued, user, nil
}

// Login verifies credentials and issues a fresh token. A failed attempt
// never creates a token row.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.IssuedToken, *model.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		metrics.ObserveAuth("login", "failure")
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			metrics.ObserveAuth("login", "failure")
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.ObserveAuth("login", "failure")
		return nil, nil, ErrInvalidCredentials
	}

	issued, err := s.IssueToken(ctx, user, 0)
	if err != nil {
		return nil, nil, err
	}

	metrics.ObserveAuth("login", "success")
	return issued, user, nil
}

// IssueToken stores the hash of a new random secret and returns the secret once.
// ttl <= 0 uses the configured lifetime.
func (s *AuthService) IssueToken(ctx context.Context, user *model.User, ttl time.Duration) (*model.IssuedToken, error) {
	if user == nil || user.ID <= 0 {
		return nil, ErrUnauthenticated
	}
	if ttl <= 0 {
		ttl = s.tokenTTL
	}

	secret, secretHash, err := newAccessToken()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(ttl)
	if _, err := s.repo.InsertAccessToken(ctx, model.AccessToken{
		UserID:     user.ID,
		Name:       model.TokenName,
		SecretHash: secretHash,
		Abilities:  []string{model.AbilityAll},
		ExpiresAt:  expiresAt,
	}); err != nil {
		return nil, err
	}

	return &model.IssuedToken{Token: secret, ExpiresAt: expiresAt}, nil
}

// ValidateToken resolves a presented bearer secret to its owner. A token is
// usable strictly before its expiry; an expired row is deleted on sight.
func (s *AuthService) ValidateToken(ctx context.Context, presented string) (*model.Identity, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return nil, ErrUnauthenticated
	}

	token, user, err := s.repo.GetAccessTokenByHash(ctx, hashToken(presented))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	now := s.now()
	if !now.Before(token.ExpiresAt) {
		if _, err := s.repo.DeleteAccessToken(ctx, token.ID, token.UserID); err != nil {
			log.Printf("[Auth] Failed to delete expired token %d: %v", token.ID, err)
		}
		return nil, ErrUnauthenticated
	}

	if err := s.repo.TouchAccessToken(ctx, token.ID, now); err != nil {
		log.Printf("[Auth] Failed to update last_used_at for token %d: %v", token.ID, err)
	}

	return &model.Identity{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		TokenID:   token.ID,
		Abilities: token.Abilities,
	}, nil
}

// CheckToken is ValidateToken for callers that only want to know who owns a token.
func (s *AuthService) CheckToken(ctx context.Context, presented string) (*model.Identity, error) {
	return s.ValidateToken(ctx, presented)
}

// RevokeToken deletes the token that authenticated identity. Other sessions
// of the same user are left alone.
func (s *AuthService) RevokeToken(ctx context.Context, identity *model.Identity) error {
	if identity == nil || identity.UserID <= 0 {
		return ErrUnauthenticated
	}
	if identity.TokenID == 0 {
		return nil
	}

	deleted, err := s.repo.DeleteAccessToken(ctx, identity.TokenID, identity.UserID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrUnauthenticated
	}
	metrics.ObserveAuth("logout", "success")
	return nil
}

func (s *AuthService) Logout(ctx context.Context, identity *model.Identity) error {
	return s.RevokeToken(ctx, identity)
}

// SweepExpired removes every token whose expiry has passed.
func (s *AuthService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredAccessTokens(ctx, s.now())
	if err != nil {
		return 0, err
	}
	metrics.AddSwept(n)
	return n, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("[Auth] Failed to publish %s: %v", event.Type, err)
	}
}

func validateRegistration(name, email, password string) error {
	verr := &ValidationError{}
	if name == "" {
		verr.add("name", "The name field is required.")
	}
	if email == "" {
		verr.add("email", "The email field is required.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		verr.add("email", "The email field must be a valid email address.")
	}
	if len(password) < minPasswordLength {
		verr.add("password", fmt.Sprintf("The password field must be at least %d characters.", minPasswordLength))
	} else if len(password) > maxPasswordLength {
		verr.add("password", fmt.Sprintf("The password field must not be greater than %d characters.", maxPasswordLength))
	}
	return verr.orNil()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newAccessToken() (string, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	return token, hashToken(token), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
