package model

import "time"

// TokenType is the only token type issued.
const TokenType = "Bearer"

// TokenName labels every access token row.
const TokenName = "api_token"

// Abilities a token may carry. "*" grants all of them.
const (
	AbilityAll        = "*"
	AbilityNotes      = "notes"
	AbilityCategories = "categories"
)

type RegisterRequest struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	TokenType   string    `json:"token_type"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type CheckTokenUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CheckTokenResponse struct {
	Message string         `json:"message"`
	User    CheckTokenUser `json:"user"`
}

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AccessToken struct {
	ID         int64
	UserID     int64
	Name       string
	SecretHash string
	Abilities  []string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastUsedAt *time.Time
}

// IssuedToken carries the raw secret. It is never persisted.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// Identity is the caller resolved from a validated bearer token.
type Identity struct {
	UserID    int64
	Name      string
	Email     string
	TokenID   int64
	Abilities []string
}

// Can reports whether the token grants ability. "*" grants everything.
func (i *Identity) Can(ability string) bool {
	for _, a := range i.Abilities {
		if a == AbilityAll || a == ability {
			return true
		}
	}
	return false
}
