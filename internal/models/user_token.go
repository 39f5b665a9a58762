package models

import (
	"time"

	"github.com/google/uuid"
)

// UserToken is a stored GitHub token for a username. The engine never
// manages token lifecycle; this is plain storage with a validity flag.
type UserToken struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	GithubToken string    `json:"-"`
	TokenType   *string   `json:"token_type"` // "classic" or "fine-grained"
	Scopes      *string   `json:"scopes"`     // comma separated
	IsValid     bool      `json:"is_valid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewUserToken creates a new UserToken with a generated UUID
func NewUserToken(username, token string) *UserToken {
	now := time.Now()
	return &UserToken{
		ID:          uuid.New().String(),
		Username:    username,
		GithubToken: token,
		IsValid:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Masked returns a display-safe rendering of the token.
func (t *UserToken) Masked() string {
	if len(t.GithubToken) > 12 {
		return t.GithubToken[:8] + "..." + t.GithubToken[len(t.GithubToken)-4:]
	}
	return "***"
}
