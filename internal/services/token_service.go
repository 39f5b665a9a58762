package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/qingbolan/yearscope/internal/models"
	"github.com/qingbolan/yearscope/internal/repositories"
)

// TokenService stores GitHub tokens per username. The engine never manages
// token lifecycle; this is plain storage with a validity flag.
type TokenService struct {
	tokenRepo *repositories.TokenRepository
}

func NewTokenService(tokenRepo *repositories.TokenRepository) *TokenService {
	return &TokenService{tokenRepo: tokenRepo}
}

// SaveToken upserts the token stored for a username.
func (s *TokenService) SaveToken(username, token, tokenType string, scopes []string) error {
	record := models.NewUserToken(username, token)
	if tokenType != "" {
		record.TokenType = &tokenType
	}
	if len(scopes) > 0 {
		joined := strings.Join(scopes, ",")
		record.Scopes = &joined
	}

	existing, err := s.tokenRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.tokenRepo.Create(record)
		}
		return err
	}

	existing.GithubToken = token
	existing.TokenType = record.TokenType
	existing.Scopes = record.Scopes
	existing.IsValid = true
	return s.tokenRepo.Update(existing)
}

// ResolveToken returns the stored valid token for a username, or empty when
// none exists.
func (s *TokenService) ResolveToken(username string) string {
	token, err := s.tokenRepo.GetByUsername(username)
	if err != nil || !token.IsValid {
		return ""
	}
	return token.GithubToken
}

// GetMasked returns a display-safe rendering of the stored token.
func (s *TokenService) GetMasked(username string) (string, error) {
	token, err := s.tokenRepo.GetByUsername(username)
	if err != nil {
		return "", err
	}
	return token.Masked(), nil
}

// DeleteToken removes the stored token for a username.
func (s *TokenService) DeleteToken(username string) error {
	return s.tokenRepo.DeleteByUsername(username)
}
