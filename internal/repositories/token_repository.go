package repositories

import (
	"database/sql"

	"github.com/qingbolan/yearscope/internal/models"
)

type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create creates a new user token
func (r *TokenRepository) Create(token *models.UserToken) error {
	query := `
		INSERT INTO user_tokens (id, username, github_token, token_type, scopes, is_valid, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		token.ID, token.Username, token.GithubToken, token.TokenType,
		token.Scopes, token.IsValid, token.CreatedAt, token.UpdatedAt,
	)

	return err
}

// GetByUsername retrieves a token by username
func (r *TokenRepository) GetByUsername(username string) (*models.UserToken, error) {
	query := `
		SELECT id, username, github_token, token_type, scopes, is_valid, created_at, updated_at
		FROM user_tokens WHERE username = ?
	`

	token := &models.UserToken{}
	err := r.db.QueryRow(query, username).Scan(
		&token.ID, &token.Username, &token.GithubToken, &token.TokenType,
		&token.Scopes, &token.IsValid, &token.CreatedAt, &token.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return token, nil
}

// Update updates an existing token
func (r *TokenRepository) Update(token *models.UserToken) error {
	query := `
		UPDATE user_tokens
		SET github_token = ?, token_type = ?, scopes = ?, is_valid = ?, updated_at = CURRENT_TIMESTAMP
		WHERE username = ?
	`

	_, err := r.db.Exec(query,
		token.GithubToken, token.TokenType, token.Scopes, token.IsValid, token.Username,
	)

	return err
}

// DeleteByUsername deletes the token stored for a username
func (r *TokenRepository) DeleteByUsername(username string) error {
	query := `DELETE FROM user_tokens WHERE username = ?`

	_, err := r.db.Exec(query, username)
	return err
}
