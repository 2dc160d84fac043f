package services

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"agroland-backend/internal/utils"
)

// ErrResetTokenInvalid covers unknown, expired and already-used tokens
var ErrResetTokenInvalid = errors.New("invalid or expired reset token")

// PasswordResetService handles the password reset flow
type PasswordResetService struct {
	db           *sql.DB
	userService  *UserService
	emailService *EmailService
}

// NewPasswordResetService creates a new password reset service
func NewPasswordResetService(db *sql.DB, userService *UserService, emailService *EmailService) *PasswordResetService {
	return &PasswordResetService{
		db:           db,
		userService:  userService,
		emailService: emailService,
	}
}

// InitializePasswordResetTable creates the password reset tokens table if it doesn't exist
func (s *PasswordResetService) InitializePasswordResetTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS password_reset_tokens (
		id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
		user_id TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		used BOOLEAN DEFAULT FALSE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	)`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create password_reset_tokens table: %w", err)
	}

	indexQuery := `CREATE INDEX IF NOT EXISTS idx_password_reset_tokens_hash ON password_reset_tokens(token_hash)`
	if _, err := s.db.Exec(indexQuery); err != nil {
		return fmt.Errorf("failed to create password reset tokens index: %w", err)
	}

	return nil
}

// generateToken returns a random token and the sha256 hash stored in its
// place. Only the hash ever touches the database.
func generateToken() (token, tokenHash string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	token = hex.EncodeToString(raw)
	digest := sha256.Sum256([]byte(token))
	return token, hex.EncodeToString(digest[:]), nil
}

// RequestPasswordReset issues a reset token and emails it. Whether the
// address is registered is not revealed to the caller; the handler
// responds identically either way. If the email cannot be sent the token
// is removed again so a dead token never sits in the table.
func (s *PasswordResetService) RequestPasswordReset(email string) error {
	user, err := s.userService.GetUserByEmail(email)
	if err != nil {
		// Unknown address: silently succeed
		return nil
	}

	token, tokenHash, err := generateToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(30 * time.Minute)

	// One outstanding token per user
	if _, err := s.db.Exec("DELETE FROM password_reset_tokens WHERE user_id = ?", user.ID); err != nil {
		return fmt.Errorf("failed to cleanup existing tokens: %w", err)
	}

	query := `INSERT INTO password_reset_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`
	if _, err := s.db.Exec(query, user.ID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}

	if err := s.emailService.SendPasswordResetEmail(user.Email, token, user.Name); err != nil {
		// Roll the token back so the flow can be retried cleanly
		s.db.Exec("DELETE FROM password_reset_tokens WHERE token_hash = ?", tokenHash)
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

// ResetPassword sets a new password using a valid token. The token is
// single-use and all other outstanding tokens for the user are dropped.
func (s *PasswordResetService) ResetPassword(token, newPassword string) error {
	if passwordErrors := utils.ValidatePassword(newPassword); len(passwordErrors) > 0 {
		return fmt.Errorf("password validation failed: %s", strings.Join(passwordErrors, ", "))
	}

	digest := sha256.Sum256([]byte(token))
	tokenHash := hex.EncodeToString(digest[:])

	var userID string
	var expiresAt time.Time
	query := `SELECT user_id, expires_at FROM password_reset_tokens WHERE token_hash = ? AND used = FALSE`
	err := s.db.QueryRow(query, tokenHash).Scan(&userID, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to validate reset token: %w", err)
	}

	if time.Now().After(expiresAt) {
		s.db.Exec("DELETE FROM password_reset_tokens WHERE token_hash = ?", tokenHash)
		return ErrResetTokenInvalid
	}

	if err := s.userService.SetPassword(userID, newPassword); err != nil {
		return err
	}

	if _, err := s.db.Exec("DELETE FROM password_reset_tokens WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to cleanup token: %w", err)
	}

	return nil
}

// CleanupExpiredTokens removes expired password reset tokens
func (s *PasswordResetService) CleanupExpiredTokens() error {
	query := `DELETE FROM password_reset_tokens WHERE expires_at < ? OR used = TRUE`
	if _, err := s.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to cleanup expired tokens: %w", err)
	}
	return nil
}
