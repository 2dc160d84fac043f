package services

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrVerificationTokenInvalid covers unknown and expired verification tokens
var ErrVerificationTokenInvalid = errors.New("invalid or expired verification token")

// ErrAlreadyVerified is returned when resending verification for a verified account
var ErrAlreadyVerified = errors.New("email is already verified")

// EmailVerificationService handles the email verification flow
type EmailVerificationService struct {
	db           *sql.DB
	userService  *UserService
	emailService *EmailService
}

// NewEmailVerificationService creates a new email verification service
func NewEmailVerificationService(db *sql.DB, userService *UserService, emailService *EmailService) *EmailVerificationService {
	return &EmailVerificationService{
		db:           db,
		userService:  userService,
		emailService: emailService,
	}
}

// InitializeVerificationTable creates the email verification tokens table if it doesn't exist
func (s *EmailVerificationService) InitializeVerificationTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS email_verification_tokens (
		id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
		user_id TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	)`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create email_verification_tokens table: %w", err)
	}

	indexQuery := `CREATE INDEX IF NOT EXISTS idx_email_verification_tokens_hash ON email_verification_tokens(token_hash)`
	if _, err := s.db.Exec(indexQuery); err != nil {
		return fmt.Errorf("failed to create email verification tokens index: %w", err)
	}

	return nil
}

// SendVerification issues a verification token for the user and emails it.
// Existing tokens for the user are replaced so only the latest link works.
func (s *EmailVerificationService) SendVerification(userID string) error {
	user, err := s.userService.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	token, tokenHash, err := generateToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(24 * time.Hour)

	if _, err := s.db.Exec("DELETE FROM email_verification_tokens WHERE user_id = ?", user.ID); err != nil {
		return fmt.Errorf("failed to cleanup existing tokens: %w", err)
	}

	query := `INSERT INTO email_verification_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`
	if _, err := s.db.Exec(query, user.ID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("failed to create verification token: %w", err)
	}

	if err := s.emailService.SendEmailVerificationEmail(user.Email, token, user.Name); err != nil {
		s.db.Exec("DELETE FROM email_verification_tokens WHERE token_hash = ?", tokenHash)
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

// VerifyEmail marks a user's email as verified using a valid token
func (s *EmailVerificationService) VerifyEmail(token string) error {
	digest := sha256.Sum256([]byte(token))
	tokenHash := hex.EncodeToString(digest[:])

	var userID string
	var expiresAt time.Time
	query := `SELECT user_id, expires_at FROM email_verification_tokens WHERE token_hash = ?`
	err := s.db.QueryRow(query, tokenHash).Scan(&userID, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrVerificationTokenInvalid
		}
		return fmt.Errorf("failed to validate verification token: %w", err)
	}

	if time.Now().After(expiresAt) {
		s.db.Exec("DELETE FROM email_verification_tokens WHERE token_hash = ?", tokenHash)
		return ErrVerificationTokenInvalid
	}

	if err := s.userService.VerifyEmail(userID); err != nil {
		return err
	}

	if _, err := s.db.Exec("DELETE FROM email_verification_tokens WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to cleanup token: %w", err)
	}

	return nil
}

// CleanupExpiredTokens removes expired verification tokens
func (s *EmailVerificationService) CleanupExpiredTokens() error {
	query := `DELETE FROM email_verification_tokens WHERE expires_at < ?`
	if _, err := s.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to cleanup expired tokens: %w", err)
	}
	return nil
}
