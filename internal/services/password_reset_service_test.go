package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"agroland-backend/config"
	"agroland-backend/internal/models"
)

type PasswordResetServiceTestSuite struct {
	suite.Suite
	db           *sql.DB
	userService  *UserService
	resetService *PasswordResetService
	user         *models.User
}

func (suite *PasswordResetServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.userService = NewUserService(suite.db, testBcryptCost)

	// SMTP is unconfigured in tests, so sends are simulated and succeed
	emailService := NewEmailService(&config.Config{ClientURL: "http://localhost:3000"})
	suite.resetService = NewPasswordResetService(suite.db, suite.userService, emailService)
	suite.Require().NoError(suite.resetService.InitializePasswordResetTable())

	suite.user = createTestUser(suite.T(), suite.db, "asha@example.com", "buyer")
}

func (suite *PasswordResetServiceTestSuite) tokenCount() int {
	var count int
	err := suite.db.QueryRow("SELECT COUNT(*) FROM password_reset_tokens").Scan(&count)
	suite.Require().NoError(err)
	return count
}

// issueToken inserts a reset token directly so the test knows its
// plaintext, the way RequestPasswordReset would.
func (suite *PasswordResetServiceTestSuite) issueToken(expiresAt time.Time) string {
	token, tokenHash, err := generateToken()
	suite.Require().NoError(err)
	_, err = suite.db.Exec(
		"INSERT INTO password_reset_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)",
		suite.user.ID, tokenHash, expiresAt,
	)
	suite.Require().NoError(err)
	return token
}

func (suite *PasswordResetServiceTestSuite) TestRequestForUnknownEmail() {
	suite.Require().NoError(suite.resetService.RequestPasswordReset("nobody@example.com"))
	suite.Zero(suite.tokenCount())
}

func (suite *PasswordResetServiceTestSuite) TestRequestStoresSingleHashedToken() {
	suite.Require().NoError(suite.resetService.RequestPasswordReset("asha@example.com"))
	suite.Equal(1, suite.tokenCount())

	// A second request replaces the first token
	suite.Require().NoError(suite.resetService.RequestPasswordReset("asha@example.com"))
	suite.Equal(1, suite.tokenCount())

	var tokenHash string
	err := suite.db.QueryRow("SELECT token_hash FROM password_reset_tokens WHERE user_id = ?", suite.user.ID).Scan(&tokenHash)
	suite.Require().NoError(err)
	suite.Len(tokenHash, 64) // sha256 hex, never the raw token
}

func (suite *PasswordResetServiceTestSuite) TestResetPassword() {
	token := suite.issueToken(time.Now().Add(30 * time.Minute))

	suite.Require().NoError(suite.resetService.ResetPassword(token, "NewPassword456"))

	_, err := suite.userService.AuthenticateUser(&models.UserLogin{
		Email:    "asha@example.com",
		Password: "NewPassword456",
	})
	suite.Require().NoError(err)

	// Old password no longer works
	_, err = suite.userService.AuthenticateUser(&models.UserLogin{
		Email:    "asha@example.com",
		Password: "Password123",
	})
	suite.Require().Error(err)
}

func (suite *PasswordResetServiceTestSuite) TestResetTokenIsSingleUse() {
	token := suite.issueToken(time.Now().Add(30 * time.Minute))

	suite.Require().NoError(suite.resetService.ResetPassword(token, "NewPassword456"))

	err := suite.resetService.ResetPassword(token, "AnotherPass789")
	suite.Require().ErrorIs(err, ErrResetTokenInvalid)
}

func (suite *PasswordResetServiceTestSuite) TestExpiredTokenRejectedAndRemoved() {
	token := suite.issueToken(time.Now().Add(-time.Minute))

	err := suite.resetService.ResetPassword(token, "NewPassword456")
	suite.Require().ErrorIs(err, ErrResetTokenInvalid)
	suite.Zero(suite.tokenCount())
}

func (suite *PasswordResetServiceTestSuite) TestUnknownTokenRejected() {
	err := suite.resetService.ResetPassword("not-a-real-token", "NewPassword456")
	suite.Require().ErrorIs(err, ErrResetTokenInvalid)
}

func (suite *PasswordResetServiceTestSuite) TestWeakPasswordRejectedBeforeLookup() {
	token := suite.issueToken(time.Now().Add(30 * time.Minute))

	err := suite.resetService.ResetPassword(token, "short")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "password validation failed")

	// The token survives a failed attempt
	suite.Equal(1, suite.tokenCount())
}

func (suite *PasswordResetServiceTestSuite) TestCleanupExpiredTokens() {
	suite.issueToken(time.Now().Add(-time.Hour))
	suite.Require().NoError(suite.resetService.CleanupExpiredTokens())
	suite.Zero(suite.tokenCount())
}

func TestPasswordResetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PasswordResetServiceTestSuite))
}
