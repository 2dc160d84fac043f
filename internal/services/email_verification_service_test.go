package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"agroland-backend/config"
	"agroland-backend/internal/models"
)

type EmailVerificationServiceTestSuite struct {
	suite.Suite
	db                  *sql.DB
	userService         *UserService
	verificationService *EmailVerificationService
	user                *models.User
}

func (suite *EmailVerificationServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.userService = NewUserService(suite.db, testBcryptCost)

	emailService := NewEmailService(&config.Config{ClientURL: "http://localhost:3000"})
	suite.verificationService = NewEmailVerificationService(suite.db, suite.userService, emailService)
	suite.Require().NoError(suite.verificationService.InitializeVerificationTable())

	suite.user = createTestUser(suite.T(), suite.db, "asha@example.com", "buyer")
}

func (suite *EmailVerificationServiceTestSuite) tokenCount() int {
	var count int
	err := suite.db.QueryRow("SELECT COUNT(*) FROM email_verification_tokens").Scan(&count)
	suite.Require().NoError(err)
	return count
}

func (suite *EmailVerificationServiceTestSuite) issueToken(expiresAt time.Time) string {
	token, tokenHash, err := generateToken()
	suite.Require().NoError(err)
	_, err = suite.db.Exec(
		"INSERT INTO email_verification_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)",
		suite.user.ID, tokenHash, expiresAt,
	)
	suite.Require().NoError(err)
	return token
}

func (suite *EmailVerificationServiceTestSuite) TestSendVerificationReplacesOldToken() {
	suite.Require().NoError(suite.verificationService.SendVerification(suite.user.ID))
	suite.Equal(1, suite.tokenCount())

	suite.Require().NoError(suite.verificationService.SendVerification(suite.user.ID))
	suite.Equal(1, suite.tokenCount())
}

func (suite *EmailVerificationServiceTestSuite) TestSendVerificationForVerifiedAccount() {
	suite.Require().NoError(suite.userService.VerifyEmail(suite.user.ID))

	err := suite.verificationService.SendVerification(suite.user.ID)
	suite.Require().ErrorIs(err, ErrAlreadyVerified)
}

func (suite *EmailVerificationServiceTestSuite) TestVerifyEmail() {
	token := suite.issueToken(time.Now().Add(24 * time.Hour))

	suite.Require().NoError(suite.verificationService.VerifyEmail(token))

	user, err := suite.userService.GetUserByID(suite.user.ID)
	suite.Require().NoError(err)
	suite.True(user.IsVerified)
	suite.Zero(suite.tokenCount())

	// Token is single-use
	err = suite.verificationService.VerifyEmail(token)
	suite.Require().ErrorIs(err, ErrVerificationTokenInvalid)
}

func (suite *EmailVerificationServiceTestSuite) TestExpiredTokenRejected() {
	token := suite.issueToken(time.Now().Add(-time.Minute))

	err := suite.verificationService.VerifyEmail(token)
	suite.Require().ErrorIs(err, ErrVerificationTokenInvalid)

	user, err := suite.userService.GetUserByID(suite.user.ID)
	suite.Require().NoError(err)
	suite.False(user.IsVerified)
}

func (suite *EmailVerificationServiceTestSuite) TestUnknownTokenRejected() {
	err := suite.verificationService.VerifyEmail("not-a-real-token")
	suite.Require().ErrorIs(err, ErrVerificationTokenInvalid)
}

func (suite *EmailVerificationServiceTestSuite) TestCleanupExpiredTokens() {
	suite.issueToken(time.Now().Add(-time.Hour))
	suite.Require().NoError(suite.verificationService.CleanupExpiredTokens())
	suite.Zero(suite.tokenCount())
}

func TestEmailVerificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EmailVerificationServiceTestSuite))
}
