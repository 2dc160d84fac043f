package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"agroland-backend/internal/models"
)

type AuthServiceTestSuite struct {
	suite.Suite
	authService *AuthService
	user        *models.User
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.authService = NewAuthService("access-secret", "refresh-secret", 3600, 7200)
	suite.user = &models.User{
		ID:       "user-123",
		Email:    "asha@example.com",
		UserType: models.UserTypeFarmer,
	}
}

func (suite *AuthServiceTestSuite) TestGenerateTokenPair() {
	pair, err := suite.authService.GenerateTokenPair(suite.user)
	suite.Require().NoError(err)
	suite.NotEmpty(pair.AccessToken)
	suite.NotEmpty(pair.RefreshToken)
	suite.NotEqual(pair.AccessToken, pair.RefreshToken)

	claims, err := suite.authService.ValidateToken(pair.AccessToken)
	suite.Require().NoError(err)
	suite.Equal("user-123", claims.UserID)
	suite.Equal("asha@example.com", claims.Email)
	suite.Equal("farmer", claims.Role)
	suite.Empty(claims.TokenType)
}

func (suite *AuthServiceTestSuite) TestRefreshTokenCannotAuthenticate() {
	pair, err := suite.authService.GenerateTokenPair(suite.user)
	suite.Require().NoError(err)

	_, err = suite.authService.ValidateToken(pair.RefreshToken)
	suite.Require().Error(err)
}

func (suite *AuthServiceTestSuite) TestAccessTokenCannotRefresh() {
	pair, err := suite.authService.GenerateTokenPair(suite.user)
	suite.Require().NoError(err)

	_, err = suite.authService.ValidateRefreshToken(pair.AccessToken)
	suite.Require().Error(err)

	claims, err := suite.authService.ValidateRefreshToken(pair.RefreshToken)
	suite.Require().NoError(err)
	suite.Equal("refresh", claims.TokenType)
	suite.Equal("user-123", claims.UserID)
}

func (suite *AuthServiceTestSuite) TestTamperedTokenRejected() {
	token, err := suite.authService.GenerateToken(suite.user)
	suite.Require().NoError(err)

	other := NewAuthService("different-secret", "", 3600, 7200)
	_, err = other.ValidateToken(token)
	suite.Require().Error(err)
}

func (suite *AuthServiceTestSuite) TestExpiredTokenRejected() {
	expired := NewAuthService("access-secret", "refresh-secret", -1, -1)
	token, err := expired.GenerateToken(suite.user)
	suite.Require().NoError(err)

	_, err = suite.authService.ValidateToken(token)
	suite.Require().Error(err)
}

func (suite *AuthServiceTestSuite) TestBlacklistToken() {
	token, err := suite.authService.GenerateToken(suite.user)
	suite.Require().NoError(err)

	_, err = suite.authService.ValidateToken(token)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.authService.BlacklistToken(token))
	suite.True(suite.authService.IsTokenBlacklisted(token))

	_, err = suite.authService.ValidateToken(token)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "revoked")
}

func (suite *AuthServiceTestSuite) TestCleanupExpiredTokens() {
	token, err := suite.authService.GenerateToken(suite.user)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.authService.BlacklistToken(token))

	// Force the blacklist entry into the past, then sweep
	suite.authService.blacklistMutex.Lock()
	suite.authService.blacklistedTokens[token] = time.Now().Add(-time.Minute)
	suite.authService.blacklistMutex.Unlock()

	suite.authService.CleanupExpiredTokens()
	suite.False(suite.authService.IsTokenBlacklisted(token))
}

func (suite *AuthServiceTestSuite) TestRefreshSecretFallsBackToJWTSecret() {
	single := NewAuthService("only-secret", "", 3600, 7200)
	refresh, err := single.GenerateRefreshToken(suite.user)
	suite.Require().NoError(err)

	claims, err := single.ValidateRefreshToken(refresh)
	suite.Require().NoError(err)
	suite.Equal("refresh", claims.TokenType)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
