package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type AuthHandlersTestSuite struct {
	suite.Suite
	env *testEnv
}

func (suite *AuthHandlersTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
}

func (suite *AuthHandlersTestSuite) TestRegisterAndLogin() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Asha Patil",
		"email":    "asha@example.com",
		"password": "Password123",
		"userType": "farmer",
	}, "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(suite.T(), w)
	suite.True(body["success"].(bool))
	data := body["data"].(map[string]interface{})
	suite.NotEmpty(data["token"])
	suite.NotEmpty(data["refreshToken"])
	user := data["user"].(map[string]interface{})
	suite.Equal("farmer", user["userType"])
	// The password hash never appears in responses
	suite.NotContains(w.Body.String(), "passwordHash")
	suite.NotContains(w.Body.String(), "password_hash")

	w = suite.env.request(suite.T(), http.MethodPost, "/api/auth/login", gin.H{
		"email":    "asha@example.com",
		"password": "Password123",
	}, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *AuthHandlersTestSuite) TestRegisterDuplicateEmail() {
	suite.env.registerUser(suite.T(), "asha@example.com", "buyer")

	w := suite.env.request(suite.T(), http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Second Account",
		"email":    "Asha@Example.com",
		"password": "Password123",
	}, "")
	suite.Require().Equal(http.StatusConflict, w.Code, w.Body.String())
}

func (suite *AuthHandlersTestSuite) TestRegisterDuplicatePhone() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Asha Patil",
		"email":    "asha@example.com",
		"password": "Password123",
		"phone":    "9876543210",
	}, "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.env.request(suite.T(), http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Ravi Kumar",
		"email":    "ravi@example.com",
		"password": "Password123",
		"phone":    "9876543210",
	}, "")
	suite.Require().Equal(http.StatusConflict, w.Code, w.Body.String())

	var count int
	suite.Require().NoError(suite.env.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	suite.Equal(1, count, "rejected registration must not create a row")
}

func (suite *AuthHandlersTestSuite) TestLoginWrongPassword() {
	suite.env.registerUser(suite.T(), "asha@example.com", "buyer")

	w := suite.env.request(suite.T(), http.MethodPost, "/api/auth/login", gin.H{
		"email":    "asha@example.com",
		"password": "WrongPassword1",
	}, "")
	suite.Require().Equal(http.StatusUnauthorized, w.Code)

	// Unknown address fails with the same message
	w2 := suite.env.request(suite.T(), http.MethodPost, "/api/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "WrongPassword1",
	}, "")
	suite.Require().Equal(http.StatusUnauthorized, w2.Code)
	suite.Equal(decodeBody(suite.T(), w)["error"], decodeBody(suite.T(), w2)["error"])
}

func (suite *AuthHandlersTestSuite) TestRefreshFlow() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Asha Patil",
		"email":    "asha@example.com",
		"password": "Password123",
	}, "")
	suite.Require().Equal(http.StatusCreated, w.Code)
	data := decodeBody(suite.T(), w)["data"].(map[string]interface{})
	accessToken := data["token"].(string)
	refreshToken := data["refreshToken"].(string)

	w = suite.env.request(suite.T(), http.MethodPost, "/api/auth/refresh", gin.H{
		"refreshToken": refreshToken,
	}, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	refreshed := decodeBody(suite.T(), w)["data"].(map[string]interface{})
	suite.NotEmpty(refreshed["token"])

	// An access token is not accepted as a refresh token
	w = suite.env.request(suite.T(), http.MethodPost, "/api/auth/refresh", gin.H{
		"refreshToken": accessToken,
	}, "")
	suite.Require().Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthHandlersTestSuite) TestRefreshTokenCannotAccessProtectedRoutes() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Asha Patil",
		"email":    "asha@example.com",
		"password": "Password123",
	}, "")
	suite.Require().Equal(http.StatusCreated, w.Code)
	refreshToken := decodeBody(suite.T(), w)["data"].(map[string]interface{})["refreshToken"].(string)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/auth/me", nil, refreshToken)
	suite.Require().Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthHandlersTestSuite) TestProtectedRouteRequiresToken() {
	w := suite.env.request(suite.T(), http.MethodGet, "/api/auth/me", nil, "")
	suite.Require().Equal(http.StatusUnauthorized, w.Code)

	// Non-bearer authorization schemes are rejected too
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Basic YXNoYTpwYXNz")
	raw := httptest.NewRecorder()
	suite.env.router.ServeHTTP(raw, req)
	suite.Require().Equal(http.StatusUnauthorized, raw.Code)

	token, _ := suite.env.registerUser(suite.T(), "asha@example.com", "buyer")
	w = suite.env.request(suite.T(), http.MethodGet, "/api/auth/me", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	user := decodeBody(suite.T(), w)["data"].(map[string]interface{})
	suite.Equal("asha@example.com", user["email"])
}

func (suite *AuthHandlersTestSuite) TestLogoutRevokesToken() {
	token, _ := suite.env.registerUser(suite.T(), "asha@example.com", "buyer")

	w := suite.env.request(suite.T(), http.MethodPost, "/api/auth/logout", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/auth/me", nil, token)
	suite.Require().Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthHandlersTestSuite) TestForgotPasswordNeverRevealsAccounts() {
	suite.env.registerUser(suite.T(), "asha@example.com", "buyer")

	known := suite.env.request(suite.T(), http.MethodPost, "/api/auth/forgot-password", gin.H{
		"email": "asha@example.com",
	}, "")
	suite.Require().Equal(http.StatusOK, known.Code)

	unknown := suite.env.request(suite.T(), http.MethodPost, "/api/auth/forgot-password", gin.H{
		"email": "nobody@example.com",
	}, "")
	suite.Require().Equal(http.StatusOK, unknown.Code)
	suite.Equal(decodeBody(suite.T(), known)["message"], decodeBody(suite.T(), unknown)["message"])

	malformed := suite.env.request(suite.T(), http.MethodPost, "/api/auth/forgot-password", gin.H{
		"email": "not-an-email",
	}, "")
	suite.Require().Equal(http.StatusBadRequest, malformed.Code)
}

func (suite *AuthHandlersTestSuite) TestResetPasswordWithBogusToken() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/auth/reset-password", gin.H{
		"token":       "bogus-token",
		"newPassword": "NewPassword456",
	}, "")
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Invalid or expired reset token")
}

func (suite *AuthHandlersTestSuite) TestUpdateProfileCannotEscalateToAdmin() {
	token, _ := suite.env.registerUser(suite.T(), "asha@example.com", "buyer")

	w := suite.env.request(suite.T(), http.MethodPut, "/api/auth/profile", gin.H{
		"userType": "admin",
	}, token)
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), http.MethodPut, "/api/auth/profile", gin.H{
		"userType": "farmer",
	}, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	user := decodeBody(suite.T(), w)["data"].(map[string]interface{})
	suite.Equal("farmer", user["userType"])
}

func TestAuthHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlersTestSuite))
}
