package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"agroland-backend/config"
	"agroland-backend/database"
	"agroland-backend/internal/middleware"
	"agroland-backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv wires the handlers with real services against an in-memory
// database, mirroring the production route table for the routes under test.
type testEnv struct {
	db     *sql.DB
	router *gin.Engine
	auth   *services.AuthService
	users  *services.UserService
	lands  *services.LandService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		ClientURL:   "http://localhost:3000",
		UploadPath:  t.TempDir(),
		MaxFileSize: 5 * 1024 * 1024,
	}

	authService := services.NewAuthService("test-secret", "test-refresh-secret", 3600, 7200)
	userService := services.NewUserService(db, 4)
	emailService := services.NewEmailService(cfg)
	googleService := services.NewGoogleService(cfg)
	landService := services.NewLandService(db)
	wishlistService := services.NewWishlistService(db)
	inquiryService := services.NewInquiryService(db)

	resetService := services.NewPasswordResetService(db, userService, emailService)
	require.NoError(t, resetService.InitializePasswordResetTable())
	verificationService := services.NewEmailVerificationService(db, userService, emailService)
	require.NoError(t, verificationService.InitializeVerificationTable())

	authHandlers := NewAuthHandlers(userService, authService, googleService, resetService, verificationService, cfg.ClientURL)
	landHandlers := NewLandHandlers(landService)
	wishlistHandlers := NewWishlistHandlers(wishlistService)
	inquiryHandlers := NewInquiryHandlers(inquiryService, userService, landService, emailService)
	adminHandlers := NewAdminHandlers(landService, userService, inquiryService, services.NewBookingService(db, services.NewRazorpayService(cfg)))
	uploadHandlers := NewUploadHandlers(cfg, userService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	router := gin.New()
	apiGroup := router.Group("/api")

	auth := apiGroup.Group("/auth")
	{
		auth.POST("/register", authHandlers.Register)
		auth.POST("/login", authHandlers.Login)
		auth.POST("/refresh", authHandlers.RefreshToken)
		auth.POST("/logout", authHandlers.Logout)
		auth.POST("/forgot-password", authHandlers.ForgotPassword)
		auth.POST("/reset-password", authHandlers.ResetPassword)
		auth.POST("/verify-email", authHandlers.VerifyEmail)

		authed := auth.Group("")
		authed.Use(authMiddleware.AuthRequired())
		{
			authed.GET("/me", authHandlers.GetProfile)
			authed.PUT("/profile", authHandlers.UpdateProfile)
		}
	}

	// Mounted twice, matching the production /properties alias
	mountLandRoutes := func(group *gin.RouterGroup) {
		group.GET("", landHandlers.Search)
		group.GET("/featured", landHandlers.GetFeatured)
		group.GET("/my", authMiddleware.AuthRequired(), landHandlers.GetMyLands)
		group.GET("/saved", authMiddleware.AuthRequired(), wishlistHandlers.GetSavedLands)
		group.GET("/:id", authMiddleware.OptionalAuth(), landHandlers.GetLand)
		group.POST("", authMiddleware.AuthRequired(), authMiddleware.RequireRoles("farmer", "agent", "admin"), landHandlers.CreateLand)
		group.PUT("/:id", authMiddleware.AuthRequired(), landHandlers.UpdateLand)
		group.POST("/:id/save", authMiddleware.AuthRequired(), wishlistHandlers.SaveLand)
		group.DELETE("/:id/save", authMiddleware.AuthRequired(), wishlistHandlers.UnsaveLand)
		group.POST("/:id/inquiries", authMiddleware.AuthRequired(), inquiryHandlers.CreateInquiry)
		group.POST("/:id/view", landHandlers.RecordView)
	}
	mountLandRoutes(apiGroup.Group("/lands"))
	mountLandRoutes(apiGroup.Group("/properties"))

	uploads := apiGroup.Group("/upload")
	uploads.Use(authMiddleware.AuthRequired())
	{
		uploads.POST("/image", authMiddleware.RequireRoles("farmer", "agent", "admin"), uploadHandlers.UploadImage)
		uploads.POST("/avatar", uploadHandlers.UploadAvatar)
	}

	admin := apiGroup.Group("/admin")
	admin.Use(authMiddleware.AuthRequired(), authMiddleware.RequireRole("admin"))
	{
		admin.GET("/lands/pending", adminHandlers.GetPendingLands)
		admin.PATCH("/lands/:id/approve", adminHandlers.ApproveLand)
		admin.PATCH("/lands/:id/reject", adminHandlers.RejectLand)
	}

	return &testEnv{
		db:     db,
		router: router,
		auth:   authService,
		users:  userService,
		lands:  landService,
	}
}

// request performs a JSON request against the test router
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerUser registers an account through the API and returns its
// access token and user id.
func (e *testEnv) registerUser(t *testing.T, email, userType string) (token, userID string) {
	t.Helper()

	w := e.request(t, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "Password123",
		"userType": userType,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	token = data["token"].(string)
	userID = data["user"].(map[string]interface{})["id"].(string)
	return token, userID
}

// promoteToAdmin flips a user's role directly and returns a fresh token
// carrying the admin claim.
func (e *testEnv) promoteToAdmin(t *testing.T, userID string) string {
	t.Helper()

	_, err := e.db.Exec("UPDATE users SET user_type = 'admin' WHERE id = ?", userID)
	require.NoError(t, err)

	user, err := e.users.GetUserByID(userID)
	require.NoError(t, err)

	token, err := e.auth.GenerateToken(user)
	require.NoError(t, err)
	return token
}
