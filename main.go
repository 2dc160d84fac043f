package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"agroland-backend/config"
	"agroland-backend/database"
	"agroland-backend/internal/api"
	"agroland-backend/internal/middleware"
	"agroland-backend/internal/services"
)

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowedOrigin := ""
		if cfg.AllowAllOrigins && cfg.Environment != "production" {
			allowedOrigin = "*"
		} else if origin != "" {
			for _, allowed := range cfg.AllowedOrigins {
				if origin == allowed {
					allowedOrigin = origin
					break
				}
			}
		}

		if allowedOrigin != "" {
			c.Header("Access-Control-Allow-Origin", allowedOrigin)
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept, Origin, Cache-Control")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
			c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Disposition")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	// Run database migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize services
	authService := services.NewAuthService(cfg.JWTSecret, cfg.RefreshSecret(), cfg.JWTExpiration, cfg.RefreshExpiration)
	userService := services.NewUserService(db, cfg.BcryptCost)
	emailService := services.NewEmailService(cfg)
	googleService := services.NewGoogleService(cfg)
	landService := services.NewLandService(db)
	wishlistService := services.NewWishlistService(db)
	inquiryService := services.NewInquiryService(db)
	razorpayService := services.NewRazorpayService(cfg)
	bookingService := services.NewBookingService(db, razorpayService)

	passwordResetService := services.NewPasswordResetService(db, userService, emailService)
	if err := passwordResetService.InitializePasswordResetTable(); err != nil {
		log.Fatalf("Failed to initialize password reset table: %v", err)
	}

	emailVerificationService := services.NewEmailVerificationService(db, userService, emailService)
	if err := emailVerificationService.InitializeVerificationTable(); err != nil {
		log.Fatalf("Failed to initialize email verification table: %v", err)
	}

	// Periodic cleanup of blacklisted and expired tokens
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			authService.CleanupExpiredTokens()
			if err := passwordResetService.CleanupExpiredTokens(); err != nil {
				log.Printf("Password reset token cleanup failed: %v", err)
			}
			if err := emailVerificationService.CleanupExpiredTokens(); err != nil {
				log.Printf("Verification token cleanup failed: %v", err)
			}
		}
	}()

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Initialize handlers
	authHandlers := api.NewAuthHandlers(userService, authService, googleService, passwordResetService, emailVerificationService, cfg.ClientURL)
	landHandlers := api.NewLandHandlers(landService)
	wishlistHandlers := api.NewWishlistHandlers(wishlistService)
	inquiryHandlers := api.NewInquiryHandlers(inquiryService, userService, landService, emailService)
	bookingHandlers := api.NewBookingHandlers(bookingService, razorpayService)
	adminHandlers := api.NewAdminHandlers(landService, userService, inquiryService, bookingService)
	uploadHandlers := api.NewUploadHandlers(cfg, userService)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if cfg.Environment == "production" {
		router.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			c.Next()
		})
	}

	router.Use(corsMiddleware(cfg))
	router.Use(middleware.SecurityMiddleware(middleware.DefaultSecurityConfig()))
	router.Use(middleware.InputValidationMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "AgroLand API is running",
			"version": "1.0.0",
		})
	})

	// Serve uploaded images
	router.Static("/uploads", cfg.UploadPath)

	apiGroup := router.Group("/api")
	{
		// Authentication routes with stricter rate limiting
		auth := apiGroup.Group("/auth")
		auth.Use(middleware.AuthRateLimitMiddleware())
		{
			auth.POST("/register", authHandlers.Register)
			auth.POST("/login", authHandlers.Login)
			auth.POST("/google", authHandlers.GoogleAuth)
			auth.GET("/google/url", authHandlers.GoogleAuthURL)
			auth.GET("/google/callback", authHandlers.GoogleCallback)
			auth.POST("/refresh", authHandlers.RefreshToken)
			auth.POST("/logout", authHandlers.Logout)
			auth.POST("/forgot-password", authHandlers.ForgotPassword)
			auth.POST("/reset-password", authHandlers.ResetPassword)
			auth.POST("/verify-email", authHandlers.VerifyEmail)

			auth.GET("/me", authMiddleware.AuthRequired(), authHandlers.GetProfile)
			auth.GET("/validate", authMiddleware.AuthRequired(), authHandlers.ValidateToken)
			auth.PUT("/profile", authMiddleware.AuthRequired(), authHandlers.UpdateProfile)
			auth.POST("/change-password", authMiddleware.AuthRequired(), authHandlers.ChangePassword)
			auth.POST("/resend-verification", authMiddleware.AuthRequired(), authHandlers.ResendVerification)
		}

		// Land routes, mounted under /lands and the legacy /properties
		// alias kept for older clients
		mountLandRoutes := func(group *gin.RouterGroup) {
			group.GET("", landHandlers.Search)
			group.GET("/search", landHandlers.Search)
			group.GET("/featured", landHandlers.GetFeatured)
			group.GET("/nearby", landHandlers.GetNearby)
			group.GET("/my", authMiddleware.AuthRequired(), landHandlers.GetMyLands)
			group.GET("/saved", authMiddleware.AuthRequired(), wishlistHandlers.GetSavedLands)
			group.GET("/:id", authMiddleware.OptionalAuth(), landHandlers.GetLand)

			group.POST("", authMiddleware.AuthRequired(), authMiddleware.RequireRoles("farmer", "agent", "admin"), landHandlers.CreateLand)
			group.PUT("/:id", authMiddleware.AuthRequired(), landHandlers.UpdateLand)
			group.DELETE("/:id", authMiddleware.AuthRequired(), landHandlers.DeleteLand)
			group.PATCH("/:id/status", authMiddleware.AuthRequired(), landHandlers.UpdateLandStatus)

			group.POST("/:id/save", authMiddleware.AuthRequired(), wishlistHandlers.SaveLand)
			group.DELETE("/:id/save", authMiddleware.AuthRequired(), wishlistHandlers.UnsaveLand)

			group.POST("/:id/inquiries", authMiddleware.AuthRequired(), inquiryHandlers.CreateInquiry)
			group.POST("/:id/view", landHandlers.RecordView)
		}
		mountLandRoutes(apiGroup.Group("/lands"))
		mountLandRoutes(apiGroup.Group("/properties"))

		// Inquiry routes
		inquiries := apiGroup.Group("/inquiries")
		inquiries.Use(authMiddleware.AuthRequired())
		{
			inquiries.GET("/sent", inquiryHandlers.GetSentInquiries)
			inquiries.GET("/received", inquiryHandlers.GetReceivedInquiries)
			inquiries.GET("/:id", inquiryHandlers.GetInquiry)
			inquiries.POST("/:id/replies", inquiryHandlers.AddReply)
			inquiries.PATCH("/:id/status", inquiryHandlers.UpdateInquiryStatus)
		}

		// Booking routes
		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.AuthRequired())
		{
			bookings.POST("/order", bookingHandlers.CreateOrder)
			bookings.POST("", bookingHandlers.CreateBooking)
			bookings.GET("/my", bookingHandlers.GetMyBookings)
		}

		// Admin routes
		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.AuthRequired(), authMiddleware.RequireRole("admin"))
		{
			admin.GET("/lands/pending", adminHandlers.GetPendingLands)
			admin.GET("/lands", adminHandlers.GetAllLands)
			admin.PATCH("/lands/:id/approve", adminHandlers.ApproveLand)
			admin.PATCH("/lands/:id/reject", adminHandlers.RejectLand)
			admin.PATCH("/lands/:id/feature", adminHandlers.SetFeatured)
			admin.GET("/statistics", adminHandlers.GetStatistics)
		}

		// Upload routes
		uploads := apiGroup.Group("/upload")
		uploads.Use(authMiddleware.AuthRequired(), middleware.FileUploadSecurityMiddleware())
		{
			uploads.POST("/image", authMiddleware.RequireRoles("farmer", "agent", "admin"), uploadHandlers.UploadImage)
			uploads.POST("/avatar", uploadHandlers.UploadAvatar)
		}
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("AgroLand API server starting on port %s", cfg.Port)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server shutdown complete")
}
