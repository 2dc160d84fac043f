package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"agroland-backend/internal/models"
	"agroland-backend/internal/services"
	"agroland-backend/internal/utils"
)

// AuthHandlers contains all authentication-related handlers
type AuthHandlers struct {
	userService         *services.UserService
	authService         *services.AuthService
	googleService       *services.GoogleService
	resetService        *services.PasswordResetService
	verificationService *services.EmailVerificationService
	clientURL           string
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(
	userService *services.UserService,
	authService *services.AuthService,
	googleService *services.GoogleService,
	resetService *services.PasswordResetService,
	verificationService *services.EmailVerificationService,
	clientURL string,
) *AuthHandlers {
	return &AuthHandlers{
		userService:         userService,
		authService:         authService,
		googleService:       googleService,
		resetService:        resetService,
		verificationService: verificationService,
		clientURL:           clientURL,
	}
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    *AuthData `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// AuthData represents the data in auth response
type AuthData struct {
	User         *models.User `json:"user,omitempty"`
	Token        string       `json:"token,omitempty"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	IsNewUser    *bool        `json:"isNewUser,omitempty"`
}

func (h *AuthHandlers) respondWithTokens(c *gin.Context, status int, message string, user *models.User) {
	pair, err := h.authService.GenerateTokenPair(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
		return
	}

	c.JSON(status, AuthResponse{
		Success: true,
		Message: message,
		Data: &AuthData{
			User:         user,
			Token:        pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		},
	})
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req models.UserRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Invalid request data: " + err.Error(),
		})
		return
	}

	user, err := h.userService.CreateUser(&req)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, AuthResponse{
				Success: false,
				Error:   "An account with this email already exists",
			})
			return
		}
		if errors.Is(err, services.ErrDuplicatePhone) {
			c.JSON(http.StatusConflict, AuthResponse{
				Success: false,
				Error:   "An account with this phone number already exists",
			})
			return
		}
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	// Send the verification email after registration; a delivery failure
	// must not fail the registration itself
	if err := h.verificationService.SendVerification(user.ID); err != nil {
		fmt.Printf("Failed to send verification email to %s: %v\n", user.Email, err)
	}

	h.respondWithTokens(c, http.StatusCreated, "Registration successful! Please check your email to verify your account.", user)
}

// Login handles user authentication
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.UserLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Invalid request data: " + err.Error(),
		})
		return
	}

	user, err := h.userService.AuthenticateUser(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.respondWithTokens(c, http.StatusOK, "Login successful", user)
}

// GoogleAuth signs a user in with a Google ID token posted by the client
func (h *AuthHandlers) GoogleAuth(c *gin.Context) {
	var req models.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Invalid request data: " + err.Error(),
		})
		return
	}

	info, err := h.googleService.VerifyIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, services.ErrGoogleNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, AuthResponse{
				Success: false,
				Error:   "Google sign-in is not available",
			})
			return
		}
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Success: false,
			Error:   "Invalid Google credential",
		})
		return
	}

	user, err := h.userService.UpsertGoogleUser(info.ID, info.Email, info.Name, info.Picture)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Error:   "Failed to sign in with Google",
		})
		return
	}

	pair, err := h.authService.GenerateTokenPair(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
		return
	}

	// Clients use isNewUser to route fresh Google sign-ups into
	// onboarding (pick a role, add a phone number)
	isNew := !user.HasCompleteProfile()
	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Data: &AuthData{
			User:         user,
			Token:        pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			IsNewUser:    &isNew,
		},
	})
}

// GoogleAuthURL returns the Google consent page URL for the redirect flow
func (h *AuthHandlers) GoogleAuthURL(c *gin.Context) {
	state := make([]byte, 16)
	if _, err := rand.Read(state); err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Error:   "Failed to generate state",
		})
		return
	}

	authURL, err := h.googleService.AuthURL(hex.EncodeToString(state))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, AuthResponse{
			Success: false,
			Error:   "Google sign-in is not available",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"url": authURL},
	})
}

// GoogleCallback completes the redirect flow and hands tokens back to the client app
func (h *AuthHandlers) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, h.clientURL+"/login?error=google_auth_failed")
		return
	}

	info, err := h.googleService.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		c.Redirect(http.StatusFound, h.clientURL+"/login?error=google_auth_failed")
		return
	}

	user, err := h.userService.UpsertGoogleUser(info.ID, info.Email, info.Name, info.Picture)
	if err != nil {
		c.Redirect(http.StatusFound, h.clientURL+"/login?error=google_auth_failed")
		return
	}

	pair, err := h.authService.GenerateTokenPair(user)
	if err != nil {
		c.Redirect(http.StatusFound, h.clientURL+"/login?error=google_auth_failed")
		return
	}

	redirect := fmt.Sprintf("%s/auth/google/success?token=%s&refreshToken=%s&isNewUser=%t",
		h.clientURL, url.QueryEscape(pair.AccessToken), url.QueryEscape(pair.RefreshToken),
		!user.HasCompleteProfile())
	c.Redirect(http.StatusFound, redirect)
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (h *AuthHandlers) RefreshToken(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Refresh token required",
		})
		return
	}

	claims, err := h.authService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Success: false,
			Error:   "Invalid refresh token",
		})
		return
	}

	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Success: false,
			Error:   "Invalid refresh token",
		})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Success: false,
			Error:   "Account has been deactivated",
		})
		return
	}

	h.respondWithTokens(c, http.StatusOK, "Token refreshed successfully", user)
}

// Logout handles user logout
func (h *AuthHandlers) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	tokenString := ""
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}

	if tokenString != "" {
		// Client-side cleanup should proceed even if blacklisting fails
		if err := h.authService.BlacklistToken(tokenString); err != nil {
			c.JSON(http.StatusOK, AuthResponse{
				Success: true,
				Message: "Logout successful (token cleanup failed)",
			})
			return
		}
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Logout successful",
	})
}

// GetProfile returns the authenticated user's profile
func (h *AuthHandlers) GetProfile(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, AuthResponse{
			Success: false,
			Error:   "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateProfile updates the authenticated user's profile
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	userID := c.GetString("userID")

	var req models.UserProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Invalid request data: " + err.Error(),
		})
		return
	}

	user, err := h.userService.UpdateUser(userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    user,
	})
}

// ChangePassword changes the password of the authenticated user
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	userID := c.GetString("userID")

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Invalid request data: " + err.Error(),
		})
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Password changed successfully",
	})
}

// ForgotPassword starts the password reset flow. The response never
// reveals whether the address is registered.
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Invalid request data: " + err.Error(),
		})
		return
	}

	if !utils.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Invalid email address",
		})
		return
	}

	if err := h.resetService.RequestPasswordReset(req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Error:   "Failed to send reset email. Please try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "If an account with that email exists, a password reset link has been sent.",
	})
}

// ResetPassword completes the password reset flow
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Invalid request data: " + err.Error(),
		})
		return
	}

	if err := h.resetService.ResetPassword(req.Token, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrResetTokenInvalid) {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Error:   "Invalid or expired reset token",
			})
			return
		}
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Password reset successfully. You can now log in with your new password.",
	})
}

// VerifyEmail marks the account verified using an emailed token
func (h *AuthHandlers) VerifyEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Verification token required",
		})
		return
	}

	if err := h.verificationService.VerifyEmail(req.Token); err != nil {
		if errors.Is(err, services.ErrVerificationTokenInvalid) {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Error:   "Invalid or expired verification token",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Error:   "Failed to verify email",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Email verified successfully",
	})
}

// ResendVerification sends a fresh verification email to the authenticated user
func (h *AuthHandlers) ResendVerification(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.verificationService.SendVerification(userID); err != nil {
		if errors.Is(err, services.ErrAlreadyVerified) {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Error:   "Email is already verified",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Error:   "Failed to send verification email",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Verification email sent",
	})
}

// ValidateToken confirms the caller's token is still valid and returns the claims
func (h *AuthHandlers) ValidateToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"userId": c.GetString("userID"),
			"email":  c.GetString("userEmail"),
			"role":   c.GetString("userRole"),
		},
	})
}
