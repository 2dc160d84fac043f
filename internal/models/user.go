package models

import "time"

// UserType represents the role a user plays in the marketplace
type UserType string

const (
	UserTypeFarmer UserType = "farmer"
	UserTypeBuyer  UserType = "buyer"
	UserTypeAgent  UserType = "agent"
	UserTypeAdmin  UserType = "admin"
)

// AuthProvider identifies how an account authenticates
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

// User represents a marketplace account
type User struct {
	ID           string          `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Email        string          `json:"email" db:"email"`
	PasswordHash string          `json:"-" db:"password_hash"`
	Phone        *string         `json:"phone,omitempty" db:"phone"`
	UserType     UserType        `json:"userType" db:"user_type"`
	Avatar       *string         `json:"avatar,omitempty" db:"avatar"`
	GoogleID     *string         `json:"-" db:"google_id"`
	AuthProvider AuthProvider    `json:"authProvider" db:"auth_provider"`
	IsVerified   bool            `json:"isVerified" db:"is_verified"`
	IsActive     bool            `json:"isActive" db:"is_active"`
	Preferences  UserPreferences `json:"preferences" db:"preferences"`
	LastLogin    *time.Time      `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// UserPreferences holds buyer search preferences stored as JSON
type UserPreferences struct {
	FavoriteLandTypes  []string `json:"favoriteLandTypes,omitempty"`
	MinBudget          *float64 `json:"minBudget,omitempty"`
	MaxBudget          *float64 `json:"maxBudget,omitempty"`
	PreferredLocations []string `json:"preferredLocations,omitempty"`
}

// UserRegistration represents user registration data
type UserRegistration struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	UserType string `json:"userType" validate:"omitempty,oneof=farmer buyer agent"`
}

// UserLogin represents user login data
type UserLogin struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,max=128"`
}

// GoogleAuthRequest carries a Google ID token from the client
type GoogleAuthRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UserProfileUpdate represents user profile update data
type UserProfileUpdate struct {
	Name        *string          `json:"name,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Avatar      *string          `json:"avatar,omitempty"`
	UserType    *string          `json:"userType,omitempty"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
}

// ChangePasswordRequest represents a password change for a logged-in user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required,max=128"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

// ForgotPasswordRequest starts the password reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=100"`
}

// ResetPasswordRequest completes the password reset flow
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}

// HasCompleteProfile reports whether onboarding fields are filled in.
// Google sign-ups arrive without a phone number or chosen role.
func (u *User) HasCompleteProfile() bool {
	return u.Phone != nil && *u.Phone != ""
}
