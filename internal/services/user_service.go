package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"agroland-backend/internal/models"
	"agroland-backend/internal/utils"
)

// ErrDuplicateEmail is returned when a registration email is already taken
var ErrDuplicateEmail = errors.New("an account with this email already exists")

// ErrDuplicatePhone is returned when a registration phone is already taken
var ErrDuplicatePhone = errors.New("an account with this phone number already exists")

// UserService handles user-related business logic
type UserService struct {
	db         *sql.DB
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(db *sql.DB, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &UserService{db: db, bcryptCost: bcryptCost}
}

const userColumns = `id, name, email, password_hash, phone, user_type, avatar, google_id,
	   auth_provider, is_verified, is_active, preferences, last_login, created_at, updated_at`

// CreateUser creates a new user
func (s *UserService) CreateUser(registration *models.UserRegistration) (*models.User, error) {
	// Validate input structure
	if err := utils.ValidateStruct(registration); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	// Comprehensive password validation
	if passwordErrors := utils.ValidatePassword(registration.Password); len(passwordErrors) > 0 {
		return nil, fmt.Errorf("password validation failed: %s", strings.Join(passwordErrors, ", "))
	}

	// Sanitize and normalize inputs
	registration.Name = utils.SanitizeString(registration.Name)
	registration.Email = utils.NormalizeEmail(utils.SanitizeString(registration.Email))

	if len(registration.Name) < 2 {
		return nil, errors.New("name must be at least 2 characters after sanitization")
	}

	// Check if user already exists
	exists, err := s.UserExists(registration.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	if registration.Phone != "" {
		registration.Phone = utils.SanitizeString(registration.Phone)
		taken, err := s.PhoneExists(registration.Phone)
		if err != nil {
			return nil, fmt.Errorf("failed to check phone existence: %w", err)
		}
		if taken {
			return nil, ErrDuplicatePhone
		}
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userType := models.UserTypeBuyer
	if registration.UserType != "" {
		userType = models.UserType(registration.UserType)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         registration.Name,
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		UserType:     userType,
		AuthProvider: models.AuthProviderLocal,
		IsVerified:   false,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	user.Phone = utils.SafeStringPointer(registration.Phone)

	query := `
		INSERT INTO users (
			id, name, email, password_hash, phone, user_type, auth_provider,
			is_verified, is_active, preferences, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Phone,
		user.UserType, user.AuthProvider, user.IsVerified, user.IsActive,
		"{}", user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// AuthenticateUser authenticates a user with email and password. Every
// failure path returns the same message so callers cannot probe for
// registered addresses.
func (s *UserService) AuthenticateUser(login *models.UserLogin) (*models.User, error) {
	if err := utils.ValidateStruct(login); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	user, err := s.GetUserByEmail(utils.NormalizeEmail(login.Email))
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	// Google-only accounts have no local password
	if user.PasswordHash == "" {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if !user.IsActive {
		return nil, fmt.Errorf("account has been deactivated")
	}

	if err := s.UpdateLastLogin(user.ID); err != nil {
		return nil, err
	}
	now := time.Now()
	user.LastLogin = &now

	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(userID string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return s.scanUser(s.db.QueryRow(query, userID))
}

// GetUserByEmail retrieves a user by email
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE LOWER(TRIM(email)) = ?"
	return s.scanUser(s.db.QueryRow(query, utils.NormalizeEmail(email)))
}

// GetUserByGoogleID retrieves a user by their Google account ID
func (s *UserService) GetUserByGoogleID(googleID string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE google_id = ?"
	return s.scanUser(s.db.QueryRow(query, googleID))
}

func (s *UserService) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var preferences string
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone,
		&user.UserType, &user.Avatar, &user.GoogleID, &user.AuthProvider,
		&user.IsVerified, &user.IsActive, &preferences, &user.LastLogin,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if preferences != "" {
		if err := json.Unmarshal([]byte(preferences), &user.Preferences); err != nil {
			user.Preferences = models.UserPreferences{}
		}
	}

	return user, nil
}

// UpdateUser updates user profile information
func (s *UserService) UpdateUser(userID string, update *models.UserProfileUpdate) (*models.User, error) {
	// Get current user
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateStruct(update); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	// Build dynamic update query
	setParts := []string{}
	args := []interface{}{}

	if update.Name != nil {
		name := utils.SanitizeString(*update.Name)
		if len(name) < 2 {
			return nil, errors.New("name must be at least 2 characters")
		}
		setParts = append(setParts, "name = ?")
		args = append(args, name)
	}
	if update.Phone != nil {
		setParts = append(setParts, "phone = ?")
		args = append(args, utils.SanitizeString(*update.Phone))
	}
	if update.Avatar != nil {
		setParts = append(setParts, "avatar = ?")
		args = append(args, *update.Avatar)
	}
	if update.UserType != nil {
		// Roles are self-selected at onboarding, admin is not
		switch models.UserType(*update.UserType) {
		case models.UserTypeFarmer, models.UserTypeBuyer, models.UserTypeAgent:
		default:
			return nil, errors.New("invalid user type")
		}
		setParts = append(setParts, "user_type = ?")
		args = append(args, *update.UserType)
	}
	if update.Preferences != nil {
		encoded, err := json.Marshal(update.Preferences)
		if err != nil {
			return nil, fmt.Errorf("failed to encode preferences: %w", err)
		}
		setParts = append(setParts, "preferences = ?")
		args = append(args, string(encoded))
	}

	if len(setParts) == 0 {
		return user, nil // No updates
	}

	// Add updated_at
	setParts = append(setParts, "updated_at = ?")
	args = append(args, time.Now())
	args = append(args, userID)

	query := "UPDATE users SET " + strings.Join(setParts, ", ") + " WHERE id = ?"

	_, err = s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	// Return updated user
	return s.GetUserByID(userID)
}

// UserExists checks if a user exists with the given email
func (s *UserService) UserExists(email string) (bool, error) {
	query := "SELECT COUNT(*) FROM users WHERE LOWER(TRIM(email)) = ?"
	var count int
	err := s.db.QueryRow(query, utils.NormalizeEmail(email)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

// PhoneExists checks whether a phone number is already registered
func (s *UserService) PhoneExists(phone string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE phone = ?", phone).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check phone existence: %w", err)
	}
	return count > 0, nil
}

// UpsertGoogleUser finds or creates an account for a verified Google
// identity. An existing local account with the same email gets linked.
func (s *UserService) UpsertGoogleUser(googleID, email, name, avatar string) (*models.User, error) {
	email = utils.NormalizeEmail(email)

	if user, err := s.GetUserByGoogleID(googleID); err == nil {
		if !user.IsActive {
			return nil, fmt.Errorf("account has been deactivated")
		}
		if err := s.UpdateLastLogin(user.ID); err != nil {
			return nil, err
		}
		return user, nil
	}

	// Link by email if a local account already exists
	if user, err := s.GetUserByEmail(email); err == nil {
		if !user.IsActive {
			return nil, fmt.Errorf("account has been deactivated")
		}
		query := `UPDATE users SET google_id = ?, is_verified = true, last_login = ?, updated_at = ? WHERE id = ?`
		now := time.Now()
		if _, err := s.db.Exec(query, googleID, now, now, user.ID); err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
		return s.GetUserByID(user.ID)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         utils.SanitizeString(name),
		Email:        email,
		UserType:     models.UserTypeBuyer,
		GoogleID:     &googleID,
		AuthProvider: models.AuthProviderGoogle,
		IsVerified:   true, // Google has already verified the address
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	user.Avatar = utils.SafeStringPointer(avatar)
	now := time.Now()
	user.LastLogin = &now

	query := `
		INSERT INTO users (
			id, name, email, password_hash, phone, user_type, avatar, google_id,
			auth_provider, is_verified, is_active, preferences, last_login, created_at, updated_at
		) VALUES (?, ?, ?, '', NULL, ?, ?, ?, ?, ?, ?, '{}', ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		user.ID, user.Name, user.Email, user.UserType, user.Avatar,
		user.GoogleID, user.AuthProvider, user.IsVerified, user.IsActive,
		user.LastLogin, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}

	return user, nil
}

// ChangePassword verifies the current password and sets a new one
func (s *UserService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if user.PasswordHash == "" {
		return errors.New("account uses google sign-in and has no password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return errors.New("current password is incorrect")
	}

	if passwordErrors := utils.ValidatePassword(newPassword); len(passwordErrors) > 0 {
		return fmt.Errorf("password validation failed: %s", strings.Join(passwordErrors, ", "))
	}

	return s.SetPassword(userID, newPassword)
}

// SetPassword hashes and stores a new password for a user
func (s *UserService) SetPassword(userID, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	query := "UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?"
	if _, err := s.db.Exec(query, string(hashed), time.Now(), userID); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}

// VerifyEmail marks the user's email as verified
func (s *UserService) VerifyEmail(userID string) error {
	query := "UPDATE users SET is_verified = true, updated_at = ? WHERE id = ?"
	if _, err := s.db.Exec(query, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the user's last successful sign-in
func (s *UserService) UpdateLastLogin(userID string) error {
	query := "UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?"
	now := time.Now()
	if _, err := s.db.Exec(query, now, now, userID); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// CountUsersByType returns user totals grouped by role
func (s *UserService) CountUsersByType() (map[string]int, error) {
	rows, err := s.db.Query("SELECT user_type, COUNT(*) FROM users GROUP BY user_type")
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var userType string
		var count int
		if err := rows.Scan(&userType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan user count: %w", err)
		}
		counts[userType] = count
	}
	return counts, rows.Err()
}

// CountRecentSignups returns how many accounts were created in the window
func (s *UserService) CountRecentSignups(since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE created_at >= ?", since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent signups: %w", err)
	}
	return count, nil
}
