package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agroland-backend/internal/models"
)

// ErrAlreadySaved is returned when a land is saved twice
var ErrAlreadySaved = errors.New("land is already saved")

// WishlistService handles saved-land business logic
type WishlistService struct {
	db *sql.DB
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(db *sql.DB) *WishlistService {
	return &WishlistService{db: db}
}

// SaveLand adds an approved listing to a user's saved list
func (s *WishlistService) SaveLand(userID, landID string) (*models.SavedLand, error) {
	var approvalStatus string
	err := s.db.QueryRow("SELECT approval_status FROM lands WHERE id = ?", landID).Scan(&approvalStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLandNotFound
		}
		return nil, fmt.Errorf("failed to check land: %w", err)
	}
	if approvalStatus != string(models.ApprovalStatusApproved) {
		return nil, ErrLandNotFound
	}

	var exists bool
	err = s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM saved_lands WHERE user_id = ? AND land_id = ?)", userID, landID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check saved land: %w", err)
	}
	if exists {
		return nil, ErrAlreadySaved
	}

	saved := &models.SavedLand{
		ID:      uuid.New().String(),
		UserID:  userID,
		LandID:  landID,
		SavedAt: time.Now(),
	}
	query := "INSERT INTO saved_lands (id, user_id, land_id, saved_at) VALUES (?, ?, ?, ?)"
	if _, err := s.db.Exec(query, saved.ID, saved.UserID, saved.LandID, saved.SavedAt); err != nil {
		return nil, fmt.Errorf("failed to save land: %w", err)
	}

	return saved, nil
}

// UnsaveLand removes a listing from a user's saved list. Removing a land
// that was never saved is a no-op success.
func (s *WishlistService) UnsaveLand(userID, landID string) error {
	if _, err := s.db.Exec("DELETE FROM saved_lands WHERE user_id = ? AND land_id = ?", userID, landID); err != nil {
		return fmt.Errorf("failed to unsave land: %w", err)
	}
	return nil
}

// GetSavedLands returns a user's saved listings, newest saves first.
// Listings that have since lost approval drop out of the join.
func (s *WishlistService) GetSavedLands(userID string) ([]*models.SavedLand, error) {
	query := `
		SELECT sl.id, sl.user_id, sl.land_id, sl.saved_at
		FROM saved_lands sl
		JOIN lands l ON l.id = sl.land_id
		WHERE sl.user_id = ? AND l.approval_status = ?
		ORDER BY sl.saved_at DESC
	`
	rows, err := s.db.Query(query, userID, models.ApprovalStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to get saved lands: %w", err)
	}
	defer rows.Close()

	saved := []*models.SavedLand{}
	for rows.Next() {
		entry := &models.SavedLand{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.LandID, &entry.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved land: %w", err)
		}
		saved = append(saved, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, entry := range saved {
		land, err := scanLand(s.db.QueryRow("SELECT "+landColumns+" FROM lands WHERE id = ?", entry.LandID))
		if err != nil {
			if errors.Is(err, ErrLandNotFound) {
				continue
			}
			return nil, err
		}
		entry.Land = land
	}
	return saved, nil
}

// IsSaved reports whether a user has saved a listing
func (s *WishlistService) IsSaved(userID, landID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM saved_lands WHERE user_id = ? AND land_id = ?)", userID, landID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check saved land: %w", err)
	}
	return exists, nil
}
