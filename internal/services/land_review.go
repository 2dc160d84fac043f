package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"agroland-backend/internal/models"
)

// ErrCommentsRequired is returned when a rejection carries no explanation
var ErrCommentsRequired = errors.New("admin comments are required when rejecting a listing")

// GetPendingLands returns the review queue, oldest submissions first
func (s *LandService) GetPendingLands(page, limit int) ([]*models.Land, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM lands WHERE approval_status IN (?, ?)"
	if err := s.db.QueryRow(countQuery, models.ApprovalStatusPending, models.ApprovalStatusUnderReview).Scan(&total); err != nil {
		return nil, nil, fmt.Errorf("failed to count pending lands: %w", err)
	}

	query := "SELECT " + landColumns + ` FROM lands
		WHERE approval_status IN (?, ?)
		ORDER BY created_at ASC LIMIT ? OFFSET ?`
	rows, err := s.db.Query(query,
		models.ApprovalStatusPending, models.ApprovalStatusUnderReview,
		limit, (page-1)*limit,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get pending lands: %w", err)
	}
	defer rows.Close()

	lands := []*models.Land{}
	for rows.Next() {
		land, err := scanLand(rows)
		if err != nil {
			return nil, nil, err
		}
		lands = append(lands, land)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return lands, buildPagination(page, limit, total), nil
}

// GetAllLands lists every listing for the admin console, optionally
// filtered by approval status
func (s *LandService) GetAllLands(approvalStatus string, page, limit int) ([]*models.Land, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}

	where := "1=1"
	args := []interface{}{}
	if approvalStatus != "" {
		where = "approval_status = ?"
		args = append(args, approvalStatus)
	}

	var total int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM lands WHERE "+where, args...).Scan(&total); err != nil {
		return nil, nil, fmt.Errorf("failed to count lands: %w", err)
	}

	query := "SELECT " + landColumns + " FROM lands WHERE " + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list lands: %w", err)
	}
	defer rows.Close()

	lands := []*models.Land{}
	for rows.Next() {
		land, err := scanLand(rows)
		if err != nil {
			return nil, nil, err
		}
		lands = append(lands, land)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return lands, buildPagination(page, limit, total), nil
}

// ApproveLand moves a listing out of the review queue
func (s *LandService) ApproveLand(landID, adminID, comments string) (*models.Land, error) {
	land, err := s.GetLandByID(landID)
	if err != nil {
		return nil, err
	}
	if land.ApprovalStatus == models.ApprovalStatusApproved {
		return nil, errors.New("listing is already approved")
	}

	query := `UPDATE lands SET approval_status = ?, admin_comments = ?, reviewed_by = ?,
		reviewed_at = ?, updated_at = ? WHERE id = ?`
	now := time.Now()
	var adminComments interface{}
	if strings.TrimSpace(comments) != "" {
		adminComments = strings.TrimSpace(comments)
	}
	if _, err := s.db.Exec(query, models.ApprovalStatusApproved, adminComments, adminID, now, now, landID); err != nil {
		return nil, fmt.Errorf("failed to approve land: %w", err)
	}
	return s.GetLandByID(landID)
}

// RejectLand declines a listing. Comments are mandatory so the seller
// learns why.
func (s *LandService) RejectLand(landID, adminID, comments string) (*models.Land, error) {
	if strings.TrimSpace(comments) == "" {
		return nil, ErrCommentsRequired
	}

	if _, err := s.GetLandByID(landID); err != nil {
		return nil, err
	}

	query := `UPDATE lands SET approval_status = ?, admin_comments = ?, reviewed_by = ?,
		reviewed_at = ?, updated_at = ? WHERE id = ?`
	now := time.Now()
	if _, err := s.db.Exec(query, models.ApprovalStatusRejected, strings.TrimSpace(comments), adminID, now, now, landID); err != nil {
		return nil, fmt.Errorf("failed to reject land: %w", err)
	}
	return s.GetLandByID(landID)
}

// SetFeatured toggles the featured flag on an approved listing
func (s *LandService) SetFeatured(landID string, featured bool) (*models.Land, error) {
	land, err := s.GetLandByID(landID)
	if err != nil {
		return nil, err
	}
	if featured && land.ApprovalStatus != models.ApprovalStatusApproved {
		return nil, errors.New("only approved listings can be featured")
	}

	query := "UPDATE lands SET is_featured = ?, updated_at = ? WHERE id = ?"
	if _, err := s.db.Exec(query, featured, time.Now(), landID); err != nil {
		return nil, fmt.Errorf("failed to update featured flag: %w", err)
	}
	return s.GetLandByID(landID)
}

// CountLandsByApproval returns listing totals grouped by approval status
func (s *LandService) CountLandsByApproval() (map[string]int, error) {
	return s.countGrouped("approval_status")
}

// CountLandsByType returns listing totals grouped by land type
func (s *LandService) CountLandsByType() (map[string]int, error) {
	return s.countGrouped("land_type")
}

func (s *LandService) countGrouped(column string) (map[string]int, error) {
	rows, err := s.db.Query("SELECT " + column + ", COUNT(*) FROM lands GROUP BY " + column)
	if err != nil {
		return nil, fmt.Errorf("failed to count lands: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan land count: %w", err)
		}
		counts[key] = count
	}
	return counts, rows.Err()
}
