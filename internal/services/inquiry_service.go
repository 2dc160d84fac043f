package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agroland-backend/internal/models"
	"agroland-backend/internal/utils"
)

// Errors the handlers map to specific response codes
var (
	ErrInquiryNotFound   = errors.New("inquiry not found")
	ErrOwnListingInquiry = errors.New("cannot inquire about your own listing")
	ErrNotInquiryParty   = errors.New("not a participant in this inquiry")
	ErrInquiryClosed     = errors.New("inquiry is closed and cannot accept replies")
	ErrInvalidTransition = errors.New("invalid inquiry status transition")
)

// InquiryService handles buyer-seller inquiry business logic
type InquiryService struct {
	db *sql.DB
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(db *sql.DB) *InquiryService {
	return &InquiryService{db: db}
}

const inquiryColumns = `id, land_id, buyer_id, owner_id, message, inquiry_type, offer_price,
	   contact_phone, visit_date, status, is_read_by_owner, is_read_by_buyer,
	   created_at, updated_at`

func scanInquiry(row rowScanner) (*models.Inquiry, error) {
	inquiry := &models.Inquiry{}
	err := row.Scan(
		&inquiry.ID, &inquiry.LandID, &inquiry.BuyerID, &inquiry.OwnerID,
		&inquiry.Message, &inquiry.InquiryType, &inquiry.OfferPrice,
		&inquiry.ContactPhone, &inquiry.VisitDate, &inquiry.Status,
		&inquiry.IsReadByOwner, &inquiry.IsReadByBuyer,
		&inquiry.CreatedAt, &inquiry.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInquiryNotFound
		}
		return nil, fmt.Errorf("failed to scan inquiry: %w", err)
	}
	return inquiry, nil
}

// CreateInquiry opens an inquiry on an approved listing and bumps the
// listing's inquiry counter in the same transaction.
func (s *InquiryService) CreateInquiry(buyerID, landID string, req *models.InquiryCreate) (*models.Inquiry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	var ownerID string
	var approvalStatus string
	err := s.db.QueryRow("SELECT owner_id, approval_status FROM lands WHERE id = ?", landID).Scan(&ownerID, &approvalStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLandNotFound
		}
		return nil, fmt.Errorf("failed to check land: %w", err)
	}
	if approvalStatus != string(models.ApprovalStatusApproved) {
		return nil, ErrLandNotFound
	}
	if ownerID == buyerID {
		return nil, ErrOwnListingInquiry
	}

	inquiryType := models.InquiryTypeGeneral
	if req.InquiryType != "" {
		inquiryType = models.InquiryType(req.InquiryType)
	}

	inquiry := &models.Inquiry{
		ID:            uuid.New().String(),
		LandID:        landID,
		BuyerID:       buyerID,
		OwnerID:       ownerID,
		Message:       utils.SanitizeString(req.Message),
		InquiryType:   inquiryType,
		OfferPrice:    req.OfferPrice,
		ContactPhone:  req.ContactPhone,
		Status:        models.InquiryStatusPending,
		IsReadByBuyer: true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if req.VisitDate != nil && *req.VisitDate != "" {
		parsed, err := utils.ParseDate(*req.VisitDate)
		if err != nil {
			return nil, errors.New("visit date must be an ISO date")
		}
		inquiry.VisitDate = &parsed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO inquiries (
			id, land_id, buyer_id, owner_id, message, inquiry_type, offer_price,
			contact_phone, visit_date, status, is_read_by_owner, is_read_by_buyer,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query,
		inquiry.ID, inquiry.LandID, inquiry.BuyerID, inquiry.OwnerID,
		inquiry.Message, inquiry.InquiryType, inquiry.OfferPrice,
		inquiry.ContactPhone, inquiry.VisitDate, inquiry.Status,
		inquiry.IsReadByOwner, inquiry.IsReadByBuyer,
		inquiry.CreatedAt, inquiry.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}

	if _, err := tx.Exec("UPDATE lands SET inquiry_count = inquiry_count + 1 WHERE id = ?", landID); err != nil {
		return nil, fmt.Errorf("failed to update inquiry count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit inquiry: %w", err)
	}

	return inquiry, nil
}

// GetInquiryByID retrieves an inquiry with its reply thread
func (s *InquiryService) GetInquiryByID(inquiryID string) (*models.Inquiry, error) {
	query := "SELECT " + inquiryColumns + " FROM inquiries WHERE id = ?"
	inquiry, err := scanInquiry(s.db.QueryRow(query, inquiryID))
	if err != nil {
		return nil, err
	}

	replies, err := s.getReplies(inquiryID)
	if err != nil {
		return nil, err
	}
	inquiry.Replies = replies
	return inquiry, nil
}

func (s *InquiryService) getReplies(inquiryID string) ([]models.InquiryReply, error) {
	rows, err := s.db.Query(
		"SELECT id, inquiry_id, sender_id, message, created_at FROM inquiry_replies WHERE inquiry_id = ? ORDER BY created_at ASC",
		inquiryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get replies: %w", err)
	}
	defer rows.Close()

	replies := []models.InquiryReply{}
	for rows.Next() {
		var reply models.InquiryReply
		if err := rows.Scan(&reply.ID, &reply.InquiryID, &reply.SenderID, &reply.Message, &reply.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reply: %w", err)
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}

// GetSentInquiries returns a buyer's inquiries and marks them read on
// their side.
func (s *InquiryService) GetSentInquiries(buyerID string, page, limit int) ([]*models.Inquiry, *models.Pagination, error) {
	return s.listInquiries("buyer_id", buyerID, page, limit)
}

// GetReceivedInquiries returns the inquiries on a seller's listings and
// marks them read on the owner side.
func (s *InquiryService) GetReceivedInquiries(ownerID string, page, limit int) ([]*models.Inquiry, *models.Pagination, error) {
	return s.listInquiries("owner_id", ownerID, page, limit)
}

func (s *InquiryService) listInquiries(column, userID string, page, limit int) ([]*models.Inquiry, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}

	var total int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM inquiries WHERE "+column+" = ?", userID).Scan(&total); err != nil {
		return nil, nil, fmt.Errorf("failed to count inquiries: %w", err)
	}

	query := `
		SELECT i.id, i.land_id, i.buyer_id, i.owner_id, i.message, i.inquiry_type,
		       i.offer_price, i.contact_phone, i.visit_date, i.status,
		       i.is_read_by_owner, i.is_read_by_buyer, i.created_at, i.updated_at,
		       l.title, u.name
		FROM inquiries i
		JOIN lands l ON l.id = i.land_id
		JOIN users u ON u.id = i.buyer_id
		WHERE i.` + column + ` = ?
		ORDER BY i.updated_at DESC LIMIT ? OFFSET ?`

	rows, err := s.db.Query(query, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	defer rows.Close()

	inquiries := []*models.Inquiry{}
	for rows.Next() {
		inquiry := &models.Inquiry{}
		err := rows.Scan(
			&inquiry.ID, &inquiry.LandID, &inquiry.BuyerID, &inquiry.OwnerID,
			&inquiry.Message, &inquiry.InquiryType, &inquiry.OfferPrice,
			&inquiry.ContactPhone, &inquiry.VisitDate, &inquiry.Status,
			&inquiry.IsReadByOwner, &inquiry.IsReadByBuyer,
			&inquiry.CreatedAt, &inquiry.UpdatedAt,
			&inquiry.LandTitle, &inquiry.BuyerName,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		inquiries = append(inquiries, inquiry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	for _, inquiry := range inquiries {
		replies, err := s.getReplies(inquiry.ID)
		if err != nil {
			return nil, nil, err
		}
		inquiry.Replies = replies
	}

	// Listing marks the viewer's side as read
	readColumn := "is_read_by_buyer"
	if column == "owner_id" {
		readColumn = "is_read_by_owner"
	}
	if _, err := s.db.Exec("UPDATE inquiries SET "+readColumn+" = true WHERE "+column+" = ?", userID); err != nil {
		return nil, nil, fmt.Errorf("failed to mark inquiries read: %w", err)
	}

	return inquiries, buildPagination(page, limit, total), nil
}

// AddReply appends a threaded reply. A reply to a pending inquiry moves
// it to replied; closed and declined inquiries refuse replies; other
// active states keep their status.
func (s *InquiryService) AddReply(inquiryID, senderID string, req *models.InquiryReplyCreate) (*models.Inquiry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	inquiry, err := s.GetInquiryByID(inquiryID)
	if err != nil {
		return nil, err
	}
	if senderID != inquiry.BuyerID && senderID != inquiry.OwnerID {
		return nil, ErrNotInquiryParty
	}
	if inquiry.Status.IsTerminal() {
		return nil, ErrInquiryClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	reply := models.InquiryReply{
		ID:        uuid.New().String(),
		InquiryID: inquiryID,
		SenderID:  senderID,
		Message:   utils.SanitizeString(req.Message),
		CreatedAt: time.Now(),
	}
	_, err = tx.Exec(
		"INSERT INTO inquiry_replies (id, inquiry_id, sender_id, message, created_at) VALUES (?, ?, ?, ?, ?)",
		reply.ID, reply.InquiryID, reply.SenderID, reply.Message, reply.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add reply: %w", err)
	}

	setParts := "updated_at = ?"
	args := []interface{}{time.Now()}

	if inquiry.Status == models.InquiryStatusPending {
		setParts += ", status = ?"
		args = append(args, models.InquiryStatusReplied)
	}

	// Flag unread for the other side
	if senderID == inquiry.BuyerID {
		setParts += ", is_read_by_owner = false, is_read_by_buyer = true"
	} else {
		setParts += ", is_read_by_buyer = false, is_read_by_owner = true"
	}

	args = append(args, inquiryID)
	if _, err := tx.Exec("UPDATE inquiries SET "+setParts+" WHERE id = ?", args...); err != nil {
		return nil, fmt.Errorf("failed to update inquiry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reply: %w", err)
	}

	return s.GetInquiryByID(inquiryID)
}

// UpdateStatus applies an explicit status transition. The listing owner
// drives the conversation state; the buyer may only close their own
// inquiry. Terminal states cannot be left.
func (s *InquiryService) UpdateStatus(inquiryID, userID string, status models.InquiryStatus) (*models.Inquiry, error) {
	inquiry, err := s.GetInquiryByID(inquiryID)
	if err != nil {
		return nil, err
	}
	if userID != inquiry.BuyerID && userID != inquiry.OwnerID {
		return nil, ErrNotInquiryParty
	}
	if userID == inquiry.BuyerID && status != models.InquiryStatusClosed {
		return nil, ErrNotInquiryParty
	}
	if inquiry.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: inquiry is already %s", ErrInvalidTransition, inquiry.Status)
	}
	if status == inquiry.Status {
		return inquiry, nil
	}

	query := "UPDATE inquiries SET status = ?, updated_at = ? WHERE id = ?"
	if _, err := s.db.Exec(query, status, time.Now(), inquiryID); err != nil {
		return nil, fmt.Errorf("failed to update inquiry status: %w", err)
	}
	return s.GetInquiryByID(inquiryID)
}

// CountInquiriesByStatus returns inquiry totals grouped by status
func (s *InquiryService) CountInquiriesByStatus() (map[string]int, error) {
	rows, err := s.db.Query("SELECT status, COUNT(*) FROM inquiries GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count inquiries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan inquiry count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
