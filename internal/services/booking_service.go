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

// ErrInvalidPaymentSignature is returned when checkout verification fails
var ErrInvalidPaymentSignature = errors.New("payment signature verification failed")

// BookingService handles verified-payment bookings
type BookingService struct {
	db       *sql.DB
	razorpay *RazorpayService
}

// NewBookingService creates a new booking service
func NewBookingService(db *sql.DB, razorpay *RazorpayService) *BookingService {
	return &BookingService{db: db, razorpay: razorpay}
}

// CreateBooking records a booking after verifying the gateway signature.
// Nothing is written when verification fails.
func (s *BookingService) CreateBooking(buyerID string, req *models.BookingCreate) (*models.Booking, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if !s.razorpay.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return nil, ErrInvalidPaymentSignature
	}

	var approvalStatus string
	err := s.db.QueryRow("SELECT approval_status FROM lands WHERE id = ?", req.LandID).Scan(&approvalStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLandNotFound
		}
		return nil, fmt.Errorf("failed to check land: %w", err)
	}
	if approvalStatus != string(models.ApprovalStatusApproved) {
		return nil, ErrLandNotFound
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	booking := &models.Booking{
		ID:          uuid.New().String(),
		LandID:      req.LandID,
		BuyerID:     buyerID,
		Amount:      req.Amount,
		Currency:    currency,
		OrderID:     req.OrderID,
		PaymentID:   req.PaymentID,
		Signature:   req.Signature,
		Status:      models.BookingStatusConfirmed,
		BookingDate: time.Now(),
	}

	query := `
		INSERT INTO bookings (
			id, land_id, buyer_id, amount, currency, order_id, payment_id,
			signature, status, booking_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query,
		booking.ID, booking.LandID, booking.BuyerID, booking.Amount,
		booking.Currency, booking.OrderID, booking.PaymentID,
		booking.Signature, booking.Status, booking.BookingDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, nil
}

// GetUserBookings returns a buyer's bookings with listing summaries
func (s *BookingService) GetUserBookings(buyerID string) ([]*models.Booking, error) {
	query := `
		SELECT b.id, b.land_id, b.buyer_id, b.amount, b.currency, b.order_id,
		       b.payment_id, b.signature, b.status, b.booking_date, l.title, l.city
		FROM bookings b
		JOIN lands l ON l.id = b.land_id
		WHERE b.buyer_id = ?
		ORDER BY b.booking_date DESC
	`
	rows, err := s.db.Query(query, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*models.Booking{}
	for rows.Next() {
		booking := &models.Booking{}
		err := rows.Scan(
			&booking.ID, &booking.LandID, &booking.BuyerID, &booking.Amount,
			&booking.Currency, &booking.OrderID, &booking.PaymentID,
			&booking.Signature, &booking.Status, &booking.BookingDate,
			&booking.LandTitle, &booking.LandCity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// CountBookings returns the total number of bookings
func (s *BookingService) CountBookings() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM bookings").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}
