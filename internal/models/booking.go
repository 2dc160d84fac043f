package models

import "time"

// BookingStatus tracks the lifecycle of a paid booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRefunded  BookingStatus = "refunded"
)

// Booking records a gateway-verified payment against a listing
type Booking struct {
	ID          string        `json:"id" db:"id"`
	LandID      string        `json:"landId" db:"land_id"`
	BuyerID     string        `json:"buyerId" db:"buyer_id"`
	Amount      float64       `json:"amount" db:"amount"`
	Currency    string        `json:"currency" db:"currency"`
	OrderID     string        `json:"orderId" db:"order_id"`
	PaymentID   string        `json:"paymentId" db:"payment_id"`
	Signature   string        `json:"-" db:"signature"`
	Status      BookingStatus `json:"status" db:"status"`
	BookingDate time.Time     `json:"bookingDate" db:"booking_date"`
	LandTitle   string        `json:"landTitle,omitempty"`
	LandCity    string        `json:"landCity,omitempty"`
}

// OrderCreate is the payload for creating a payment gateway order
type OrderCreate struct {
	Amount   float64 `json:"amount" validate:"required,min_value=1"`
	Currency string  `json:"currency" validate:"omitempty,oneof=INR USD"`
}

// BookingCreate completes a booking after client-side checkout
type BookingCreate struct {
	LandID    string  `json:"landId" validate:"required,uuid"`
	OrderID   string  `json:"orderId" validate:"required"`
	PaymentID string  `json:"paymentId" validate:"required"`
	Signature string  `json:"signature" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,min_value=1"`
	Currency  string  `json:"currency" validate:"omitempty,oneof=INR USD"`
}
