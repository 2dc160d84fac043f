package models

import "time"

// InquiryType classifies what a buyer is asking about
type InquiryType string

const (
	InquiryTypeGeneral         InquiryType = "general"
	InquiryTypePricing         InquiryType = "pricing"
	InquiryTypeVisitRequest    InquiryType = "visit-request"
	InquiryTypeDocumentRequest InquiryType = "document-request"
	InquiryTypeNegotiation     InquiryType = "negotiation"
)

// InquiryStatus tracks the conversation state
type InquiryStatus string

const (
	InquiryStatusPending        InquiryStatus = "pending"
	InquiryStatusReplied        InquiryStatus = "replied"
	InquiryStatusInDiscussion   InquiryStatus = "in-discussion"
	InquiryStatusVisitScheduled InquiryStatus = "visit-scheduled"
	InquiryStatusClosed         InquiryStatus = "closed"
	InquiryStatusDeclined       InquiryStatus = "declined"
)

// IsTerminal reports whether the status permits no further activity
func (s InquiryStatus) IsTerminal() bool {
	return s == InquiryStatusClosed || s == InquiryStatusDeclined
}

// Inquiry is a buyer-to-owner conversation about a listing
type Inquiry struct {
	ID            string         `json:"id" db:"id"`
	LandID        string         `json:"landId" db:"land_id"`
	BuyerID       string         `json:"buyerId" db:"buyer_id"`
	OwnerID       string         `json:"ownerId" db:"owner_id"`
	Message       string         `json:"message" db:"message"`
	InquiryType   InquiryType    `json:"inquiryType" db:"inquiry_type"`
	OfferPrice    *float64       `json:"offerPrice,omitempty" db:"offer_price"`
	ContactPhone  *string        `json:"contactPhone,omitempty" db:"contact_phone"`
	VisitDate     *time.Time     `json:"visitDate,omitempty" db:"visit_date"`
	Status        InquiryStatus  `json:"status" db:"status"`
	IsReadByOwner bool           `json:"isReadByOwner" db:"is_read_by_owner"`
	IsReadByBuyer bool           `json:"isReadByBuyer" db:"is_read_by_buyer"`
	Replies       []InquiryReply `json:"replies,omitempty"`
	LandTitle     string         `json:"landTitle,omitempty"`
	BuyerName     string         `json:"buyerName,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}

// InquiryReply is one threaded message within an inquiry
type InquiryReply struct {
	ID        string    `json:"id" db:"id"`
	InquiryID string    `json:"inquiryId" db:"inquiry_id"`
	SenderID  string    `json:"senderId" db:"sender_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// InquiryCreate is the payload for opening an inquiry on a listing
type InquiryCreate struct {
	Message      string   `json:"message" validate:"required,min=10,max=1000"`
	InquiryType  string   `json:"inquiryType" validate:"omitempty,oneof=general pricing visit-request document-request negotiation"`
	OfferPrice   *float64 `json:"offerPrice,omitempty" validate:"omitempty,min_value=0"`
	ContactPhone *string  `json:"contactPhone,omitempty" validate:"omitempty,phone"`
	VisitDate    *string  `json:"visitDate,omitempty"`
}

// InquiryReplyCreate is the payload for a threaded reply
type InquiryReplyCreate struct {
	Message string `json:"message" validate:"required,min=1,max=1000"`
}

// InquiryStatusUpdate is an explicit status transition request
type InquiryStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending replied in-discussion visit-scheduled closed declined"`
}
