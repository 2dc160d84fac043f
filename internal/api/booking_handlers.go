package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agroland-backend/internal/models"
	"agroland-backend/internal/services"
)

// BookingHandlers contains payment and booking handlers
type BookingHandlers struct {
	bookingService  *services.BookingService
	razorpayService *services.RazorpayService
}

// NewBookingHandlers creates new booking handlers
func NewBookingHandlers(bookingService *services.BookingService, razorpayService *services.RazorpayService) *BookingHandlers {
	return &BookingHandlers{
		bookingService:  bookingService,
		razorpayService: razorpayService,
	}
}

// CreateOrder opens a gateway order for client-side checkout
func (h *BookingHandlers) CreateOrder(c *gin.Context) {
	var req models.OrderCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	if req.Amount < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Amount must be at least 1",
		})
		return
	}

	if !h.razorpayService.IsConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "Payments are not available",
		})
		return
	}

	order, err := h.razorpayService.CreateOrder(req.Amount, req.Currency)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "Failed to create payment order",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order": order,
			"keyId": h.razorpayService.KeyID(),
		},
	})
}

// CreateBooking verifies the gateway signature and records the booking
func (h *BookingHandlers) CreateBooking(c *gin.Context) {
	buyerID := c.GetString("userID")

	var req models.BookingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	booking, err := h.bookingService.CreateBooking(buyerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPaymentSignature):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Payment verification failed"})
		case errors.Is(err, services.ErrLandNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Land not found"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking confirmed",
		"data":    booking,
	})
}

// GetMyBookings returns the authenticated buyer's bookings
func (h *BookingHandlers) GetMyBookings(c *gin.Context) {
	buyerID := c.GetString("userID")

	bookings, err := h.bookingService.GetUserBookings(buyerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load bookings",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"bookings": bookings},
	})
}
