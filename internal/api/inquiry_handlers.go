package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agroland-backend/internal/models"
	"agroland-backend/internal/services"
	"agroland-backend/internal/utils"
)

// InquiryHandlers contains buyer-seller inquiry handlers
type InquiryHandlers struct {
	inquiryService *services.InquiryService
	userService    *services.UserService
	landService    *services.LandService
	emailService   *services.EmailService
}

// NewInquiryHandlers creates new inquiry handlers
func NewInquiryHandlers(
	inquiryService *services.InquiryService,
	userService *services.UserService,
	landService *services.LandService,
	emailService *services.EmailService,
) *InquiryHandlers {
	return &InquiryHandlers{
		inquiryService: inquiryService,
		userService:    userService,
		landService:    landService,
		emailService:   emailService,
	}
}

func parsePageParams(c *gin.Context) (page, limit int) {
	page, limit = 1, 12
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	return page, limit
}

// CreateInquiry sends an inquiry about a listing to its owner
func (h *InquiryHandlers) CreateInquiry(c *gin.Context) {
	buyerID := c.GetString("userID")
	landID := c.Param("id")

	var req models.InquiryCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	inquiry, err := h.inquiryService.CreateInquiry(buyerID, landID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLandNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Land not found"})
		case errors.Is(err, services.ErrOwnListingInquiry):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "You cannot inquire about your own listing"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	// Notify the owner by email; delivery failure must not fail the inquiry
	h.notifyOwner(inquiry)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Inquiry sent successfully",
		"data":    inquiry,
	})
}

func (h *InquiryHandlers) notifyOwner(inquiry *models.Inquiry) {
	owner, err := h.userService.GetUserByID(inquiry.OwnerID)
	if err != nil {
		return
	}
	buyer, err := h.userService.GetUserByID(inquiry.BuyerID)
	if err != nil {
		return
	}
	land, err := h.landService.GetLandByID(inquiry.LandID)
	if err != nil {
		return
	}

	preview := utils.TruncateString(inquiry.Message, 200)
	if err := h.emailService.SendInquiryNotificationEmail(owner.Email, owner.Name, buyer.Name, land.Title, preview); err != nil {
		fmt.Printf("Failed to send inquiry notification to %s: %v\n", owner.Email, err)
	}
}

// GetSentInquiries returns the inquiries the authenticated buyer has sent
func (h *InquiryHandlers) GetSentInquiries(c *gin.Context) {
	userID := c.GetString("userID")
	page, limit := parsePageParams(c)

	inquiries, pagination, err := h.inquiryService.GetSentInquiries(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load inquiries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"inquiries":  inquiries,
			"pagination": pagination,
		},
	})
}

// GetReceivedInquiries returns the inquiries on the authenticated owner's listings
func (h *InquiryHandlers) GetReceivedInquiries(c *gin.Context) {
	userID := c.GetString("userID")
	page, limit := parsePageParams(c)

	inquiries, pagination, err := h.inquiryService.GetReceivedInquiries(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load inquiries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"inquiries":  inquiries,
			"pagination": pagination,
		},
	})
}

// GetInquiry returns a single inquiry thread to one of its parties
func (h *InquiryHandlers) GetInquiry(c *gin.Context) {
	userID := c.GetString("userID")
	inquiryID := c.Param("id")

	inquiry, err := h.inquiryService.GetInquiryByID(inquiryID)
	if err != nil {
		if errors.Is(err, services.ErrInquiryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Inquiry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load inquiry"})
		return
	}

	if userID != inquiry.BuyerID && userID != inquiry.OwnerID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "You are not a party to this inquiry",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    inquiry,
	})
}

// AddReply appends a threaded reply to an inquiry
func (h *InquiryHandlers) AddReply(c *gin.Context) {
	userID := c.GetString("userID")
	inquiryID := c.Param("id")

	var req models.InquiryReplyCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	inquiry, err := h.inquiryService.AddReply(inquiryID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInquiryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Inquiry not found"})
		case errors.Is(err, services.ErrNotInquiryParty):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "You are not a party to this inquiry"})
		case errors.Is(err, services.ErrInquiryClosed):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "This inquiry has been closed and no longer accepts replies"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Reply sent successfully",
		"data":    inquiry,
	})
}

// UpdateInquiryStatus performs an explicit status transition
func (h *InquiryHandlers) UpdateInquiryStatus(c *gin.Context) {
	userID := c.GetString("userID")
	inquiryID := c.Param("id")

	var req models.InquiryStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	inquiry, err := h.inquiryService.UpdateStatus(inquiryID, userID, models.InquiryStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInquiryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Inquiry not found"})
		case errors.Is(err, services.ErrNotInquiryParty):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "You are not a party to this inquiry"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Inquiry status updated",
		"data":    inquiry,
	})
}
