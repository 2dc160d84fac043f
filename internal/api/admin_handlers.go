package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agroland-backend/internal/models"
	"agroland-backend/internal/services"
)

// AdminHandlers contains the admin review and statistics handlers
type AdminHandlers struct {
	landService    *services.LandService
	userService    *services.UserService
	inquiryService *services.InquiryService
	bookingService *services.BookingService
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(
	landService *services.LandService,
	userService *services.UserService,
	inquiryService *services.InquiryService,
	bookingService *services.BookingService,
) *AdminHandlers {
	return &AdminHandlers{
		landService:    landService,
		userService:    userService,
		inquiryService: inquiryService,
		bookingService: bookingService,
	}
}

// GetPendingLands returns the review queue, oldest submissions first
func (h *AdminHandlers) GetPendingLands(c *gin.Context) {
	page, limit := parsePageParams(c)

	lands, pagination, err := h.landService.GetPendingLands(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load pending lands",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"lands":      lands,
			"pagination": pagination,
		},
	})
}

// GetAllLands returns every listing regardless of approval state
func (h *AdminHandlers) GetAllLands(c *gin.Context) {
	page, limit := parsePageParams(c)
	approvalStatus := c.Query("approvalStatus")

	lands, pagination, err := h.landService.GetAllLands(approvalStatus, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load lands",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"lands":      lands,
			"pagination": pagination,
		},
	})
}

// ApproveLand approves a listing, making it publicly visible
func (h *AdminHandlers) ApproveLand(c *gin.Context) {
	landID := c.Param("id")
	adminID := c.GetString("userID")

	var req models.LandReview
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	land, err := h.landService.ApproveLand(landID, adminID, req.Comments)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLandNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Land not found"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Land approved",
		"data":    land,
	})
}

// RejectLand rejects a listing. Comments explaining the rejection are mandatory.
func (h *AdminHandlers) RejectLand(c *gin.Context) {
	landID := c.Param("id")
	adminID := c.GetString("userID")

	var req models.LandReview
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	land, err := h.landService.RejectLand(landID, adminID, req.Comments)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLandNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Land not found"})
		case errors.Is(err, services.ErrCommentsRequired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Comments are required when rejecting a listing"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Land rejected",
		"data":    land,
	})
}

// SetFeatured toggles the featured flag on an approved listing
func (h *AdminHandlers) SetFeatured(c *gin.Context) {
	landID := c.Param("id")

	var req struct {
		Featured bool `json:"featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	land, err := h.landService.SetFeatured(landID, req.Featured)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLandNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Land not found"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Featured flag updated",
		"data":    land,
	})
}

// GetStatistics returns the admin dashboard counters
func (h *AdminHandlers) GetStatistics(c *gin.Context) {
	usersByType, err := h.userService.CountUsersByType()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load statistics"})
		return
	}

	landsByApproval, err := h.landService.CountLandsByApproval()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load statistics"})
		return
	}

	landsByType, err := h.landService.CountLandsByType()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load statistics"})
		return
	}

	inquiriesByStatus, err := h.inquiryService.CountInquiriesByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load statistics"})
		return
	}

	totalBookings, err := h.bookingService.CountBookings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load statistics"})
		return
	}

	recentSignups, err := h.userService.CountRecentSignups(time.Now().AddDate(0, 0, -30))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"usersByType":       usersByType,
			"landsByApproval":   landsByApproval,
			"landsByType":       landsByType,
			"inquiriesByStatus": inquiriesByStatus,
			"totalBookings":     totalBookings,
			"recentSignups":     recentSignups,
		},
	})
}
