package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agroland-backend/internal/services"
)

// WishlistHandlers contains saved-lands handlers
type WishlistHandlers struct {
	wishlistService *services.WishlistService
}

// NewWishlistHandlers creates new wishlist handlers
func NewWishlistHandlers(wishlistService *services.WishlistService) *WishlistHandlers {
	return &WishlistHandlers{wishlistService: wishlistService}
}

// SaveLand adds an approved listing to the user's saved list
func (h *WishlistHandlers) SaveLand(c *gin.Context) {
	userID := c.GetString("userID")
	landID := c.Param("id")

	saved, err := h.wishlistService.SaveLand(userID, landID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLandNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Land not found"})
		case errors.Is(err, services.ErrAlreadySaved):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Land is already in your saved list"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save land"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Land saved successfully",
		"data":    saved,
	})
}

// UnsaveLand removes a listing from the user's saved list. Removing a
// land that is not saved still succeeds.
func (h *WishlistHandlers) UnsaveLand(c *gin.Context) {
	userID := c.GetString("userID")
	landID := c.Param("id")

	if err := h.wishlistService.UnsaveLand(userID, landID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to remove land from saved list",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Land removed from saved list",
	})
}

// GetSavedLands returns the user's saved listings. Listings that have
// since lost approval are silently dropped from the result.
func (h *WishlistHandlers) GetSavedLands(c *gin.Context) {
	userID := c.GetString("userID")

	saved, err := h.wishlistService.GetSavedLands(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load saved lands",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"savedLands": saved},
	})
}
