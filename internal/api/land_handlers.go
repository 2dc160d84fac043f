package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"agroland-backend/internal/models"
	"agroland-backend/internal/services"
	"agroland-backend/internal/utils"
)

// LandHandlers contains all listing-related handlers
type LandHandlers struct {
	landService *services.LandService
}

// NewLandHandlers creates new land handlers
func NewLandHandlers(landService *services.LandService) *LandHandlers {
	return &LandHandlers{landService: landService}
}

// parseSearchFilter builds a SearchFilter from query parameters. A
// malformed numeric or boolean value is a client error, not a silent default.
func parseSearchFilter(c *gin.Context) (*models.SearchFilter, error) {
	filter := &models.SearchFilter{
		Query:             strings.TrimSpace(c.Query("q")),
		City:              strings.TrimSpace(c.Query("city")),
		State:             strings.TrimSpace(c.Query("state")),
		LandType:          c.Query("landType"),
		ListingType:       c.Query("listingType"),
		SoilType:          c.Query("soilType"),
		WaterAvailability: c.Query("waterAvailability"),
		Sort:              c.Query("sort"),
		Page:              1,
		Limit:             12,
	}

	if crops := c.Query("suitableCrops"); crops != "" {
		for _, crop := range strings.Split(crops, ",") {
			if crop = strings.TrimSpace(crop); crop != "" {
				filter.SuitableCrops = append(filter.SuitableCrops, crop)
			}
		}
	}
	if sources := c.Query("waterSources"); sources != "" {
		for _, source := range strings.Split(sources, ",") {
			if source = strings.TrimSpace(source); source != "" {
				filter.WaterSources = append(filter.WaterSources, source)
			}
		}
	}

	parseFloat := func(name string) (*float64, error) {
		raw := c.Query(name)
		if raw == "" {
			return nil, nil
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid value for " + name)
		}
		return &value, nil
	}

	var err error
	if filter.MinPrice, err = parseFloat("minPrice"); err != nil {
		return nil, err
	}
	if filter.MaxPrice, err = parseFloat("maxPrice"); err != nil {
		return nil, err
	}
	if filter.MinArea, err = parseFloat("minArea"); err != nil {
		return nil, err
	}
	if filter.MaxArea, err = parseFloat("maxArea"); err != nil {
		return nil, err
	}

	if raw := c.Query("electricity"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("invalid value for electricity")
		}
		filter.Electricity = &value
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("invalid value for page")
		}
		filter.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("invalid value for limit")
		}
		filter.Limit = limit
	}

	return filter, nil
}

// Search handles the public faceted listing search
func (h *LandHandlers) Search(c *gin.Context) {
	filter, err := parseSearchFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	lands, pagination, err := h.landService.Search(filter)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to search lands",
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

// GetFeatured returns the featured listings strip for the home page
func (h *LandHandlers) GetFeatured(c *gin.Context) {
	limit := 6
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "invalid value for limit",
			})
			return
		}
		limit = parsed
	}

	lands, err := h.landService.GetFeatured(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load featured lands",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"lands": lands},
	})
}

// GetNearby returns approved listings around a coordinate, nearest first
func (h *LandHandlers) GetNearby(c *gin.Context) {
	latRaw := c.Query("lat")
	lngRaw := c.Query("lng")
	if latRaw == "" || lngRaw == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "lat and lng are required",
		})
		return
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || lat < -90 || lat > 90 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid value for lat",
		})
		return
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil || lng < -180 || lng > 180 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid value for lng",
		})
		return
	}

	radiusKm := 50.0
	if raw := c.Query("radius"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm <= 0 || radiusKm > 500 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "radius must be between 1 and 500 km",
			})
			return
		}
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "invalid value for limit",
			})
			return
		}
		limit = parsed
	}

	lands, err := h.landService.GetNearby(lat, lng, radiusKm, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load nearby lands",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"lands": lands},
	})
}

// GetLand returns a single listing. Unapproved listings are visible only
// to their owner and admins; everyone else gets a not-found.
func (h *LandHandlers) GetLand(c *gin.Context) {
	landID := c.Param("id")
	viewerID := c.GetString("userID")
	viewerRole := c.GetString("userRole")

	land, err := h.landService.GetLandForViewer(landID, viewerID, viewerRole)
	if err != nil {
		if errors.Is(err, services.ErrLandNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Land not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load land",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    land,
	})
}

// RecordView bumps the view counter for an approved listing
func (h *LandHandlers) RecordView(c *gin.Context) {
	landID := c.Param("id")

	views, err := h.landService.RecordView(landID)
	if err != nil {
		if errors.Is(err, services.ErrLandNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Land not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to record view",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"views": views},
	})
}

// CreateLand creates a new listing, pending admin approval
func (h *LandHandlers) CreateLand(c *gin.Context) {
	userID := c.GetString("userID")

	var req models.LandCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	land, err := h.landService.CreateLand(userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Land listed successfully. It will be visible once approved.",
		"data":    land,
	})
}

// GetMyLands returns the authenticated owner's listings with approval counts
func (h *LandHandlers) GetMyLands(c *gin.Context) {
	userID := c.GetString("userID")

	lands, counts, err := h.landService.GetOwnerLands(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load your lands",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"lands":  lands,
			"counts": counts,
		},
	})
}

// UpdateLand edits a listing. Changes to price, area, type or location
// send the listing back through admin review.
func (h *LandHandlers) UpdateLand(c *gin.Context) {
	landID := c.Param("id")
	userID := c.GetString("userID")
	isAdmin := c.GetString("userRole") == string(models.UserTypeAdmin)

	var req models.LandUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	land, err := h.landService.UpdateLand(landID, userID, isAdmin, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLandNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Land not found"})
		case errors.Is(err, services.ErrNotLandOwner):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "You can only edit your own listings"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	message := "Land updated successfully"
	if land.ApprovalStatus == models.ApprovalStatusPending {
		message = "Land updated successfully. The changes require re-approval before the listing is visible again."
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    land,
	})
}

// DeleteLand removes a listing
func (h *LandHandlers) DeleteLand(c *gin.Context) {
	landID := c.Param("id")
	userID := c.GetString("userID")
	isAdmin := c.GetString("userRole") == string(models.UserTypeAdmin)

	if err := h.landService.DeleteLand(landID, userID, isAdmin); err != nil {
		switch {
		case errors.Is(err, services.ErrLandNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Land not found"})
		case errors.Is(err, services.ErrNotLandOwner):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "You can only delete your own listings"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete land"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Land deleted successfully",
	})
}

// UpdateLandStatus changes the owner-controlled availability state
func (h *LandHandlers) UpdateLandStatus(c *gin.Context) {
	landID := c.Param("id")
	userID := c.GetString("userID")

	var req models.LandStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	land, err := h.landService.UpdateStatus(landID, userID, models.LandStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLandNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Land not found"})
		case errors.Is(err, services.ErrNotLandOwner):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "You can only update your own listings"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Land status updated successfully",
		"data":    land,
	})
}
