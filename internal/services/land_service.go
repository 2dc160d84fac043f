package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"agroland-backend/internal/models"
	"agroland-backend/internal/utils"
)

// Errors the handlers map to specific response codes
var (
	ErrLandNotFound  = errors.New("land not found")
	ErrNotLandOwner  = errors.New("not authorized to modify this listing")
	ErrInvalidFilter = errors.New("invalid search filter")
)

// LandService handles listing-related business logic
type LandService struct {
	db *sql.DB
}

// NewLandService creates a new land service
func NewLandService(db *sql.DB) *LandService {
	return &LandService{db: db}
}

const landColumns = `id, owner_id, title, description, land_type, listing_type, lease_type,
	   price, price_per_acre, total_area, cultivable_area, irrigated_area,
	   address, city, state, pin_code, latitude, longitude,
	   soil_type, soil_quality, suitable_crops, water_sources, water_availability,
	   road_access, boundary, climate, rainfall, electricity_available,
	   images, documents, approval_status, admin_comments, reviewed_by, reviewed_at,
	   status, is_featured, views, inquiry_count, created_at, updated_at`

// sortWhitelist maps the public sort keys to ORDER BY clauses. Anything
// outside this map is rejected rather than interpolated.
var sortWhitelist = map[string]string{
	"price":         "price ASC",
	"-price":        "price DESC",
	"pricePerAcre":  "price_per_acre ASC",
	"-pricePerAcre": "price_per_acre DESC",
	"totalArea":     "total_area ASC",
	"-totalArea":    "total_area DESC",
	"createdAt":     "created_at ASC",
	"-createdAt":    "created_at DESC",
	"views":         "views ASC",
	"-views":        "views DESC",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLand(row rowScanner) (*models.Land, error) {
	land := &models.Land{}
	var suitableCrops, waterSources, images, documents string
	err := row.Scan(
		&land.ID, &land.OwnerID, &land.Title, &land.Description, &land.LandType,
		&land.ListingType, &land.LeaseType, &land.Price, &land.PricePerAcre,
		&land.TotalArea, &land.CultivableArea, &land.IrrigatedArea,
		&land.Location.Address, &land.Location.City, &land.Location.State,
		&land.Location.PinCode, &land.Location.Latitude, &land.Location.Longitude,
		&land.SoilType, &land.SoilQuality, &suitableCrops, &waterSources,
		&land.WaterAvailability, &land.RoadAccess, &land.Boundary, &land.Climate,
		&land.Rainfall, &land.ElectricityAvailable, &images, &documents,
		&land.ApprovalStatus, &land.AdminComments, &land.ReviewedBy, &land.ReviewedAt,
		&land.Status, &land.IsFeatured, &land.Views, &land.InquiryCount,
		&land.CreatedAt, &land.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLandNotFound
		}
		return nil, fmt.Errorf("failed to scan land: %w", err)
	}

	land.SuitableCrops = decodeStringSlice(suitableCrops)
	land.WaterSources = decodeStringSlice(waterSources)
	land.Images = decodeStringSlice(images)
	land.Documents = decodeStringSlice(documents)
	return land, nil
}

func decodeStringSlice(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}

func encodeStringSlice(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

// validateAreas enforces the nested area invariants
func validateAreas(total, cultivable, irrigated float64) error {
	if cultivable > total {
		return errors.New("cultivable area cannot exceed total area")
	}
	if irrigated > cultivable {
		return errors.New("irrigated area cannot exceed cultivable area")
	}
	return nil
}

func validateCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return errors.New("latitude and longitude must be provided together")
	}
	if lat != nil {
		if *lat < -90 || *lat > 90 {
			return errors.New("latitude must be between -90 and 90")
		}
		if *lng < -180 || *lng > 180 {
			return errors.New("longitude must be between -180 and 180")
		}
	}
	return nil
}

// CreateLand creates a new listing. It always enters the review queue as
// pending regardless of who created it.
func (s *LandService) CreateLand(ownerID string, req *models.LandCreate) (*models.Land, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if err := validateAreas(req.TotalArea, req.CultivableArea, req.IrrigatedArea); err != nil {
		return nil, err
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	listingType := models.ListingType(req.ListingType)
	if listingType == models.ListingTypeLease || listingType == models.ListingTypeRent {
		if req.LeaseType == nil || *req.LeaseType == "" {
			return nil, errors.New("lease type is required for lease and rent listings")
		}
	} else {
		req.LeaseType = nil
	}

	now := time.Now()
	land := &models.Land{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       utils.SanitizeString(req.Title),
		Description: utils.SanitizeString(req.Description),
		LandType:    models.LandType(req.LandType),
		ListingType: listingType,
		LeaseType:   req.LeaseType,
		Price:       req.Price,
		PricePerAcre: req.PricePerAcre,
		TotalArea:      req.TotalArea,
		CultivableArea: req.CultivableArea,
		IrrigatedArea:  req.IrrigatedArea,
		Location: models.Location{
			Address:   utils.SanitizeString(req.Address),
			City:      utils.SanitizeString(req.City),
			State:     utils.SanitizeString(req.State),
			PinCode:   req.PinCode,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		},
		SoilType:             req.SoilType,
		SoilQuality:          req.SoilQuality,
		SuitableCrops:        req.SuitableCrops,
		WaterSources:         req.WaterSources,
		WaterAvailability:    req.WaterAvailability,
		RoadAccess:           req.RoadAccess,
		Boundary:             req.Boundary,
		Climate:              req.Climate,
		Rainfall:             req.Rainfall,
		ElectricityAvailable: req.ElectricityAvailable,
		Images:               req.Images,
		Documents:            req.Documents,
		ApprovalStatus:       models.ApprovalStatusPending,
		Status:               models.LandStatusActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	query := `
		INSERT INTO lands (
			id, owner_id, title, description, land_type, listing_type, lease_type,
			price, price_per_acre, total_area, cultivable_area, irrigated_area,
			address, city, state, pin_code, latitude, longitude,
			soil_type, soil_quality, suitable_crops, water_sources, water_availability,
			road_access, boundary, climate, rainfall, electricity_available,
			images, documents, approval_status, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		land.ID, land.OwnerID, land.Title, land.Description, land.LandType,
		land.ListingType, land.LeaseType, land.Price, land.PricePerAcre,
		land.TotalArea, land.CultivableArea, land.IrrigatedArea,
		land.Location.Address, land.Location.City, land.Location.State,
		land.Location.PinCode, land.Location.Latitude, land.Location.Longitude,
		land.SoilType, land.SoilQuality, encodeStringSlice(land.SuitableCrops),
		encodeStringSlice(land.WaterSources), land.WaterAvailability,
		land.RoadAccess, land.Boundary, land.Climate, land.Rainfall,
		land.ElectricityAvailable, encodeStringSlice(land.Images),
		encodeStringSlice(land.Documents), land.ApprovalStatus, land.Status,
		land.CreatedAt, land.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create land: %w", err)
	}

	return land, nil
}

// GetLandByID retrieves a listing without visibility rules applied
func (s *LandService) GetLandByID(landID string) (*models.Land, error) {
	query := "SELECT " + landColumns + " FROM lands WHERE id = ?"
	return scanLand(s.db.QueryRow(query, landID))
}

// GetLandForViewer applies the approval visibility rule: listings that are
// not approved look absent to everyone except their owner and admins.
// Public views bump the view counter.
func (s *LandService) GetLandForViewer(landID, viewerID, viewerRole string) (*models.Land, error) {
	land, err := s.GetLandByID(landID)
	if err != nil {
		return nil, err
	}

	isOwner := viewerID != "" && viewerID == land.OwnerID
	isAdmin := viewerRole == string(models.UserTypeAdmin)

	if land.ApprovalStatus != models.ApprovalStatusApproved && !isOwner && !isAdmin {
		return nil, ErrLandNotFound
	}

	if !isOwner && !isAdmin {
		if _, err := s.db.Exec("UPDATE lands SET views = views + 1 WHERE id = ?", landID); err != nil {
			return nil, fmt.Errorf("failed to record view: %w", err)
		}
		land.Views++
	}

	return land, nil
}

// RecordView bumps the view counter for an approved listing and returns
// the new count. Non-approved listings look absent to callers.
func (s *LandService) RecordView(landID string) (int, error) {
	land, err := s.GetLandByID(landID)
	if err != nil {
		return 0, err
	}
	if land.ApprovalStatus != models.ApprovalStatusApproved {
		return 0, ErrLandNotFound
	}

	if _, err := s.db.Exec("UPDATE lands SET views = views + 1 WHERE id = ?", landID); err != nil {
		return 0, fmt.Errorf("failed to record view: %w", err)
	}
	return land.Views + 1, nil
}

// ValidateFilter rejects inconsistent search combinations
func ValidateFilter(filter *models.SearchFilter) error {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MaxPrice < *filter.MinPrice {
		return fmt.Errorf("%w: maxPrice cannot be less than minPrice", ErrInvalidFilter)
	}
	if filter.MinArea != nil && filter.MaxArea != nil && *filter.MaxArea < *filter.MinArea {
		return fmt.Errorf("%w: maxArea cannot be less than minArea", ErrInvalidFilter)
	}
	if filter.Page < 1 || filter.Page > 1000 {
		return fmt.Errorf("%w: page must be between 1 and 1000", ErrInvalidFilter)
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		return fmt.Errorf("%w: limit must be between 1 and 100", ErrInvalidFilter)
	}
	if filter.Sort != "" {
		if _, ok := sortWhitelist[filter.Sort]; !ok {
			return fmt.Errorf("%w: unsupported sort key", ErrInvalidFilter)
		}
	}
	return nil
}

// buildSearchQuery assembles the WHERE clause for a search. Only approved,
// active listings are ever matched.
func buildSearchQuery(filter *models.SearchFilter) (string, []interface{}) {
	conditions := []string{"approval_status = ?", "status = ?"}
	args := []interface{}{models.ApprovalStatusApproved, models.LandStatusActive}

	if filter.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern)
	}
	if filter.City != "" {
		conditions = append(conditions, "city LIKE ? COLLATE NOCASE")
		args = append(args, "%"+filter.City+"%")
	}
	if filter.State != "" {
		conditions = append(conditions, "state LIKE ? COLLATE NOCASE")
		args = append(args, "%"+filter.State+"%")
	}
	if filter.LandType != "" {
		conditions = append(conditions, "land_type = ?")
		args = append(args, filter.LandType)
	}
	if filter.ListingType != "" {
		conditions = append(conditions, "listing_type = ?")
		args = append(args, filter.ListingType)
	}
	if filter.SoilType != "" {
		conditions = append(conditions, "soil_type = ?")
		args = append(args, filter.SoilType)
	}
	if filter.WaterAvailability != "" {
		conditions = append(conditions, "water_availability = ?")
		args = append(args, filter.WaterAvailability)
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if filter.MinArea != nil {
		conditions = append(conditions, "total_area >= ?")
		args = append(args, *filter.MinArea)
	}
	if filter.MaxArea != nil {
		conditions = append(conditions, "total_area <= ?")
		args = append(args, *filter.MaxArea)
	}
	if filter.Electricity != nil {
		conditions = append(conditions, "electricity_available = ?")
		args = append(args, *filter.Electricity)
	}
	// Set membership over JSON-encoded lists: a listing matches when any
	// requested value appears in its list.
	for _, listFilter := range []struct {
		column string
		values []string
	}{
		{"suitable_crops", filter.SuitableCrops},
		{"water_sources", filter.WaterSources},
	} {
		if len(listFilter.values) == 0 {
			continue
		}
		ors := make([]string, 0, len(listFilter.values))
		for _, v := range listFilter.values {
			ors = append(ors, listFilter.column+" LIKE ?")
			args = append(args, "%\""+strings.TrimSpace(v)+"\"%")
		}
		conditions = append(conditions, "("+strings.Join(ors, " OR ")+")")
	}

	return strings.Join(conditions, " AND "), args
}

// Search runs a faceted listing search with pagination
func (s *LandService) Search(filter *models.SearchFilter) ([]*models.Land, *models.Pagination, error) {
	if err := ValidateFilter(filter); err != nil {
		return nil, nil, err
	}

	where, args := buildSearchQuery(filter)

	var total int64
	countQuery := "SELECT COUNT(*) FROM lands WHERE " + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, nil, fmt.Errorf("failed to count lands: %w", err)
	}

	orderBy := sortWhitelist["-createdAt"]
	if filter.Sort != "" {
		orderBy = sortWhitelist[filter.Sort]
	}

	offset := (filter.Page - 1) * filter.Limit
	query := "SELECT " + landColumns + " FROM lands WHERE " + where +
		" ORDER BY " + orderBy + " LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search lands: %w", err)
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
		return nil, nil, fmt.Errorf("failed to read lands: %w", err)
	}

	return lands, buildPagination(filter.Page, filter.Limit, total), nil
}

func buildPagination(page, limit int, total int64) *models.Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	if totalPages == 0 {
		totalPages = 1
	}
	return &models.Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}

// GetFeatured returns featured approved listings, newest first
func (s *LandService) GetFeatured(limit int) ([]*models.Land, error) {
	if limit < 1 || limit > 100 {
		limit = 6
	}
	query := "SELECT " + landColumns + ` FROM lands
		WHERE approval_status = ? AND status = ? AND is_featured = true
		ORDER BY created_at DESC LIMIT ?`
	rows, err := s.db.Query(query, models.ApprovalStatusApproved, models.LandStatusActive, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get featured lands: %w", err)
	}
	defer rows.Close()

	lands := []*models.Land{}
	for rows.Next() {
		land, err := scanLand(rows)
		if err != nil {
			return nil, err
		}
		lands = append(lands, land)
	}
	return lands, rows.Err()
}

// haversineKm computes the great-circle distance between two points
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// GetNearby returns approved listings within radiusKm of a point, closest
// first. A bounding box narrows the candidate set before the exact
// distance check.
func (s *LandService) GetNearby(lat, lng, radiusKm float64, limit int) ([]*models.Land, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, errors.New("invalid coordinates")
	}
	if radiusKm <= 0 || radiusKm > 500 {
		return nil, errors.New("radius must be between 0 and 500 km")
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	latDelta := radiusKm / 111.0
	lngDelta := latDelta
	if cosLat := math.Cos(lat * math.Pi / 180); cosLat > 0.01 {
		lngDelta = radiusKm / (111.0 * cosLat)
	}

	query := "SELECT " + landColumns + ` FROM lands
		WHERE approval_status = ? AND status = ?
		  AND latitude IS NOT NULL AND longitude IS NOT NULL
		  AND latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?`
	rows, err := s.db.Query(query,
		models.ApprovalStatusApproved, models.LandStatusActive,
		lat-latDelta, lat+latDelta, lng-lngDelta, lng+lngDelta,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby lands: %w", err)
	}
	defer rows.Close()

	lands := []*models.Land{}
	for rows.Next() {
		land, err := scanLand(rows)
		if err != nil {
			return nil, err
		}
		distance := haversineKm(lat, lng, *land.Location.Latitude, *land.Location.Longitude)
		if distance > radiusKm {
			continue
		}
		d := utils.RoundToDecimalPlaces(distance, 2)
		land.DistanceKm = &d
		lands = append(lands, land)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nearby lands: %w", err)
	}

	sort.Slice(lands, func(i, j int) bool {
		return *lands[i].DistanceKm < *lands[j].DistanceKm
	})
	if len(lands) > limit {
		lands = lands[:limit]
	}
	return lands, nil
}

// GetOwnerLands returns all of a seller's listings with approval counts
func (s *LandService) GetOwnerLands(ownerID string) ([]*models.Land, map[string]int, error) {
	query := "SELECT " + landColumns + " FROM lands WHERE owner_id = ? ORDER BY created_at DESC"
	rows, err := s.db.Query(query, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get owner lands: %w", err)
	}
	defer rows.Close()

	lands := []*models.Land{}
	counts := map[string]int{}
	for rows.Next() {
		land, err := scanLand(rows)
		if err != nil {
			return nil, nil, err
		}
		lands = append(lands, land)
		counts[string(land.ApprovalStatus)]++
	}
	return lands, counts, rows.Err()
}

// UpdateLand applies a partial edit. Changes to price, total area,
// location or land type put the listing back into the review queue.
func (s *LandService) UpdateLand(landID, userID string, isAdmin bool, update *models.LandUpdate) (*models.Land, error) {
	if err := utils.ValidateStruct(update); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	land, err := s.GetLandByID(landID)
	if err != nil {
		return nil, err
	}
	if land.OwnerID != userID && !isAdmin {
		return nil, ErrNotLandOwner
	}

	// Area invariants hold against the merged values
	total := land.TotalArea
	cultivable := land.CultivableArea
	irrigated := land.IrrigatedArea
	if update.TotalArea != nil {
		total = *update.TotalArea
	}
	if update.CultivableArea != nil {
		cultivable = *update.CultivableArea
	}
	if update.IrrigatedArea != nil {
		irrigated = *update.IrrigatedArea
	}
	if err := validateAreas(total, cultivable, irrigated); err != nil {
		return nil, err
	}
	if err := validateCoordinates(update.Latitude, update.Longitude); err != nil {
		return nil, err
	}

	listingType := land.ListingType
	if update.ListingType != nil {
		listingType = models.ListingType(*update.ListingType)
	}
	if listingType == models.ListingTypeLease || listingType == models.ListingTypeRent {
		hasLeaseType := land.LeaseType != nil && *land.LeaseType != ""
		if update.LeaseType != nil {
			hasLeaseType = *update.LeaseType != ""
		}
		if !hasLeaseType {
			return nil, errors.New("lease type is required for lease and rent listings")
		}
	}

	needsReview := update.SignificantlyChanged(land)

	setParts := []string{}
	args := []interface{}{}

	appendSet := func(column string, value interface{}) {
		setParts = append(setParts, column+" = ?")
		args = append(args, value)
	}

	if update.Title != nil {
		appendSet("title", utils.SanitizeString(*update.Title))
	}
	if update.Description != nil {
		appendSet("description", utils.SanitizeString(*update.Description))
	}
	if update.LandType != nil {
		appendSet("land_type", *update.LandType)
	}
	if update.ListingType != nil {
		appendSet("listing_type", *update.ListingType)
	}
	if update.LeaseType != nil {
		appendSet("lease_type", *update.LeaseType)
	}
	if update.Price != nil {
		appendSet("price", *update.Price)
	}
	if update.PricePerAcre != nil {
		appendSet("price_per_acre", *update.PricePerAcre)
	}
	if update.TotalArea != nil {
		appendSet("total_area", *update.TotalArea)
	}
	if update.CultivableArea != nil {
		appendSet("cultivable_area", *update.CultivableArea)
	}
	if update.IrrigatedArea != nil {
		appendSet("irrigated_area", *update.IrrigatedArea)
	}
	if update.Address != nil {
		appendSet("address", utils.SanitizeString(*update.Address))
	}
	if update.City != nil {
		appendSet("city", utils.SanitizeString(*update.City))
	}
	if update.State != nil {
		appendSet("state", utils.SanitizeString(*update.State))
	}
	if update.PinCode != nil {
		appendSet("pin_code", *update.PinCode)
	}
	if update.Latitude != nil {
		appendSet("latitude", *update.Latitude)
	}
	if update.Longitude != nil {
		appendSet("longitude", *update.Longitude)
	}
	if update.SoilType != nil {
		appendSet("soil_type", *update.SoilType)
	}
	if update.SoilQuality != nil {
		appendSet("soil_quality", *update.SoilQuality)
	}
	if update.SuitableCrops != nil {
		appendSet("suitable_crops", encodeStringSlice(*update.SuitableCrops))
	}
	if update.WaterSources != nil {
		appendSet("water_sources", encodeStringSlice(*update.WaterSources))
	}
	if update.WaterAvailability != nil {
		appendSet("water_availability", *update.WaterAvailability)
	}
	if update.RoadAccess != nil {
		appendSet("road_access", *update.RoadAccess)
	}
	if update.Boundary != nil {
		appendSet("boundary", *update.Boundary)
	}
	if update.Climate != nil {
		appendSet("climate", *update.Climate)
	}
	if update.Rainfall != nil {
		appendSet("rainfall", *update.Rainfall)
	}
	if update.ElectricityAvailable != nil {
		appendSet("electricity_available", *update.ElectricityAvailable)
	}
	if update.Images != nil {
		appendSet("images", encodeStringSlice(*update.Images))
	}
	if update.Documents != nil {
		appendSet("documents", encodeStringSlice(*update.Documents))
	}

	if len(setParts) == 0 {
		return land, nil // No updates
	}

	if needsReview {
		appendSet("approval_status", models.ApprovalStatusPending)
		appendSet("admin_comments", nil)
		appendSet("reviewed_by", nil)
		appendSet("reviewed_at", nil)
	}

	appendSet("updated_at", time.Now())
	args = append(args, landID)

	query := "UPDATE lands SET " + strings.Join(setParts, ", ") + " WHERE id = ?"
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("failed to update land: %w", err)
	}

	return s.GetLandByID(landID)
}

// DeleteLand removes a listing if the caller owns it or is an admin
func (s *LandService) DeleteLand(landID, userID string, isAdmin bool) error {
	land, err := s.GetLandByID(landID)
	if err != nil {
		return err
	}
	if land.OwnerID != userID && !isAdmin {
		return ErrNotLandOwner
	}

	if _, err := s.db.Exec("DELETE FROM lands WHERE id = ?", landID); err != nil {
		return fmt.Errorf("failed to delete land: %w", err)
	}
	return nil
}

// UpdateStatus changes the owner-controlled availability state
func (s *LandService) UpdateStatus(landID, userID string, status models.LandStatus) (*models.Land, error) {
	land, err := s.GetLandByID(landID)
	if err != nil {
		return nil, err
	}
	if land.OwnerID != userID {
		return nil, ErrNotLandOwner
	}

	query := "UPDATE lands SET status = ?, updated_at = ? WHERE id = ?"
	if _, err := s.db.Exec(query, status, time.Now(), landID); err != nil {
		return nil, fmt.Errorf("failed to update land status: %w", err)
	}
	return s.GetLandByID(landID)
}
