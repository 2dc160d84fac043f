package models

import "time"

// LandType classifies the agricultural use of a listing
type LandType string

const (
	LandTypeCropland         LandType = "cropland"
	LandTypePasture          LandType = "pasture"
	LandTypeOrchard          LandType = "orchard"
	LandTypeVineyard         LandType = "vineyard"
	LandTypeDairyFarm        LandType = "dairy-farm"
	LandTypePoultryFarm      LandType = "poultry-farm"
	LandTypeMixedFarming     LandType = "mixed-farming"
	LandTypeOrganicCertified LandType = "organic-certified"
	LandTypeGreenhouse       LandType = "greenhouse"
)

// ListingType is how the land is offered
type ListingType string

const (
	ListingTypeSale  ListingType = "sale"
	ListingTypeLease ListingType = "lease"
	ListingTypeRent  ListingType = "rent"
)

// ApprovalStatus tracks the admin review state of a listing
type ApprovalStatus string

const (
	ApprovalStatusPending     ApprovalStatus = "pending"
	ApprovalStatusApproved    ApprovalStatus = "approved"
	ApprovalStatusRejected    ApprovalStatus = "rejected"
	ApprovalStatusUnderReview ApprovalStatus = "under-review"
)

// LandStatus is the owner-controlled availability state
type LandStatus string

const (
	LandStatusActive   LandStatus = "active"
	LandStatusSold     LandStatus = "sold"
	LandStatusLeased   LandStatus = "leased"
	LandStatusInactive LandStatus = "inactive"
)

// Location is the embedded address of a listing
type Location struct {
	Address   string   `json:"address,omitempty"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	PinCode   string   `json:"pinCode,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Land represents a listing. Agricultural facet fields are optional so a
// plain plot and a fully profiled farm share the same row shape.
type Land struct {
	ID                   string         `json:"id" db:"id"`
	OwnerID              string         `json:"ownerId" db:"owner_id"`
	Title                string         `json:"title" db:"title"`
	Description          string         `json:"description" db:"description"`
	LandType             LandType       `json:"landType" db:"land_type"`
	ListingType          ListingType    `json:"listingType" db:"listing_type"`
	LeaseType            *string        `json:"leaseType,omitempty" db:"lease_type"`
	Price                float64        `json:"price" db:"price"`
	PricePerAcre         float64        `json:"pricePerAcre" db:"price_per_acre"`
	TotalArea            float64        `json:"totalArea" db:"total_area"`
	CultivableArea       float64        `json:"cultivableArea" db:"cultivable_area"`
	IrrigatedArea        float64        `json:"irrigatedArea" db:"irrigated_area"`
	Location             Location       `json:"location"`
	SoilType             *string        `json:"soilType,omitempty" db:"soil_type"`
	SoilQuality          *string        `json:"soilQuality,omitempty" db:"soil_quality"`
	SuitableCrops        []string       `json:"suitableCrops" db:"suitable_crops"`
	WaterSources         []string       `json:"waterSources" db:"water_sources"`
	WaterAvailability    *string        `json:"waterAvailability,omitempty" db:"water_availability"`
	RoadAccess           *string        `json:"roadAccess,omitempty" db:"road_access"`
	Boundary             *string        `json:"boundary,omitempty" db:"boundary"`
	Climate              *string        `json:"climate,omitempty" db:"climate"`
	Rainfall             *string        `json:"rainfall,omitempty" db:"rainfall"`
	ElectricityAvailable bool           `json:"electricityAvailable" db:"electricity_available"`
	Images               []string       `json:"images" db:"images"`
	Documents            []string       `json:"documents" db:"documents"`
	ApprovalStatus       ApprovalStatus `json:"approvalStatus" db:"approval_status"`
	AdminComments        *string        `json:"adminComments,omitempty" db:"admin_comments"`
	ReviewedBy           *string        `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt           *time.Time     `json:"reviewedAt,omitempty" db:"reviewed_at"`
	Status               LandStatus     `json:"status" db:"status"`
	IsFeatured           bool           `json:"isFeatured" db:"is_featured"`
	Views                int            `json:"views" db:"views"`
	InquiryCount         int            `json:"inquiryCount" db:"inquiry_count"`
	DistanceKm           *float64       `json:"distanceKm,omitempty"`
	CreatedAt            time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time      `json:"updatedAt" db:"updated_at"`
}

// LandCreate represents the payload for creating a listing
type LandCreate struct {
	Title                string   `json:"title" validate:"required,min=5,max=100"`
	Description          string   `json:"description" validate:"required,min=20,max=2000"`
	LandType             string   `json:"landType" validate:"required,oneof=cropland pasture orchard vineyard dairy-farm poultry-farm mixed-farming organic-certified greenhouse"`
	ListingType          string   `json:"listingType" validate:"required,oneof=sale lease rent"`
	LeaseType            *string  `json:"leaseType,omitempty" validate:"omitempty,oneof=short-term long-term seasonal"`
	Price                float64  `json:"price" validate:"required,min_value=1000"`
	PricePerAcre         float64  `json:"pricePerAcre" validate:"required,min_value=100"`
	TotalArea            float64  `json:"totalArea" validate:"required,min_value=0.1,max_value=10000"`
	CultivableArea       float64  `json:"cultivableArea"`
	IrrigatedArea        float64  `json:"irrigatedArea"`
	Address              string   `json:"address" validate:"omitempty,max=200"`
	City                 string   `json:"city" validate:"required,min=2,max=60"`
	State                string   `json:"state" validate:"required,min=2,max=60"`
	PinCode              string   `json:"pinCode" validate:"omitempty,pincode"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	SoilType             *string  `json:"soilType,omitempty" validate:"omitempty,oneof=alluvial black-cotton red-laterite sandy clay loamy saline alkaline"`
	SoilQuality          *string  `json:"soilQuality,omitempty" validate:"omitempty,oneof=excellent good average poor"`
	SuitableCrops        []string `json:"suitableCrops,omitempty"`
	WaterSources         []string `json:"waterSources,omitempty"`
	WaterAvailability    *string  `json:"waterAvailability,omitempty" validate:"omitempty,oneof=year-round seasonal monsoon-dependent limited"`
	RoadAccess           *string  `json:"roadAccess,omitempty" validate:"omitempty,oneof=paved unpaved seasonal no-access"`
	Boundary             *string  `json:"boundary,omitempty" validate:"omitempty,oneof=fenced walled marked none"`
	Climate              *string  `json:"climate,omitempty" validate:"omitempty,oneof=tropical subtropical temperate arid semi-arid"`
	Rainfall             *string  `json:"rainfall,omitempty" validate:"omitempty,oneof=heavy moderate low very-low"`
	ElectricityAvailable bool     `json:"electricityAvailable"`
	Images               []string `json:"images,omitempty"`
	Documents            []string `json:"documents,omitempty"`
}

// LandUpdate represents a partial edit of a listing
type LandUpdate struct {
	Title                *string   `json:"title,omitempty" validate:"omitempty,min=5,max=100"`
	Description          *string   `json:"description,omitempty" validate:"omitempty,min=20,max=2000"`
	LandType             *string   `json:"landType,omitempty" validate:"omitempty,oneof=cropland pasture orchard vineyard dairy-farm poultry-farm mixed-farming organic-certified greenhouse"`
	ListingType          *string   `json:"listingType,omitempty" validate:"omitempty,oneof=sale lease rent"`
	LeaseType            *string   `json:"leaseType,omitempty" validate:"omitempty,oneof=short-term long-term seasonal"`
	Price                *float64  `json:"price,omitempty" validate:"omitempty,min_value=1000"`
	PricePerAcre         *float64  `json:"pricePerAcre,omitempty" validate:"omitempty,min_value=100"`
	TotalArea            *float64  `json:"totalArea,omitempty" validate:"omitempty,min_value=0.1,max_value=10000"`
	CultivableArea       *float64  `json:"cultivableArea,omitempty"`
	IrrigatedArea        *float64  `json:"irrigatedArea,omitempty"`
	Address              *string   `json:"address,omitempty" validate:"omitempty,max=200"`
	City                 *string   `json:"city,omitempty" validate:"omitempty,min=2,max=60"`
	State                *string   `json:"state,omitempty" validate:"omitempty,min=2,max=60"`
	PinCode              *string   `json:"pinCode,omitempty" validate:"omitempty,pincode"`
	Latitude             *float64  `json:"latitude,omitempty"`
	Longitude            *float64  `json:"longitude,omitempty"`
	SoilType             *string   `json:"soilType,omitempty" validate:"omitempty,oneof=alluvial black-cotton red-laterite sandy clay loamy saline alkaline"`
	SoilQuality          *string   `json:"soilQuality,omitempty" validate:"omitempty,oneof=excellent good average poor"`
	SuitableCrops        *[]string `json:"suitableCrops,omitempty"`
	WaterSources         *[]string `json:"waterSources,omitempty"`
	WaterAvailability    *string   `json:"waterAvailability,omitempty" validate:"omitempty,oneof=year-round seasonal monsoon-dependent limited"`
	RoadAccess           *string   `json:"roadAccess,omitempty" validate:"omitempty,oneof=paved unpaved seasonal no-access"`
	Boundary             *string   `json:"boundary,omitempty" validate:"omitempty,oneof=fenced walled marked none"`
	Climate              *string   `json:"climate,omitempty" validate:"omitempty,oneof=tropical subtropical temperate arid semi-arid"`
	Rainfall             *string   `json:"rainfall,omitempty" validate:"omitempty,oneof=heavy moderate low very-low"`
	ElectricityAvailable *bool     `json:"electricityAvailable,omitempty"`
	Images               *[]string `json:"images,omitempty"`
	Documents            *[]string `json:"documents,omitempty"`
}

// LandStatusUpdate changes the owner-controlled availability state
type LandStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=active sold leased inactive"`
}

// LandReview is the admin approve/reject payload
type LandReview struct {
	Comments string `json:"comments,omitempty" validate:"omitempty,max=1000"`
}

// SearchFilter holds the parsed land search query
type SearchFilter struct {
	Query             string
	City              string
	State             string
	LandType          string
	ListingType       string
	SoilType          string
	WaterAvailability string
	SuitableCrops     []string
	WaterSources      []string
	MinPrice          *float64
	MaxPrice          *float64
	MinArea           *float64
	MaxArea           *float64
	Electricity       *bool
	Sort              string
	Page              int
	Limit             int
}

// Pagination is the list-response page envelope
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// SavedLand is a wishlist entry
type SavedLand struct {
	ID      string    `json:"id" db:"id"`
	UserID  string    `json:"userId" db:"user_id"`
	LandID  string    `json:"landId" db:"land_id"`
	SavedAt time.Time `json:"savedAt" db:"saved_at"`
	Land    *Land     `json:"land,omitempty"`
}

// SignificantlyChanged reports whether an edit touches the fields that
// require a fresh admin review: price, total area, location, land type.
func (u *LandUpdate) SignificantlyChanged(current *Land) bool {
	if u.Price != nil && *u.Price != current.Price {
		return true
	}
	if u.TotalArea != nil && *u.TotalArea != current.TotalArea {
		return true
	}
	if u.LandType != nil && string(current.LandType) != *u.LandType {
		return true
	}
	if u.City != nil && *u.City != current.Location.City {
		return true
	}
	if u.State != nil && *u.State != current.Location.State {
		return true
	}
	if u.PinCode != nil && *u.PinCode != current.Location.PinCode {
		return true
	}
	return false
}
