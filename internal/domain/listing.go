package domain

import "time"

type MountingType string

const (
	MountingCrossbarUBolt      MountingType = "quertraeger-u-buegel"
	MountingCrossbarQuickClamp MountingType = "quertraeger-schnellspann"
	MountingCrossbarTSlot      MountingType = "quertraeger-t-nut"
	MountingRailRaised         MountingType = "reling-erhoeht"
	MountingRailFlush          MountingType = "reling-buendig"
	MountingFixpoints          MountingType = "fixpunkte"
	MountingRainGutter         MountingType = "regenrinne"
	MountingBareRoofSuction    MountingType = "nackt-dach-saugnapf"
	MountingBareRoofStrap      MountingType = "nackt-dach-gurt"
	MountingSoftRoof           MountingType = "soft-roof"
)

func (m MountingType) Valid() bool {
	switch m {
	case MountingCrossbarUBolt, MountingCrossbarQuickClamp, MountingCrossbarTSlot,
		MountingRailRaised, MountingRailFlush, MountingFixpoints,
		MountingRainGutter, MountingBareRoofSuction, MountingBareRoofStrap,
		MountingSoftRoof:
		return true
	}
	return false
}

type ListingCondition string

const (
	ConditionExcellent ListingCondition = "excellent"
	ConditionGood      ListingCondition = "good"
	ConditionFair      ListingCondition = "fair"
	ConditionPoor      ListingCondition = "poor"
)

func (c ListingCondition) Valid() bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Daily price band enforced by the platform, in minor currency units.
const (
	MinPricePerDay int64 = 500
	MaxPricePerDay int64 = 5000
)

// Listing is a roof box offered for rent. Prices are in minor currency
// units (euro cents).
type Listing struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`

	Brand  string  `json:"brand" validate:"required"`
	Model  string  `json:"model" validate:"required"`
	Volume int     `json:"volume" validate:"gt=0"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	MountingType MountingType     `json:"mounting_type"`
	Condition    ListingCondition `json:"condition"`
	Description  string           `json:"description"`

	PickupCity       string `json:"pickup_city" validate:"required"`
	PickupPostalCode string `json:"pickup_postal_code" validate:"required"`
	PickupAddress    string `json:"pickup_address,omitempty"`

	PricePerDay      int64    `json:"price_per_day"`
	IncludesRoofRack bool     `json:"includes_roof_rack"`
	RoofRackPrice    int64    `json:"roof_rack_price,omitempty"`
	HasLock          bool     `json:"has_lock"`
	Extras           []string `json:"extras"`
	Images           []string `json:"images"`
	IsAvailable      bool     `json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty"`
}

// SearchFilters narrows listing searches; zero values mean "any".
type SearchFilters struct {
	City             string
	PostalCode       string
	MinPrice         int64
	MaxPrice         int64
	MountingTypes    []MountingType
	MinVolume        int
	HasLock          *bool
	IncludesRoofRack *bool
}
