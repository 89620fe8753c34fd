package catalog

// CreateListingRequest carries the landlord-facing listing form. Prices are
// given in whole euros and stored in cents.
type CreateListingRequest struct {
	Brand  string  `json:"brand" binding:"required"`
	Model  string  `json:"model" binding:"required"`
	Volume int     `json:"volume" binding:"required,gt=0"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	MountingType string `json:"mounting_type" binding:"required"`
	Condition    string `json:"condition" binding:"required"`
	Description  string `json:"description"`

	PickupCity       string `json:"pickup_city" binding:"required"`
	PickupPostalCode string `json:"pickup_postal_code" binding:"required"`
	PickupAddress    string `json:"pickup_address"`

	PricePerDay      int64    `json:"price_per_day" binding:"required,gt=0"`
	IncludesRoofRack bool     `json:"includes_roof_rack"`
	RoofRackPrice    int64    `json:"roof_rack_price"`
	HasLock          bool     `json:"has_lock"`
	Extras           []string `json:"extras"`
	Images           []string `json:"images"`
}

// UpdateListingRequest mirrors the create form; nil pointers leave the
// stored value untouched.
type UpdateListingRequest struct {
	Brand  *string  `json:"brand"`
	Model  *string  `json:"model"`
	Volume *int     `json:"volume"`
	Length *float64 `json:"length"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`

	MountingType *string `json:"mounting_type"`
	Condition    *string `json:"condition"`
	Description  *string `json:"description"`

	PickupCity       *string `json:"pickup_city"`
	PickupPostalCode *string `json:"pickup_postal_code"`
	PickupAddress    *string `json:"pickup_address"`

	PricePerDay      *int64    `json:"price_per_day"`
	IncludesRoofRack *bool     `json:"includes_roof_rack"`
	RoofRackPrice    *int64    `json:"roof_rack_price"`
	HasLock          *bool     `json:"has_lock"`
	Extras           *[]string `json:"extras"`
	Images           *[]string `json:"images"`
	IsAvailable      *bool     `json:"is_available"`
}
