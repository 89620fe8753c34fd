package repository

import (
	"context"
	"encoding/json"
	"time"

	"roofshare/internal/domain"

	"gorm.io/gorm"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

type listingModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	UserID           int64     `gorm:"column:user_id;index;not null"`
	Brand            string    `gorm:"column:brand;not null"`
	Model            string    `gorm:"column:model;not null"`
	Volume           int       `gorm:"column:volume"`
	Length           float64   `gorm:"column:length"`
	Width            float64   `gorm:"column:width"`
	Height           float64   `gorm:"column:height"`
	MountingType     string    `gorm:"column:mounting_type;type:varchar(40)"`
	Condition        string    `gorm:"column:condition;type:varchar(20)"`
	Description      string    `gorm:"column:description;type:text"`
	PickupCity       string    `gorm:"column:pickup_city;index"`
	PickupPostalCode string    `gorm:"column:pickup_postal_code;index"`
	PickupAddress    *string   `gorm:"column:pickup_address"`
	PricePerDay      int64     `gorm:"column:price_per_day;not null"`
	IncludesRoofRack bool      `gorm:"column:includes_roof_rack"`
	RoofRackPrice    int64     `gorm:"column:roof_rack_price"`
	HasLock          bool      `gorm:"column:has_lock"`
	Extras           string    `gorm:"column:extras;type:text"`
	Images           string    `gorm:"column:images;type:text"`
	IsAvailable      bool      `gorm:"column:is_available;default:true"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (listingModel) TableName() string { return "listings" }

func toDomainListing(m listingModel) *domain.Listing {
	return &domain.Listing{
		ID:               m.ID,
		UserID:           m.UserID,
		Brand:            m.Brand,
		Model:            m.Model,
		Volume:           m.Volume,
		Length:           m.Length,
		Width:            m.Width,
		Height:           m.Height,
		MountingType:     domain.MountingType(m.MountingType),
		Condition:        domain.ListingCondition(m.Condition),
		Description:      m.Description,
		PickupCity:       m.PickupCity,
		PickupPostalCode: m.PickupPostalCode,
		PickupAddress:    deref(m.PickupAddress),
		PricePerDay:      m.PricePerDay,
		IncludesRoofRack: m.IncludesRoofRack,
		RoofRackPrice:    m.RoofRackPrice,
		HasLock:          m.HasLock,
		Extras:           decodeStrings(m.Extras),
		Images:           decodeStrings(m.Images),
		IsAvailable:      m.IsAvailable,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toListingModel(l *domain.Listing) listingModel {
	return listingModel{
		ID:               l.ID,
		UserID:           l.UserID,
		Brand:            l.Brand,
		Model:            l.Model,
		Volume:           l.Volume,
		Length:           l.Length,
		Width:            l.Width,
		Height:           l.Height,
		MountingType:     string(l.MountingType),
		Condition:        string(l.Condition),
		Description:      l.Description,
		PickupCity:       l.PickupCity,
		PickupPostalCode: l.PickupPostalCode,
		PickupAddress:    optional(l.PickupAddress),
		PricePerDay:      l.PricePerDay,
		IncludesRoofRack: l.IncludesRoofRack,
		RoofRackPrice:    l.RoofRackPrice,
		HasLock:          l.HasLock,
		Extras:           encodeStrings(l.Extras),
		Images:           encodeStrings(l.Images),
		IsAvailable:      l.IsAvailable,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func decodeStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func encodeStrings(in []string) string {
	if len(in) == 0 {
		return ""
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return ""
	}
	return string(raw)
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	m := toListingModel(l)
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*l = *toDomainListing(m)
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	var m listingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, mapGormError(tx.Error)
	}
	return toDomainListing(m), nil
}

// GetByIDWithOwner loads a listing and its owner in one call; the owner
// carries the payout fields the booking orchestrator checks.
func (r *ListingRepository) GetByIDWithOwner(ctx context.Context, id int64) (*domain.Listing, *domain.User, error) {
	var lm listingModel
	if tx := r.db.WithContext(ctx).First(&lm, id); tx.Error != nil {
		return nil, nil, mapGormError(tx.Error)
	}
	var um userModel
	if tx := r.db.WithContext(ctx).First(&um, lm.UserID); tx.Error != nil {
		return nil, nil, mapGormError(tx.Error)
	}
	l := toDomainListing(lm)
	u := toDomainUser(um)
	l.User = u
	return l, u, nil
}

func (r *ListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	m := toListingModel(l)
	if tx := r.db.WithContext(ctx).Save(&m); tx.Error != nil {
		return tx.Error
	}
	*l = *toDomainListing(m)
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&listingModel{}, id).Error
}

func (r *ListingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Listing, error) {
	var ms []listingModel
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Listing, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainListing(m))
	}
	return out, nil
}

// Search applies row-level filters; the mounting-type and price filters map
// to indexed columns so listing search never loads the full table.
func (r *ListingRepository) Search(ctx context.Context, f domain.SearchFilters, limit, offset int) ([]domain.Listing, error) {
	q := r.db.WithContext(ctx).Model(&listingModel{}).Where("is_available = ?", true)
	if f.City != "" {
		q = q.Where("pickup_city LIKE ?", "%"+f.City+"%")
	}
	if f.PostalCode != "" {
		q = q.Where("pickup_postal_code = ?", f.PostalCode)
	}
	if f.MinPrice > 0 {
		q = q.Where("price_per_day >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price_per_day <= ?", f.MaxPrice)
	}
	if len(f.MountingTypes) > 0 {
		types := make([]string, 0, len(f.MountingTypes))
		for _, mt := range f.MountingTypes {
			types = append(types, string(mt))
		}
		q = q.Where("mounting_type IN ?", types)
	}
	if f.MinVolume > 0 {
		q = q.Where("volume >= ?", f.MinVolume)
	}
	if f.HasLock != nil {
		q = q.Where("has_lock = ?", *f.HasLock)
	}
	if f.IncludesRoofRack != nil {
		q = q.Where("includes_roof_rack = ?", *f.IncludesRoofRack)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var ms []listingModel
	tx := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Listing, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainListing(m))
	}
	return out, nil
}
