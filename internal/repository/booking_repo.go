package repository

import (
	"context"
	"time"

	"roofshare/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID               int64      `gorm:"column:id;primaryKey"`
	ListingID        int64      `gorm:"column:listing_id;index;not null"`
	RenterID         int64      `gorm:"column:renter_id;index;not null"`
	LandlordID       int64      `gorm:"column:landlord_id;index;not null"`
	StartDate        time.Time  `gorm:"column:start_date;not null"`
	EndDate          time.Time  `gorm:"column:end_date;not null"`
	TotalDays        int        `gorm:"column:total_days"`
	PricePerDay      int64      `gorm:"column:price_per_day"`
	TotalAmount      int64      `gorm:"column:total_amount"`
	PlatformFee      int64      `gorm:"column:platform_fee"`
	LandlordEarnings int64      `gorm:"column:landlord_earnings"`
	Status           string     `gorm:"column:status;index"`
	PaymentStatus    string     `gorm:"column:payment_status;index"`
	PaymentIntentID  *string    `gorm:"column:payment_intent_id;index"`
	ChargeID         *string    `gorm:"column:charge_id"`
	ContactSharedAt  *time.Time `gorm:"column:contact_shared_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:               m.ID,
		ListingID:        m.ListingID,
		RenterID:         m.RenterID,
		LandlordID:       m.LandlordID,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		TotalDays:        m.TotalDays,
		PricePerDay:      m.PricePerDay,
		TotalAmount:      m.TotalAmount,
		PlatformFee:      m.PlatformFee,
		LandlordEarnings: m.LandlordEarnings,
		Status:           domain.BookingStatus(m.Status),
		PaymentStatus:    domain.PaymentStatus(m.PaymentStatus),
		PaymentIntentID:  deref(m.PaymentIntentID),
		ChargeID:         deref(m.ChargeID),
		ContactSharedAt:  m.ContactSharedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:               b.ID,
		ListingID:        b.ListingID,
		RenterID:         b.RenterID,
		LandlordID:       b.LandlordID,
		StartDate:        b.StartDate,
		EndDate:          b.EndDate,
		TotalDays:        b.TotalDays,
		PricePerDay:      b.PricePerDay,
		TotalAmount:      b.TotalAmount,
		PlatformFee:      b.PlatformFee,
		LandlordEarnings: b.LandlordEarnings,
		Status:           string(b.Status),
		PaymentStatus:    string(b.PaymentStatus),
		PaymentIntentID:  optional(b.PaymentIntentID),
		ChargeID:         optional(b.ChargeID),
		ContactSharedAt:  b.ContactSharedAt,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, mapGormError(tx.Error)
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByPaymentIntentID(ctx context.Context, intentID string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("payment_intent_id = ?", intentID).First(&m)
	if tx.Error != nil {
		return nil, mapGormError(tx.Error)
	}
	return toDomainBooking(m), nil
}

// HasOverlap reports whether a non-canceled booking already covers any part
// of [start, end) for the listing.
func (r *BookingRepository) HasOverlap(ctx context.Context, listingID int64, start, end time.Time) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("listing_id = ? AND status NOT IN ? AND start_date < ? AND end_date > ?",
			listingID, []string{string(domain.BookingCanceled)}, end, start).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// AttachPaymentIntent stamps the processor's intent id and moves the payment
// lifecycle to processing. Keyed field-set: nothing else on the row is
// touched.
func (r *BookingRepository) AttachPaymentIntent(ctx context.Context, bookingID int64, intentID string) error {
	return r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"payment_intent_id": intentID,
			"payment_status":    string(domain.PaymentProcessing),
		}).Error
}

// MarkPaymentSucceeded applies the confirmed/succeeded transition. The WHERE
// clause excludes terminal payment states, so replaying the same event (or
// racing deliveries) changes at most one row once; the returned flag is the
// guard the reconciler uses to suppress duplicate notifications.
func (r *BookingRepository) MarkPaymentSucceeded(ctx context.Context, bookingID int64, chargeID string, sharedAt time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND payment_status NOT IN ?", bookingID,
			[]string{string(domain.PaymentSucceeded), string(domain.PaymentFailed)}).
		Updates(map[string]any{
			"payment_status":    string(domain.PaymentSucceeded),
			"status":            string(domain.BookingConfirmed),
			"charge_id":         chargeID,
			"contact_shared_at": sharedAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// MarkPaymentFailed applies the canceled/failed transition with the same
// terminal-state guard as MarkPaymentSucceeded.
func (r *BookingRepository) MarkPaymentFailed(ctx context.Context, bookingID int64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND payment_status NOT IN ?", bookingID,
			[]string{string(domain.PaymentSucceeded), string(domain.PaymentFailed)}).
		Updates(map[string]any{
			"payment_status": string(domain.PaymentFailed),
			"status":         string(domain.BookingCanceled),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID int64, limit, offset int) ([]domain.Booking, error) {
	return r.list(ctx, "renter_id = ?", renterID, limit, offset)
}

func (r *BookingRepository) ListByLandlord(ctx context.Context, landlordID int64, limit, offset int) ([]domain.Booking, error) {
	return r.list(ctx, "landlord_id = ?", landlordID, limit, offset)
}

func (r *BookingRepository) list(ctx context.Context, cond string, id int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var ms []bookingModel
	tx := r.db.WithContext(ctx).Where(cond, id).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}
