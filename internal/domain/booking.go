package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCanceled  BookingStatus = "canceled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSucceeded  PaymentStatus = "succeeded"
	PaymentFailed     PaymentStatus = "failed"
)

// Terminal reports whether the payment status can no longer change.
// Succeeded and failed are mutually exclusive terminal states; once either
// is applied, a late event for the other is an anomaly, not a transition.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSucceeded || s == PaymentFailed
}

// Booking is the aggregate root for one rental transaction. All amounts are
// in minor currency units. LandlordID is denormalized from the listing owner
// at creation time. The payment intent id is also carried on the canonical
// Payment row; the copy here is a read-path cache and the two are always
// written in the same logical step.
type Booking struct {
	ID         int64 `json:"id"`
	ListingID  int64 `json:"listing_id" validate:"required"`
	RenterID   int64 `json:"renter_id" validate:"required"`
	LandlordID int64 `json:"landlord_id" validate:"required"`

	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	TotalDays int       `json:"total_days" validate:"gt=0"`

	PricePerDay      int64 `json:"price_per_day"`
	TotalAmount      int64 `json:"total_amount"`
	PlatformFee      int64 `json:"platform_fee"`
	LandlordEarnings int64 `json:"landlord_earnings"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	PaymentIntentID string `json:"payment_intent_id,omitempty"`
	ChargeID        string `json:"charge_id,omitempty"`

	// Set exactly once, when the payment succeeds. Gates whether counterpart
	// contact details may be revealed to renter and landlord.
	ContactSharedAt *time.Time `json:"contact_shared_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Listing  *Listing `json:"listing,omitempty"`
	Renter   *User    `json:"renter,omitempty"`
	Landlord *User    `json:"landlord,omitempty"`
}
