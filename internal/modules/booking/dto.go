package booking

import (
	"time"

	"roofshare/internal/domain"
)

// CreateBookingRequest is the booking-creation wire payload. Dates are
// calendar days ("2006-01-02"); price_per_day is in major currency units as
// clients display it, and is cross-checked against the listing row.
type CreateBookingRequest struct {
	ListingID   int64  `json:"dachbox_id" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	TotalDays   int    `json:"total_days" binding:"required"`
	PricePerDay int64  `json:"price_per_day" binding:"required"`
}

// CreateBookingResponse hands the client everything it needs to finish the
// payment. Amounts are display values, in minor units; the booking row is
// authoritative.
type CreateBookingResponse struct {
	ClientSecret     string `json:"client_secret"`
	PaymentIntentID  string `json:"payment_intent_id"`
	BookingID        int64  `json:"booking_id"`
	TotalAmount      int64  `json:"total_amount"`
	PlatformFee      int64  `json:"platform_fee"`
	LandlordEarnings int64  `json:"landlord_earnings"`
}

type ContactDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// BookingDetails is one row in a renter's or landlord's booking list.
// Counterpart contact details are present only once the payment succeeded.
type BookingDetails struct {
	ID            int64                `json:"id"`
	Status        domain.BookingStatus `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	TotalDays int       `json:"total_days"`

	TotalAmount      int64 `json:"total_amount"`
	PlatformFee      int64 `json:"platform_fee"`
	LandlordEarnings int64 `json:"landlord_earnings"`

	ListingID    int64  `json:"listing_id"`
	ListingTitle string `json:"listing_title"`
	PickupCity   string `json:"pickup_city"`

	Contact *ContactDetails `json:"contact,omitempty"`
}
