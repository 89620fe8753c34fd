package domain

import "time"

type PaymentRecordStatus string

const (
	PaymentRecordPending   PaymentRecordStatus = "pending"
	PaymentRecordSucceeded PaymentRecordStatus = "succeeded"
	PaymentRecordFailed    PaymentRecordStatus = "failed"
)

// Payment is one payment attempt for a booking and the canonical holder of
// the processor's identifiers. A booking may accumulate several attempts;
// payments cascade with their booking.
type Payment struct {
	ID        int64 `json:"id"`
	BookingID int64 `json:"booking_id"`

	PaymentIntentID string `json:"payment_intent_id"`
	ChargeID        string `json:"charge_id,omitempty"`

	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`

	Status PaymentRecordStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
