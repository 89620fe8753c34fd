package payment

import "roofshare/internal/domain"

type ConnectAccountResponse struct {
	AccountID     string `json:"account_id"`
	OnboardingURL string `json:"onboarding_url"`
}

type ConnectStatusResponse struct {
	HasAccount          bool   `json:"has_account"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
	AccountID           string `json:"account_id,omitempty"`
	ChargesEnabled      bool   `json:"charges_enabled"`
	PayoutsEnabled      bool   `json:"payouts_enabled"`
}

type VerifyPaymentResponse struct {
	BookingID       int64                      `json:"booking_id"`
	BookingStatus   domain.BookingStatus       `json:"booking_status"`
	PaymentStatus   domain.PaymentStatus       `json:"payment_status"`
	PaymentIntentID string                     `json:"payment_intent_id"`
	ProcessorStatus string                     `json:"processor_status,omitempty"`
	RecordStatus    domain.PaymentRecordStatus `json:"record_status"`
}
