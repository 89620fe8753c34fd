package domain

import "time"

type EmailType string

const (
	EmailBookingConfirmation EmailType = "booking_confirmation"
	EmailReviewReminder      EmailType = "review_reminder"
)

type EmailLogStatus string

const (
	EmailSent      EmailLogStatus = "sent"
	EmailScheduled EmailLogStatus = "scheduled"
	EmailFailed    EmailLogStatus = "failed"
)

// EmailLog is an append-only audit record of one notification attempt.
type EmailLog struct {
	ID             int64          `json:"id"`
	RecipientEmail string         `json:"recipient_email"`
	EmailType      EmailType      `json:"email_type"`
	BookingID      int64          `json:"booking_id"`
	Subject        string         `json:"subject"`
	Body           string         `json:"body"`
	Status         EmailLogStatus `json:"status"`
	SentAt         *time.Time     `json:"sent_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
