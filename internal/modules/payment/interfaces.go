package payment

import (
	"context"
	"time"

	"roofshare/internal/domain"
	"roofshare/internal/stripe"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByPaymentIntentID(ctx context.Context, intentID string) (*domain.Booking, error)
	MarkPaymentSucceeded(ctx context.Context, bookingID int64, chargeID string, sharedAt time.Time) (bool, error)
	MarkPaymentFailed(ctx context.Context, bookingID int64) (bool, error)
}

type PaymentRepository interface {
	GetByPaymentIntentID(ctx context.Context, intentID string) (*domain.Payment, error)
	UpdateStatusByIntentID(ctx context.Context, intentID string, status domain.PaymentRecordStatus, chargeID string) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetStripeAccountID(ctx context.Context, userID int64, accountID string) error
	MarkOnboardingCompleted(ctx context.Context, accountID string) (bool, error)
}

// Notifier sends confirmation messages after a succeeded payment. Both
// methods are best-effort from the reconciler's point of view.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, bookingID int64) error
	ScheduleReviewReminder(ctx context.Context, bookingID int64, rentalEnd time.Time) error
}

type ProcessorGateway interface {
	CreateAccount(ctx context.Context, email, country string) (*stripe.Account, error)
	GetAccount(ctx context.Context, accountID string) (*stripe.Account, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*stripe.AccountLink, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
}
