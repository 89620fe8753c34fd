package booking

import (
	"context"
	"time"

	"roofshare/internal/domain"
	"roofshare/internal/stripe"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	HasOverlap(ctx context.Context, listingID int64, start, end time.Time) (bool, error)
	AttachPaymentIntent(ctx context.Context, bookingID int64, intentID string) error
	ListByRenter(ctx context.Context, renterID int64, limit, offset int) ([]domain.Booking, error)
	ListByLandlord(ctx context.Context, landlordID int64, limit, offset int) ([]domain.Booking, error)
}

type ListingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	GetByIDWithOwner(ctx context.Context, id int64) (*domain.Listing, *domain.User, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetStripeCustomerID(ctx context.Context, userID int64, customerID string) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
}

// ProcessorGateway is the slice of the payment processor the orchestrator
// needs. Constructor-injected so tests can run against a fake.
type ProcessorGateway interface {
	CreateCustomer(ctx context.Context, email, name, phone string) (*stripe.Customer, error)
	CreatePaymentIntent(ctx context.Context, p stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}
