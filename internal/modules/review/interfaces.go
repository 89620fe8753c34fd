package review

import (
	"context"

	"roofshare/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ExistsForBooking(ctx context.Context, bookingID, reviewerID int64) (bool, error)
	ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error)
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}
