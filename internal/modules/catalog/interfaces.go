package catalog

import (
	"context"

	"roofshare/internal/domain"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Listing, error)
	Search(ctx context.Context, filters domain.SearchFilters, limit, offset int) ([]domain.Listing, error)
}

type ReviewRepository interface {
	ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error)
}
