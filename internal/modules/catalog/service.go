package catalog

import (
	"context"
	"errors"
	"fmt"

	"roofshare/internal/domain"
	pkgvalidator "roofshare/internal/pkg/validator"
	"roofshare/internal/repository"
)

type Service struct {
	listings ListingRepository
	reviews  ReviewRepository
}

func NewService(listings ListingRepository, reviews ReviewRepository) *Service {
	return &Service{listings: listings, reviews: reviews}
}

// CreateListing validates the form and stores a new roof box owned by
// userID. The daily price must sit inside the platform band.
func (s *Service) CreateListing(ctx context.Context, userID int64, req CreateListingRequest) (*domain.Listing, error) {
	mounting := domain.MountingType(req.MountingType)
	if !mounting.Valid() {
		return nil, fmt.Errorf("%w: unknown mounting type %q", ErrValidation, req.MountingType)
	}
	condition := domain.ListingCondition(req.Condition)
	if !condition.Valid() {
		return nil, fmt.Errorf("%w: unknown condition %q", ErrValidation, req.Condition)
	}

	priceCents := req.PricePerDay * 100
	if priceCents < domain.MinPricePerDay || priceCents > domain.MaxPricePerDay {
		return nil, fmt.Errorf("%w: %d-%d cents per day", ErrPriceOutOfBand,
			domain.MinPricePerDay, domain.MaxPricePerDay)
	}
	if req.RoofRackPrice < 0 {
		return nil, fmt.Errorf("%w: roof rack price must not be negative", ErrValidation)
	}

	listing := &domain.Listing{
		UserID:           userID,
		Brand:            req.Brand,
		Model:            req.Model,
		Volume:           req.Volume,
		Length:           req.Length,
		Width:            req.Width,
		Height:           req.Height,
		MountingType:     mounting,
		Condition:        condition,
		Description:      req.Description,
		PickupCity:       req.PickupCity,
		PickupPostalCode: req.PickupPostalCode,
		PickupAddress:    req.PickupAddress,
		PricePerDay:      priceCents,
		IncludesRoofRack: req.IncludesRoofRack,
		RoofRackPrice:    req.RoofRackPrice * 100,
		HasLock:          req.HasLock,
		Extras:           req.Extras,
		Images:           req.Images,
		IsAvailable:      true,
	}
	if errs := pkgvalidator.Validate(listing); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, errs)
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return listing, nil
}

// UpdateListing applies the non-nil fields of req to a listing the caller
// owns. Enum and price-band rules apply to the resulting state.
func (s *Service) UpdateListing(ctx context.Context, userID, listingID int64, req UpdateListingRequest) (*domain.Listing, error) {
	listing, err := s.ownedListing(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}

	if req.Brand != nil {
		listing.Brand = *req.Brand
	}
	if req.Model != nil {
		listing.Model = *req.Model
	}
	if req.Volume != nil {
		listing.Volume = *req.Volume
	}
	if req.Length != nil {
		listing.Length = *req.Length
	}
	if req.Width != nil {
		listing.Width = *req.Width
	}
	if req.Height != nil {
		listing.Height = *req.Height
	}
	if req.MountingType != nil {
		mounting := domain.MountingType(*req.MountingType)
		if !mounting.Valid() {
			return nil, fmt.Errorf("%w: unknown mounting type %q", ErrValidation, *req.MountingType)
		}
		listing.MountingType = mounting
	}
	if req.Condition != nil {
		condition := domain.ListingCondition(*req.Condition)
		if !condition.Valid() {
			return nil, fmt.Errorf("%w: unknown condition %q", ErrValidation, *req.Condition)
		}
		listing.Condition = condition
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.PickupCity != nil {
		listing.PickupCity = *req.PickupCity
	}
	if req.PickupPostalCode != nil {
		listing.PickupPostalCode = *req.PickupPostalCode
	}
	if req.PickupAddress != nil {
		listing.PickupAddress = *req.PickupAddress
	}
	if req.PricePerDay != nil {
		priceCents := *req.PricePerDay * 100
		if priceCents < domain.MinPricePerDay || priceCents > domain.MaxPricePerDay {
			return nil, fmt.Errorf("%w: %d-%d cents per day", ErrPriceOutOfBand,
				domain.MinPricePerDay, domain.MaxPricePerDay)
		}
		listing.PricePerDay = priceCents
	}
	if req.IncludesRoofRack != nil {
		listing.IncludesRoofRack = *req.IncludesRoofRack
	}
	if req.RoofRackPrice != nil {
		if *req.RoofRackPrice < 0 {
			return nil, fmt.Errorf("%w: roof rack price must not be negative", ErrValidation)
		}
		listing.RoofRackPrice = *req.RoofRackPrice * 100
	}
	if req.HasLock != nil {
		listing.HasLock = *req.HasLock
	}
	if req.Extras != nil {
		listing.Extras = *req.Extras
	}
	if req.Images != nil {
		listing.Images = *req.Images
	}
	if req.IsAvailable != nil {
		listing.IsAvailable = *req.IsAvailable
	}

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return listing, nil
}

func (s *Service) DeleteListing(ctx context.Context, userID, listingID int64) error {
	if _, err := s.ownedListing(ctx, userID, listingID); err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, listingID); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return nil
}

// GetListing returns a listing together with its reviews; the owner's
// contact data is not included here.
func (s *Service) GetListing(ctx context.Context, listingID int64) (*domain.Listing, []domain.Review, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("load listing: %w", err)
	}
	reviews, err := s.reviews.ListByListing(ctx, listingID)
	if err != nil {
		return nil, nil, fmt.Errorf("load reviews: %w", err)
	}
	return listing, reviews, nil
}

func (s *Service) SearchListings(ctx context.Context, filters domain.SearchFilters, limit, offset int) ([]domain.Listing, error) {
	listings, err := s.listings.Search(ctx, filters, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return listings, nil
}

func (s *Service) MyListings(ctx context.Context, userID int64) ([]domain.Listing, error) {
	listings, err := s.listings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

func (s *Service) ownedListing(ctx context.Context, userID, listingID int64) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load listing: %w", err)
	}
	if listing.UserID != userID {
		return nil, ErrForbidden
	}
	return listing, nil
}
