package review

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"roofshare/internal/domain"
	"roofshare/internal/repository"
)

type Service struct {
	reviews  ReviewRepository
	bookings BookingRepository

	now func() time.Time
}

func NewService(reviews ReviewRepository, bookings BookingRepository) *Service {
	return &Service{reviews: reviews, bookings: bookings, now: time.Now}
}

// CreateReview stores one review per booking, written by its renter after
// the rental period is over.
func (s *Service) CreateReview(ctx context.Context, reviewerID int64, req CreateReviewRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if utf8.RuneCountInString(req.Comment) < domain.MinReviewCommentLength {
		return nil, fmt.Errorf("%w: comment must be at least %d characters",
			ErrValidation, domain.MinReviewCommentLength)
	}

	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if booking.RenterID != reviewerID {
		return nil, ErrNotRenter
	}
	if !reviewable(booking, s.now()) {
		return nil, ErrNotReviewable
	}

	exists, err := s.reviews.ExistsForBooking(ctx, booking.ID, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	review := &domain.Review{
		BookingID:  booking.ID,
		ListingID:  booking.ListingID,
		ReviewerID: reviewerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (s *Service) ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// A booking can be reviewed once it is completed, or once a confirmed
// rental's end date has passed.
func reviewable(b *domain.Booking, now time.Time) bool {
	if b.Status == domain.BookingCompleted {
		return true
	}
	return b.Status == domain.BookingConfirmed && b.EndDate.Before(now)
}
