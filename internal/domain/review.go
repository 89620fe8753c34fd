package domain

import "time"

const MinReviewCommentLength = 10

// Review is written by the renter of a completed booking, one per booking
// per reviewer.
type Review struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id" validate:"required"`
	ListingID  int64     `json:"listing_id" validate:"required"`
	ReviewerID int64     `json:"reviewer_id" validate:"required"`
	Rating     int       `json:"rating" validate:"gte=1,lte=5"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`

	Reviewer *User `json:"reviewer,omitempty"`
}
