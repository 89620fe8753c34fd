package repository

import (
	"context"
	"time"

	"roofshare/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	BookingID  int64     `gorm:"column:booking_id;index;not null"`
	ListingID  int64     `gorm:"column:listing_id;index;not null"`
	ReviewerID int64     `gorm:"column:reviewer_id;not null"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    string    `gorm:"column:comment;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	return &domain.Review{
		ID:         m.ID,
		BookingID:  m.BookingID,
		ListingID:  m.ListingID,
		ReviewerID: m.ReviewerID,
		Rating:     m.Rating,
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := reviewModel{
		BookingID:  rv.BookingID,
		ListingID:  rv.ListingID,
		ReviewerID: rv.ReviewerID,
		Rating:     rv.Rating,
		Comment:    rv.Comment,
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID, reviewerID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&reviewModel{}).
		Where("booking_id = ? AND reviewer_id = ?", bookingID, reviewerID).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error) {
	var ms []reviewModel
	tx := r.db.WithContext(ctx).Where("listing_id = ?", listingID).
		Order("created_at DESC").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Review, 0, len(ms))
	for _, m := range ms {
		rv := *toDomainReview(m)
		var um userModel
		if err := r.db.WithContext(ctx).First(&um, m.ReviewerID).Error; err == nil {
			rv.Reviewer = toDomainUser(um)
		}
		out = append(out, rv)
	}
	return out, nil
}
