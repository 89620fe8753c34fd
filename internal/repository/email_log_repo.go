package repository

import (
	"context"
	"time"

	"roofshare/internal/domain"

	"gorm.io/gorm"
)

type EmailLogRepository struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

type emailLogModel struct {
	ID             int64      `gorm:"column:id;primaryKey"`
	RecipientEmail string     `gorm:"column:recipient_email;not null"`
	EmailType      string     `gorm:"column:email_type;index"`
	BookingID      int64      `gorm:"column:booking_id;index"`
	Subject        string     `gorm:"column:subject"`
	Body           string     `gorm:"column:body;type:text"`
	Status         string     `gorm:"column:status"`
	SentAt         *time.Time `gorm:"column:sent_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
}

func (emailLogModel) TableName() string { return "email_logs" }

// Append writes one audit row. The table is append-only; nothing updates or
// deletes rows here.
func (r *EmailLogRepository) Append(ctx context.Context, e *domain.EmailLog) error {
	m := emailLogModel{
		RecipientEmail: e.RecipientEmail,
		EmailType:      string(e.EmailType),
		BookingID:      e.BookingID,
		Subject:        e.Subject,
		Body:           e.Body,
		Status:         string(e.Status),
		SentAt:         e.SentAt,
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	e.ID = m.ID
	e.CreatedAt = m.CreatedAt
	return nil
}

func (r *EmailLogRepository) CountByBookingAndType(ctx context.Context, bookingID int64, emailType domain.EmailType) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&emailLogModel{}).
		Where("booking_id = ? AND email_type = ?", bookingID, string(emailType)).
		Count(&cnt)
	return cnt, tx.Error
}
