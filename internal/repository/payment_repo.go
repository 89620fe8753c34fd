package repository

import (
	"context"
	"time"

	"roofshare/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	BookingID       int64     `gorm:"column:booking_id;index;not null"`
	PaymentIntentID string    `gorm:"column:payment_intent_id;uniqueIndex;not null"`
	ChargeID        *string   `gorm:"column:charge_id"`
	Amount          int64     `gorm:"column:amount;not null"`
	Currency        string    `gorm:"column:currency;type:varchar(8)"`
	Status          string    `gorm:"column:status;index"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string { return "payments" }

func toDomainPayment(m paymentModel) *domain.Payment {
	return &domain.Payment{
		ID:              m.ID,
		BookingID:       m.BookingID,
		PaymentIntentID: m.PaymentIntentID,
		ChargeID:        deref(m.ChargeID),
		Amount:          m.Amount,
		Currency:        m.Currency,
		Status:          domain.PaymentRecordStatus(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	m := paymentModel{
		BookingID:       p.BookingID,
		PaymentIntentID: p.PaymentIntentID,
		ChargeID:        optional(p.ChargeID),
		Amount:          p.Amount,
		Currency:        p.Currency,
		Status:          string(p.Status),
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPayment(m)
	return nil
}

func (r *PaymentRepository) GetByPaymentIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	var m paymentModel
	tx := r.db.WithContext(ctx).Where("payment_intent_id = ?", intentID).First(&m)
	if tx.Error != nil {
		return nil, mapGormError(tx.Error)
	}
	return toDomainPayment(m), nil
}

// UpdateStatusByIntentID moves the canonical payment row to a new status,
// stamping the charge id when the processor reported one. Keyed by intent id
// and safe to apply more than once with the same arguments.
func (r *PaymentRepository) UpdateStatusByIntentID(ctx context.Context, intentID string, status domain.PaymentRecordStatus, chargeID string) error {
	updates := map[string]any{"status": string(status)}
	if chargeID != "" {
		updates["charge_id"] = chargeID
	}
	return r.db.WithContext(ctx).Model(&paymentModel{}).
		Where("payment_intent_id = ?", intentID).
		Updates(updates).Error
}
