package repository

import (
	"context"
	"errors"
	"time"

	"roofshare/internal/domain"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID                  int64     `gorm:"column:id;primaryKey"`
	Email               string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash        string    `gorm:"column:password_hash;not null"`
	FirstName           string    `gorm:"column:first_name"`
	LastName            string    `gorm:"column:last_name"`
	Phone               *string   `gorm:"column:phone"`
	City                *string   `gorm:"column:city"`
	PostalCode          *string   `gorm:"column:postal_code"`
	StripeCustomerID    *string   `gorm:"column:stripe_customer_id"`
	StripeAccountID     *string   `gorm:"column:stripe_account_id;index"`
	OnboardingCompleted bool      `gorm:"column:onboarding_completed;default:false"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:                  m.ID,
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		Phone:               deref(m.Phone),
		City:                deref(m.City),
		PostalCode:          deref(m.PostalCode),
		StripeCustomerID:    deref(m.StripeCustomerID),
		StripeAccountID:     deref(m.StripeAccountID),
		OnboardingCompleted: m.OnboardingCompleted,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:                  u.ID,
		Email:               u.Email,
		PasswordHash:        u.PasswordHash,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Phone:               optional(u.Phone),
		City:                optional(u.City),
		PostalCode:          optional(u.PostalCode),
		StripeCustomerID:    optional(u.StripeCustomerID),
		StripeAccountID:     optional(u.StripeAccountID),
		OnboardingCompleted: u.OnboardingCompleted,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, mapGormError(tx.Error)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).Where("email = ?", email).First(&m)
	if tx.Error != nil {
		return nil, mapGormError(tx.Error)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByStripeAccountID(ctx context.Context, accountID string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).Where("stripe_account_id = ?", accountID).First(&m)
	if tx.Error != nil {
		return nil, mapGormError(tx.Error)
	}
	return toDomainUser(m), nil
}

// SetStripeCustomerID persists a lazily created processor customer id.
func (r *UserRepository) SetStripeCustomerID(ctx context.Context, userID int64, customerID string) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Update("stripe_customer_id", customerID).Error
}

func (r *UserRepository) SetStripeAccountID(ctx context.Context, userID int64, accountID string) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Update("stripe_account_id", accountID).Error
}

// MarkOnboardingCompleted flips the payout flag for the user owning the
// connected account. Keyed by account id and guarded so reprocessing the
// same event is a no-op; returns whether a row actually changed.
func (r *UserRepository) MarkOnboardingCompleted(ctx context.Context, accountID string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("stripe_account_id = ? AND onboarding_completed = ?", accountID, false).
		Update("onboarding_completed", true)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func mapGormError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
