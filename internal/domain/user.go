package domain

import "time"

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email" validate:"required,email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Phone        string `json:"phone,omitempty"`
	City         string `json:"city,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`

	// Payment processor identities. CustomerID is created lazily on the
	// renter's first booking; AccountID and OnboardingCompleted gate whether
	// the user's listings can accept bookings.
	StripeCustomerID    string `json:"-"`
	StripeAccountID     string `json:"-"`
	OnboardingCompleted bool   `json:"onboarding_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Payable reports whether the user can receive payouts for bookings.
func (u *User) Payable() bool {
	return u.StripeAccountID != "" && u.OnboardingCompleted
}
