// Package notification formats and records booking messages. Delivery is an
// email-log append; a real mail provider can be attached behind the same
// repository without touching callers.
package notification

import (
	"context"
	"fmt"
	"time"

	"roofshare/internal/domain"
)

type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type ListingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type EmailLogRepository interface {
	Append(ctx context.Context, e *domain.EmailLog) error
	CountByBookingAndType(ctx context.Context, bookingID int64, emailType domain.EmailType) (int64, error)
}

type Service struct {
	bookings BookingReader
	listings ListingReader
	users    UserReader
	emails   EmailLogRepository
	loggerf  func(format string, args ...interface{})
	now      func() time.Time
}

func NewService(bookings BookingReader, listings ListingReader, users UserReader, emails EmailLogRepository, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		bookings: bookings,
		listings: listings,
		users:    users,
		emails:   emails,
		loggerf:  loggerf,
		now:      time.Now,
	}
}

// SendBookingConfirmation writes confirmation messages for both parties of
// a paid booking. Re-invocation for the same booking is a no-op, so a
// webhook replay cannot double-send.
func (s *Service) SendBookingConfirmation(ctx context.Context, bookingID int64) error {
	sent, err := s.emails.CountByBookingAndType(ctx, bookingID, domain.EmailBookingConfirmation)
	if err != nil {
		return err
	}
	if sent > 0 {
		s.loggerf("level=info msg=confirmation already sent booking_id=%d", bookingID)
		return nil
	}

	d, renter, landlord, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	renterSubject, renterBody := renterConfirmation(d)
	landlordSubject, landlordBody := landlordConfirmation(d)

	logs := []*domain.EmailLog{
		{
			RecipientEmail: renter.Email,
			EmailType:      domain.EmailBookingConfirmation,
			BookingID:      bookingID,
			Subject:        renterSubject,
			Body:           renterBody,
			Status:         domain.EmailSent,
			SentAt:         &now,
		},
		{
			RecipientEmail: landlord.Email,
			EmailType:      domain.EmailBookingConfirmation,
			BookingID:      bookingID,
			Subject:        landlordSubject,
			Body:           landlordBody,
			Status:         domain.EmailSent,
			SentAt:         &now,
		},
	}
	for _, l := range logs {
		if err := s.emails.Append(ctx, l); err != nil {
			return fmt.Errorf("log confirmation email: %w", err)
		}
	}

	s.loggerf("level=info msg=booking confirmation sent booking_id=%d", bookingID)
	return nil
}

// ScheduleReviewReminder records a reminder to be delivered after the
// rental ends.
func (s *Service) ScheduleReviewReminder(ctx context.Context, bookingID int64, rentalEnd time.Time) error {
	scheduled, err := s.emails.CountByBookingAndType(ctx, bookingID, domain.EmailReviewReminder)
	if err != nil {
		return err
	}
	if scheduled > 0 {
		return nil
	}

	d, renter, _, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}

	subject, body := reviewReminder(d.RenterName, d.ListingTitle, bookingID)
	return s.emails.Append(ctx, &domain.EmailLog{
		RecipientEmail: renter.Email,
		EmailType:      domain.EmailReviewReminder,
		BookingID:      bookingID,
		Subject:        subject,
		Body:           body,
		Status:         domain.EmailScheduled,
	})
}

func (s *Service) load(ctx context.Context, bookingID int64) (confirmationData, *domain.User, *domain.User, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return confirmationData{}, nil, nil, fmt.Errorf("load booking for notification: %w", err)
	}
	renter, err := s.users.GetByID(ctx, b.RenterID)
	if err != nil {
		return confirmationData{}, nil, nil, fmt.Errorf("load renter for notification: %w", err)
	}
	landlord, err := s.users.GetByID(ctx, b.LandlordID)
	if err != nil {
		return confirmationData{}, nil, nil, fmt.Errorf("load landlord for notification: %w", err)
	}

	d := confirmationData{
		RenterName:    renter.FullName(),
		LandlordName:  landlord.FullName(),
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		TotalDays:     b.TotalDays,
		TotalAmount:   b.TotalAmount,
		BookingID:     b.ID,
		RenterEmail:   renter.Email,
		RenterPhone:   renter.Phone,
		LandlordEmail: landlord.Email,
		LandlordPhone: landlord.Phone,
	}
	if l, err := s.listings.GetByID(ctx, b.ListingID); err == nil {
		d.ListingTitle = l.Brand + " " + l.Model
		d.PickupCity = l.PickupCity + ", " + l.PickupPostalCode
	}
	return d, renter, landlord, nil
}
