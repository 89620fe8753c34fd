package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"roofshare/internal/domain"
	"roofshare/internal/pkg/fee"
	"roofshare/internal/repository"
	"roofshare/internal/stripe"

	"github.com/jackc/pgx/v5/pgconn"
)

const bookingCurrency = "eur"

type Service struct {
	bookings  BookingRepository
	listings  ListingRepository
	users     UserRepository
	payments  PaymentRepository
	processor ProcessorGateway
	loggerf   func(format string, args ...interface{})
	now       func() time.Time
}

func NewService(
	bookings BookingRepository,
	listings ListingRepository,
	users UserRepository,
	payments PaymentRepository,
	processor ProcessorGateway,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		bookings:  bookings,
		listings:  listings,
		users:     users,
		payments:  payments,
		processor: processor,
		loggerf:   loggerf,
		now:       time.Now,
	}
}

// CreateBooking runs the payment orchestration: validate the request, check
// the landlord can be paid, ensure the renter has a processor customer,
// write the booking, open a payment intent against the landlord's connected
// account and mirror it into a payment row. If the processor call fails the
// booking row stays pending/pending for operator reconciliation; the
// external call cannot be revoked once attempted.
func (s *Service) CreateBooking(ctx context.Context, renterID int64, req CreateBookingRequest) (*CreateBookingResponse, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrValidation
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrValidation
	}
	if err := ValidateDateRange(start, end, s.now()); err != nil {
		return nil, err
	}
	totalDays := TotalDays(start, end)
	if req.TotalDays != totalDays {
		// The client's preview and this computation must never disagree.
		return nil, ErrValidation
	}

	listing, landlord, err := s.listings.GetByIDWithOwner(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.PricePerDay*100 != listing.PricePerDay {
		return nil, ErrValidation
	}

	// Checked before touching the processor: it would reject the transfer to
	// an unonboarded account anyway, but this way the renter gets a clear
	// error instead of an opaque processor failure.
	if !landlord.Payable() {
		return nil, ErrLandlordNotPayable
	}

	if !listing.IsAvailable {
		return nil, ErrNotAvailable
	}
	overlap, err := s.bookings.HasOverlap(ctx, listing.ID, start, end)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, ErrNotAvailable
	}

	renter, err := s.users.GetByID(ctx, renterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if renter.StripeCustomerID == "" {
		customer, err := s.processor.CreateCustomer(ctx, renter.Email, renter.FullName(), renter.Phone)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProcessor, err)
		}
		if err := s.users.SetStripeCustomerID(ctx, renter.ID, customer.ID); err != nil {
			return nil, err
		}
		renter.StripeCustomerID = customer.ID
	}

	totalAmount := int64(totalDays) * listing.PricePerDay
	platformFee, earnings := fee.Split(totalAmount)

	b := &domain.Booking{
		ListingID:        listing.ID,
		RenterID:         renter.ID,
		LandlordID:       landlord.ID,
		StartDate:        startOfDay(start),
		EndDate:          startOfDay(end),
		TotalDays:        totalDays,
		PricePerDay:      listing.PricePerDay,
		TotalAmount:      totalAmount,
		PlatformFee:      platformFee,
		LandlordEarnings: earnings,
		Status:           domain.BookingPending,
		PaymentStatus:    domain.PaymentPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "23P01" || pgErr.Code == "23505") {
			return nil, ErrNotAvailable
		}
		return nil, err
	}

	intent, err := s.processor.CreatePaymentIntent(ctx, stripe.PaymentIntentParams{
		Amount:             totalAmount,
		Currency:           bookingCurrency,
		ConnectedAccountID: landlord.StripeAccountID,
		ApplicationFee:     platformFee,
		Metadata: map[string]string{
			"booking_id":    strconv.FormatInt(b.ID, 10),
			"listing_id":    strconv.FormatInt(listing.ID, 10),
			"renter_id":     strconv.FormatInt(renter.ID, 10),
			"landlord_id":   strconv.FormatInt(landlord.ID, 10),
			"rental_period": req.StartDate + " to " + req.EndDate,
		},
	})
	if err != nil {
		// Fail forward: the pending/pending row stays for reconciliation.
		s.loggerf("level=error msg=payment intent creation failed booking_id=%d err=%v", b.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrProcessor, err)
	}

	if err := s.bookings.AttachPaymentIntent(ctx, b.ID, intent.ID); err != nil {
		return nil, err
	}
	if err := s.payments.Create(ctx, &domain.Payment{
		BookingID:       b.ID,
		PaymentIntentID: intent.ID,
		Amount:          totalAmount,
		Currency:        bookingCurrency,
		Status:          domain.PaymentRecordPending,
	}); err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=booking created booking_id=%d payment_intent_id=%s total_amount=%d fee=%d", b.ID, intent.ID, totalAmount, platformFee)

	return &CreateBookingResponse{
		ClientSecret:     intent.ClientSecret,
		PaymentIntentID:  intent.ID,
		BookingID:        b.ID,
		TotalAmount:      totalAmount,
		PlatformFee:      platformFee,
		LandlordEarnings: earnings,
	}, nil
}

func (s *Service) GetMyBookings(ctx context.Context, renterID int64, limit, offset int) ([]BookingDetails, error) {
	rows, err := s.bookings.ListByRenter(ctx, renterID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, rows, true)
}

func (s *Service) GetIncomingBookings(ctx context.Context, landlordID int64, limit, offset int) ([]BookingDetails, error) {
	rows, err := s.bookings.ListByLandlord(ctx, landlordID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, rows, false)
}

// details enriches booking rows with listing info and, once contact sharing
// was unlocked by a succeeded payment, the counterpart's contact details.
func (s *Service) details(ctx context.Context, rows []domain.Booking, forRenter bool) ([]BookingDetails, error) {
	out := make([]BookingDetails, 0, len(rows))
	for _, b := range rows {
		d := BookingDetails{
			ID:               b.ID,
			Status:           b.Status,
			PaymentStatus:    b.PaymentStatus,
			StartDate:        b.StartDate,
			EndDate:          b.EndDate,
			TotalDays:        b.TotalDays,
			TotalAmount:      b.TotalAmount,
			PlatformFee:      b.PlatformFee,
			LandlordEarnings: b.LandlordEarnings,
			ListingID:        b.ListingID,
		}
		if l, err := s.listings.GetByID(ctx, b.ListingID); err == nil {
			d.ListingTitle = l.Brand + " " + l.Model
			d.PickupCity = l.PickupCity
		}
		if b.ContactSharedAt != nil {
			counterpartID := b.LandlordID
			if !forRenter {
				counterpartID = b.RenterID
			}
			if u, err := s.users.GetByID(ctx, counterpartID); err == nil {
				d.Contact = &ContactDetails{Name: u.FullName(), Email: u.Email, Phone: u.Phone}
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}
