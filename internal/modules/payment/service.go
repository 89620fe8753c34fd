package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"roofshare/internal/domain"
	"roofshare/internal/repository"
	"roofshare/internal/stripe"
)

const connectCountry = "DE"

type Service struct {
	bookings  BookingRepository
	payments  PaymentRepository
	users     UserRepository
	notifier  Notifier
	processor ProcessorGateway
	loggerf   func(format string, args ...interface{})

	webhookSecret string
	appBaseURL    string
	now           func() time.Time
}

func NewService(
	bookings BookingRepository,
	payments PaymentRepository,
	users UserRepository,
	notifier Notifier,
	processor ProcessorGateway,
	webhookSecret string,
	appBaseURL string,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		bookings:      bookings,
		payments:      payments,
		users:         users,
		notifier:      notifier,
		processor:     processor,
		loggerf:       loggerf,
		webhookSecret: webhookSecret,
		appBaseURL:    appBaseURL,
		now:           time.Now,
	}
}

// HandleWebhook verifies and applies one processor event. Signature
// verification happens before any row is read or written; an unverifiable
// payload never touches state. Events arrive at least once, possibly out of
// order, so every transition below is a keyed, guarded update that is safe
// to reapply.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	ev, err := stripe.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		s.loggerf("level=error msg=webhook signature verification failed err=%v", err)
		return err
	}

	switch ev.Type {
	case stripe.EventPaymentSucceeded:
		return s.handlePaymentSucceeded(ctx, ev)
	case stripe.EventPaymentFailed:
		return s.handlePaymentFailed(ctx, ev)
	case stripe.EventAccountUpdated:
		return s.handleAccountUpdated(ctx, ev)
	default:
		s.loggerf("level=info msg=unhandled webhook event type=%s id=%s", ev.Type, ev.ID)
		return nil
	}
}

func (s *Service) handlePaymentSucceeded(ctx context.Context, ev *stripe.Event) error {
	pi, err := ev.PaymentIntent()
	if err != nil {
		return err
	}
	bookingID, ok := bookingIDFromMetadata(pi)
	if !ok {
		// A missing booking id is a bug in whoever created the intent, not a
		// retryable condition; acknowledge so the processor stops redelivering.
		s.loggerf("level=error msg=no booking_id in payment intent metadata payment_intent_id=%s", pi.ID)
		return nil
	}

	changed, err := s.bookings.MarkPaymentSucceeded(ctx, bookingID, pi.LatestCharge, s.now().UTC())
	if err != nil {
		return fmt.Errorf("mark payment succeeded: %w", err)
	}
	if !changed {
		s.logUnchanged(ctx, bookingID, domain.PaymentSucceeded, ev.ID)
		return nil
	}
	// The payment row mirrors the booking; it only moves when the booking
	// moved, so a late success after an applied failure cannot diverge them.
	if err := s.payments.UpdateStatusByIntentID(ctx, pi.ID, domain.PaymentRecordSucceeded, pi.LatestCharge); err != nil {
		return fmt.Errorf("update payment record: %w", err)
	}

	// Best effort: the payment transition must not be undone by a
	// notification failure, and the processor still gets its ack. The
	// changed guard above keeps duplicate deliveries from re-sending.
	if s.notifier != nil {
		if err := s.notifier.SendBookingConfirmation(ctx, bookingID); err != nil {
			s.loggerf("level=error msg=confirmation notification failed booking_id=%d err=%v", bookingID, err)
		}
		if b, err := s.bookings.GetByID(ctx, bookingID); err == nil {
			if err := s.notifier.ScheduleReviewReminder(ctx, bookingID, b.EndDate); err != nil {
				s.loggerf("level=error msg=review reminder scheduling failed booking_id=%d err=%v", bookingID, err)
			}
		}
	}

	s.loggerf("level=info msg=payment succeeded booking_id=%d payment_intent_id=%s", bookingID, pi.ID)
	return nil
}

func (s *Service) handlePaymentFailed(ctx context.Context, ev *stripe.Event) error {
	pi, err := ev.PaymentIntent()
	if err != nil {
		return err
	}
	bookingID, ok := bookingIDFromMetadata(pi)
	if !ok {
		s.loggerf("level=error msg=no booking_id in payment intent metadata payment_intent_id=%s", pi.ID)
		return nil
	}

	changed, err := s.bookings.MarkPaymentFailed(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("mark payment failed: %w", err)
	}
	if changed {
		if err := s.payments.UpdateStatusByIntentID(ctx, pi.ID, domain.PaymentRecordFailed, ""); err != nil {
			return fmt.Errorf("update payment record: %w", err)
		}
		s.loggerf("level=info msg=payment failed booking_id=%d payment_intent_id=%s", bookingID, pi.ID)
		return nil
	}

	s.logUnchanged(ctx, bookingID, domain.PaymentFailed, ev.ID)
	return nil
}

// logUnchanged classifies a no-op transition: a replay of the same terminal
// event is routine; the opposite terminal event arriving late is an anomaly
// that must not overwrite the applied state.
func (s *Service) logUnchanged(ctx context.Context, bookingID int64, wanted domain.PaymentStatus, eventID string) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.loggerf("level=error msg=webhook event for unknown booking booking_id=%d event_id=%s", bookingID, eventID)
			return
		}
		s.loggerf("level=error msg=booking lookup after no-op transition failed booking_id=%d err=%v", bookingID, err)
		return
	}
	if b.PaymentStatus.Terminal() && b.PaymentStatus != wanted {
		s.loggerf("level=error msg=reconciliation anomaly: conflicting terminal event booking_id=%d applied=%s event=%s event_id=%s",
			bookingID, b.PaymentStatus, wanted, eventID)
		return
	}
	s.loggerf("level=info msg=duplicate webhook delivery ignored booking_id=%d status=%s event_id=%s", bookingID, b.PaymentStatus, eventID)
}

func (s *Service) handleAccountUpdated(ctx context.Context, ev *stripe.Event) error {
	acct, err := ev.Account()
	if err != nil {
		return err
	}
	if !acct.ChargesEnabled || !acct.PayoutsEnabled {
		return nil
	}

	changed, err := s.users.MarkOnboardingCompleted(ctx, acct.ID)
	if err != nil {
		return fmt.Errorf("mark onboarding completed: %w", err)
	}
	if changed {
		s.loggerf("level=info msg=connected account onboarding completed account_id=%s", acct.ID)
	}
	return nil
}

func bookingIDFromMetadata(pi *stripe.PaymentIntent) (int64, bool) {
	raw, ok := pi.Metadata["booking_id"]
	if !ok || raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// CreateConnectAccount ensures the user has an express connected account
// and returns a fresh onboarding link. Account creation is idempotent: an
// existing account id is reused, never recreated.
func (s *Service) CreateConnectAccount(ctx context.Context, userID int64) (*ConnectAccountResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	accountID := u.StripeAccountID
	if accountID == "" {
		acct, err := s.processor.CreateAccount(ctx, u.Email, connectCountry)
		if err != nil {
			return nil, err
		}
		if err := s.users.SetStripeAccountID(ctx, u.ID, acct.ID); err != nil {
			return nil, err
		}
		accountID = acct.ID
	}

	link, err := s.processor.CreateAccountLink(ctx, accountID,
		s.appBaseURL+"/dashboard/connect?refresh=true",
		s.appBaseURL+"/dashboard/connect/success",
	)
	if err != nil {
		return nil, err
	}
	return &ConnectAccountResponse{AccountID: accountID, OnboardingURL: link.URL}, nil
}

// ConnectStatus merges the stored onboarding flag with the live account
// capabilities. The stored flag only ever flips through the account-updated
// webhook; this endpoint reports, it does not mutate.
func (s *Service) ConnectStatus(ctx context.Context, userID int64) (*ConnectStatusResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.StripeAccountID == "" {
		return &ConnectStatusResponse{HasAccount: false}, nil
	}

	res := &ConnectStatusResponse{
		HasAccount:          true,
		AccountID:           u.StripeAccountID,
		OnboardingCompleted: u.OnboardingCompleted,
	}
	acct, err := s.processor.GetAccount(ctx, u.StripeAccountID)
	if err != nil {
		s.loggerf("level=error msg=live account status lookup failed account_id=%s err=%v", u.StripeAccountID, err)
		return res, nil
	}
	res.ChargesEnabled = acct.ChargesEnabled
	res.PayoutsEnabled = acct.PayoutsEnabled
	return res, nil
}

// VerifyPayment reports the reconciled state for a payment intent the
// caller participated in. The payment row is the canonical record; the
// booking carries the user-facing lifecycle.
func (s *Service) VerifyPayment(ctx context.Context, userID int64, paymentIntentID string) (*VerifyPaymentResponse, error) {
	p, err := s.payments.GetByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}
	b, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != userID && b.LandlordID != userID {
		return nil, ErrForbidden
	}

	res := &VerifyPaymentResponse{
		BookingID:       b.ID,
		BookingStatus:   b.Status,
		PaymentStatus:   b.PaymentStatus,
		PaymentIntentID: p.PaymentIntentID,
		RecordStatus:    p.Status,
	}
	if pi, err := s.processor.GetPaymentIntent(ctx, paymentIntentID); err == nil {
		res.ProcessorStatus = pi.Status
	}
	return res, nil
}
