package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"roofshare/internal/domain"
	"roofshare/internal/repository"
	"roofshare/internal/stripe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock repositories

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) HasOverlap(ctx context.Context, listingID int64, start, end time.Time) (bool, error) {
	args := m.Called(ctx, listingID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) AttachPaymentIntent(ctx context.Context, bookingID int64, intentID string) error {
	args := m.Called(ctx, bookingID, intentID)
	return args.Error(0)
}

func (m *MockBookingRepository) ListByRenter(ctx context.Context, renterID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, renterID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByLandlord(ctx context.Context, landlordID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, landlordID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingRepository) GetByIDWithOwner(ctx context.Context, id int64) (*domain.Listing, *domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Listing), args.Get(1).(*domain.User), args.Error(2)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SetStripeCustomerID(ctx context.Context, userID int64, customerID string) error {
	args := m.Called(ctx, userID, customerID)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) CreateCustomer(ctx context.Context, email, name, phone string) (*stripe.Customer, error) {
	args := m.Called(ctx, email, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Customer), args.Error(1)
}

func (m *MockProcessor) CreatePaymentIntent(ctx context.Context, p stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.PaymentIntent), args.Error(1)
}

func testListing() *domain.Listing {
	return &domain.Listing{
		ID:          10,
		UserID:      2,
		Brand:       "Thule",
		Model:       "Motion XT XL",
		PricePerDay: 1500,
		IsAvailable: true,
	}
}

func testLandlord() *domain.User {
	return &domain.User{
		ID:                  2,
		Email:               "landlord@example.com",
		FirstName:           "Lena",
		LastName:            "Vermieter",
		StripeAccountID:     "acct_123",
		OnboardingCompleted: true,
	}
}

func testRenter() *domain.User {
	return &domain.User{
		ID:               1,
		Email:            "renter@example.com",
		FirstName:        "Max",
		LastName:         "Mieter",
		StripeCustomerID: "cus_123",
	}
}

func newTestService(
	bookings *MockBookingRepository,
	listings *MockListingRepository,
	users *MockUserRepository,
	payments *MockPaymentRepository,
	processor *MockProcessor,
) *Service {
	return NewService(bookings, listings, users, payments, processor, nil)
}

func TestService_CreateBooking_Success(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockListings := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	mockPayments := new(MockPaymentRepository)
	mockProcessor := new(MockProcessor)

	mockListings.On("GetByIDWithOwner", mock.Anything, int64(10)).Return(testListing(), testLandlord(), nil)
	mockUsers.On("GetByID", mock.Anything, int64(1)).Return(testRenter(), nil)
	mockBookings.On("HasOverlap", mock.Anything, int64(10), mock.Anything, mock.Anything).Return(false, nil)
	mockBookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockBookings.On("AttachPaymentIntent", mock.Anything, int64(999), "pi_abc").Return(nil)
	mockPayments.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockProcessor.On("CreatePaymentIntent", mock.Anything, mock.MatchedBy(func(p stripe.PaymentIntentParams) bool {
		return p.Amount == 7500 &&
			p.ApplicationFee == 750 &&
			p.ConnectedAccountID == "acct_123" &&
			p.Metadata["booking_id"] == "999" &&
			p.Metadata["rental_period"] == "2027-07-01 to 2027-07-06"
	})).Return(&stripe.PaymentIntent{ID: "pi_abc", ClientSecret: "pi_abc_secret"}, nil)

	service := newTestService(mockBookings, mockListings, mockUsers, mockPayments, mockProcessor)

	res, err := service.CreateBooking(context.Background(), 1, CreateBookingRequest{
		ListingID:   10,
		StartDate:   "2027-07-01",
		EndDate:     "2027-07-06",
		TotalDays:   5,
		PricePerDay: 15,
	})

	assert.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, int64(999), res.BookingID)
	assert.Equal(t, "pi_abc_secret", res.ClientSecret)
	assert.Equal(t, int64(7500), res.TotalAmount)
	assert.Equal(t, int64(750), res.PlatformFee)
	assert.Equal(t, int64(6750), res.LandlordEarnings)
	mockBookings.AssertExpectations(t)
	mockPayments.AssertExpectations(t)

	// The booking row the processor sees is created pending/pending; the
	// status bump to processing happens via AttachPaymentIntent.
	created := mockBookings.Calls[1].Arguments.Get(1).(*domain.Booking)
	assert.Equal(t, domain.BookingPending, created.Status)
	assert.Equal(t, domain.PaymentPending, created.PaymentStatus)
	assert.Equal(t, int64(2), created.LandlordID)
}

func TestService_CreateBooking_LandlordNotPayable(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockListings := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	mockPayments := new(MockPaymentRepository)
	mockProcessor := new(MockProcessor)

	landlord := testLandlord()
	landlord.OnboardingCompleted = false
	mockListings.On("GetByIDWithOwner", mock.Anything, int64(10)).Return(testListing(), landlord, nil)

	service := newTestService(mockBookings, mockListings, mockUsers, mockPayments, mockProcessor)

	_, err := service.CreateBooking(context.Background(), 1, CreateBookingRequest{
		ListingID:   10,
		StartDate:   "2027-07-01",
		EndDate:     "2027-07-06",
		TotalDays:   5,
		PricePerDay: 15,
	})

	assert.ErrorIs(t, err, ErrLandlordNotPayable)
	// Rejected before any row or processor call.
	mockBookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockProcessor.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything)
}

func TestService_CreateBooking_ListingNotFound(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockListings := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	mockPayments := new(MockPaymentRepository)
	mockProcessor := new(MockProcessor)

	mockListings.On("GetByIDWithOwner", mock.Anything, int64(77)).Return(nil, nil, repository.ErrNotFound)

	service := newTestService(mockBookings, mockListings, mockUsers, mockPayments, mockProcessor)

	_, err := service.CreateBooking(context.Background(), 1, CreateBookingRequest{
		ListingID:   77,
		StartDate:   "2027-07-01",
		EndDate:     "2027-07-06",
		TotalDays:   5,
		PricePerDay: 15,
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CreateBooking_PriceMismatch(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockListings := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	mockPayments := new(MockPaymentRepository)
	mockProcessor := new(MockProcessor)

	mockListings.On("GetByIDWithOwner", mock.Anything, int64(10)).Return(testListing(), testLandlord(), nil)

	service := newTestService(mockBookings, mockListings, mockUsers, mockPayments, mockProcessor)

	// Listing charges 15/day, client claims 12/day.
	_, err := service.CreateBooking(context.Background(), 1, CreateBookingRequest{
		ListingID:   10,
		StartDate:   "2027-07-01",
		EndDate:     "2027-07-06",
		TotalDays:   5,
		PricePerDay: 12,
	})

	assert.ErrorIs(t, err, ErrValidation)
	mockBookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateBooking_TotalDaysMismatch(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockListings := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	mockPayments := new(MockPaymentRepository)
	mockProcessor := new(MockProcessor)

	service := newTestService(mockBookings, mockListings, mockUsers, mockPayments, mockProcessor)

	_, err := service.CreateBooking(context.Background(), 1, CreateBookingRequest{
		ListingID:   10,
		StartDate:   "2027-07-01",
		EndDate:     "2027-07-06",
		TotalDays:   4,
		PricePerDay: 15,
	})

	assert.ErrorIs(t, err, ErrValidation)
	mockListings.AssertNotCalled(t, "GetByIDWithOwner", mock.Anything, mock.Anything)
}

func TestService_CreateBooking_Overbooking(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockListings := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	mockPayments := new(MockPaymentRepository)
	mockProcessor := new(MockProcessor)

	mockListings.On("GetByIDWithOwner", mock.Anything, int64(10)).Return(testListing(), testLandlord(), nil)
	mockBookings.On("HasOverlap", mock.Anything, int64(10), mock.Anything, mock.Anything).Return(true, nil)

	service := newTestService(mockBookings, mockListings, mockUsers, mockPayments, mockProcessor)

	_, err := service.CreateBooking(context.Background(), 1, CreateBookingRequest{
		ListingID:   10,
		StartDate:   "2027-07-01",
		EndDate:     "2027-07-06",
		TotalDays:   5,
		PricePerDay: 15,
	})

	assert.ErrorIs(t, err, ErrNotAvailable)
	mockBookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateBooking_LazyCustomerCreation(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockListings := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	mockPayments := new(MockPaymentRepository)
	mockProcessor := new(MockProcessor)

	renter := testRenter()
	renter.StripeCustomerID = ""
	mockListings.On("GetByIDWithOwner", mock.Anything, int64(10)).Return(testListing(), testLandlord(), nil)
	mockUsers.On("GetByID", mock.Anything, int64(1)).Return(renter, nil)
	mockUsers.On("SetStripeCustomerID", mock.Anything, int64(1), "cus_new").Return(nil)
	mockBookings.On("HasOverlap", mock.Anything, int64(10), mock.Anything, mock.Anything).Return(false, nil)
	mockBookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockBookings.On("AttachPaymentIntent", mock.Anything, int64(999), "pi_abc").Return(nil)
	mockPayments.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockProcessor.On("CreateCustomer", mock.Anything, "renter@example.com", "Max Mieter", "").
		Return(&stripe.Customer{ID: "cus_new"}, nil)
	mockProcessor.On("CreatePaymentIntent", mock.Anything, mock.Anything).
		Return(&stripe.PaymentIntent{ID: "pi_abc", ClientSecret: "pi_abc_secret"}, nil)

	service := newTestService(mockBookings, mockListings, mockUsers, mockPayments, mockProcessor)

	_, err := service.CreateBooking(context.Background(), 1, CreateBookingRequest{
		ListingID:   10,
		StartDate:   "2027-07-01",
		EndDate:     "2027-07-06",
		TotalDays:   5,
		PricePerDay: 15,
	})

	assert.NoError(t, err)
	mockUsers.AssertExpectations(t)
	mockProcessor.AssertExpectations(t)
}

func TestService_CreateBooking_ProcessorFailureKeepsRow(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockListings := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	mockPayments := new(MockPaymentRepository)
	mockProcessor := new(MockProcessor)

	mockListings.On("GetByIDWithOwner", mock.Anything, int64(10)).Return(testListing(), testLandlord(), nil)
	mockUsers.On("GetByID", mock.Anything, int64(1)).Return(testRenter(), nil)
	mockBookings.On("HasOverlap", mock.Anything, int64(10), mock.Anything, mock.Anything).Return(false, nil)
	mockBookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockProcessor.On("CreatePaymentIntent", mock.Anything, mock.Anything).
		Return(nil, errors.New("api unreachable"))

	service := newTestService(mockBookings, mockListings, mockUsers, mockPayments, mockProcessor)

	_, err := service.CreateBooking(context.Background(), 1, CreateBookingRequest{
		ListingID:   10,
		StartDate:   "2027-07-01",
		EndDate:     "2027-07-06",
		TotalDays:   5,
		PricePerDay: 15,
	})

	assert.ErrorIs(t, err, ErrProcessor)
	// The booking row was written and stays pending/pending; no intent is
	// attached and no payment row is mirrored.
	mockBookings.AssertCalled(t, "Create", mock.Anything, mock.Anything)
	mockBookings.AssertNotCalled(t, "AttachPaymentIntent", mock.Anything, mock.Anything, mock.Anything)
	mockPayments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_MyBookings_ContactGating(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockListings := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	mockPayments := new(MockPaymentRepository)
	mockProcessor := new(MockProcessor)

	shared := time.Date(2027, 7, 1, 12, 0, 0, 0, time.UTC)
	rows := []domain.Booking{
		{ID: 1, ListingID: 10, RenterID: 1, LandlordID: 2, Status: domain.BookingConfirmed,
			PaymentStatus: domain.PaymentSucceeded, ContactSharedAt: &shared},
		{ID: 2, ListingID: 10, RenterID: 1, LandlordID: 2, Status: domain.BookingPending,
			PaymentStatus: domain.PaymentProcessing},
	}
	mockBookings.On("ListByRenter", mock.Anything, int64(1), 50, 0).Return(rows, nil)
	mockListings.On("GetByID", mock.Anything, int64(10)).Return(testListing(), nil)
	mockUsers.On("GetByID", mock.Anything, int64(2)).Return(testLandlord(), nil)

	service := newTestService(mockBookings, mockListings, mockUsers, mockPayments, mockProcessor)

	details, err := service.GetMyBookings(context.Background(), 1, 50, 0)

	assert.NoError(t, err)
	assert.Len(t, details, 2)
	assert.NotNil(t, details[0].Contact)
	assert.Equal(t, "landlord@example.com", details[0].Contact.Email)
	assert.Nil(t, details[1].Contact)
}
