package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"roofshare/internal/database"
	"roofshare/internal/domain"
	"roofshare/internal/pkg/fee"
	"roofshare/internal/repository"
)

// Seeds a local database with demo accounts, listings and one finished
// rental so the frontend has data to render. Never run against production.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "roofshare.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	for _, table := range []string{"email_logs", "reviews", "payments", "bookings", "listings", "users"} {
		db.Exec("DELETE FROM " + table)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	listings := repository.NewListingRepository(db)
	bookings := repository.NewBookingRepository(db)
	payments := repository.NewPaymentRepository(db)
	reviews := repository.NewReviewRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	landlord := &domain.User{
		Email:        "lena@roofshare.de",
		PasswordHash: hash("landlord123"),
		FirstName:    "Lena",
		LastName:     "Vermieter",
		Phone:        "+49 151 1234 5601",
		City:         "München",
		PostalCode:   "80331",
		// Demo account is already onboarded so bookings work out of the box.
		StripeAccountID:     "acct_demo_" + shortID(),
		OnboardingCompleted: true,
	}
	mustCreate(users.Create(ctx, landlord))

	pendingLandlord := &domain.User{
		Email:        "jonas@roofshare.de",
		PasswordHash: hash("landlord123"),
		FirstName:    "Jonas",
		LastName:     "Neuling",
		City:         "Hamburg",
		PostalCode:   "20095",
		// Has an account but never finished onboarding: bookings against his
		// listings are rejected until the account-updated webhook arrives.
		StripeAccountID: "acct_demo_" + shortID(),
	}
	mustCreate(users.Create(ctx, pendingLandlord))

	renter := &domain.User{
		Email:            "max@example.com",
		PasswordHash:     hash("renter123"),
		FirstName:        "Max",
		LastName:         "Mieter",
		Phone:            "+49 151 1234 5602",
		City:             "Berlin",
		PostalCode:       "10115",
		StripeCustomerID: "cus_demo_" + shortID(),
	}
	mustCreate(users.Create(ctx, renter))

	// ================== LISTINGS ==================
	log.Println("Creating listings...")

	demoListings := []*domain.Listing{
		{
			UserID: landlord.ID,
			Brand:  "Thule", Model: "Motion XT XL", Volume: 500,
			Length: 2.15, Width: 0.915, Height: 0.44,
			MountingType: domain.MountingCrossbarTSlot,
			Condition:    domain.ConditionExcellent,
			Description:  "Geräumige Dachbox, beidseitig zu öffnen.",
			PickupCity:   "München", PickupPostalCode: "80331",
			PricePerDay: 1500, HasLock: true,
			Extras:      []string{"Spanngurte", "Transporttasche"},
			IsAvailable: true,
		},
		{
			UserID: landlord.ID,
			Brand:  "Kamei", Model: "Oyster 450", Volume: 450,
			Length: 1.75, Width: 0.82, Height: 0.45,
			MountingType: domain.MountingRailRaised,
			Condition:    domain.ConditionGood,
			Description:  "Leichte Box für die Reling, inkl. Träger.",
			PickupCity:   "München", PickupPostalCode: "80469",
			PricePerDay:      900,
			IncludesRoofRack: true, RoofRackPrice: 500,
			HasLock:     true,
			IsAvailable: true,
		},
		{
			UserID: pendingLandlord.ID,
			Brand:  "Hapro", Model: "Trivor 440", Volume: 440,
			Length: 2.27, Width: 0.81, Height: 0.37,
			MountingType: domain.MountingCrossbarQuickClamp,
			Condition:    domain.ConditionFair,
			Description:  "Flache Box, ideal für lange Ski.",
			PickupCity:   "Hamburg", PickupPostalCode: "20095",
			PricePerDay: 800, HasLock: true,
			IsAvailable: true,
		},
	}
	for _, l := range demoListings {
		mustCreate(listings.Create(ctx, l))
	}

	// ================== A FINISHED RENTAL ==================
	log.Println("Creating a completed booking with review...")

	start := time.Now().AddDate(0, 0, -21).Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 7)
	total := int64(7) * demoListings[0].PricePerDay
	platformFee, earnings := fee.Split(total)
	intentID := "pi_demo_" + shortID()
	sharedAt := start.Add(-48 * time.Hour)

	booking := &domain.Booking{
		ListingID:        demoListings[0].ID,
		RenterID:         renter.ID,
		LandlordID:       landlord.ID,
		StartDate:        start,
		EndDate:          end,
		TotalDays:        7,
		PricePerDay:      demoListings[0].PricePerDay,
		TotalAmount:      total,
		PlatformFee:      platformFee,
		LandlordEarnings: earnings,
		Status:           domain.BookingCompleted,
		PaymentStatus:    domain.PaymentSucceeded,
		PaymentIntentID:  intentID,
		ChargeID:         "ch_demo_" + shortID(),
		ContactSharedAt:  &sharedAt,
	}
	mustCreate(bookings.Create(ctx, booking))
	mustCreate(payments.Create(ctx, &domain.Payment{
		BookingID:       booking.ID,
		PaymentIntentID: intentID,
		Amount:          total,
		Currency:        "eur",
		Status:          domain.PaymentRecordSucceeded,
	}))
	mustCreate(reviews.Create(ctx, &domain.Review{
		BookingID:  booking.ID,
		ListingID:  booking.ListingID,
		ReviewerID: renter.ID,
		Rating:     5,
		Comment:    "Top Zustand, unkomplizierte Übergabe. Jederzeit wieder!",
	}))

	log.Println("Seed completed.")
	log.Println("Demo accounts:")
	log.Println("  Landlord (onboarded): lena@roofshare.de / landlord123")
	log.Println("  Landlord (pending):   jonas@roofshare.de / landlord123")
	log.Println("  Renter:               max@example.com / renter123")
}

func hash(pw string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	return string(h)
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func mustCreate(err error) {
	if err != nil {
		log.Fatal(fmt.Errorf("seed insert failed: %w", err))
	}
}
