package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"roofshare/internal/config"
	"roofshare/internal/database"
	"roofshare/internal/middleware"
	"roofshare/internal/modules/auth"
	"roofshare/internal/modules/booking"
	"roofshare/internal/modules/catalog"
	"roofshare/internal/modules/notification"
	"roofshare/internal/modules/payment"
	"roofshare/internal/modules/review"
	jwtsvc "roofshare/internal/pkg/jwt"
	"roofshare/internal/repository"
	"roofshare/internal/stripe"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	emailLogRepo := repository.NewEmailLogRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	stripeClient := stripe.NewClient(cfg.StripeSecretKey, log.Printf)
	notifier := notification.NewService(bookingRepo, listingRepo, userRepo, emailLogRepo, log.Printf)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(listingRepo, reviewRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, listingRepo, userRepo, paymentRepo, stripeClient, log.Printf)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(
		bookingRepo, paymentRepo, userRepo,
		notifier, stripeClient,
		cfg.StripeWebhookSecret, cfg.AppBaseURL,
		log.Printf,
	)
	paymentHandler := payment.NewHandler(paymentService, log.Printf)

	reviewService := review.NewService(reviewRepo, bookingRepo)
	reviewHandler := review.NewHandler(reviewService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		reviewHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			catalogHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
			reviewHandler.RegisterProtectedRoutes(protected)
		}
	}

	addr := ":" + port()
	log.Printf("level=info msg=listening addr=%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
