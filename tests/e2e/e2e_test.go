package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

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

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const webhookSecret = "whsec_e2e_test"

type E2ETestSuite struct {
	router       *gin.Engine
	db           *gorm.DB
	stripeServer *httptest.Server
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// fakeStripe serves the handful of processor endpoints the marketplace
// calls, with fixed ids so assertions stay simple.
func fakeStripe() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/customers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "cus_test", "email": r.FormValue("email")})
	})
	mux.HandleFunc("POST /v1/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "acct_test"})
	})
	mux.HandleFunc("GET /v1/accounts/acct_test", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": "acct_test", "charges_enabled": true, "payouts_enabled": true, "details_submitted": true,
		})
	})
	mux.HandleFunc("POST /v1/account_links", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"url":        "https://connect.stripe.test/setup/acct_test",
			"expires_at": time.Now().Add(time.Hour).Unix(),
		})
	})
	mux.HandleFunc("POST /v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		amount, _ := strconv.Atoi(r.FormValue("amount"))
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "pi_test",
			"client_secret": "pi_test_secret",
			"status":        "requires_payment_method",
			"amount":        amount,
		})
	})
	mux.HandleFunc("GET /v1/payment_intents/pi_test", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": "pi_test", "status": "succeeded", "latest_charge": "ch_test",
		})
	})
	return httptest.NewServer(mux)
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, repository.Migrate(db), "Failed to migrate schema")

	stripeServer := fakeStripe()
	t.Cleanup(stripeServer.Close)

	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	emailLogRepo := repository.NewEmailLogRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	stripeClient := stripe.NewClient("sk_test_e2e", nil).WithBaseURL(stripeServer.URL)
	notifier := notification.NewService(bookingRepo, listingRepo, userRepo, emailLogRepo, nil)

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService))
	catalogHandler := catalog.NewHandler(catalog.NewService(listingRepo, reviewRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, listingRepo, userRepo, paymentRepo, stripeClient, nil))
	paymentHandler := payment.NewHandler(payment.NewService(
		bookingRepo, paymentRepo, userRepo, notifier, stripeClient,
		webhookSecret, "https://roofshare.test", nil,
	), nil)
	reviewHandler := review.NewHandler(review.NewService(reviewRepo, bookingRepo))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	authHandler.RegisterPublicRoutes(v1)
	catalogHandler.RegisterPublicRoutes(v1)
	reviewHandler.RegisterPublicRoutes(v1)
	paymentHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		catalogHandler.RegisterProtectedRoutes(protected)
		bookingHandler.RegisterRoutes(protected)
		paymentHandler.RegisterProtectedRoutes(protected)
		reviewHandler.RegisterProtectedRoutes(protected)
	}

	return &E2ETestSuite{router: r, db: db, stripeServer: stripeServer}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *E2ETestSuite) sendWebhook(payload []byte, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set("Stripe-Signature", sig)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp),
		"Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
	return &resp
}

func (s *E2ETestSuite) register(t *testing.T, email, first, last, phone string) string {
	w := s.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
		"email":      email,
		"password":   "Password123!",
		"first_name": first,
		"last_name":  last,
		"phone":      phone,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := parseResponse(t, w)
	require.True(t, resp.Success)
	return resp.Data["token"].(string)
}

func signedWebhookEvent(eventType, object string) ([]byte, string) {
	payload := []byte(fmt.Sprintf(
		`{"id":"evt_e2e","type":"%s","created":%d,"data":{"object":%s}}`,
		eventType, time.Now().Unix(), object))
	return payload, stripe.SignPayload(payload, webhookSecret, time.Now())
}

func TestFullRentalFlow(t *testing.T) {
	suite := setupTestSuite(t)

	var landlordToken, renterToken string
	var listingID, bookingID float64

	t.Run("register users", func(t *testing.T) {
		landlordToken = suite.register(t, "lena@test.de", "Lena", "Vermieter", "+49 151 000001")
		renterToken = suite.register(t, "max@test.de", "Max", "Mieter", "+49 151 000002")
	})

	t.Run("landlord connects payout account", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/connect/accounts", nil, landlordToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		assert.Equal(t, "acct_test", resp.Data["account_id"])
		assert.NotEmpty(t, resp.Data["onboarding_url"])

		// Not onboarded until the processor confirms via webhook.
		w = suite.makeRequest("GET", "/api/v1/connect/status", nil, landlordToken)
		resp = parseResponse(t, w)
		assert.Equal(t, true, resp.Data["has_account"])
		assert.Equal(t, false, resp.Data["onboarding_completed"])
	})

	t.Run("landlord creates listing", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/dachboxes", map[string]interface{}{
			"brand":              "Thule",
			"model":              "Motion XT XL",
			"volume":             500,
			"mounting_type":      "quertraeger-t-nut",
			"condition":          "excellent",
			"pickup_city":        "München",
			"pickup_postal_code": "80331",
			"price_per_day":      15,
			"has_lock":           true,
		}, landlordToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		listingID = resp.Data["id"].(float64)
	})

	t.Run("booking rejected before onboarding completes", func(t *testing.T) {
		start := time.Now().AddDate(0, 0, 7)
		w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"dachbox_id":    listingID,
			"start_date":    start.Format("2006-01-02"),
			"end_date":      start.AddDate(0, 0, 5).Format("2006-01-02"),
			"total_days":    5,
			"price_per_day": 15,
		}, renterToken)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	t.Run("account.updated webhook completes onboarding", func(t *testing.T) {
		payload, sig := signedWebhookEvent("account.updated",
			`{"id":"acct_test","charges_enabled":true,"payouts_enabled":true}`)
		w := suite.sendWebhook(payload, sig)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		sw := suite.makeRequest("GET", "/api/v1/connect/status", nil, landlordToken)
		resp := parseResponse(t, sw)
		assert.Equal(t, true, resp.Data["onboarding_completed"])
	})

	t.Run("renter books the listing", func(t *testing.T) {
		start := time.Now().AddDate(0, 0, 7)
		w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"dachbox_id":    listingID,
			"start_date":    start.Format("2006-01-02"),
			"end_date":      start.AddDate(0, 0, 5).Format("2006-01-02"),
			"total_days":    5,
			"price_per_day": 15,
		}, renterToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "pi_test_secret", res["client_secret"])
		assert.Equal(t, "pi_test", res["payment_intent_id"])
		assert.Equal(t, float64(7500), res["total_amount"])
		assert.Equal(t, float64(750), res["platform_fee"])
		assert.Equal(t, float64(6750), res["landlord_earnings"])
		bookingID = res["booking_id"].(float64)
	})

	t.Run("contact details hidden before payment", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/bookings/my", nil, renterToken)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "processing", resp.Data[0]["payment_status"])
		assert.Nil(t, resp.Data[0]["contact"])
	})

	succeededObject := fmt.Sprintf(
		`{"id":"pi_test","latest_charge":"ch_test","metadata":{"booking_id":"%.0f"}}`, bookingID)

	t.Run("payment succeeded webhook confirms booking", func(t *testing.T) {
		payload, sig := signedWebhookEvent("payment_intent.succeeded", succeededObject)
		w := suite.sendWebhook(payload, sig)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		bw := suite.makeRequest("GET", "/api/v1/bookings/my", nil, renterToken)
		var resp struct {
			Data []map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(bw.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "confirmed", resp.Data[0]["status"])
		assert.Equal(t, "succeeded", resp.Data[0]["payment_status"])

		contact, ok := resp.Data[0]["contact"].(map[string]interface{})
		require.True(t, ok, "contact details must be shared after payment")
		assert.Equal(t, "lena@test.de", contact["email"])
	})

	t.Run("webhook replay is idempotent", func(t *testing.T) {
		var before int64
		suite.db.Table("email_logs").Count(&before)

		payload, sig := signedWebhookEvent("payment_intent.succeeded", succeededObject)
		w := suite.sendWebhook(payload, sig)
		require.Equal(t, http.StatusOK, w.Code)

		var after int64
		suite.db.Table("email_logs").Count(&after)
		assert.Equal(t, before, after, "replay must not send more notifications")
	})

	t.Run("tampered webhook is rejected without effect", func(t *testing.T) {
		payload, sig := signedWebhookEvent("payment_intent.payment_failed", succeededObject)
		tampered := bytes.Replace(payload, []byte(`"booking_id":"`), []byte(`"booking_id":"9`), 1)
		require.NotEqual(t, payload, tampered)
		w := suite.sendWebhook(tampered, sig)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = suite.sendWebhook(payload, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var status string
		suite.db.Table("bookings").Where("id = ?", int64(bookingID)).
			Pluck("payment_status", &status)
		assert.Equal(t, "succeeded", status, "rejected webhook must not touch booking state")
	})

	t.Run("verify payment", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/payments/verify?payment_intent_id=pi_test", nil, renterToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		assert.Equal(t, "confirmed", resp.Data["booking_status"])
		assert.Equal(t, "succeeded", resp.Data["payment_status"])
	})

	t.Run("landlord sees the incoming booking", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/bookings/incoming", nil, landlordToken)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		contact, ok := resp.Data[0]["contact"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "max@test.de", contact["email"])
	})

	t.Run("review after rental ends", func(t *testing.T) {
		// Too early while the rental is still running.
		w := suite.makeRequest("POST", "/api/v1/reviews", map[string]interface{}{
			"booking_id": bookingID,
			"rating":     5,
			"comment":    "Top Zustand, gerne wieder!",
		}, renterToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// Move the rental into the past.
		past := time.Now().AddDate(0, 0, -2)
		require.NoError(t, suite.db.Table("bookings").
			Where("id = ?", int64(bookingID)).
			Update("end_date", past).Error)

		w = suite.makeRequest("POST", "/api/v1/reviews", map[string]interface{}{
			"booking_id": bookingID,
			"rating":     5,
			"comment":    "Top Zustand, gerne wieder!",
		}, renterToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// One review per booking.
		w = suite.makeRequest("POST", "/api/v1/reviews", map[string]interface{}{
			"booking_id": bookingID,
			"rating":     4,
			"comment":    "Zweiter Versuch, sollte scheitern.",
		}, renterToken)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = suite.makeRequest("GET", fmt.Sprintf("/api/v1/dachboxes/%.0f/reviews", listingID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSearchFlow(t *testing.T) {
	suite := setupTestSuite(t)

	landlordToken := suite.register(t, "anna@test.de", "Anna", "Anbieter", "")

	// Onboard so listings are bookable, not needed for search itself.
	suite.makeRequest("POST", "/api/v1/connect/accounts", nil, landlordToken)

	create := func(brand, city string, price int) {
		w := suite.makeRequest("POST", "/api/v1/dachboxes", map[string]interface{}{
			"brand":              brand,
			"model":              "Testbox",
			"volume":             400,
			"mounting_type":      "reling-erhoeht",
			"condition":          "good",
			"pickup_city":        city,
			"pickup_postal_code": "00000",
			"price_per_day":      price,
			"has_lock":           true,
		}, landlordToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	create("Thule", "München", 15)
	create("Kamei", "Berlin", 9)
	create("Hapro", "München", 42)

	t.Run("filter by city", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/dachboxes?city=München", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 2)
	})

	t.Run("filter by price band", func(t *testing.T) {
		// Prices are stored in cents.
		w := suite.makeRequest("GET", "/api/v1/dachboxes?max_price=1000", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Kamei", resp.Data[0]["brand"])
	})

	t.Run("price band enforced on create", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/dachboxes", map[string]interface{}{
			"brand":              "Gold",
			"model":              "Plated",
			"volume":             400,
			"mounting_type":      "reling-erhoeht",
			"condition":          "excellent",
			"pickup_city":        "München",
			"pickup_postal_code": "80331",
			"price_per_day":      51,
		}, landlordToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
