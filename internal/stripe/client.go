// Package stripe is a thin client for the payment processor's REST API:
// customers, express connected accounts, account links, payment intents and
// webhook signature verification. Only the fields the marketplace reads are
// decoded.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultBaseURL = "https://api.stripe.com"

type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
	loggerf   func(format string, args ...interface{})
}

func NewClient(secretKey string, loggerf func(format string, args ...interface{})) *Client {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Client{
		secretKey: secretKey,
		baseURL:   DefaultBaseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
		loggerf:   loggerf,
	}
}

// WithBaseURL points the client at a different API host. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Account struct {
	ID               string `json:"id"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
}

type AccountLink struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}

type PaymentIntent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	LatestCharge string            `json:"latest_charge"`
	Metadata     map[string]string `json:"metadata"`
}

// APIError is a non-2xx response from the processor.
type APIError struct {
	StatusCode int
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stripe: %s (status=%d type=%s code=%s)", e.Message, e.StatusCode, e.Type, e.Code)
}

func (c *Client) CreateCustomer(ctx context.Context, email, name, phone string) (*Customer, error) {
	form := url.Values{}
	form.Set("email", email)
	if name != "" {
		form.Set("name", name)
	}
	if phone != "" {
		form.Set("phone", phone)
	}
	var out Customer
	if err := c.do(ctx, http.MethodPost, "/v1/customers", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAccount creates an express connected account for a landlord.
func (c *Client) CreateAccount(ctx context.Context, email, country string) (*Account, error) {
	form := url.Values{}
	form.Set("type", "express")
	form.Set("country", country)
	form.Set("email", email)
	form.Set("business_type", "individual")
	form.Set("capabilities[card_payments][requested]", "true")
	form.Set("capabilities[transfers][requested]", "true")
	var out Account
	if err := c.do(ctx, http.MethodPost, "/v1/accounts", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	var out Account
	if err := c.do(ctx, http.MethodGet, "/v1/accounts/"+url.PathEscape(accountID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*AccountLink, error) {
	form := url.Values{}
	form.Set("account", accountID)
	form.Set("refresh_url", refreshURL)
	form.Set("return_url", returnURL)
	form.Set("type", "account_onboarding")
	var out AccountLink
	if err := c.do(ctx, http.MethodPost, "/v1/account_links", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type PaymentIntentParams struct {
	Amount             int64
	Currency           string
	ConnectedAccountID string
	ApplicationFee     int64
	Metadata           map[string]string
}

// CreatePaymentIntent creates a destination charge: the full amount is
// collected from the renter, the application fee stays with the platform and
// the remainder is transferred to the landlord's connected account.
func (c *Client) CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(p.Amount, 10))
	form.Set("currency", p.Currency)
	form.Set("application_fee_amount", strconv.FormatInt(p.ApplicationFee, 10))
	form.Set("transfer_data[destination]", p.ConnectedAccountID)
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range p.Metadata {
		form.Set("metadata["+k+"]", v)
	}
	var out PaymentIntent
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	var out PaymentIntent
	if err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if method == http.MethodPost {
		// Retried creates must not duplicate objects on the processor side.
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("stripe response read failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "request rejected"}
		var wrapper struct {
			Error APIError `json:"error"`
		}
		if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Error.Message != "" {
			wrapper.Error.StatusCode = resp.StatusCode
			apiErr = &wrapper.Error
		}
		c.loggerf("level=error msg=stripe api error method=%s path=%s status=%d err=%q", method, path, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("stripe response decode failed: %w", err)
	}
	return nil
}
