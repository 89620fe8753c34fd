package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event types the reconciler cares about. Anything else is acknowledged and
// ignored.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventAccountUpdated   = "account.updated"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrSignatureExpired = errors.New("webhook signature timestamp outside tolerance")
)

// SignatureTolerance bounds how old a signed payload may be before it is
// rejected as a possible replay.
const SignatureTolerance = 5 * time.Minute

type Event struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// PaymentIntent decodes the event payload as a payment intent.
func (e *Event) PaymentIntent() (*PaymentIntent, error) {
	var pi PaymentIntent
	if err := json.Unmarshal(e.Data.Object, &pi); err != nil {
		return nil, fmt.Errorf("decode payment intent from event: %w", err)
	}
	return &pi, nil
}

// Account decodes the event payload as a connected account.
func (e *Event) Account() (*Account, error) {
	var a Account
	if err := json.Unmarshal(e.Data.Object, &a); err != nil {
		return nil, fmt.Errorf("decode account from event: %w", err)
	}
	return &a, nil
}

// ConstructEvent verifies the signature header against the signing secret
// and parses the payload. The scheme is the processor's v1 signing:
// the header carries "t=<unix>,v1=<hex>" where the v1 value is
// HMAC-SHA256(secret, "<unix>.<payload>"). Verification happens before the
// payload is parsed; a payload with no valid signature never reaches the
// reconciler.
func ConstructEvent(payload []byte, sigHeader, secret string) (*Event, error) {
	ts, sigs, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	expected := computeSignature(payload, secret, ts)
	valid := false
	for _, sig := range sigs {
		raw, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(raw, expected) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidSignature
	}

	sent := time.Unix(ts, 0)
	if d := time.Since(sent); d > SignatureTolerance || d < -SignatureTolerance {
		return nil, ErrSignatureExpired
	}

	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	return &ev, nil
}

// SignPayload produces a valid signature header for a payload. Used by tests
// and local tooling that replays events against the webhook endpoint.
func SignPayload(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	sig := computeSignature(payload, secret, ts)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(sig))
}

func computeSignature(payload []byte, secret string, ts int64) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

func parseSignatureHeader(header string) (ts int64, sigs []string, err error) {
	if strings.TrimSpace(header) == "" {
		return 0, nil, ErrInvalidSignature
	}
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err = strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidSignature
			}
		case "v1":
			sigs = append(sigs, kv[1])
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return 0, nil, ErrInvalidSignature
	}
	return ts, sigs, nil
}
