package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnconfigured means no secret key is set; the card flow is
	// unavailable until an administrator supplies one.
	ErrUnconfigured = errors.New("payment collaborator not configured")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Intent is a created payment authorization. ClientSecret goes to the
// browser for client-side confirmation; ID becomes the order's payment
// reference after confirmation succeeds.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// Client talks to the hosted card-payment API.
type Client struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		secretKey: secretKey,
		baseURL:   "https://api.stripe.com",
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.secretKey != ""
}

// CreateIntent authorizes a card payment for the given amount. The amount
// is converted to the smallest currency unit on the wire. Each call carries
// a fresh idempotency key; retries are the caller's concern.
func (c *Client) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (Intent, error) {
	if !c.Configured() {
		return Intent{}, ErrUnconfigured
	}
	if amount.LessThan(decimal.NewFromInt(1)) {
		return Intent{}, ErrInvalidAmount
	}
	if currency == "" {
		currency = "usd"
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("metadata[business]", "Johnson Produce")

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return Intent{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	res, err := c.client.Do(req)
	if err != nil {
		return Intent{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Intent{}, fmt.Errorf("payment collaborator responded %d", res.StatusCode)
	}

	var intent Intent
	if err := json.NewDecoder(res.Body).Decode(&intent); err != nil {
		return Intent{}, err
	}
	return intent, nil
}
