package cardgw

// Package cardgw implements the card-processor port against a Stripe-style
// payment gateway: raw card input is exchanged for a payment-method token,
// then the charge is confirmed against a server-issued client secret. Card
// data goes to the gateway only; the parcel backend never sees it.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/profast/parcel-client/internal/errors"
	"github.com/profast/parcel-client/internal/ports"
)

var _ ports.CardProcessor = (*Client)(nil)

// DefaultTimeout bounds every gateway request.
const DefaultTimeout = 30 * time.Second

// Options configures the gateway client.
type Options struct {
	// BaseURL is the gateway API root, e.g. "https://api.stripe.com/v1".
	BaseURL string
	// PublishableKey authenticates client-side calls.
	PublishableKey string
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the card payment gateway.
type Client struct {
	base   string
	key    string
	http   *http.Client
	logger *slog.Logger
}

// New constructs a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("gateway base URL is required")
	}
	if opts.PublishableKey == "" {
		return nil, errors.New("gateway publishable key is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:   strings.TrimSuffix(opts.BaseURL, "/"),
		key:    opts.PublishableKey,
		http:   httpClient,
		logger: logger,
	}, nil
}

// CreatePaymentMethod exchanges raw card input for a payment-method token.
func (c *Client) CreatePaymentMethod(ctx context.Context, card ports.Card) (string, error) {
	if card.Number == "" {
		return "", apperrors.ValidationField("card_number", "card number is required")
	}

	form := url.Values{
		"type":            {"card"},
		"card[number]":    {card.Number},
		"card[exp_month]": {strconv.Itoa(card.ExpMonth)},
		"card[exp_year]":  {strconv.Itoa(card.ExpYear)},
		"card[cvc]":       {card.CVC},
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/payment_methods", form, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// ConfirmPayment confirms the charge identified by clientSecret. A terminal
// status other than "succeeded" is reported as a payment error alongside
// the result.
func (c *Client) ConfirmPayment(ctx context.Context, clientSecret, methodID string, billing ports.BillingDetails) (ports.PaymentResult, error) {
	intentID, ok := intentIDFromSecret(clientSecret)
	if !ok {
		return ports.PaymentResult{}, apperrors.Validation("malformed client secret")
	}

	form := url.Values{
		"client_secret":  {clientSecret},
		"payment_method": {methodID},
	}
	if billing.Name != "" {
		form.Set("payment_method_data[billing_details][name]", billing.Name)
	}
	if billing.Email != "" {
		form.Set("payment_method_data[billing_details][email]", billing.Email)
	}

	var out struct {
		ID                 string   `json:"id"`
		Status             string   `json:"status"`
		PaymentMethodTypes []string `json:"payment_method_types"`
	}
	if err := c.post(ctx, "/payment_intents/"+url.PathEscape(intentID)+"/confirm", form, &out); err != nil {
		return ports.PaymentResult{}, err
	}

	result := ports.PaymentResult{
		TransactionID: out.ID,
		Status:        out.Status,
		MethodTypes:   out.PaymentMethodTypes,
	}
	if out.Status != ports.PaymentSucceeded {
		return result, apperrors.Payment(fmt.Sprintf("payment not completed: status %q", out.Status))
	}
	return result, nil
}

// post issues one form-encoded request the way the gateway expects.
func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build gateway request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeNetwork, "POST %s", path)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeNetwork, "decode gateway response for %s", path)
		}
		return nil
	}

	msg := readGatewayError(resp)
	switch {
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity,
		resp.StatusCode == http.StatusBadRequest && msg != "":
		// Declines and card validation failures come back as 4xx with a
		// structured error body.
		return apperrors.Payment(msg)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Internal("gateway rejected the publishable key")
	default:
		return apperrors.Network(fmt.Sprintf("POST %s: gateway returned %d", path, resp.StatusCode))
	}
}

func readGatewayError(resp *http.Response) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil {
		if payload.Error.Message != "" {
			return payload.Error.Message
		}
		if payload.Error.Code != "" {
			return payload.Error.Code
		}
	}
	return ""
}

// intentIDFromSecret extracts the intent identifier from a client secret of
// the form "pi_xxx_secret_yyy".
func intentIDFromSecret(secret string) (string, bool) {
	id, _, found := strings.Cut(secret, "_secret_")
	if !found || id == "" {
		return "", false
	}
	return id, true
}
