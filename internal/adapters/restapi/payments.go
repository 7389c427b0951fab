package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/profast/parcel-client/internal/domain/parcel"
	"github.com/profast/parcel-client/internal/ports"
)

var _ ports.PaymentAPI = (*Client)(nil)

// CreatePaymentIntent asks the backend for a processor client secret.
// POST /create-payment-intent with the amount in minor units.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountMinor int64, parcelID string) (string, error) {
	body := map[string]any{
		"amountInCents": amountMinor,
		"parcelId":      parcelID,
	}
	var out struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := c.do(ctx, http.MethodPost, "/create-payment-intent", body, &out); err != nil {
		return "", err
	}
	return out.ClientSecret, nil
}

// RecordPayment writes the payment record after a confirmed charge.
// POST /payments.
func (c *Client) RecordPayment(ctx context.Context, pay parcel.Payment) (string, error) {
	var out insertedID
	if err := c.do(ctx, http.MethodPost, "/payments", pay, &out); err != nil {
		return "", err
	}
	return out.InsertedID, nil
}

// Payments lists payment history for an email. GET /payments?email={email}.
func (c *Client) Payments(ctx context.Context, email string) ([]parcel.Payment, error) {
	var out []parcel.Payment
	err := c.do(ctx, http.MethodGet, "/payments?email="+url.QueryEscape(email), nil, &out)
	return out, err
}
