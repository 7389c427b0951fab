package cardgw

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/profast/parcel-client/internal/errors"
	"github.com/profast/parcel-client/internal/ports"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, PublishableKey: "pk_test"})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(Options{PublishableKey: "pk"})
	assert.Error(t, err)

	_, err = New(Options{BaseURL: "http://gw"})
	assert.Error(t, err)
}

func TestClient_CreatePaymentMethod(t *testing.T) {
	var gotAuth, gotNumber string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment_methods", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotAuth = r.Header.Get("Authorization")
		gotNumber = r.PostForm.Get("card[number]")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "pm_1"})
	}))

	id, err := c.CreatePaymentMethod(context.Background(), ports.Card{
		Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "123",
	})

	require.NoError(t, err)
	assert.Equal(t, "pm_1", id)
	assert.Equal(t, "Bearer pk_test", gotAuth)
	assert.Equal(t, "4242424242424242", gotNumber)
}

func TestClient_CreatePaymentMethod_EmptyNumber(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := c.CreatePaymentMethod(context.Background(), ports.Card{})

	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "card_number", apperrors.GetField(err))
}

func TestClient_ConfirmPayment_Succeeded(t *testing.T) {
	var gotPath, gotMethod string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotMethod = r.PostForm.Get("payment_method")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":                   "pi_1",
			"status":               "succeeded",
			"payment_method_types": []string{"card"},
		})
	}))

	res, err := c.ConfirmPayment(context.Background(), "pi_1_secret_abc", "pm_1", ports.BillingDetails{
		Name: "Ayesha", Email: "ayesha@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "/payment_intents/pi_1/confirm", gotPath)
	assert.Equal(t, "pm_1", gotMethod)
	assert.Equal(t, "pi_1", res.TransactionID)
	assert.Equal(t, ports.PaymentSucceeded, res.Status)
	assert.Equal(t, []string{"card"}, res.MethodTypes)
}

func TestClient_ConfirmPayment_NonTerminalStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "pi_2", "status": "requires_action"})
	}))

	res, err := c.ConfirmPayment(context.Background(), "pi_2_secret_x", "pm_1", ports.BillingDetails{})

	assert.True(t, apperrors.IsPayment(err))
	assert.Equal(t, "requires_action", res.Status)
}

func TestClient_ConfirmPayment_Decline(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "Your card was declined.", "code": "card_declined"},
		})
	}))

	_, err := c.ConfirmPayment(context.Background(), "pi_3_secret_x", "pm_1", ports.BillingDetails{})

	require.True(t, apperrors.IsPayment(err))
	assert.Contains(t, err.Error(), "declined")
}

func TestClient_ConfirmPayment_MalformedSecret(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := c.ConfirmPayment(context.Background(), "not-a-secret", "pm_1", ports.BillingDetails{})

	assert.True(t, apperrors.IsValidation(err))
}

func TestClient_GatewayDown_IsNetwork(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.CreatePaymentMethod(context.Background(), ports.Card{Number: "4242"})

	assert.True(t, apperrors.IsNetwork(err))
}
