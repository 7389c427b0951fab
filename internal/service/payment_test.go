package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profast/parcel-client/internal/domain/parcel"
	apperrors "github.com/profast/parcel-client/internal/errors"
	mockbackend "github.com/profast/parcel-client/internal/mocks/backend"
	"github.com/profast/parcel-client/internal/ports"
)

func paymentFixture() (*mockbackend.MockParcelAPI, *mockbackend.MockPaymentAPI, *mockbackend.MockCardProcessor) {
	parcels := &mockbackend.MockParcelAPI{}
	parcels.Put(parcel.Parcel{ID: "p1", Cost: 270, PaymentStatus: parcel.PaymentUnpaid})
	return parcels, &mockbackend.MockPaymentAPI{}, &mockbackend.MockCardProcessor{}
}

func TestPayment_Pay(t *testing.T) {
	parcels, payments, processor := paymentFixture()
	svc := NewPaymentService(PaymentServiceOptions{Parcels: parcels, Payments: payments, Processor: processor}, nil)

	receipt, err := svc.Pay(context.Background(), "p1", ports.Card{Number: "4242"}, ports.BillingDetails{
		Name: "Ayesha", Email: "ayesha@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "txn_mock", receipt.TransactionID)
	assert.Equal(t, "270.00", receipt.Amount.String())

	require.Len(t, payments.IntentAmounts, 1)
	assert.EqualValues(t, 27000, payments.IntentAmounts[0], "intent carries the amount in minor units")

	require.Len(t, payments.Recorded, 1)
	rec := payments.Recorded[0]
	assert.Equal(t, "p1", rec.ParcelID)
	assert.Equal(t, "ayesha@example.com", rec.Email)
	assert.Equal(t, "txn_mock", rec.TransactionID)
	assert.Equal(t, []string{"card"}, rec.PaymentMethod)
	assert.NotEmpty(t, rec.IdempotencyKey)
}

func TestPayment_Pay_AlreadyPaid(t *testing.T) {
	parcels, payments, processor := paymentFixture()
	parcels.Put(parcel.Parcel{ID: "p1", Cost: 270, PaymentStatus: parcel.PaymentPaid})
	svc := NewPaymentService(PaymentServiceOptions{Parcels: parcels, Payments: payments, Processor: processor}, nil)

	_, err := svc.Pay(context.Background(), "p1", ports.Card{Number: "4242"}, ports.BillingDetails{})

	assert.True(t, apperrors.IsConflict(err))
	assert.Empty(t, processor.Confirmed, "no processor call for an already-paid parcel")
	assert.Empty(t, payments.IntentAmounts)
}

func TestPayment_Pay_Decline(t *testing.T) {
	parcels, payments, processor := paymentFixture()
	processor.ConfirmPaymentFunc = func(context.Context, string, string, ports.BillingDetails) (ports.PaymentResult, error) {
		return ports.PaymentResult{}, apperrors.Payment("Your card was declined.")
	}
	svc := NewPaymentService(PaymentServiceOptions{Parcels: parcels, Payments: payments, Processor: processor}, nil)

	_, err := svc.Pay(context.Background(), "p1", ports.Card{Number: "4000"}, ports.BillingDetails{})

	assert.True(t, apperrors.IsPayment(err))
	assert.Empty(t, payments.Recorded, "declined charges are never recorded")
}

func TestPayment_Pay_NonTerminalStatus(t *testing.T) {
	parcels, payments, processor := paymentFixture()
	processor.ConfirmPaymentFunc = func(context.Context, string, string, ports.BillingDetails) (ports.PaymentResult, error) {
		return ports.PaymentResult{TransactionID: "txn_1", Status: "processing"}, nil
	}
	svc := NewPaymentService(PaymentServiceOptions{Parcels: parcels, Payments: payments, Processor: processor}, nil)

	_, err := svc.Pay(context.Background(), "p1", ports.Card{Number: "4242"}, ports.BillingDetails{})

	assert.True(t, apperrors.IsPayment(err))
	assert.Empty(t, payments.Recorded)
}

func TestPayment_Pay_RecordFailureSurfacesTransaction(t *testing.T) {
	parcels, payments, processor := paymentFixture()
	payments.RecordPaymentFunc = func(context.Context, parcel.Payment) (string, error) {
		return "", apperrors.Network("backend unreachable")
	}
	svc := NewPaymentService(PaymentServiceOptions{Parcels: parcels, Payments: payments, Processor: processor}, nil)

	receipt, err := svc.Pay(context.Background(), "p1", ports.Card{Number: "4242"}, ports.BillingDetails{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "txn_mock", "the transaction ID is surfaced for reconciliation")
	assert.Equal(t, "txn_mock", receipt.TransactionID)
}

func TestPayment_History(t *testing.T) {
	parcels, payments, processor := paymentFixture()
	svc := NewPaymentService(PaymentServiceOptions{Parcels: parcels, Payments: payments, Processor: processor}, nil)

	_, err := svc.Pay(context.Background(), "p1", ports.Card{Number: "4242"}, ports.BillingDetails{Email: "a@b.c"})
	require.NoError(t, err)

	hist, err := svc.History(context.Background(), "a@b.c")
	require.NoError(t, err)
	assert.Len(t, hist, 1)

	none, err := svc.History(context.Background(), "other@b.c")
	require.NoError(t, err)
	assert.Empty(t, none)
}
