package ports

import "context"

// Card is raw card input collected from the user. It is sent only to the
// payment processor, never to the backend.
type Card struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
}

// BillingDetails accompany a charge confirmation.
type BillingDetails struct {
	Name  string
	Email string
}

// PaymentResult is the processor's terminal answer for a confirmation.
type PaymentResult struct {
	// TransactionID is the processor's identifier for the charge.
	TransactionID string
	// Status is the processor's terminal status; "succeeded" is the only
	// success value.
	Status string
	// MethodTypes lists the payment method types used (e.g. ["card"]).
	MethodTypes []string
}

// PaymentSucceeded is the processor's terminal success status.
const PaymentSucceeded = "succeeded"

// CardProcessor tokenizes card input and confirms charges against a
// server-issued client secret.
type CardProcessor interface {
	// CreatePaymentMethod exchanges raw card input for a payment-method token.
	CreatePaymentMethod(ctx context.Context, card Card) (methodID string, err error)

	// ConfirmPayment confirms the charge identified by clientSecret using
	// the tokenized method. A processor decline yields a payment error.
	ConfirmPayment(ctx context.Context, clientSecret, methodID string, billing BillingDetails) (PaymentResult, error)
}
