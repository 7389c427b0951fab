package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/profast/parcel-client/internal/domain/parcel"
	"github.com/profast/parcel-client/internal/domain/pricing"
	apperrors "github.com/profast/parcel-client/internal/errors"
	"github.com/profast/parcel-client/internal/ports"
)

// PaymentServiceOptions groups dependencies for PaymentService.
type PaymentServiceOptions struct {
	Parcels   ports.ParcelAPI
	Payments  ports.PaymentAPI
	Processor ports.CardProcessor
}

// PaymentService runs the card payment flow for a booked parcel: tokenize
// the card, obtain an intent from the backend, confirm with the processor,
// and record the charge. Card data goes to the processor only.
type PaymentService struct {
	parcels   ports.ParcelAPI
	payments  ports.PaymentAPI
	processor ports.CardProcessor
	logger    *slog.Logger
	now       func() time.Time
}

// NewPaymentService constructs a new PaymentService.
func NewPaymentService(opts PaymentServiceOptions, logger *slog.Logger) *PaymentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentService{
		parcels:   opts.Parcels,
		payments:  opts.Payments,
		processor: opts.Processor,
		logger:    logger,
		now:       time.Now,
	}
}

// Receipt is the outcome of a completed payment.
type Receipt struct {
	PaymentID     string
	TransactionID string
	Amount        pricing.Money
}

// Pay charges a parcel's cost to a card. Already-paid parcels are rejected
// before any processor call; processor declines and non-terminal statuses
// surface as payment errors the user may retry, nothing is retried
// silently.
func (s *PaymentService) Pay(ctx context.Context, parcelID string, card ports.Card, billing ports.BillingDetails) (Receipt, error) {
	p, err := s.parcels.Parcel(ctx, parcelID)
	if err != nil {
		return Receipt{}, err
	}
	if p.PaymentStatus == parcel.PaymentPaid {
		return Receipt{}, apperrors.Conflict("this parcel has already been paid for")
	}

	methodID, err := s.processor.CreatePaymentMethod(ctx, card)
	if err != nil {
		return Receipt{}, err
	}

	amount := pricing.MoneyFromTaka(p.Cost)
	clientSecret, err := s.payments.CreatePaymentIntent(ctx, int64(amount), parcelID)
	if err != nil {
		return Receipt{}, err
	}

	result, err := s.processor.ConfirmPayment(ctx, clientSecret, methodID, billing)
	if err != nil {
		return Receipt{}, err
	}
	if result.Status != ports.PaymentSucceeded {
		return Receipt{}, apperrors.Payment("payment did not complete: status " + result.Status)
	}

	record := parcel.Payment{
		ParcelID:       parcelID,
		Email:          billing.Email,
		Amount:         p.Cost,
		TransactionID:  result.TransactionID,
		PaymentMethod:  result.MethodTypes,
		PaidAt:         s.now().UTC(),
		IdempotencyKey: uuid.NewString(),
	}
	paymentID, err := s.payments.RecordPayment(ctx, record)
	if err != nil {
		// The charge went through; only the record write failed. Surface the
		// transaction ID so support can reconcile.
		s.logger.ErrorContext(ctx, "charge succeeded but recording failed",
			"parcel_id", parcelID, "transaction_id", result.TransactionID, "error", err)
		return Receipt{TransactionID: result.TransactionID, Amount: amount},
			apperrors.Wrapf(err, apperrors.ErrCodeInternal,
				"payment %s succeeded but could not be recorded", result.TransactionID)
	}

	s.logger.InfoContext(ctx, "payment recorded",
		"parcel_id", parcelID, "payment_id", paymentID, "amount", amount.String())
	return Receipt{PaymentID: paymentID, TransactionID: result.TransactionID, Amount: amount}, nil
}

// History lists the caller's payment records.
func (s *PaymentService) History(ctx context.Context, email string) ([]parcel.Payment, error) {
	return s.payments.Payments(ctx, email)
}
