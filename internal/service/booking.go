package service

// Package service orchestrates the booking, payment, rider, and admin
// workflows over the backend and processor ports. Services validate input,
// apply domain rules, and delegate persistence to the backend; they hold no
// durable state of their own.

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/profast/parcel-client/internal/coverage"
	"github.com/profast/parcel-client/internal/domain/parcel"
	"github.com/profast/parcel-client/internal/domain/pricing"
	apperrors "github.com/profast/parcel-client/internal/errors"
	"github.com/profast/parcel-client/internal/ports"
)

// BookingServiceOptions groups dependencies for BookingService.
type BookingServiceOptions struct {
	Parcels ports.ParcelAPI
	Centers *coverage.Dataset
	Logger  *slog.Logger
}

// BookingService validates, prices, and submits parcel bookings.
type BookingService struct {
	parcels ports.ParcelAPI
	centers *coverage.Dataset
	logger  *slog.Logger
	now     func() time.Time
}

// NewBookingService constructs a new BookingService.
func NewBookingService(opts BookingServiceOptions) *BookingService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{
		parcels: opts.Parcels,
		centers: opts.Centers,
		logger:  logger,
		now:     time.Now,
	}
}

// Validate checks a draft booking. It runs before pricing: a draft that
// fails here is never quoted.
func (s *BookingService) Validate(draft parcel.Parcel) error {
	if draft.Title == "" {
		return apperrors.ValidationField("title", "parcel title is required")
	}
	switch draft.Kind {
	case pricing.KindDocument:
		// Weight is ignored for documents; nothing to check.
	case pricing.KindNonDocument:
		w := draft.WeightKg
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return apperrors.ValidationField("weight", "a positive weight is required for non-document parcels")
		}
	default:
		return apperrors.ValidationField("type", "parcel type must be document or non-document")
	}
	if draft.SenderName == "" || draft.SenderContact == "" {
		return apperrors.ValidationField("sender", "sender name and contact are required")
	}
	if draft.ReceiverName == "" || draft.ReceiverContact == "" {
		return apperrors.ValidationField("receiver", "receiver name and contact are required")
	}
	if s.centers != nil {
		if !s.centers.HasDistrict(draft.SenderCenter) {
			return apperrors.ValidationField("sender_center", "no service center covers the pickup district")
		}
		if !s.centers.HasDistrict(draft.ReceiverCenter) {
			return apperrors.ValidationField("receiver_center", "no service center covers the delivery district")
		}
	}
	return nil
}

// Price validates a draft and returns its cost breakdown for display.
func (s *BookingService) Price(draft parcel.Parcel) (pricing.CostBreakdown, error) {
	if err := s.Validate(draft); err != nil {
		return pricing.CostBreakdown{}, err
	}
	return pricing.Quote(pricing.ParcelQuote{
		Kind:         draft.Kind,
		WeightKg:     draft.WeightKg,
		SameDistrict: draft.SameDistrict(),
	}), nil
}

// Booked is the outcome of a confirmed booking.
type Booked struct {
	ID         string
	TrackingID string
	Cost       pricing.CostBreakdown
}

// Book prices a validated draft and submits it. The stored record carries
// the computed cost, starts unpaid and not collected, and gets a fresh
// tracking ID.
func (s *BookingService) Book(ctx context.Context, creator string, draft parcel.Parcel) (Booked, error) {
	if creator == "" {
		return Booked{}, apperrors.Unauthenticated("sign in to book a parcel")
	}
	breakdown, err := s.Price(draft)
	if err != nil {
		return Booked{}, err
	}

	now := s.now().UTC()
	draft.Cost = breakdown.Total.Taka()
	draft.CreatedBy = creator
	draft.PaymentStatus = parcel.PaymentUnpaid
	draft.DeliveryStatus = parcel.DeliveryNotCollected
	draft.CreationDate = now.Format(time.RFC3339)
	draft.TrackingID = parcel.NewTrackingID(now)

	id, err := s.parcels.CreateParcel(ctx, draft)
	if err != nil {
		return Booked{}, err
	}

	s.logger.InfoContext(ctx, "parcel booked",
		"parcel_id", id,
		"tracking_id", draft.TrackingID,
		"cost", breakdown.Total.String(),
	)
	return Booked{ID: id, TrackingID: draft.TrackingID, Cost: breakdown}, nil
}

// MyParcels lists the caller's bookings.
func (s *BookingService) MyParcels(ctx context.Context, email string) ([]parcel.Parcel, error) {
	return s.parcels.ParcelsByCreator(ctx, email)
}

// Track returns the delivery history for a tracking ID.
func (s *BookingService) Track(ctx context.Context, trackingID string) ([]parcel.TrackingEvent, error) {
	return s.parcels.TrackParcel(ctx, trackingID)
}

// Cancel deletes an unpaid booking. Paid parcels are in the delivery
// pipeline and can no longer be cancelled client-side.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	p, err := s.parcels.Parcel(ctx, id)
	if err != nil {
		return err
	}
	if p.PaymentStatus == parcel.PaymentPaid {
		return apperrors.Conflict("a paid parcel cannot be cancelled")
	}
	return s.parcels.DeleteParcel(ctx, id)
}
