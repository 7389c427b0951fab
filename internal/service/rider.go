package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/profast/parcel-client/internal/domain/parcel"
	"github.com/profast/parcel-client/internal/domain/pricing"
	apperrors "github.com/profast/parcel-client/internal/errors"
	"github.com/profast/parcel-client/internal/ports"
)

// Rider earning shares of a delivered parcel's cost.
const (
	earningShareSameDistrict  = 0.8
	earningShareCrossDistrict = 0.3
)

// RiderServiceOptions groups dependencies for RiderService.
type RiderServiceOptions struct {
	Riders ports.RiderAPI
	Logger *slog.Logger
}

// RiderService covers the rider lifecycle: application and review, active
// deliveries, and earnings.
type RiderService struct {
	riders ports.RiderAPI
	logger *slog.Logger
	now    func() time.Time
}

// NewRiderService constructs a new RiderService.
func NewRiderService(opts RiderServiceOptions) *RiderService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RiderService{riders: opts.Riders, logger: logger, now: time.Now}
}

// Apply submits a rider application. Applications start pending; an admin
// approves or rejects them.
func (s *RiderService) Apply(ctx context.Context, r parcel.Rider) (string, error) {
	switch {
	case r.Name == "":
		return "", apperrors.ValidationField("name", "name is required")
	case r.Email == "":
		return "", apperrors.ValidationField("email", "email is required")
	case r.Region == "" || r.District == "":
		return "", apperrors.ValidationField("district", "region and district are required")
	case r.Phone == "":
		return "", apperrors.ValidationField("phone", "phone number is required")
	case r.NID == "":
		return "", apperrors.ValidationField("nid", "national ID number is required")
	}

	r.Status = parcel.RiderPending
	r.AppliedAt = s.now().UTC().Format(time.RFC3339)

	id, err := s.riders.ApplyRider(ctx, r)
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "rider application submitted", "rider_id", id, "district", r.District)
	return id, nil
}

// Pending lists applications awaiting review.
func (s *RiderService) Pending(ctx context.Context) ([]parcel.Rider, error) {
	return s.riders.PendingRiders(ctx)
}

// Active lists approved riders.
func (s *RiderService) Active(ctx context.Context) ([]parcel.Rider, error) {
	return s.riders.ActiveRiders(ctx)
}

// Approve activates a pending application. The backend promotes the user's
// role to rider as part of the same operation.
func (s *RiderService) Approve(ctx context.Context, riderID string) error {
	return s.riders.SetRiderStatus(ctx, riderID, parcel.RiderActive)
}

// Reject declines a pending application.
func (s *RiderService) Reject(ctx context.Context, riderID string) error {
	return s.riders.SetRiderStatus(ctx, riderID, parcel.RiderRejected)
}

// Deactivate removes an active rider from duty.
func (s *RiderService) Deactivate(ctx context.Context, riderID string) error {
	return s.riders.SetRiderStatus(ctx, riderID, parcel.RiderDeactivated)
}

// Deliveries lists a rider's in-flight parcels.
func (s *RiderService) Deliveries(ctx context.Context, email string) ([]parcel.Parcel, error) {
	return s.riders.RiderParcels(ctx, email)
}

// deliveryOrder: rider_assigned -> in_transit -> delivered.
var deliveryNext = map[parcel.DeliveryStatus]parcel.DeliveryStatus{
	parcel.DeliveryRiderAssigned: parcel.DeliveryInTransit,
	parcel.DeliveryInTransit:     parcel.DeliveryDelivered,
}

// AdvanceDelivery moves a parcel one step along the pipeline. Steps cannot
// be skipped or repeated.
func (s *RiderService) AdvanceDelivery(ctx context.Context, p parcel.Parcel) (parcel.DeliveryStatus, error) {
	next, ok := deliveryNext[p.DeliveryStatus]
	if !ok {
		return "", apperrors.Conflict("parcel is not in a state a rider can advance")
	}
	if err := s.riders.UpdateDeliveryStatus(ctx, p.ID, next); err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "delivery status advanced",
		"parcel_id", p.ID, "from", string(p.DeliveryStatus), "to", string(next))
	return next, nil
}

// Earning computes the rider's share of a delivered parcel's cost: 80%
// within a district, 30% across districts.
func Earning(p parcel.Parcel) pricing.Money {
	share := earningShareCrossDistrict
	if p.SameDistrict() {
		share = earningShareSameDistrict
	}
	return pricing.MoneyFromTaka(p.Cost * share)
}

// EarningsSummary totals a rider's completed deliveries.
type EarningsSummary struct {
	Delivered   []parcel.Parcel
	Total       pricing.Money
	CashedOut   pricing.Money
	Outstanding pricing.Money
}

// Earnings lists completed deliveries with their earning totals.
func (s *RiderService) Earnings(ctx context.Context, email string) (EarningsSummary, error) {
	done, err := s.riders.CompletedDeliveries(ctx, email)
	if err != nil {
		return EarningsSummary{}, err
	}
	sum := EarningsSummary{Delivered: done}
	for _, p := range done {
		e := Earning(p)
		sum.Total += e
		if p.CashoutStatus == parcel.CashoutDone {
			sum.CashedOut += e
		} else {
			sum.Outstanding += e
		}
	}
	return sum, nil
}

// CashOut marks a delivered parcel's earning as cashed out.
func (s *RiderService) CashOut(ctx context.Context, p parcel.Parcel) error {
	if p.DeliveryStatus != parcel.DeliveryDelivered {
		return apperrors.Conflict("only delivered parcels can be cashed out")
	}
	if p.CashoutStatus == parcel.CashoutDone {
		return apperrors.Conflict("this delivery has already been cashed out")
	}
	return s.riders.CashOut(ctx, p.ID)
}
