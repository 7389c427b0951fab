package service

import (
	"context"
	"log/slog"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	"github.com/profast/parcel-client/internal/domain/parcel"
	apperrors "github.com/profast/parcel-client/internal/errors"
	"github.com/profast/parcel-client/internal/ports"
)

// AdminServiceOptions groups dependencies for AdminService.
type AdminServiceOptions struct {
	Admin   ports.AdminAPI
	Riders  ports.RiderAPI
	Parcels ports.ParcelAPI
}

// AdminService covers user administration and rider assignment. Every
// operation here assumes the session guard has already verified the admin
// role; the backend enforces it again.
type AdminService struct {
	admin   ports.AdminAPI
	riders  ports.RiderAPI
	parcels ports.ParcelAPI
	logger  *slog.Logger
}

// NewAdminService constructs a new AdminService.
func NewAdminService(opts AdminServiceOptions, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{
		admin:   opts.Admin,
		riders:  opts.Riders,
		parcels: opts.Parcels,
		logger:  logger,
	}
}

// SearchUsers finds user records by email fragment.
func (s *AdminService) SearchUsers(ctx context.Context, emailFragment string) ([]domainauth.UserRecord, error) {
	return s.admin.SearchUsers(ctx, emailFragment)
}

// GrantAdmin promotes a user to admin.
func (s *AdminService) GrantAdmin(ctx context.Context, userID string) error {
	if err := s.admin.SetUserRole(ctx, userID, domainauth.RoleAdmin); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "admin role granted", "user_id", userID)
	return nil
}

// RevokeAdmin demotes a user back to the base role.
func (s *AdminService) RevokeAdmin(ctx context.Context, userID string) error {
	if err := s.admin.SetUserRole(ctx, userID, domainauth.RoleUser); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "admin role revoked", "user_id", userID)
	return nil
}

// AssignCandidates lists active riders serving a parcel's pickup district.
// Only paid, not-yet-collected parcels are assignable.
func (s *AdminService) AssignCandidates(ctx context.Context, parcelID string) (parcel.Parcel, []parcel.Rider, error) {
	p, err := s.parcels.Parcel(ctx, parcelID)
	if err != nil {
		return parcel.Parcel{}, nil, err
	}
	if p.PaymentStatus != parcel.PaymentPaid {
		return parcel.Parcel{}, nil, apperrors.Conflict("only paid parcels can be assigned a rider")
	}
	if p.DeliveryStatus != parcel.DeliveryNotCollected {
		return parcel.Parcel{}, nil, apperrors.Conflict("this parcel already has a rider")
	}

	riders, err := s.riders.RidersByDistrict(ctx, p.SenderCenter)
	if err != nil {
		return parcel.Parcel{}, nil, err
	}
	return p, riders, nil
}

// AssignRider assigns a rider to a parcel. The backend marks the parcel
// rider_assigned as part of the same operation.
func (s *AdminService) AssignRider(ctx context.Context, parcelID string, rider parcel.Rider) error {
	p, candidates, err := s.AssignCandidates(ctx, parcelID)
	if err != nil {
		return err
	}

	eligible := false
	for _, c := range candidates {
		if c.Email == rider.Email {
			eligible = true
			break
		}
	}
	if !eligible {
		return apperrors.Validationf("rider %s does not serve the %s district", rider.Email, p.SenderCenter)
	}

	if err := s.riders.AssignRider(ctx, parcelID, rider); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "rider assigned",
		"parcel_id", parcelID, "rider", rider.Email, "district", p.SenderCenter)
	return nil
}
