package ports

import (
	"context"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	"github.com/profast/parcel-client/internal/domain/parcel"
)

// ParcelAPI is the backend's parcel-storage surface.
type ParcelAPI interface {
	// CreateParcel submits a booking and returns the inserted ID.
	CreateParcel(ctx context.Context, p parcel.Parcel) (string, error)
	Parcel(ctx context.Context, id string) (parcel.Parcel, error)
	ParcelsByCreator(ctx context.Context, email string) ([]parcel.Parcel, error)
	DeleteParcel(ctx context.Context, id string) error
	TrackParcel(ctx context.Context, trackingID string) ([]parcel.TrackingEvent, error)
}

// PaymentAPI is the backend's payment surface. The backend talks to the
// processor server-side; the client only passes amounts in minor units and
// records confirmed charges.
type PaymentAPI interface {
	// CreatePaymentIntent asks the backend for a processor client secret for
	// the given amount in minor units.
	CreatePaymentIntent(ctx context.Context, amountMinor int64, parcelID string) (clientSecret string, err error)
	RecordPayment(ctx context.Context, pay parcel.Payment) (string, error)
	Payments(ctx context.Context, email string) ([]parcel.Payment, error)
}

// RiderAPI covers rider applications, assignment, and delivery progress.
type RiderAPI interface {
	ApplyRider(ctx context.Context, r parcel.Rider) (string, error)
	PendingRiders(ctx context.Context) ([]parcel.Rider, error)
	ActiveRiders(ctx context.Context) ([]parcel.Rider, error)
	SetRiderStatus(ctx context.Context, id string, status parcel.RiderStatus) error
	RidersByDistrict(ctx context.Context, district string) ([]parcel.Rider, error)
	AssignRider(ctx context.Context, parcelID string, rider parcel.Rider) error
	RiderParcels(ctx context.Context, email string) ([]parcel.Parcel, error)
	UpdateDeliveryStatus(ctx context.Context, parcelID string, status parcel.DeliveryStatus) error
	CompletedDeliveries(ctx context.Context, email string) ([]parcel.Parcel, error)
	CashOut(ctx context.Context, parcelID string) error
}

// AdminAPI covers user administration.
type AdminAPI interface {
	SearchUsers(ctx context.Context, emailFragment string) ([]domainauth.UserRecord, error)
	SetUserRole(ctx context.Context, userID string, role domainauth.Role) error
}
