package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profast/parcel-client/internal/domain/parcel"
	apperrors "github.com/profast/parcel-client/internal/errors"
	mockbackend "github.com/profast/parcel-client/internal/mocks/backend"
)

func validApplication() parcel.Rider {
	return parcel.Rider{
		Name:     "Karim",
		Email:    "karim@example.com",
		Region:   "Dhaka",
		District: "Dhaka",
		Phone:    "01800000001",
		NID:      "1234567890",
	}
}

func TestRider_Apply(t *testing.T) {
	api := &mockbackend.MockRiderAPI{}
	svc := NewRiderService(RiderServiceOptions{Riders: api})

	id, err := svc.Apply(context.Background(), validApplication())
	require.NoError(t, err)

	stored := api.Riders[id]
	assert.Equal(t, parcel.RiderPending, stored.Status, "applications start pending")
	assert.NotEmpty(t, stored.AppliedAt)
}

func TestRider_Apply_Validation(t *testing.T) {
	svc := NewRiderService(RiderServiceOptions{Riders: &mockbackend.MockRiderAPI{}})

	tests := []struct {
		name   string
		mutate func(*parcel.Rider)
		field  string
	}{
		{"missing name", func(r *parcel.Rider) { r.Name = "" }, "name"},
		{"missing email", func(r *parcel.Rider) { r.Email = "" }, "email"},
		{"missing district", func(r *parcel.Rider) { r.District = "" }, "district"},
		{"missing phone", func(r *parcel.Rider) { r.Phone = "" }, "phone"},
		{"missing nid", func(r *parcel.Rider) { r.NID = "" }, "nid"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := validApplication()
			tc.mutate(&app)
			_, err := svc.Apply(context.Background(), app)
			require.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tc.field, apperrors.GetField(err))
		})
	}
}

func TestRider_ReviewLifecycle(t *testing.T) {
	api := &mockbackend.MockRiderAPI{}
	svc := NewRiderService(RiderServiceOptions{Riders: api})

	id, err := svc.Apply(context.Background(), validApplication())
	require.NoError(t, err)

	pending, err := svc.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, svc.Approve(context.Background(), id))
	active, err := svc.Active(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, parcel.RiderActive, active[0].Status)

	pending, err = svc.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, svc.Deactivate(context.Background(), id))
	active, err = svc.Active(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRider_AdvanceDelivery(t *testing.T) {
	api := &mockbackend.MockRiderAPI{}
	svc := NewRiderService(RiderServiceOptions{Riders: api})

	p := parcel.Parcel{ID: "p1", DeliveryStatus: parcel.DeliveryRiderAssigned}
	next, err := svc.AdvanceDelivery(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, parcel.DeliveryInTransit, next)

	p.DeliveryStatus = next
	next, err = svc.AdvanceDelivery(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, parcel.DeliveryDelivered, next)

	p.DeliveryStatus = next
	_, err = svc.AdvanceDelivery(context.Background(), p)
	assert.True(t, apperrors.IsConflict(err), "delivered is terminal")

	_, err = svc.AdvanceDelivery(context.Background(), parcel.Parcel{ID: "p2", DeliveryStatus: parcel.DeliveryNotCollected})
	assert.True(t, apperrors.IsConflict(err), "unassigned parcels are not a rider's to advance")

	assert.Equal(t,
		[]parcel.DeliveryStatus{parcel.DeliveryInTransit, parcel.DeliveryDelivered},
		api.StatusUpdates["p1"])
}

func TestRider_Earning(t *testing.T) {
	same := parcel.Parcel{Cost: 100, SenderCenter: "Dhaka", ReceiverCenter: "Dhaka"}
	cross := parcel.Parcel{Cost: 100, SenderCenter: "Dhaka", ReceiverCenter: "Sylhet"}

	assert.Equal(t, "80.00", Earning(same).String())
	assert.Equal(t, "30.00", Earning(cross).String())
}

func TestRider_Earnings(t *testing.T) {
	api := &mockbackend.MockRiderAPI{
		CompletedFor: map[string][]parcel.Parcel{
			"karim@example.com": {
				{ID: "p1", Cost: 100, SenderCenter: "Dhaka", ReceiverCenter: "Dhaka",
					DeliveryStatus: parcel.DeliveryDelivered, CashoutStatus: parcel.CashoutDone},
				{ID: "p2", Cost: 100, SenderCenter: "Dhaka", ReceiverCenter: "Sylhet",
					DeliveryStatus: parcel.DeliveryDelivered},
			},
		},
	}
	svc := NewRiderService(RiderServiceOptions{Riders: api})

	sum, err := svc.Earnings(context.Background(), "karim@example.com")
	require.NoError(t, err)
	assert.Equal(t, "110.00", sum.Total.String())
	assert.Equal(t, "80.00", sum.CashedOut.String())
	assert.Equal(t, "30.00", sum.Outstanding.String())
}

func TestRider_CashOut(t *testing.T) {
	api := &mockbackend.MockRiderAPI{}
	svc := NewRiderService(RiderServiceOptions{Riders: api})

	delivered := parcel.Parcel{ID: "p1", DeliveryStatus: parcel.DeliveryDelivered}
	require.NoError(t, svc.CashOut(context.Background(), delivered))
	assert.Equal(t, []string{"p1"}, api.CashedOut)

	inFlight := parcel.Parcel{ID: "p2", DeliveryStatus: parcel.DeliveryInTransit}
	assert.True(t, apperrors.IsConflict(svc.CashOut(context.Background(), inFlight)))

	already := parcel.Parcel{ID: "p3", DeliveryStatus: parcel.DeliveryDelivered, CashoutStatus: parcel.CashoutDone}
	assert.True(t, apperrors.IsConflict(svc.CashOut(context.Background(), already)))
}
