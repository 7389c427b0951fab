package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	"github.com/profast/parcel-client/internal/domain/parcel"
	apperrors "github.com/profast/parcel-client/internal/errors"
	mockbackend "github.com/profast/parcel-client/internal/mocks/backend"
)

func adminFixture() (*mockbackend.MockAdminAPI, *mockbackend.MockRiderAPI, *mockbackend.MockParcelAPI, *AdminService) {
	admin := &mockbackend.MockAdminAPI{}
	riders := &mockbackend.MockRiderAPI{}
	parcels := &mockbackend.MockParcelAPI{}
	svc := NewAdminService(AdminServiceOptions{Admin: admin, Riders: riders, Parcels: parcels}, nil)
	return admin, riders, parcels, svc
}

func TestAdmin_SearchUsers(t *testing.T) {
	admin, _, _, svc := adminFixture()
	admin.Users = []domainauth.UserRecord{
		{UID: "u1", Email: "ayesha@example.com"},
		{UID: "u2", Email: "karim@example.com"},
	}

	found, err := svc.SearchUsers(context.Background(), "AYESHA")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "u1", found[0].UID)
}

func TestAdmin_GrantAndRevoke(t *testing.T) {
	admin, _, _, svc := adminFixture()

	require.NoError(t, svc.GrantAdmin(context.Background(), "u1"))
	assert.Equal(t, domainauth.RoleAdmin, admin.RoleChanges["u1"])

	require.NoError(t, svc.RevokeAdmin(context.Background(), "u1"))
	assert.Equal(t, domainauth.RoleUser, admin.RoleChanges["u1"])
}

func assignableParcel() parcel.Parcel {
	return parcel.Parcel{
		ID:             "p1",
		SenderCenter:   "Dhaka",
		ReceiverCenter: "Sylhet",
		PaymentStatus:  parcel.PaymentPaid,
		DeliveryStatus: parcel.DeliveryNotCollected,
	}
}

func TestAdmin_AssignCandidates(t *testing.T) {
	_, riders, parcels, svc := adminFixture()
	parcels.Put(assignableParcel())
	riders.PutRider(parcel.Rider{ID: "r1", Email: "karim@example.com", District: "Dhaka", Status: parcel.RiderActive})
	riders.PutRider(parcel.Rider{ID: "r2", Email: "far@example.com", District: "Sylhet", Status: parcel.RiderActive})
	riders.PutRider(parcel.Rider{ID: "r3", Email: "pending@example.com", District: "Dhaka", Status: parcel.RiderPending})

	p, candidates, err := svc.AssignCandidates(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	require.Len(t, candidates, 1, "only active riders in the pickup district qualify")
	assert.Equal(t, "karim@example.com", candidates[0].Email)
}

func TestAdmin_AssignCandidates_Rejections(t *testing.T) {
	_, _, parcels, svc := adminFixture()

	unpaid := assignableParcel()
	unpaid.PaymentStatus = parcel.PaymentUnpaid
	parcels.Put(unpaid)
	_, _, err := svc.AssignCandidates(context.Background(), "p1")
	assert.True(t, apperrors.IsConflict(err), "unpaid parcels are not assignable")

	taken := assignableParcel()
	taken.DeliveryStatus = parcel.DeliveryRiderAssigned
	parcels.Put(taken)
	_, _, err = svc.AssignCandidates(context.Background(), "p1")
	assert.True(t, apperrors.IsConflict(err), "already-assigned parcels are not assignable")
}

func TestAdmin_AssignRider(t *testing.T) {
	_, riders, parcels, svc := adminFixture()
	parcels.Put(assignableParcel())
	rider := parcel.Rider{ID: "r1", Email: "karim@example.com", District: "Dhaka", Status: parcel.RiderActive}
	riders.PutRider(rider)

	require.NoError(t, svc.AssignRider(context.Background(), "p1", rider))
	assert.Equal(t, "karim@example.com", riders.Assigned["p1"].Email)
}

func TestAdmin_AssignRider_WrongDistrict(t *testing.T) {
	_, riders, parcels, svc := adminFixture()
	parcels.Put(assignableParcel())
	outsider := parcel.Rider{ID: "r2", Email: "far@example.com", District: "Sylhet", Status: parcel.RiderActive}
	riders.PutRider(outsider)

	err := svc.AssignRider(context.Background(), "p1", outsider)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, riders.Assigned)
}
