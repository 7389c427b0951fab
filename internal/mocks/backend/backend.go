package backend

// Package backend contains hand-written test doubles for the backend API
// and card-processor ports, with overridable behavior per method.

import (
	"context"
	"strings"
	"sync"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	"github.com/profast/parcel-client/internal/domain/parcel"
	apperrors "github.com/profast/parcel-client/internal/errors"
	"github.com/profast/parcel-client/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.ParcelAPI     = (*MockParcelAPI)(nil)
	_ ports.PaymentAPI    = (*MockPaymentAPI)(nil)
	_ ports.RiderAPI      = (*MockRiderAPI)(nil)
	_ ports.AdminAPI      = (*MockAdminAPI)(nil)
	_ ports.CardProcessor = (*MockCardProcessor)(nil)
)

// MockParcelAPI stores parcels in memory keyed by ID.
type MockParcelAPI struct {
	CreateParcelFunc func(ctx context.Context, p parcel.Parcel) (string, error)
	ParcelFunc       func(ctx context.Context, id string) (parcel.Parcel, error)
	TrackParcelFunc  func(ctx context.Context, trackingID string) ([]parcel.TrackingEvent, error)

	mu      sync.Mutex
	nextID  int
	Parcels map[string]parcel.Parcel
	Deleted []string
}

func (m *MockParcelAPI) CreateParcel(ctx context.Context, p parcel.Parcel) (string, error) {
	if m.CreateParcelFunc != nil {
		return m.CreateParcelFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Parcels == nil {
		m.Parcels = make(map[string]parcel.Parcel)
	}
	m.nextID++
	id := "parcel-" + string(rune('0'+m.nextID))
	p.ID = id
	m.Parcels[id] = p
	return id, nil
}

func (m *MockParcelAPI) Parcel(ctx context.Context, id string) (parcel.Parcel, error) {
	if m.ParcelFunc != nil {
		return m.ParcelFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Parcels[id]
	if !ok {
		return parcel.Parcel{}, apperrors.NotFoundf("parcel %q not found", id)
	}
	return p, nil
}

func (m *MockParcelAPI) ParcelsByCreator(_ context.Context, email string) ([]parcel.Parcel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []parcel.Parcel
	for _, p := range m.Parcels {
		if p.CreatedBy == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockParcelAPI) DeleteParcel(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Parcels[id]; !ok {
		return apperrors.NotFoundf("parcel %q not found", id)
	}
	delete(m.Parcels, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

func (m *MockParcelAPI) TrackParcel(ctx context.Context, trackingID string) ([]parcel.TrackingEvent, error) {
	if m.TrackParcelFunc != nil {
		return m.TrackParcelFunc(ctx, trackingID)
	}
	return nil, nil
}

// Put seeds a parcel directly, bypassing CreateParcel bookkeeping.
func (m *MockParcelAPI) Put(p parcel.Parcel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Parcels == nil {
		m.Parcels = make(map[string]parcel.Parcel)
	}
	m.Parcels[p.ID] = p
}

// MockPaymentAPI answers intent creation and records payments.
type MockPaymentAPI struct {
	CreatePaymentIntentFunc func(ctx context.Context, amountMinor int64, parcelID string) (string, error)
	RecordPaymentFunc       func(ctx context.Context, pay parcel.Payment) (string, error)

	mu            sync.Mutex
	IntentAmounts []int64
	Recorded      []parcel.Payment
}

func (m *MockPaymentAPI) CreatePaymentIntent(ctx context.Context, amountMinor int64, parcelID string) (string, error) {
	m.mu.Lock()
	m.IntentAmounts = append(m.IntentAmounts, amountMinor)
	m.mu.Unlock()
	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, amountMinor, parcelID)
	}
	return "pi_mock_secret_123", nil
}

func (m *MockPaymentAPI) RecordPayment(ctx context.Context, pay parcel.Payment) (string, error) {
	m.mu.Lock()
	m.Recorded = append(m.Recorded, pay)
	m.mu.Unlock()
	if m.RecordPaymentFunc != nil {
		return m.RecordPaymentFunc(ctx, pay)
	}
	return "payment-1", nil
}

func (m *MockPaymentAPI) Payments(_ context.Context, email string) ([]parcel.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []parcel.Payment
	for _, p := range m.Recorded {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

// MockCardProcessor simulates the card gateway. The zero value tokenizes any
// card as "pm_mock" and confirms every charge as succeeded.
type MockCardProcessor struct {
	CreatePaymentMethodFunc func(ctx context.Context, card ports.Card) (string, error)
	ConfirmPaymentFunc      func(ctx context.Context, clientSecret, methodID string, billing ports.BillingDetails) (ports.PaymentResult, error)

	mu        sync.Mutex
	Confirmed []string // client secrets
}

func (m *MockCardProcessor) CreatePaymentMethod(ctx context.Context, card ports.Card) (string, error) {
	if m.CreatePaymentMethodFunc != nil {
		return m.CreatePaymentMethodFunc(ctx, card)
	}
	return "pm_mock", nil
}

func (m *MockCardProcessor) ConfirmPayment(ctx context.Context, clientSecret, methodID string, billing ports.BillingDetails) (ports.PaymentResult, error) {
	m.mu.Lock()
	m.Confirmed = append(m.Confirmed, clientSecret)
	m.mu.Unlock()
	if m.ConfirmPaymentFunc != nil {
		return m.ConfirmPaymentFunc(ctx, clientSecret, methodID, billing)
	}
	return ports.PaymentResult{
		TransactionID: "txn_mock",
		Status:        ports.PaymentSucceeded,
		MethodTypes:   []string{"card"},
	}, nil
}

// MockRiderAPI keeps riders in memory and records delivery transitions.
type MockRiderAPI struct {
	ApplyRiderFunc  func(ctx context.Context, r parcel.Rider) (string, error)
	AssignRiderFunc func(ctx context.Context, parcelID string, rider parcel.Rider) error

	mu            sync.Mutex
	nextID        int
	Riders        map[string]parcel.Rider
	Assigned      map[string]parcel.Rider // parcelID -> rider
	StatusUpdates map[string][]parcel.DeliveryStatus
	CashedOut     []string
	ByEmail       map[string][]parcel.Parcel // RiderParcels answers
	CompletedFor  map[string][]parcel.Parcel
}

func (m *MockRiderAPI) ApplyRider(ctx context.Context, r parcel.Rider) (string, error) {
	if m.ApplyRiderFunc != nil {
		return m.ApplyRiderFunc(ctx, r)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Riders == nil {
		m.Riders = make(map[string]parcel.Rider)
	}
	m.nextID++
	id := "rider-" + string(rune('0'+m.nextID))
	r.ID = id
	m.Riders[id] = r
	return id, nil
}

func (m *MockRiderAPI) PendingRiders(context.Context) ([]parcel.Rider, error) {
	return m.ridersWithStatus(parcel.RiderPending), nil
}

func (m *MockRiderAPI) ActiveRiders(context.Context) ([]parcel.Rider, error) {
	return m.ridersWithStatus(parcel.RiderActive), nil
}

func (m *MockRiderAPI) ridersWithStatus(status parcel.RiderStatus) []parcel.Rider {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []parcel.Rider
	for _, r := range m.Riders {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

func (m *MockRiderAPI) SetRiderStatus(_ context.Context, id string, status parcel.RiderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Riders[id]
	if !ok {
		return apperrors.NotFoundf("rider %q not found", id)
	}
	r.Status = status
	m.Riders[id] = r
	return nil
}

func (m *MockRiderAPI) RidersByDistrict(_ context.Context, district string) ([]parcel.Rider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []parcel.Rider
	for _, r := range m.Riders {
		if r.Status == parcel.RiderActive && r.District == district {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRiderAPI) AssignRider(ctx context.Context, parcelID string, rider parcel.Rider) error {
	if m.AssignRiderFunc != nil {
		return m.AssignRiderFunc(ctx, parcelID, rider)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Assigned == nil {
		m.Assigned = make(map[string]parcel.Rider)
	}
	m.Assigned[parcelID] = rider
	return nil
}

func (m *MockRiderAPI) RiderParcels(_ context.Context, email string) ([]parcel.Parcel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ByEmail[email], nil
}

func (m *MockRiderAPI) UpdateDeliveryStatus(_ context.Context, parcelID string, status parcel.DeliveryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatusUpdates == nil {
		m.StatusUpdates = make(map[string][]parcel.DeliveryStatus)
	}
	m.StatusUpdates[parcelID] = append(m.StatusUpdates[parcelID], status)
	return nil
}

func (m *MockRiderAPI) CompletedDeliveries(_ context.Context, email string) ([]parcel.Parcel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CompletedFor[email], nil
}

func (m *MockRiderAPI) CashOut(_ context.Context, parcelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CashedOut = append(m.CashedOut, parcelID)
	return nil
}

// PutRider seeds a rider record.
func (m *MockRiderAPI) PutRider(r parcel.Rider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Riders == nil {
		m.Riders = make(map[string]parcel.Rider)
	}
	m.Riders[r.ID] = r
}

// MockAdminAPI records role changes.
type MockAdminAPI struct {
	SearchUsersFunc func(ctx context.Context, emailFragment string) ([]domainauth.UserRecord, error)

	mu          sync.Mutex
	Users       []domainauth.UserRecord
	RoleChanges map[string]domainauth.Role
}

func (m *MockAdminAPI) SearchUsers(ctx context.Context, emailFragment string) ([]domainauth.UserRecord, error) {
	if m.SearchUsersFunc != nil {
		return m.SearchUsersFunc(ctx, emailFragment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domainauth.UserRecord
	for _, u := range m.Users {
		if emailFragment == "" || containsFold(u.Email, emailFragment) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MockAdminAPI) SetUserRole(_ context.Context, userID string, role domainauth.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RoleChanges == nil {
		m.RoleChanges = make(map[string]domainauth.Role)
	}
	m.RoleChanges[userID] = role
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
