package parcel

// Package parcel contains domain types for parcel bookings, deliveries,
// riders, and payments. The backend owns persistence; these are the shapes
// the client submits and reads back.

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/profast/parcel-client/internal/domain/pricing"
)

// PaymentStatus tracks whether a booking has been paid for.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// DeliveryStatus tracks a parcel through the delivery pipeline.
type DeliveryStatus string

const (
	DeliveryNotCollected  DeliveryStatus = "not_collected"
	DeliveryRiderAssigned DeliveryStatus = "rider_assigned"
	DeliveryInTransit     DeliveryStatus = "in_transit"
	DeliveryDelivered     DeliveryStatus = "delivered"
)

// Parcel is the booking record submitted to the backend. Cost is computed
// client-side by the pricing engine and carried on the record.
type Parcel struct {
	ID                  string         `json:"_id,omitempty"`
	Title               string         `json:"title"`
	Kind                pricing.Kind   `json:"type"`
	WeightKg            float64        `json:"weight,omitempty"`
	SenderName          string         `json:"sender_name"`
	SenderAddress       string         `json:"sender_address"`
	SenderContact       string         `json:"sender_contact"`
	SenderRegion        string         `json:"sender_region"`
	SenderCenter        string         `json:"sender_center"`
	ReceiverName        string         `json:"receiver_name"`
	ReceiverAddress     string         `json:"receiver_address"`
	ReceiverContact     string         `json:"receiver_contact"`
	ReceiverRegion      string         `json:"receiver_region"`
	ReceiverCenter      string         `json:"receiver_center"`
	PickupInstruction   string         `json:"pickup_instruction,omitempty"`
	DeliveryInstruction string         `json:"delivery_instruction,omitempty"`
	Cost                float64        `json:"cost"`
	CreatedBy           string         `json:"created_by"`
	PaymentStatus       PaymentStatus  `json:"payment_status"`
	DeliveryStatus      DeliveryStatus `json:"delivery_status"`
	CreationDate        string         `json:"creation_date"`
	TrackingID          string         `json:"tracking_id"`
	AssignedRider       string         `json:"assigned_rider_email,omitempty"`
	AssignedRiderName   string         `json:"assigned_rider_name,omitempty"`
	CashoutStatus       CashoutStatus  `json:"cashout_status,omitempty"`
}

// CashoutStatus tracks whether a rider has cashed out a delivery's earning.
type CashoutStatus string

const (
	CashoutPending CashoutStatus = ""
	CashoutDone    CashoutStatus = "cashed_out"
)

// SameDistrict reports whether pickup and delivery share a service center.
func (p Parcel) SameDistrict() bool {
	return p.SenderCenter != "" && p.SenderCenter == p.ReceiverCenter
}

// NewTrackingID generates a customer-facing tracking identifier of the form
// PCL-YYYYMMDD-XXXXX. The suffix is derived from a fresh UUID, so collisions
// within a day are practically impossible.
func NewTrackingID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:5]
	return "PCL-" + now.UTC().Format("20060102") + "-" + suffix
}

// TrackingEvent is one step in a parcel's delivery history.
type TrackingEvent struct {
	TrackingID string    `json:"tracking_id"`
	Status     string    `json:"status"`
	Details    string    `json:"details"`
	Location   string    `json:"location,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Payment is the record written after a confirmed charge.
type Payment struct {
	ID             string    `json:"_id,omitempty"`
	ParcelID       string    `json:"parcelId"`
	Email          string    `json:"email"`
	Amount         float64   `json:"amount"`
	TransactionID  string    `json:"transactionId"`
	PaymentMethod  []string  `json:"paymentMethod"`
	PaidAt         time.Time `json:"paid_at,omitempty"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
}

// RiderStatus tracks a rider application through review.
type RiderStatus string

const (
	RiderPending     RiderStatus = "pending"
	RiderActive      RiderStatus = "active"
	RiderDeactivated RiderStatus = "deactivated"
	RiderRejected    RiderStatus = "rejected"
)

// Rider is a rider application and, once approved, the rider's profile.
type Rider struct {
	ID        string      `json:"_id,omitempty"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Age       int         `json:"age,omitempty"`
	Region    string      `json:"region"`
	District  string      `json:"district"`
	Phone     string      `json:"phone"`
	NID       string      `json:"nid"`
	BikeBrand string      `json:"bike_brand,omitempty"`
	BikeRegNo string      `json:"bike_registration,omitempty"`
	Status    RiderStatus `json:"status"`
	AppliedAt string      `json:"applied_at,omitempty"`
}
