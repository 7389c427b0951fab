package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/profast/parcel-client/internal/domain/parcel"
	"github.com/profast/parcel-client/internal/ports"
)

var _ ports.RiderAPI = (*Client)(nil)

// ApplyRider submits a rider application. POST /riders.
func (c *Client) ApplyRider(ctx context.Context, r parcel.Rider) (string, error) {
	var out insertedID
	if err := c.do(ctx, http.MethodPost, "/riders", r, &out); err != nil {
		return "", err
	}
	return out.InsertedID, nil
}

// PendingRiders lists applications awaiting review. GET /riders/pending.
func (c *Client) PendingRiders(ctx context.Context) ([]parcel.Rider, error) {
	var out []parcel.Rider
	err := c.do(ctx, http.MethodGet, "/riders/pending", nil, &out)
	return out, err
}

// ActiveRiders lists approved riders. GET /riders/active.
func (c *Client) ActiveRiders(ctx context.Context) ([]parcel.Rider, error) {
	var out []parcel.Rider
	err := c.do(ctx, http.MethodGet, "/riders/active", nil, &out)
	return out, err
}

// SetRiderStatus approves, rejects, or deactivates an application.
// PATCH /riders/{id}/status. Approval also promotes the user's role to
// rider on the backend.
func (c *Client) SetRiderStatus(ctx context.Context, id string, status parcel.RiderStatus) error {
	body := map[string]string{"status": string(status)}
	return c.do(ctx, http.MethodPatch, "/riders/"+url.PathEscape(id)+"/status", body, nil)
}

// RidersByDistrict lists active riders serving a district.
// GET /riders/available?district={district}.
func (c *Client) RidersByDistrict(ctx context.Context, district string) ([]parcel.Rider, error) {
	var out []parcel.Rider
	err := c.do(ctx, http.MethodGet, "/riders/available?district="+url.QueryEscape(district), nil, &out)
	return out, err
}

// AssignRider assigns a rider to a parcel. PATCH /parcels/{id}/assign.
func (c *Client) AssignRider(ctx context.Context, parcelID string, rider parcel.Rider) error {
	body := map[string]string{
		"rider_email": rider.Email,
		"rider_name":  rider.Name,
	}
	return c.do(ctx, http.MethodPatch, "/parcels/"+url.PathEscape(parcelID)+"/assign", body, nil)
}

// RiderParcels lists parcels assigned to a rider that are still in flight.
// GET /rider/parcels?email={email}.
func (c *Client) RiderParcels(ctx context.Context, email string) ([]parcel.Parcel, error) {
	var out []parcel.Parcel
	err := c.do(ctx, http.MethodGet, "/rider/parcels?email="+url.QueryEscape(email), nil, &out)
	return out, err
}

// UpdateDeliveryStatus advances a parcel through the delivery pipeline.
// PATCH /parcels/{id}/status.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, parcelID string, status parcel.DeliveryStatus) error {
	body := map[string]string{"delivery_status": string(status)}
	return c.do(ctx, http.MethodPatch, "/parcels/"+url.PathEscape(parcelID)+"/status", body, nil)
}

// CompletedDeliveries lists parcels a rider has delivered.
// GET /rider/completed-parcels?email={email}.
func (c *Client) CompletedDeliveries(ctx context.Context, email string) ([]parcel.Parcel, error) {
	var out []parcel.Parcel
	err := c.do(ctx, http.MethodGet, "/rider/completed-parcels?email="+url.QueryEscape(email), nil, &out)
	return out, err
}

// CashOut marks a delivered parcel's earning as cashed out.
// PATCH /parcels/{id}/cashout.
func (c *Client) CashOut(ctx context.Context, parcelID string) error {
	return c.do(ctx, http.MethodPatch, "/parcels/"+url.PathEscape(parcelID)+"/cashout", nil, nil)
}
