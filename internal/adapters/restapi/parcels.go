package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/profast/parcel-client/internal/domain/parcel"
	"github.com/profast/parcel-client/internal/ports"
)

var _ ports.ParcelAPI = (*Client)(nil)

// CreateParcel submits a booking. POST /parcels.
func (c *Client) CreateParcel(ctx context.Context, p parcel.Parcel) (string, error) {
	var out insertedID
	if err := c.do(ctx, http.MethodPost, "/parcels", p, &out); err != nil {
		return "", err
	}
	return out.InsertedID, nil
}

// Parcel fetches one booking. GET /parcels/{id}.
func (c *Client) Parcel(ctx context.Context, id string) (parcel.Parcel, error) {
	var p parcel.Parcel
	err := c.do(ctx, http.MethodGet, "/parcels/"+url.PathEscape(id), nil, &p)
	return p, err
}

// ParcelsByCreator lists bookings created by an email.
// GET /parcels?email={email}.
func (c *Client) ParcelsByCreator(ctx context.Context, email string) ([]parcel.Parcel, error) {
	var out []parcel.Parcel
	err := c.do(ctx, http.MethodGet, "/parcels?email="+url.QueryEscape(email), nil, &out)
	return out, err
}

// DeleteParcel removes an unpaid booking. DELETE /parcels/{id}.
func (c *Client) DeleteParcel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/parcels/"+url.PathEscape(id), nil, nil)
}

// TrackParcel lists tracking events for a tracking ID.
// GET /trackings/{trackingId}.
func (c *Client) TrackParcel(ctx context.Context, trackingID string) ([]parcel.TrackingEvent, error) {
	var out []parcel.TrackingEvent
	err := c.do(ctx, http.MethodGet, "/trackings/"+url.PathEscape(trackingID), nil, &out)
	return out, err
}
