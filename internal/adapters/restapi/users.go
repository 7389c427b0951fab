package restapi

import (
	"context"
	"net/http"
	"net/url"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	apperrors "github.com/profast/parcel-client/internal/errors"
	"github.com/profast/parcel-client/internal/ports"
)

// Compile-time conformance to the user-facing ports.
var (
	_ ports.RoleDirectory         = (*Client)(nil)
	_ ports.UserDirectory         = (*Client)(nil)
	_ ports.CredentialInvalidator = (*Client)(nil)
	_ ports.AdminAPI              = (*Client)(nil)
)

// Role resolves the backend-authoritative role for an email.
// GET /users/role/{email}. An empty role in the response maps to the
// least-privilege role, matching records created before roles existed.
func (c *Client) Role(ctx context.Context, email string) (domainauth.Role, error) {
	var out struct {
		Role string `json:"role"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/role/"+url.PathEscape(email), nil, &out); err != nil {
		return domainauth.RoleUser, err
	}
	return domainauth.ParseRole(out.Role), nil
}

// EnsureUser creates the backend user record if it does not already exist.
// GET /users/{email} first; only a missing record triggers POST /users.
func (c *Client) EnsureUser(ctx context.Context, rec domainauth.UserRecord) error {
	var existing domainauth.UserRecord
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(rec.Email), nil, &existing)
	if err == nil && existing.Email == rec.Email {
		return nil
	}
	if err != nil && !apperrors.IsNotFound(err) {
		return err
	}

	return c.do(ctx, http.MethodPost, "/users", rec, nil)
}

// User fetches a backend user record. GET /users/{email}.
func (c *Client) User(ctx context.Context, email string) (domainauth.UserRecord, error) {
	var rec domainauth.UserRecord
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(email), nil, &rec)
	return rec, err
}

// SearchUsers finds user records by email fragment. GET /users/search?email=...
func (c *Client) SearchUsers(ctx context.Context, emailFragment string) ([]domainauth.UserRecord, error) {
	var out []domainauth.UserRecord
	path := "/users/search?email=" + url.QueryEscape(emailFragment)
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// SetUserRole updates a user's role. PATCH /users/{id}/role.
func (c *Client) SetUserRole(ctx context.Context, userID string, role domainauth.Role) error {
	body := map[string]string{"role": string(role)}
	return c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(userID)+"/role", body, nil)
}

// InvalidateCredential asks the backend to drop the session credential.
// POST /logout.
func (c *Client) InvalidateCredential(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", struct{}{}, nil)
}
