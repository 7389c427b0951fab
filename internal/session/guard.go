package session

// Command and navigation guards. These are the client-side equivalent of
// route protection: synchronous checks over the cached session, advisory
// only — the backend re-checks authorization on every call.

import (
	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	apperrors "github.com/profast/parcel-client/internal/errors"
)

// RequireSignedIn fails with an unauthenticated error when no identity is
// present.
func (m *Manager) RequireSignedIn() error {
	if !m.Snapshot().SignedIn() {
		return apperrors.Unauthenticated("sign in to continue")
	}
	return nil
}

// Require fails with an unauthenticated error when signed out, or a
// forbidden error when the cached role does not match. Callers should have
// let role resolution settle first (RoleSettled); a guard consulted mid-
// lookup sees the last cached value.
func (m *Manager) Require(role domainauth.Role) error {
	if err := m.RequireSignedIn(); err != nil {
		return err
	}
	if !m.HasRole(role) {
		return apperrors.Forbidden("this action requires the " + string(role) + " role")
	}
	return nil
}
