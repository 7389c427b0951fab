package ports

// Package ports defines interfaces (hexagonal ports) for the external
// collaborators this client consumes but does not implement: the identity
// provider, the backend API, and the card-payment processor.
// Implementations live in internal/adapters; orchestration in
// internal/session and internal/service.

import (
	"context"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
)

// IdentityProvider authenticates end users and issues bearer credentials.
// "Is this person who they say they are" is entirely the provider's concern;
// authorization (roles) is resolved separately against the backend.
type IdentityProvider interface {
	// SignInWithPassword verifies an email/password credential and returns
	// the authenticated identity. A rejected credential yields an
	// unauthenticated error; it is never retried automatically.
	SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error)

	// SignInInteractive runs the provider-hosted federated flow and returns
	// the authenticated identity. A cancelled flow yields an unauthenticated
	// error.
	SignInInteractive(ctx context.Context) (domainauth.Identity, error)

	// SignOut clears the provider's ambient session.
	SignOut(ctx context.Context) error

	// Token returns a short-lived bearer credential for the current
	// identity, refreshing it as needed. Fails when no identity is signed in.
	Token(ctx context.Context) (string, error)

	// OnSessionChange registers a callback invoked whenever the provider's
	// ambient session changes: once on subscription with the current state,
	// then on every sign-in (with the identity) and sign-out (with nil).
	// The returned cancel func removes the subscription.
	OnSessionChange(fn func(*domainauth.Identity)) (cancel func())

	// DeleteAccount removes a provider account. Used as the compensating
	// action when backend-record creation fails after a federated sign-in.
	DeleteAccount(ctx context.Context, uid string) error
}

// RoleDirectory resolves the backend-authoritative role for an email.
type RoleDirectory interface {
	Role(ctx context.Context, email string) (domainauth.Role, error)
}

// UserDirectory maintains backend user records.
type UserDirectory interface {
	// EnsureUser creates the backend record for an identity if it does not
	// already exist. Create-or-exists: an existing record is not an error.
	EnsureUser(ctx context.Context, rec domainauth.UserRecord) error
}

// CredentialInvalidator revokes the backend-side validity of the session
// credential on sign-out. Local session state is cleared regardless of the
// outcome; server-side validity is the backend's concern.
type CredentialInvalidator interface {
	InvalidateCredential(ctx context.Context) error
}
