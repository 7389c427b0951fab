package session

// Package session implements the client's authentication and authorization
// model. A single Manager exists per running client; it mediates between the
// identity provider and the backend role directory, and publishes
// {identity, role, status} to the rest of the application. Route and command
// guards consult it synchronously.
//
// Identity ("who is this") and authorization ("what can they do") fail
// independently and have different fallback policies: a rejected identity
// surfaces immediately and is never retried, while a failed role lookup
// silently degrades to the least-privilege role and keeps the session usable.

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	apperrors "github.com/profast/parcel-client/internal/errors"
	"github.com/profast/parcel-client/internal/ports"
)

// Event describes one state transition of the session machine.
type Event struct {
	From    domainauth.Status
	To      domainauth.Status
	Session domainauth.Session
}

// Options groups dependencies for the Manager.
type Options struct {
	Provider ports.IdentityProvider
	Roles    ports.RoleDirectory
	Users    ports.UserDirectory
	// Invalidator revokes the backend-side credential on sign-out. Optional;
	// local state is cleared regardless of its outcome.
	Invalidator ports.CredentialInvalidator
	Logger      *slog.Logger
}

type observer struct {
	id int
	fn func(Event)
}

// Manager is the process-wide session object. It is mutated only by the
// authentication lifecycle (sign-in, sign-out, ambient-session resume, role
// refresh), never by consumers directly.
type Manager struct {
	provider    ports.IdentityProvider
	roles       ports.RoleDirectory
	users       ports.UserDirectory
	invalidator ports.CredentialInvalidator
	logger      *slog.Logger

	mu          sync.Mutex
	cur         domainauth.Session
	roleSettled bool
	observers   []observer
	nextObs     int
	unsubscribe func()

	// lookups collapses concurrent role lookups for the same email. Distinct
	// in-flight lookups still resolve last-write-wins with no ordering
	// protection; this is an accepted, documented limitation.
	lookups singleflight.Group
}

// NewManager constructs a Manager in the Unauthenticated state with the
// least-privilege role.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		provider:    opts.Provider,
		roles:       opts.Roles,
		users:       opts.Users,
		invalidator: opts.Invalidator,
		logger:      logger,
		cur: domainauth.Session{
			Role:   domainauth.RoleUser,
			Status: domainauth.StatusUnauthenticated,
		},
		roleSettled: true,
	}
}

// Start subscribes to the identity provider's ambient-session notifications.
// A provider session surviving from a previous process re-enters the machine
// at Authenticating and resolves a fresh role.
func (m *Manager) Start(ctx context.Context) {
	m.unsubscribe = m.provider.OnSessionChange(func(id *domainauth.Identity) {
		if id == nil {
			if m.Snapshot().SignedIn() {
				m.clearLocked()
			}
			return
		}
		m.beginAuthenticating()
		m.finishSignIn(ctx, *id)
	})
}

// Close removes the ambient-session subscription. The session machine has no
// terminal state; Close only detaches it from the provider.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Snapshot returns a copy of the current session read model. Reads are not
// fresh beyond the current call; consumers must tolerate a briefly stale
// role while lookups are in flight.
func (m *Manager) Snapshot() domainauth.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() domainauth.Session {
	snap := m.cur
	if m.cur.Identity != nil {
		id := *m.cur.Identity
		snap.Identity = &id
	}
	return snap
}

// OnChange registers an observer. Observers receive exactly one synchronous
// callback per state transition, in registration order, with no intermediate
// state dropped. They run under the session lock and must not call back into
// the Manager. The returned cancel func removes the observer.
func (m *Manager) OnChange(fn func(Event)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextObs
	m.nextObs++
	m.observers = append(m.observers, observer{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, obs := range m.observers {
			if obs.id == id {
				m.observers = append(m.observers[:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

// SignIn verifies an email/password credential against the identity provider
// and resolves the backend role. A rejected credential returns the session
// to Unauthenticated and surfaces an unauthenticated error; a failed role
// lookup resolves to the Error state with the least-privilege role and is
// not an error for the caller.
func (m *Manager) SignIn(ctx context.Context, email, password string) (domainauth.Session, error) {
	m.beginAuthenticating()

	id, err := m.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		m.clearLocked()
		return m.Snapshot(), wrapSignInErr(err)
	}

	return m.finishSignIn(ctx, id), nil
}

// SignInInteractive runs the provider-hosted federated flow. Because the
// flow may create a brand-new provider account, a backend record is ensured
// afterwards; if that call fails, the provider account is deleted again
// (compensating action) before the error is surfaced, so no orphaned
// identity remains.
func (m *Manager) SignInInteractive(ctx context.Context) (domainauth.Session, error) {
	m.beginAuthenticating()

	id, err := m.provider.SignInInteractive(ctx)
	if err != nil {
		m.clearLocked()
		return m.Snapshot(), wrapSignInErr(err)
	}

	if err := m.users.EnsureUser(ctx, domainauth.RecordFor(id)); err != nil {
		if derr := m.provider.DeleteAccount(ctx, id.UID); derr != nil {
			m.logger.ErrorContext(ctx, "rollback of provider account failed",
				"uid", id.UID, "error", derr)
		}
		m.clearLocked()
		return m.Snapshot(), apperrors.Wrap(err, apperrors.ErrCodeNetwork,
			"something went wrong while setting up your account")
	}

	return m.finishSignIn(ctx, id), nil
}

// SignOut clears the local session and invalidates the backend credential.
// Local state is authoritative for the client; invalidation failures are
// logged but never block sign-out.
func (m *Manager) SignOut(ctx context.Context) error {
	if m.invalidator != nil {
		if err := m.invalidator.InvalidateCredential(ctx); err != nil {
			m.logger.WarnContext(ctx, "credential invalidation failed", "error", err)
		}
	}
	if err := m.provider.SignOut(ctx); err != nil {
		m.logger.WarnContext(ctx, "provider sign-out failed", "error", err)
	}
	m.clearLocked()
	return nil
}

// ForceSignOut clears the session after the backend rejected the credential
// (HTTP 401). The credential is already invalid server-side, so no
// invalidation call is made.
func (m *Manager) ForceSignOut(ctx context.Context) {
	if err := m.provider.SignOut(ctx); err != nil {
		m.logger.WarnContext(ctx, "provider sign-out failed", "error", err)
	}
	m.clearLocked()
}

// RefreshRole re-resolves the role for the current identity. On lookup
// failure the session degrades to the least-privilege role in the Error
// state and a degraded error is returned; the session stays usable.
func (m *Manager) RefreshRole(ctx context.Context) (domainauth.Role, error) {
	snap := m.Snapshot()
	if snap.Identity == nil {
		return domainauth.RoleUser, apperrors.Unauthenticated("not signed in")
	}

	role, err := m.resolveRole(ctx, snap.Identity.Email)

	m.mu.Lock()
	prev := m.cur
	if m.cur.Identity == nil {
		// Signed out while the lookup was in flight; ignore the late result.
		m.mu.Unlock()
		return domainauth.RoleUser, nil
	}
	m.cur.Role = role
	if err != nil {
		m.cur.Status = domainauth.StatusError
	} else {
		m.cur.Status = domainauth.StatusAuthenticated
	}
	m.roleSettled = true
	m.notifyLocked(prev)
	m.mu.Unlock()

	if err != nil {
		m.logger.WarnContext(ctx, "role lookup failed, using least-privilege fallback",
			"email", snap.Identity.Email, "error", err)
		return role, apperrors.Wrap(err, apperrors.ErrCodeDegraded, "role lookup failed")
	}
	return role, nil
}

// HasRole reports whether the signed-in session carries the required role.
// It is a pure predicate over the cached role and never triggers a network
// call; callers should check RoleSettled before trusting the result.
func (m *Manager) HasRole(required domainauth.Role) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur.Identity != nil && m.cur.Role == required
}

// RoleSettled reports whether role resolution has settled for the current
// lifecycle state. It is false while a sign-in or resume is in flight.
func (m *Manager) RoleSettled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roleSettled
}

// Token returns the current bearer credential, refreshed by the provider as
// needed. Fails when unauthenticated.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if !m.Snapshot().SignedIn() {
		return "", apperrors.Unauthenticated("not signed in")
	}
	tok, err := m.provider.Token(ctx)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeNetwork, "token refresh failed")
	}
	m.mu.Lock()
	m.cur.Token = tok
	m.mu.Unlock()
	return tok, nil
}

// beginAuthenticating moves the machine into Authenticating and marks the
// role as unsettled.
func (m *Manager) beginAuthenticating() {
	m.mu.Lock()
	prev := m.cur
	m.cur.Status = domainauth.StatusAuthenticating
	m.roleSettled = false
	m.notifyLocked(prev)
	m.mu.Unlock()
}

// finishSignIn stores the confirmed identity, fetches a token, resolves the
// role, and settles in Authenticated or Error.
func (m *Manager) finishSignIn(ctx context.Context, id domainauth.Identity) domainauth.Session {
	token, terr := m.provider.Token(ctx)
	if terr != nil {
		m.logger.WarnContext(ctx, "token fetch failed", "email", id.Email, "error", terr)
	}

	role, rerr := m.resolveRole(ctx, id.Email)

	m.mu.Lock()
	prev := m.cur
	m.cur.Identity = &id
	m.cur.Token = token
	m.cur.Role = role
	m.roleSettled = true
	if rerr != nil {
		m.cur.Status = domainauth.StatusError
	} else {
		m.cur.Status = domainauth.StatusAuthenticated
	}
	snap := m.snapshotLocked()
	m.notifyLocked(prev)
	m.mu.Unlock()

	if rerr != nil {
		m.logger.WarnContext(ctx, "role lookup failed, using least-privilege fallback",
			"email", id.Email, "error", rerr)
	}
	return snap
}

// clearLocked resets the session to Unauthenticated: identity and token
// absent, role back to least privilege.
func (m *Manager) clearLocked() {
	m.mu.Lock()
	prev := m.cur
	m.cur = domainauth.Session{
		Role:   domainauth.RoleUser,
		Status: domainauth.StatusUnauthenticated,
	}
	m.roleSettled = true
	m.notifyLocked(prev)
	m.mu.Unlock()
}

// resolveRole looks up the role, collapsing concurrent lookups per email.
// On failure it returns the least-privilege role alongside the error.
func (m *Manager) resolveRole(ctx context.Context, email string) (domainauth.Role, error) {
	v, err, _ := m.lookups.Do(email, func() (any, error) {
		return m.roles.Role(ctx, email)
	})
	if err != nil {
		return domainauth.RoleUser, err
	}
	return v.(domainauth.Role), nil
}

// notifyLocked delivers one Event per transition to all observers in
// registration order. A role change with an unchanged status (role refresh)
// also counts as a transition. Called with mu held.
func (m *Manager) notifyLocked(prev domainauth.Session) {
	if prev.Status == m.cur.Status && prev.Role == m.cur.Role {
		return
	}
	ev := Event{From: prev.Status, To: m.cur.Status, Session: m.snapshotLocked()}
	for _, obs := range m.observers {
		obs.fn(ev)
	}
}

func wrapSignInErr(err error) error {
	code := apperrors.ErrCodeUnauthenticated
	if apperrors.IsNetwork(err) {
		code = apperrors.ErrCodeNetwork
	}
	return apperrors.Wrap(err, code, "sign-in failed")
}
