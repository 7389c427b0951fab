package auth

// Package auth contains simple hand-written test doubles for the identity
// and authorization ports. These are lightweight and suitable for unit
// tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	"github.com/profast/parcel-client/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider      = (*MockIdentityProvider)(nil)
	_ ports.RoleDirectory         = (*MockRoleDirectory)(nil)
	_ ports.UserDirectory         = (*MockUserDirectory)(nil)
	_ ports.CredentialInvalidator = (*MockInvalidator)(nil)
)

// MockIdentityProvider simulates an identity provider with overridable
// behavior per method. The zero value accepts any password sign-in as the
// DefaultIdentity.
type MockIdentityProvider struct {
	SignInWithPasswordFunc func(ctx context.Context, email, password string) (domainauth.Identity, error)
	SignInInteractiveFunc  func(ctx context.Context) (domainauth.Identity, error)
	SignOutFunc            func(ctx context.Context) error
	TokenFunc              func(ctx context.Context) (string, error)
	DeleteAccountFunc      func(ctx context.Context, uid string) error

	// DefaultIdentity is returned by the default sign-in behavior.
	DefaultIdentity domainauth.Identity

	// AmbientIdentity, when set, is delivered to OnSessionChange subscribers
	// on subscription, simulating a persisted provider session.
	AmbientIdentity *domainauth.Identity

	mu       sync.Mutex
	watchers map[int]func(*domainauth.Identity)
	nextID   int

	SignOutCalls       int
	DeleteAccountCalls []string
}

// NewMockIdentityProvider creates a provider with a sensible default identity.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		DefaultIdentity: domainauth.Identity{
			UID:         "mock-uid-1",
			Email:       "mock.user@example.com",
			DisplayName: "Mock User",
			PhotoURL:    "https://example.com/mock.png",
		},
	}
}

func (m *MockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error) {
	if m.SignInWithPasswordFunc != nil {
		return m.SignInWithPasswordFunc(ctx, email, password)
	}
	id := m.DefaultIdentity
	if email != "" {
		id.Email = email
	}
	return id, nil
}

func (m *MockIdentityProvider) SignInInteractive(ctx context.Context) (domainauth.Identity, error) {
	if m.SignInInteractiveFunc != nil {
		return m.SignInInteractiveFunc(ctx)
	}
	return m.DefaultIdentity, nil
}

func (m *MockIdentityProvider) SignOut(ctx context.Context) error {
	m.mu.Lock()
	m.SignOutCalls++
	m.mu.Unlock()
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx)
	}
	return nil
}

func (m *MockIdentityProvider) Token(ctx context.Context) (string, error) {
	if m.TokenFunc != nil {
		return m.TokenFunc(ctx)
	}
	return "mock-token", nil
}

func (m *MockIdentityProvider) OnSessionChange(fn func(*domainauth.Identity)) func() {
	m.mu.Lock()
	if m.watchers == nil {
		m.watchers = make(map[int]func(*domainauth.Identity))
	}
	id := m.nextID
	m.nextID++
	m.watchers[id] = fn
	ambient := m.AmbientIdentity
	m.mu.Unlock()

	fn(ambient)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.watchers, id)
	}
}

// EmitSessionChange delivers an ambient-session change to all subscribers.
func (m *MockIdentityProvider) EmitSessionChange(id *domainauth.Identity) {
	m.mu.Lock()
	watchers := make([]func(*domainauth.Identity), 0, len(m.watchers))
	for _, w := range m.watchers {
		watchers = append(watchers, w)
	}
	m.mu.Unlock()
	for _, w := range watchers {
		w(id)
	}
}

func (m *MockIdentityProvider) DeleteAccount(ctx context.Context, uid string) error {
	m.mu.Lock()
	m.DeleteAccountCalls = append(m.DeleteAccountCalls, uid)
	m.mu.Unlock()
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, uid)
	}
	return nil
}

// MockRoleDirectory returns a fixed role per email, or RoleFunc when set.
type MockRoleDirectory struct {
	RoleFunc func(ctx context.Context, email string) (domainauth.Role, error)
	Roles    map[string]domainauth.Role

	mu    sync.Mutex
	Calls []string
}

func (m *MockRoleDirectory) Role(ctx context.Context, email string) (domainauth.Role, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, email)
	m.mu.Unlock()
	if m.RoleFunc != nil {
		return m.RoleFunc(ctx, email)
	}
	if r, ok := m.Roles[email]; ok {
		return r, nil
	}
	return domainauth.RoleUser, nil
}

// MockUserDirectory records EnsureUser calls.
type MockUserDirectory struct {
	EnsureUserFunc func(ctx context.Context, rec domainauth.UserRecord) error

	mu      sync.Mutex
	Ensured []domainauth.UserRecord
}

func (m *MockUserDirectory) EnsureUser(ctx context.Context, rec domainauth.UserRecord) error {
	m.mu.Lock()
	m.Ensured = append(m.Ensured, rec)
	m.mu.Unlock()
	if m.EnsureUserFunc != nil {
		return m.EnsureUserFunc(ctx, rec)
	}
	return nil
}

// MockInvalidator records credential invalidation calls.
type MockInvalidator struct {
	InvalidateFunc func(ctx context.Context) error

	mu    sync.Mutex
	Calls int
}

func (m *MockInvalidator) InvalidateCredential(ctx context.Context) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx)
	}
	return nil
}
