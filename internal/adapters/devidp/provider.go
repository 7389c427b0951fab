package devidp

// Package devidp provides a simple, config-driven identity provider for
// local development. It accepts the configured credential, issues
// deterministic tokens, and keeps its ambient session entirely in memory.

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	apperrors "github.com/profast/parcel-client/internal/errors"
	"github.com/profast/parcel-client/internal/ports"
)

var _ ports.IdentityProvider = (*Provider)(nil)

// Config controls the dev identity provider behavior.
// UID and Email are required; an empty Password accepts any password.
type Config struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	Password    string
}

// Provider implements the identity-provider port for local development.
type Provider struct {
	cfg Config

	mu       sync.Mutex
	ident    *domainauth.Identity
	tokenSeq int
	watchers map[int]func(*domainauth.Identity)
	nextID   int
}

// NewProvider constructs a dev identity provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UID == "" {
		return nil, errors.New("dev auth: UID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	return &Provider{
		cfg:      cfg,
		watchers: make(map[int]func(*domainauth.Identity)),
	}, nil
}

// SignInWithPassword accepts the configured email, and the configured
// password when one is set.
func (p *Provider) SignInWithPassword(_ context.Context, email, password string) (domainauth.Identity, error) {
	if email != p.cfg.Email {
		return domainauth.Identity{}, apperrors.Unauthenticated("unknown dev account")
	}
	if p.cfg.Password != "" && password != p.cfg.Password {
		return domainauth.Identity{}, apperrors.Unauthenticated("wrong dev password")
	}
	return p.establish(), nil
}

// SignInInteractive short-circuits the federated flow and signs in the
// configured identity directly.
func (p *Provider) SignInInteractive(_ context.Context) (domainauth.Identity, error) {
	return p.establish(), nil
}

func (p *Provider) establish() domainauth.Identity {
	id := domainauth.Identity{
		UID:         p.cfg.UID,
		Email:       p.cfg.Email,
		DisplayName: p.cfg.DisplayName,
		PhotoURL:    p.cfg.PhotoURL,
	}
	p.mu.Lock()
	p.ident = &id
	p.tokenSeq++
	p.mu.Unlock()
	return id
}

// SignOut drops the in-memory session.
func (p *Provider) SignOut(_ context.Context) error {
	p.mu.Lock()
	p.ident = nil
	watchers := make([]func(*domainauth.Identity), 0, len(p.watchers))
	for _, w := range p.watchers {
		watchers = append(watchers, w)
	}
	p.mu.Unlock()

	for _, w := range watchers {
		w(nil)
	}
	return nil
}

// Token returns a deterministic per-sign-in token, "dev-token-N".
func (p *Provider) Token(_ context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ident == nil {
		return "", apperrors.Unauthenticated("no identity signed in")
	}
	return fmt.Sprintf("dev-token-%d", p.tokenSeq), nil
}

// OnSessionChange registers a watcher; it fires once with the current state.
func (p *Provider) OnSessionChange(fn func(*domainauth.Identity)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.watchers[id] = fn
	current := p.ident
	p.mu.Unlock()

	fn(current)
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.watchers, id)
	}
}

// DeleteAccount is a no-op for the single configured dev account beyond
// clearing the session.
func (p *Provider) DeleteAccount(ctx context.Context, uid string) error {
	if uid != p.cfg.UID {
		return apperrors.NotFoundf("dev auth: no account %q", uid)
	}
	return p.SignOut(ctx)
}
