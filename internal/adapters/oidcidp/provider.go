package oidcidp

// Package oidcidp implements the identity-provider port against an
// OIDC/OAuth2 identity service. Password sign-in uses the resource-owner
// password grant; the federated flow walks the provider-hosted authorization
// URL. Tokens come from an oauth2.TokenSource, so refresh is the provider
// library's concern.

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	apperrors "github.com/profast/parcel-client/internal/errors"
	"github.com/profast/parcel-client/internal/ports"
)

var _ ports.IdentityProvider = (*Provider)(nil)

// CodePrompt hands the provider's authorization URL to the user and returns
// the code they obtained, completing the interactive flow. Returning an
// error cancels the sign-in.
type CodePrompt func(authURL string) (code string, err error)

// Config holds configuration for the OIDC identity provider.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	// AccountsURL is the provider's account-management endpoint, used for
	// the compensating account deletion. Optional.
	AccountsURL string
	// Prompt completes the interactive flow. Defaults to a stdin prompt.
	Prompt CodePrompt
	// HTTPClient overrides the default 30s-timeout client.
	HTTPClient *http.Client
}

// Provider implements the identity-provider port using OIDC/OAuth2.
type Provider struct {
	cfg         *oauth2.Config
	verifier    *gooidc.IDTokenVerifier
	httpClient  *http.Client
	accountsURL string
	prompt      CodePrompt

	mu       sync.Mutex
	ident    *domainauth.Identity
	tokens   oauth2.TokenSource
	watchers map[int]func(*domainauth.Identity)
	nextID   int
}

// NewProvider discovers the issuer and constructs a Provider.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")

	octx := context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	op, err := gooidc.NewProvider(octx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	scope := config.Scope
	if scope == "" {
		scope = "openid profile email"
	}

	prompt := config.Prompt
	if prompt == nil {
		prompt = stdinPrompt
	}

	return &Provider{
		cfg: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       strings.Fields(scope),
			Endpoint:     op.Endpoint(),
		},
		verifier:    op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
		httpClient:  httpClient,
		accountsURL: strings.TrimSuffix(config.AccountsURL, "/"),
		prompt:      prompt,
		watchers:    make(map[int]func(*domainauth.Identity)),
	}, nil
}

// SignInWithPassword verifies an email/password credential via the
// resource-owner password grant.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error) {
	octx := context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.cfg.PasswordCredentialsToken(octx, email, password)
	if err != nil {
		return domainauth.Identity{}, mapTokenError(err)
	}
	return p.establish(ctx, tok, "")
}

// SignInInteractive walks the provider-hosted authorization flow: it hands
// the auth URL to the prompt, exchanges the returned code, and verifies the
// nonce round-trip.
func (p *Provider) SignInInteractive(ctx context.Context) (domainauth.Identity, error) {
	state, err := randomString(32)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(32)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.cfg.AuthCodeURL(state, gooidc.Nonce(nonce))
	code, err := p.prompt(authURL)
	if err != nil || code == "" {
		return domainauth.Identity{}, apperrors.Wrap(
			orErr(err, errors.New("empty authorization code")),
			apperrors.ErrCodeUnauthenticated, "sign-in flow cancelled")
	}

	octx := context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.cfg.Exchange(octx, code)
	if err != nil {
		return domainauth.Identity{}, mapTokenError(err)
	}
	return p.establish(ctx, tok, nonce)
}

// establish verifies the ID token, caches the identity and token source,
// and notifies ambient-session watchers.
func (p *Provider) establish(ctx context.Context, tok *oauth2.Token, nonce string) (domainauth.Identity, error) {
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return domainauth.Identity{}, apperrors.Internal("token response carried no id_token")
	}

	idToken, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthenticated, "id token verification failed")
	}
	if nonce != "" && idToken.Nonce != nonce {
		return domainauth.Identity{}, apperrors.Unauthenticated("nonce mismatch")
	}

	var claims struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "parse id token claims")
	}

	id := domainauth.Identity{
		UID:         claims.Sub,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}

	octx := context.WithValue(context.Background(), oauth2.HTTPClient, p.httpClient)
	p.mu.Lock()
	p.ident = &id
	p.tokens = p.cfg.TokenSource(octx, tok)
	p.mu.Unlock()

	return id, nil
}

// SignOut drops the cached identity and token source and notifies watchers.
func (p *Provider) SignOut(_ context.Context) error {
	p.mu.Lock()
	p.ident = nil
	p.tokens = nil
	watchers := p.watcherList()
	p.mu.Unlock()

	for _, w := range watchers {
		w(nil)
	}
	return nil
}

// Token returns the current access token, refreshing through the token
// source as needed.
func (p *Provider) Token(_ context.Context) (string, error) {
	p.mu.Lock()
	ts := p.tokens
	p.mu.Unlock()
	if ts == nil {
		return "", apperrors.Unauthenticated("no identity signed in")
	}
	tok, err := ts.Token()
	if err != nil {
		return "", mapTokenError(err)
	}
	return tok.AccessToken, nil
}

// OnSessionChange registers a watcher. It is invoked once with the current
// state on subscription, then on every ambient change.
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

// DeleteAccount removes a provider account via the accounts endpoint. Used
// only as the compensating action after a failed backend-record creation.
func (p *Provider) DeleteAccount(ctx context.Context, uid string) error {
	if p.accountsURL == "" {
		return apperrors.Internal("accounts endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.accountsURL+"/"+uid, nil)
	if err != nil {
		return fmt.Errorf("build account delete request: %w", err)
	}
	if tok, terr := p.Token(ctx); terr == nil {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeNetwork, "delete provider account")
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= 300 {
		return apperrors.Network(fmt.Sprintf("delete provider account: status %d", resp.StatusCode))
	}
	return nil
}

func (p *Provider) watcherList() []func(*domainauth.Identity) {
	out := make([]func(*domainauth.Identity), 0, len(p.watchers))
	for _, w := range p.watchers {
		out = append(out, w)
	}
	return out
}

// mapTokenError classifies oauth2 failures: a provider rejection is an
// authentication error; anything else is transport.
func mapTokenError(err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) && rerr.Response != nil &&
		(rerr.Response.StatusCode == http.StatusBadRequest || rerr.Response.StatusCode == http.StatusUnauthorized) {
		return apperrors.Wrap(err, apperrors.ErrCodeUnauthenticated, "credential rejected by identity provider")
	}
	return apperrors.Wrap(err, apperrors.ErrCodeNetwork, "identity provider unreachable")
}

func orErr(err, fallback error) error {
	if err != nil {
		return err
	}
	return fallback
}

func stdinPrompt(authURL string) (string, error) {
	fmt.Fprintf(os.Stderr, "Open the following URL in your browser and paste the code back here:\n\n  %s\n\nCode: ", authURL)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func randomString(n int) (string, error) {
	b := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) > n {
		s = s[:n]
	}
	return s, nil
}
