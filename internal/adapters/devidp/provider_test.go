package devidp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	apperrors "github.com/profast/parcel-client/internal/errors"
)

func newProvider(t *testing.T, cfg Config) *Provider {
	t.Helper()
	p, err := NewProvider(cfg)
	require.NoError(t, err)
	return p
}

func TestNewProvider_RequiresUIDAndEmail(t *testing.T) {
	_, err := NewProvider(Config{Email: "a@b.c"})
	assert.Error(t, err)

	_, err = NewProvider(Config{UID: "u1"})
	assert.Error(t, err)
}

func TestProvider_PasswordSignIn(t *testing.T) {
	p := newProvider(t, Config{UID: "u1", Email: "dev@example.com", Password: "secret"})

	id, err := p.SignInWithPassword(context.Background(), "dev@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UID)

	_, err = p.SignInWithPassword(context.Background(), "dev@example.com", "wrong")
	assert.True(t, apperrors.IsUnauthenticated(err))

	_, err = p.SignInWithPassword(context.Background(), "other@example.com", "secret")
	assert.True(t, apperrors.IsUnauthenticated(err))
}

func TestProvider_EmptyPasswordAcceptsAny(t *testing.T) {
	p := newProvider(t, Config{UID: "u1", Email: "dev@example.com"})

	_, err := p.SignInWithPassword(context.Background(), "dev@example.com", "anything")
	assert.NoError(t, err)
}

func TestProvider_TokenPerSignIn(t *testing.T) {
	p := newProvider(t, Config{UID: "u1", Email: "dev@example.com"})

	_, err := p.Token(context.Background())
	assert.True(t, apperrors.IsUnauthenticated(err), "token before sign-in must fail")

	_, err = p.SignInInteractive(context.Background())
	require.NoError(t, err)
	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dev-token-1", tok)

	require.NoError(t, p.SignOut(context.Background()))
	_, err = p.SignInInteractive(context.Background())
	require.NoError(t, err)
	tok, err = p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dev-token-2", tok)
}

func TestProvider_WatchersSeeSignOut(t *testing.T) {
	p := newProvider(t, Config{UID: "u1", Email: "dev@example.com"})
	_, err := p.SignInInteractive(context.Background())
	require.NoError(t, err)

	var got []*domainauth.Identity
	cancel := p.OnSessionChange(func(id *domainauth.Identity) { got = append(got, id) })
	defer cancel()

	require.Len(t, got, 1, "subscription fires with current state")
	require.NotNil(t, got[0])
	assert.Equal(t, "u1", got[0].UID)

	require.NoError(t, p.SignOut(context.Background()))
	require.Len(t, got, 2)
	assert.Nil(t, got[1])
}

func TestProvider_DeleteAccount(t *testing.T) {
	p := newProvider(t, Config{UID: "u1", Email: "dev@example.com"})
	_, err := p.SignInInteractive(context.Background())
	require.NoError(t, err)

	assert.True(t, apperrors.IsNotFound(p.DeleteAccount(context.Background(), "nope")))

	require.NoError(t, p.DeleteAccount(context.Background(), "u1"))
	_, err = p.Token(context.Background())
	assert.True(t, apperrors.IsUnauthenticated(err))
}
