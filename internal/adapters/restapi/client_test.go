package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	"github.com/profast/parcel-client/internal/domain/parcel"
	apperrors "github.com/profast/parcel-client/internal/errors"
)

func newTestClient(t *testing.T, handler http.Handler, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func staticToken(tok string) TokenSource {
	return func(context.Context) (string, error) { return tok, nil }
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]string{"role": "admin"})
	}), Options{Tokens: staticToken("tok-123")})

	role, err := c.Role(context.Background(), "admin@example.com")

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, role)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_Role_EmptyFallsBackToUser(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"role": ""})
	}), Options{})

	role, err := c.Role(context.Background(), "new@example.com")

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleUser, role)
}

func TestClient_Unauthorized_TriggersForcedSignOut(t *testing.T) {
	signedOut := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), Options{OnUnauthorized: func() { signedOut = true }})

	_, err := c.ParcelsByCreator(context.Background(), "a@b.c")

	assert.True(t, apperrors.IsUnauthenticated(err))
	assert.True(t, signedOut, "401 must force a sign-out")
}

func TestClient_Forbidden(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}), Options{})

	err := c.SetUserRole(context.Background(), "u1", domainauth.RoleAdmin)

	assert.True(t, apperrors.IsForbidden(err))
}

func TestClient_ServerError_IsNetwork(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}), Options{})

	_, err := c.Role(context.Background(), "a@b.c")

	assert.True(t, apperrors.IsNetwork(err))
}

func TestClient_CreateParcel(t *testing.T) {
	var got parcel.Parcel
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/parcels", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"insertedId": "abc123"})
	}), Options{})

	id, err := c.CreateParcel(context.Background(), parcel.Parcel{
		Title:         "Books",
		Cost:          270,
		PaymentStatus: parcel.PaymentUnpaid,
	})

	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
	assert.Equal(t, "Books", got.Title)
	assert.Equal(t, parcel.PaymentUnpaid, got.PaymentStatus)
}

func TestClient_EnsureUser_ExistingRecordIsNoop(t *testing.T) {
	posts := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(domainauth.UserRecord{Email: "a@b.c"})
		case r.Method == http.MethodPost:
			posts++
			w.WriteHeader(http.StatusCreated)
		}
	}), Options{})

	err := c.EnsureUser(context.Background(), domainauth.UserRecord{Email: "a@b.c", UID: "u1"})

	require.NoError(t, err)
	assert.Zero(t, posts, "existing record must not be re-created")
}

func TestClient_EnsureUser_CreatesMissingRecord(t *testing.T) {
	var created domainauth.UserRecord
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
		}
	}), Options{})

	err := c.EnsureUser(context.Background(), domainauth.UserRecord{
		Email: "new@b.c", UID: "u2", Role: domainauth.RoleUser,
	})

	require.NoError(t, err)
	assert.Equal(t, "new@b.c", created.Email)
	assert.Equal(t, domainauth.RoleUser, created.Role)
}

func TestClient_CreatePaymentIntent_SendsMinorUnits(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/create-payment-intent", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"clientSecret": "cs_test"})
	}), Options{})

	secret, err := c.CreatePaymentIntent(context.Background(), 27000, "p1")

	require.NoError(t, err)
	assert.Equal(t, "cs_test", secret)
	assert.EqualValues(t, 27000, got["amountInCents"])
	assert.Equal(t, "p1", got["parcelId"])
}

func TestClient_QueryAndEscapedPaths(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("email")
		_ = json.NewEncoder(w).Encode([]parcel.Parcel{})
	}), Options{})

	_, err := c.ParcelsByCreator(context.Background(), "who+tag@example.com")
	require.NoError(t, err)
	assert.Equal(t, "/parcels", gotPath)
	assert.Equal(t, "who+tag@example.com", gotQuery)
}

func TestClient_TokenSourceFailure_ProceedsUnauthenticated(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]string{"role": "user"})
	}), Options{Tokens: func(context.Context) (string, error) {
		return "", apperrors.Unauthenticated("not signed in")
	}})

	_, err := c.Role(context.Background(), "a@b.c")

	require.NoError(t, err, "the backend decides whether auth is required")
	assert.Empty(t, gotAuth)
}
