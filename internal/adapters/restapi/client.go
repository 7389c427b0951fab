package restapi

// Package restapi implements the backend API ports over REST/JSON. Every
// authenticated call attaches the session's bearer credential; a 401
// response triggers the forced sign-out hook, a 403 maps to a forbidden
// error for the caller to render.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/profast/parcel-client/internal/errors"
)

// DefaultTimeout bounds every backend request. The original client left
// latency to transport defaults; 30 seconds is this implementation's
// documented choice.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the bearer credential for outgoing calls.
type TokenSource func(ctx context.Context) (string, error)

// Options configures the backend client.
type Options struct {
	BaseURL string
	// Tokens supplies bearer credentials. Optional; unauthenticated
	// endpoints work without it, and a token fetch failure downgrades the
	// call to unauthenticated rather than failing it client-side.
	Tokens TokenSource
	// OnUnauthorized is invoked when the backend rejects the credential
	// (401). Typically wired to the session's forced sign-out.
	OnUnauthorized func()
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the parcel backend.
type Client struct {
	base           *url.URL
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         *slog.Logger
}

// New constructs a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:           base,
		http:           httpClient,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		logger:         logger,
	}, nil
}

// endpoint builds the absolute URL for a path that may carry an escaped
// segment or a query string.
func (c *Client) endpoint(path string) string {
	return strings.TrimSuffix(c.base.String(), "/") + path
}

// do issues one JSON request. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {

	var reqBody io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request body")
		}
		reqBody = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reqBody)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.attachToken(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeNetwork, "%s %s", method, path)
	}
	defer resp.Body.Close() //nolint:errcheck

	if err := c.checkStatus(resp, method, path); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeNetwork, "decode %s %s response", method, path)
	}
	return nil
}

// attachToken adds the bearer header when a credential is available. A
// token-source failure is logged and the request proceeds unauthenticated;
// the backend's 401 is the authoritative answer.
func (c *Client) attachToken(ctx context.Context, req *http.Request) {
	if c.tokens == nil {
		return
	}
	tok, err := c.tokens(ctx)
	if err != nil || tok == "" {
		if err != nil {
			c.logger.DebugContext(ctx, "no bearer token for request",
				"path", req.URL.Path, "error", err)
		}
		return
	}
	req.Header.Set("Authorization", "Bearer "+tok)
}

func (c *Client) checkStatus(resp *http.Response, method, path string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return apperrors.Unauthenticated("session expired, sign in again")
	case resp.StatusCode == http.StatusForbidden:
		return apperrors.Forbidden("you do not have access to this resource")
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFoundf("%s %s: not found", method, path)
	case resp.StatusCode == http.StatusConflict:
		return apperrors.Conflict(readErrorMessage(resp))
	default:
		return apperrors.Network(fmt.Sprintf("%s %s: backend returned %d", method, path, resp.StatusCode))
	}
}

func readErrorMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(resp.StatusCode)
}

// insertedID is the backend's standard create response.
type insertedID struct {
	InsertedID string `json:"insertedId"`
}
