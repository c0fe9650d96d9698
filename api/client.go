// Package api contains the HTTP core of the client: the error normalizer,
// the authenticated resource client with its single-flight token refresh, and
// the unauthenticated auth client the refresh protocol is built on.
package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/url"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/yLucasx3/joga-go/credentials"
)

// Client issues authenticated requests against the resource API. Every
// request carries the stored access token as a bearer credential when one is
// present; a 401 on a not-yet-retried request goes through the refresh
// coordinator and is replayed once with the rotated token.
type Client struct {
	caller      *caller
	vault       *credentials.Vault
	coordinator *refreshCoordinator
	log         zerolog.Logger
	now         func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for refresh and recovery events.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// WithNowTime sets the clock used for proactive token-expiry checks
// (primarily for testing).
func WithNowTime(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// NewClient builds the resource client. refresh performs the actual refresh
// network call; see NewSessionRefresh for the standard wiring against an
// AuthClient.
func NewClient(baseURL string, vault *credentials.Vault, refresh RefreshFunc, options ...ClientOption) (*Client, error) {
	if vault == nil {
		return nil, pkgerrors.New("[NewClient] vault is required")
	}
	if refresh == nil {
		return nil, pkgerrors.New("[NewClient] refresh func is required")
	}
	caller, err := newCaller(baseURL)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[NewClient] base URL")
	}

	client := &Client{
		caller: caller,
		vault:  vault,
		log:    zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range options {
		opt(client)
	}
	client.coordinator = newRefreshCoordinator(refresh, vault, client.log)
	return client, nil
}

// Get issues an authenticated GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, dest any) error {
	return c.do(ctx, request{method: "GET", path: path, query: query}, dest)
}

// Post issues an authenticated POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, dest any) error {
	payload, err := jsonPayload(body)
	if err != nil {
		return pkgerrors.Wrap(err, "[Client.Post]")
	}
	return c.do(ctx, request{method: "POST", path: path, payload: payload, contentType: "application/json"}, dest)
}

// Patch issues an authenticated PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, dest any) error {
	payload, err := jsonPayload(body)
	if err != nil {
		return pkgerrors.Wrap(err, "[Client.Patch]")
	}
	return c.do(ctx, request{method: "PATCH", path: path, payload: payload, contentType: "application/json"}, dest)
}

// Delete issues an authenticated DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, dest any) error {
	return c.do(ctx, request{method: "DELETE", path: path, query: query}, dest)
}

// Upload issues an authenticated multipart POST, e.g. for avatar uploads.
// The content is buffered so the request can be replayed after a refresh.
func (c *Client) Upload(ctx context.Context, path, field, filename string, content io.Reader, dest any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return pkgerrors.Wrap(err, "[Client.Upload] create form file")
	}
	if _, err := io.Copy(part, content); err != nil {
		return pkgerrors.Wrap(err, "[Client.Upload] copy content")
	}
	if err := writer.Close(); err != nil {
		return pkgerrors.Wrap(err, "[Client.Upload] finalize form")
	}
	return c.do(ctx, request{method: "POST", path: path, payload: buf.Bytes(), contentType: writer.FormDataContentType()}, dest)
}

// do runs the authenticated request lifecycle: attach the stored token, issue
// the call, and on a 401 recover once through the refresh coordinator. A
// request that has already been replayed propagates its 401 untouched so a
// rejected rotated token can never loop.
func (c *Client) do(ctx context.Context, req request, dest any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}
	req.bearer = token

	err = c.caller.call(ctx, req, dest)
	if !isRecoverable(err) {
		return err
	}

	c.log.Debug().Str("path", req.path).Msg("request unauthorized, attempting token refresh")
	rotated, refreshErr := c.coordinator.Token(ctx)
	if refreshErr != nil {
		return refreshErr
	}

	req.bearer = rotated
	return c.caller.call(ctx, req, dest)
}

// accessToken loads the stored token, refreshing it up front when it is
// parseably expired. Requests proceed unauthenticated when nothing is
// stored; the backend is responsible for rejecting them.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	stored, err := c.vault.Load()
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to read stored credentials")
		return "", nil
	}
	if stored.AccessToken == "" {
		return "", nil
	}
	if stored.RefreshToken != "" && stored.AccessTokenExpired(c.now()) {
		return c.coordinator.Token(ctx)
	}
	return stored.AccessToken, nil
}

// isRecoverable reports whether err is a 401 from the wire, the one condition
// the client recovers from locally. Everything else surfaces immediately.
func isRecoverable(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Kind == KindUnauthorized && apiErr.HTTPStatus == 401
}
