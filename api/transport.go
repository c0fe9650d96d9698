package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "joga-go/0.1"
)

// caller is the generic HTTP request abstraction both client instances are
// built on: method, URL, query, headers, timeout, JSON body and response.
type caller struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// request captures one outgoing call. The payload is held as bytes so the
// identical request can be re-issued after a token refresh.
type request struct {
	method      string
	path        string
	query       url.Values
	payload     []byte
	contentType string
	bearer      string
}

func newCaller(baseURL string) (*caller, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &caller{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}, nil
}

// call issues the request and decodes a successful JSON response into dest.
// Transport failures and HTTP error statuses come back as *Error; nothing
// else crosses this boundary.
func (c *caller) call(ctx context.Context, req request, dest any) error {
	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + req.path
	if len(req.query) > 0 {
		reqURL.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.payload != nil {
		body = bytes.NewReader(req.payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, reqURL.String(), body)
	if err != nil {
		return pkgerrors.Wrap(err, "[caller.call] create request")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.bearer)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return normalizeTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return normalizeTransport(err)
	}

	if resp.StatusCode >= 400 {
		return normalizeResponse(resp.StatusCode, raw)
	}
	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return pkgerrors.Wrap(err, "[caller.call] decode response")
	}
	return nil
}

func jsonPayload(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "encode request body")
	}
	return payload, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, pkgerrors.New("base URL is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "parse base URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, pkgerrors.Errorf("unsupported base URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
