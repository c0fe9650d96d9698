package api

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/yLucasx3/joga-go/credentials"
)

// AuthClient issues requests against the pre-authentication endpoints:
// login, register, refresh, logout, password reset and email verification.
// It never attaches a stored token and never triggers the refresh
// coordinator; it IS the refresh protocol's backend. A 401 from any of its
// endpoints propagates as a normalized unauthorized error.
type AuthClient struct {
	caller        *caller
	log           zerolog.Logger
	sessionScoped bool
}

// AuthClientOption configures an AuthClient.
type AuthClientOption func(*AuthClient)

// WithAuthLogger sets the logger.
func WithAuthLogger(log zerolog.Logger) AuthClientOption {
	return func(c *AuthClient) { c.log = log }
}

// WithoutSessionScope switches refresh and logout to the legacy protocol
// that carries only the refresh token and no session id. Which protocol a
// deployment speaks is a configuration decision, never inferred from
// responses.
func WithoutSessionScope() AuthClientOption {
	return func(c *AuthClient) { c.sessionScoped = false }
}

// NewAuthClient builds the auth client for the given base URL.
func NewAuthClient(baseURL string, options ...AuthClientOption) (*AuthClient, error) {
	caller, err := newCaller(baseURL)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[NewAuthClient] base URL")
	}
	client := &AuthClient{
		caller:        caller,
		log:           zerolog.Nop(),
		sessionScoped: true,
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// RegisterParams is the payload for account creation.
type RegisterParams struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Phone            string `json:"phone,omitempty"`
	OrganizationName string `json:"organizationName,omitempty"`
}

// RegisteredUser is the record returned by a successful registration.
type RegisteredUser struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	OrganizationID string `json:"organizationId,omitempty"`
	MembershipID   string `json:"membershipId,omitempty"`
}

// Login exchanges email and password for a credential bundle.
func (c *AuthClient) Login(ctx context.Context, email, password string) (credentials.Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var creds credentials.Credentials
	if err := c.post(ctx, "/auth/login", body, &creds); err != nil {
		return credentials.Credentials{}, err
	}
	return creds, nil
}

// Register creates a new account. It does not sign the account in.
func (c *AuthClient) Register(ctx context.Context, params RegisterParams) (*RegisteredUser, error) {
	var user RegisteredUser
	if err := c.post(ctx, "/auth/register", params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh rotates the token pair. The session-scoped protocol sends the
// session id alongside the refresh token; the response carries only the new
// pair, so the session id is preserved from the request.
func (c *AuthClient) Refresh(ctx context.Context, sessionID, refreshToken string) (credentials.Credentials, error) {
	body := map[string]string{"refreshToken": refreshToken}
	if c.sessionScoped {
		body["sessionId"] = sessionID
	}

	var rotated credentials.Credentials
	if err := c.post(ctx, "/auth/refresh", body, &rotated); err != nil {
		return credentials.Credentials{}, err
	}
	if rotated.SessionID == "" {
		rotated.SessionID = sessionID
	}
	return rotated, nil
}

// Logout invalidates the session on the server.
func (c *AuthClient) Logout(ctx context.Context, sessionID string) error {
	body := map[string]string{}
	if c.sessionScoped {
		body["sessionId"] = sessionID
	}
	return c.post(ctx, "/auth/logout", body, nil)
}

// RequestPasswordReset asks the backend to email a reset token.
func (c *AuthClient) RequestPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/password/request-reset", map[string]string{"email": email}, nil)
}

// ResetPassword sets a new password using an emailed reset token.
func (c *AuthClient) ResetPassword(ctx context.Context, token, password string) error {
	return c.post(ctx, "/auth/password/reset", map[string]string{"token": token, "password": password}, nil)
}

// SendEmailVerification asks the backend to email a verification token.
func (c *AuthClient) SendEmailVerification(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/email/send-verification", map[string]string{"email": email}, nil)
}

// VerifyEmail confirms an address using an emailed verification token.
func (c *AuthClient) VerifyEmail(ctx context.Context, token string) error {
	return c.post(ctx, "/auth/email/verify", map[string]string{"token": token}, nil)
}

// Validate reports whether the given access token is still accepted by the
// backend. A nil error means the token is valid.
func (c *AuthClient) Validate(ctx context.Context, accessToken string) error {
	return c.caller.call(ctx, request{method: "GET", path: "/auth/validate", bearer: accessToken}, nil)
}

func (c *AuthClient) post(ctx context.Context, path string, body, dest any) error {
	payload, err := jsonPayload(body)
	if err != nil {
		return pkgerrors.Wrapf(err, "[AuthClient] %s", path)
	}
	return c.caller.call(ctx, request{method: "POST", path: path, payload: payload, contentType: "application/json"}, dest)
}
