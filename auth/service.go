// Package auth is the authentication domain service: it validates input,
// drives the pre-authentication endpoints through the auth client, and keeps
// the local credential and profile cache consistent around sign-in and
// sign-out.
package auth

import (
	"context"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/yLucasx3/joga-go/api"
	"github.com/yLucasx3/joga-go/credentials"
	"github.com/yLucasx3/joga-go/keystore"
	"github.com/yLucasx3/joga-go/users"
)

// ProfileFetcher loads the signed-in user's record. Implemented by
// *users.Service; injected so sign-in can warm the profile cache without the
// auth service owning the resource client.
type ProfileFetcher interface {
	Me(ctx context.Context) (*users.User, error)
}

// Service wires the auth client, the credential vault and the general store
// together.
type Service struct {
	backend *api.AuthClient
	vault   *credentials.Vault
	store   keystore.Store
	profile ProfileFetcher
	log     zerolog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithProfileFetcher enables profile caching after sign-in.
func WithProfileFetcher(profile ProfileFetcher) ServiceOption {
	return func(s *Service) { s.profile = profile }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// NewService builds the auth service.
func NewService(backend *api.AuthClient, vault *credentials.Vault, store keystore.Store, options ...ServiceOption) (*Service, error) {
	if backend == nil {
		return nil, pkgerrors.New("[auth.NewService] backend is required")
	}
	if vault == nil {
		return nil, pkgerrors.New("[auth.NewService] vault is required")
	}
	if store == nil {
		return nil, pkgerrors.New("[auth.NewService] store is required")
	}

	service := &Service{
		backend: backend,
		vault:   vault,
		store:   store,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(service)
	}
	return service, nil
}

// Login signs in, persists the credential bundle, and warms the profile
// cache when a profile fetcher is configured. The returned user is nil when
// no fetcher is configured or the warm-up fails; a nil user with a nil error
// still means the sign-in succeeded, and the profile is refetched on demand.
func (s *Service) Login(ctx context.Context, email, password string) (*users.User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateLoginPassword(password); err != nil {
		return nil, err
	}

	creds, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.vault.Save(creds); err != nil {
		return nil, pkgerrors.Wrap(err, "[Service.Login] persist credentials")
	}
	s.ensureDeviceID()

	if s.profile == nil {
		return nil, nil
	}
	user, err := s.profile.Me(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("signed in but failed to cache profile")
		return nil, nil
	}
	return user, nil
}

// Register creates an account. It does not sign the account in; callers
// follow up with Login.
func (s *Service) Register(ctx context.Context, params api.RegisterParams) (*api.RegisteredUser, error) {
	if err := ValidateEmail(params.Email); err != nil {
		return nil, err
	}
	if err := ValidateNewPassword(params.Password); err != nil {
		return nil, err
	}
	if err := ValidatePhone(params.Phone); err != nil {
		return nil, err
	}
	return s.backend.Register(ctx, params)
}

// Logout invalidates the session remotely on a best-effort basis and always
// clears all local state. A network failure can never block local sign-out.
func (s *Service) Logout(ctx context.Context) error {
	stored, err := s.vault.Load()
	if err == nil && stored.Valid() {
		// A legacy bundle carries no session id; the backend still gets the
		// invalidation call with whatever scope it speaks.
		if err := s.backend.Logout(ctx, stored.SessionID); err != nil {
			s.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
		}
	}
	if err := s.vault.Wipe(); err != nil {
		return pkgerrors.Wrap(err, "[Service.Logout] clear local state")
	}
	return nil
}

// SignedIn reports whether a usable credential bundle is stored.
func (s *Service) SignedIn() bool {
	stored, err := s.vault.Load()
	return err == nil && stored.Valid()
}

// Validate asks the backend whether the stored access token is still
// accepted.
func (s *Service) Validate(ctx context.Context) error {
	stored, err := s.vault.Load()
	if err != nil {
		return pkgerrors.Wrap(err, "[Service.Validate] load credentials")
	}
	if stored.AccessToken == "" {
		return NotSignedInErr
	}
	return s.backend.Validate(ctx, stored.AccessToken)
}

// RequestPasswordReset asks the backend to email a reset token.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return s.backend.RequestPasswordReset(ctx, email)
}

// ResetPassword sets a new password using an emailed reset token.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return TokenRequiredErr
	}
	if err := ValidateNewPassword(password); err != nil {
		return err
	}
	return s.backend.ResetPassword(ctx, token, password)
}

// SendEmailVerification asks the backend to email a verification token.
func (s *Service) SendEmailVerification(ctx context.Context, email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return s.backend.SendEmailVerification(ctx, email)
}

// VerifyEmail confirms an address using an emailed verification token.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return TokenRequiredErr
	}
	return s.backend.VerifyEmail(ctx, token)
}

// ensureDeviceID persists a stable device identifier on first sign-in.
func (s *Service) ensureDeviceID() {
	if _, err := s.store.Get(keystore.KeyDeviceID); err == nil {
		return
	}
	if err := s.store.Set(keystore.KeyDeviceID, uuid.NewString()); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist device id")
	}
}
