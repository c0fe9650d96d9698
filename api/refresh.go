package api

import (
	"context"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/yLucasx3/joga-go/credentials"
)

// RefreshFunc performs the network refresh call and returns the rotated
// credential bundle. NewSessionRefresh builds the standard implementation
// from a vault and an auth client.
type RefreshFunc func(ctx context.Context) (credentials.Credentials, error)

// refreshCoordinator serializes token refreshes: at most one refresh network
// call is outstanding at any time. Requests that need a new token while one
// is already being minted park on a one-shot channel and are resumed, in
// FIFO order, when the in-flight refresh settles.
//
// On success the rotated bundle is persisted before any waiter resumes. On
// failure the vault is wiped completely and every waiter is rejected with a
// session-expired error; a failed background refresh must never leave a
// request hanging.
type refreshCoordinator struct {
	mu       sync.Mutex
	inFlight bool
	waiters  []chan waitResult

	refresh RefreshFunc
	vault   *credentials.Vault
	log     zerolog.Logger
}

type waitResult struct {
	accessToken string
	err         error
}

func newRefreshCoordinator(refresh RefreshFunc, vault *credentials.Vault, log zerolog.Logger) *refreshCoordinator {
	return &refreshCoordinator{
		refresh: refresh,
		vault:   vault,
		log:     log,
	}
}

// Token returns an access token minted by the single in-flight refresh,
// starting one if none is running. Callers that find a refresh already in
// flight block until it settles; cancelling ctx abandons only that caller,
// never the refresh itself.
func (rc *refreshCoordinator) Token(ctx context.Context) (string, error) {
	rc.mu.Lock()
	if rc.inFlight {
		ch := make(chan waitResult, 1)
		rc.waiters = append(rc.waiters, ch)
		rc.mu.Unlock()

		select {
		case res := <-ch:
			return res.accessToken, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	rc.inFlight = true
	rc.mu.Unlock()

	return rc.run(ctx)
}

func (rc *refreshCoordinator) run(ctx context.Context) (accessToken string, err error) {
	// The flag must be cleared and every waiter settled no matter how the
	// refresh call ends; a panic or early return can never leave the
	// coordinator stuck in flight.
	defer func() {
		rc.settle(accessToken, err)
	}()

	creds, refreshErr := rc.refresh(ctx)
	if refreshErr != nil {
		rc.log.Warn().Err(refreshErr).Msg("token refresh failed, clearing local session")
		if wipeErr := rc.vault.Wipe(); wipeErr != nil {
			rc.log.Error().Err(wipeErr).Msg("failed to clear local session state")
		}
		return "", sessionExpiredError()
	}

	if saveErr := rc.vault.Save(creds); saveErr != nil {
		// The vault has already rolled the partial write back; fail the
		// round rather than hand out a token that will not survive a
		// restart.
		return "", pkgerrors.Wrap(saveErr, "[refreshCoordinator.run] persist rotated credentials")
	}

	rc.log.Debug().Msg("access token refreshed")
	return creds.AccessToken, nil
}

func (rc *refreshCoordinator) settle(accessToken string, err error) {
	rc.mu.Lock()
	waiters := rc.waiters
	rc.waiters = nil
	rc.inFlight = false
	rc.mu.Unlock()

	for _, ch := range waiters {
		ch <- waitResult{accessToken: accessToken, err: err}
	}
}

func (rc *refreshCoordinator) pending() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return len(rc.waiters)
}

// NewSessionRefresh builds the standard RefreshFunc: it reads the stored
// session id and refresh token and asks the auth backend to rotate them.
func NewSessionRefresh(vault *credentials.Vault, authClient *AuthClient) RefreshFunc {
	return func(ctx context.Context) (credentials.Credentials, error) {
		stored, err := vault.Load()
		if err != nil {
			return credentials.Credentials{}, pkgerrors.Wrap(err, "[NewSessionRefresh] load credentials")
		}
		if stored.RefreshToken == "" {
			return credentials.Credentials{}, pkgerrors.New("[NewSessionRefresh] no refresh token stored")
		}
		return authClient.Refresh(ctx, stored.SessionID, stored.RefreshToken)
	}
}
