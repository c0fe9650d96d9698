package api

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yLucasx3/joga-go/credentials"
	"github.com/yLucasx3/joga-go/keystore"
)

func TestRefreshCoordinatorSingleFlight(t *testing.T) {
	store := keystore.NewMemory()
	vault := credentials.NewVault(store)

	var calls atomic.Int32
	release := make(chan struct{})
	refresh := func(ctx context.Context) (credentials.Credentials, error) {
		calls.Add(1)
		<-release
		return credentials.Credentials{
			AccessToken:  "rotated-access",
			RefreshToken: "rotated-refresh",
			SessionID:    "session-1",
		}, nil
	}
	rc := newRefreshCoordinator(refresh, vault, zerolog.Nop())

	const concurrent = 5
	type outcome struct {
		token string
		err   error
	}
	outcomes := make(chan outcome, concurrent)
	for i := 0; i < concurrent; i++ {
		go func() {
			token, err := rc.Token(context.Background())
			outcomes <- outcome{token: token, err: err}
		}()
	}

	// One caller holds the in-flight refresh; the rest must park.
	require.Eventually(t, func() bool { return rc.pending() == concurrent-1 }, time.Second, 5*time.Millisecond)
	close(release)

	for i := 0; i < concurrent; i++ {
		got := <-outcomes
		require.NoError(t, got.err)
		require.Equal(t, "rotated-access", got.token)
	}
	require.Equal(t, int32(1), calls.Load())

	stored, err := vault.Load()
	require.NoError(t, err)
	require.Equal(t, "rotated-access", stored.AccessToken)
	require.Equal(t, "rotated-refresh", stored.RefreshToken)
	require.Equal(t, "session-1", stored.SessionID)
}

func TestRefreshCoordinatorFailureRejectsAllWaitersAndWipes(t *testing.T) {
	store := keystore.NewMemory()
	vault := credentials.NewVault(store)
	require.NoError(t, vault.Save(credentials.Credentials{
		AccessToken:  "stale-access",
		RefreshToken: "revoked-refresh",
		SessionID:    "session-1",
	}))
	require.NoError(t, store.Set(keystore.KeyUserData, `{"id":"user-1"}`))

	var calls atomic.Int32
	release := make(chan struct{})
	refresh := func(ctx context.Context) (credentials.Credentials, error) {
		calls.Add(1)
		<-release
		return credentials.Credentials{}, normalizeResponse(401, []byte(`{"message":"refresh token revoked"}`))
	}
	rc := newRefreshCoordinator(refresh, vault, zerolog.Nop())

	const concurrent = 3
	errs := make(chan error, concurrent)
	for i := 0; i < concurrent; i++ {
		go func() {
			_, err := rc.Token(context.Background())
			errs <- err
		}()
	}

	require.Eventually(t, func() bool { return rc.pending() == concurrent-1 }, time.Second, 5*time.Millisecond)
	close(release)

	for i := 0; i < concurrent; i++ {
		err := <-errs
		require.True(t, IsKind(err, KindUnauthorized))
		require.Contains(t, err.(*Error).Message, "session has expired")
	}
	require.Equal(t, int32(1), calls.Load())
	require.Zero(t, store.Len(), "refresh failure must wipe all local state")
}

func TestRefreshCoordinatorClearsFlagAfterSettling(t *testing.T) {
	store := keystore.NewMemory()
	vault := credentials.NewVault(store)

	var calls atomic.Int32
	refresh := func(ctx context.Context) (credentials.Credentials, error) {
		calls.Add(1)
		return credentials.Credentials{AccessToken: "a", RefreshToken: "r"}, nil
	}
	rc := newRefreshCoordinator(refresh, vault, zerolog.Nop())

	for i := 0; i < 3; i++ {
		token, err := rc.Token(context.Background())
		require.NoError(t, err)
		require.Equal(t, "a", token)
	}
	// Sequential calls each run their own refresh; nothing stays in flight.
	require.Equal(t, int32(3), calls.Load())
	require.Zero(t, rc.pending())
}

func TestRefreshCoordinatorWaiterHonorsContext(t *testing.T) {
	store := keystore.NewMemory()
	vault := credentials.NewVault(store)

	release := make(chan struct{})
	refresh := func(ctx context.Context) (credentials.Credentials, error) {
		<-release
		return credentials.Credentials{AccessToken: "a", RefreshToken: "r"}, nil
	}
	rc := newRefreshCoordinator(refresh, vault, zerolog.Nop())

	started := make(chan struct{})
	go func() {
		close(started)
		_, _ = rc.Token(context.Background())
	}()
	<-started
	require.Eventually(t, func() bool {
		rc.mu.Lock()
		defer rc.mu.Unlock()
		return rc.inFlight
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	waiterErr := make(chan error, 1)
	go func() {
		_, err := rc.Token(ctx)
		waiterErr <- err
	}()
	require.Eventually(t, func() bool { return rc.pending() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-waiterErr, context.Canceled)

	// The abandoned waiter must not wedge the refresh itself.
	close(release)
	token, err := rc.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a", token)
}
