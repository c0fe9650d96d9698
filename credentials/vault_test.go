package credentials

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/yLucasx3/joga-go/keystore"
)

// failingStore wraps a Memory store and fails writes to one key.
type failingStore struct {
	*keystore.Memory
	failKey string
}

func (f *failingStore) Set(key, value string) error {
	if key == f.failKey {
		return pkgerrors.New("store write failed")
	}
	return f.Memory.Set(key, value)
}

func TestVaultSaveLoadRoundtrip(t *testing.T) {
	vault := NewVault(keystore.NewMemory())

	creds := Credentials{AccessToken: "access-1", RefreshToken: "refresh-1", SessionID: "session-1"}
	require.NoError(t, vault.Save(creds))

	loaded, err := vault.Load()
	require.NoError(t, err)
	require.Equal(t, creds, loaded)
}

func TestVaultLoadEmptyStore(t *testing.T) {
	vault := NewVault(keystore.NewMemory())

	loaded, err := vault.Load()
	require.NoError(t, err)
	require.Equal(t, Credentials{}, loaded)
	require.False(t, loaded.Valid())
}

func TestVaultSaveRollsBackPartialWrite(t *testing.T) {
	store := &failingStore{Memory: keystore.NewMemory(), failKey: keystore.KeyRefreshToken}
	vault := NewVault(store)

	err := vault.Save(Credentials{AccessToken: "access-1", RefreshToken: "refresh-1", SessionID: "session-1"})
	require.Error(t, err)

	// The access token written before the failure must not survive alone.
	_, getErr := store.Get(keystore.KeyAccessToken)
	require.ErrorIs(t, getErr, keystore.ErrNotFound)
	_, getErr = store.Get(keystore.KeySessionID)
	require.ErrorIs(t, getErr, keystore.ErrNotFound)
}

func TestVaultSavePreservesSessionIDWhenAbsent(t *testing.T) {
	vault := NewVault(keystore.NewMemory())

	require.NoError(t, vault.Save(Credentials{AccessToken: "a1", RefreshToken: "r1", SessionID: "session-1"}))
	require.NoError(t, vault.Save(Credentials{AccessToken: "a2", RefreshToken: "r2"}))

	loaded, err := vault.Load()
	require.NoError(t, err)
	require.Equal(t, "a2", loaded.AccessToken)
	require.Equal(t, "r2", loaded.RefreshToken)
	require.Equal(t, "session-1", loaded.SessionID)
}

func TestVaultWipeClearsEverything(t *testing.T) {
	store := keystore.NewMemory()
	vault := NewVault(store)

	require.NoError(t, vault.Save(Credentials{AccessToken: "a", RefreshToken: "r", SessionID: "s"}))
	require.NoError(t, store.Set(keystore.KeyUserData, `{"id":"user-1"}`))
	require.NoError(t, store.Set(keystore.KeyOnboardingCompleted, "true"))

	require.NoError(t, vault.Wipe())
	require.Zero(t, store.Len())
}

func TestVaultUserCache(t *testing.T) {
	vault := NewVault(keystore.NewMemory())

	type user struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	var missing user
	require.ErrorIs(t, vault.LoadUser(&missing), keystore.ErrNotFound)

	require.NoError(t, vault.SaveUser(user{ID: "user-1", Name: "Lucas"}))

	var cached user
	require.NoError(t, vault.LoadUser(&cached))
	require.Equal(t, user{ID: "user-1", Name: "Lucas"}, cached)
}

func TestVaultPreferencesCache(t *testing.T) {
	vault := NewVault(keystore.NewMemory())

	type prefs struct {
		Notifications bool   `json:"notifications"`
		Radius        int    `json:"radius"`
		Sport         string `json:"sport"`
	}

	require.NoError(t, vault.SavePreferences(prefs{Notifications: true, Radius: 15, Sport: "futsal"}))

	var cached prefs
	require.NoError(t, vault.LoadPreferences(&cached))
	require.Equal(t, prefs{Notifications: true, Radius: 15, Sport: "futsal"}, cached)
}
