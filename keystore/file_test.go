package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bin")
	store, err := NewFile(path, "test-secret")
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyAccessToken, "access-1"))
	require.NoError(t, store.Set(KeyRefreshToken, "refresh-1"))

	value, err := store.Get(KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "access-1", value)

	// A fresh store over the same file and secret reads the same values.
	reopened, err := NewFile(path, "test-secret")
	require.NoError(t, err)
	value, err = reopened.Get(KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "refresh-1", value)
}

func TestFileStoreWrongSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bin")
	store, err := NewFile(path, "right-secret")
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyAccessToken, "access-1"))

	other, err := NewFile(path, "wrong-secret")
	require.NoError(t, err)
	_, err = other.Get(KeyAccessToken)
	require.Error(t, err)
	require.Contains(t, err.Error(), "wrong secret")
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFile(filepath.Join(t.TempDir(), "store.bin"), "s")
	require.NoError(t, err)

	_, err = store.Get(KeySessionID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFile(filepath.Join(t.TempDir(), "store.bin"), "s")
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyDeviceID, "device-1"))
	require.NoError(t, store.Delete(KeyDeviceID))
	_, err = store.Get(KeyDeviceID)
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, store.Delete(KeyDeviceID))
}

func TestFileStoreClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bin")
	store, err := NewFile(path, "s")
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyUserData, `{"id":"user-1"}`))

	require.NoError(t, store.Clear())

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
	_, err = store.Get(KeyUserData)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bin")
	store, err := NewFile(path, "s")
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyAccessToken, "access-1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNewFileValidation(t *testing.T) {
	_, err := NewFile("", "secret")
	require.Error(t, err)

	_, err = NewFile(filepath.Join(t.TempDir(), "store.bin"), "")
	require.Error(t, err)
}
