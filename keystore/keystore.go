// Package keystore defines the persisted key-value contract backing the
// client's local state: credentials and cached user data in a secure store,
// preferences and app-local keys in a general store.
package keystore

import "errors"

// ErrNotFound is returned by Get when no value exists for a key.
var ErrNotFound = errors.New("keystore: key not found")

// Well-known keys. Credential keys live in the secure store; the rest may be
// kept in a general store alongside app-local keys.
const (
	KeyAccessToken         = "auth_token"
	KeyRefreshToken        = "refresh_token"
	KeySessionID           = "session_id"
	KeyUserData            = "user_data"
	KeyUserPreferences     = "user_preferences"
	KeyOnboardingCompleted = "onboarding_completed"
	KeyDeviceID            = "device_id"
	KeyActivityFilters     = "activity_filters"
	KeyRecentSearches      = "recent_searches"
)

// Store is an opaque persisted key-value store. Implementations must be safe
// for concurrent use.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)
	// Set writes the value for key, replacing any existing value.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Clear removes every key.
	Clear() error
}
