package credentials

import (
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/yLucasx3/joga-go/keystore"
)

// Vault is the typed layer over the secure store. It persists the credential
// bundle as a unit: the access and refresh tokens are always written
// together, and a partial write is rolled back so a mismatched pair can never
// be read back.
type Vault struct {
	store keystore.Store
}

// NewVault wraps a secure store.
func NewVault(store keystore.Store) *Vault {
	return &Vault{store: store}
}

// Save persists the bundle. If any write fails, all credential keys are
// cleared before the error is returned.
func (v *Vault) Save(creds Credentials) error {
	if err := v.writeAll(creds); err != nil {
		v.rollback()
		return pkgerrors.Wrap(err, "[Vault.Save] persist credentials")
	}
	return nil
}

func (v *Vault) writeAll(creds Credentials) error {
	if err := v.store.Set(keystore.KeyAccessToken, creds.AccessToken); err != nil {
		return err
	}
	if err := v.store.Set(keystore.KeyRefreshToken, creds.RefreshToken); err != nil {
		return err
	}
	if creds.SessionID != "" {
		if err := v.store.Set(keystore.KeySessionID, creds.SessionID); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vault) rollback() {
	_ = v.store.Delete(keystore.KeyAccessToken)
	_ = v.store.Delete(keystore.KeyRefreshToken)
	_ = v.store.Delete(keystore.KeySessionID)
}

// Load reads the stored bundle. Missing keys yield empty fields, never an
// error; callers decide whether an empty bundle is acceptable.
func (v *Vault) Load() (Credentials, error) {
	creds := Credentials{}
	for key, dest := range map[string]*string{
		keystore.KeyAccessToken:  &creds.AccessToken,
		keystore.KeyRefreshToken: &creds.RefreshToken,
		keystore.KeySessionID:    &creds.SessionID,
	} {
		value, err := v.store.Get(key)
		if err != nil {
			if pkgerrors.Is(err, keystore.ErrNotFound) {
				continue
			}
			return Credentials{}, pkgerrors.Wrapf(err, "[Vault.Load] read %s", key)
		}
		*dest = value
	}
	return creds, nil
}

// Wipe clears the entire store, not just the credential keys. Terminal auth
// failures and logout must leave no local user state behind.
func (v *Vault) Wipe() error {
	if err := v.store.Clear(); err != nil {
		return pkgerrors.Wrap(err, "[Vault.Wipe] clear store")
	}
	return nil
}

// SaveUser caches the user record so the app can boot offline-aware.
func (v *Vault) SaveUser(user any) error {
	return v.saveJSON(keystore.KeyUserData, user, "[Vault.SaveUser]")
}

// LoadUser decodes the cached user record into dest. Returns
// keystore.ErrNotFound when no record is cached.
func (v *Vault) LoadUser(dest any) error {
	return v.loadJSON(keystore.KeyUserData, dest, "[Vault.LoadUser]")
}

// SavePreferences caches the user preferences record.
func (v *Vault) SavePreferences(prefs any) error {
	return v.saveJSON(keystore.KeyUserPreferences, prefs, "[Vault.SavePreferences]")
}

// LoadPreferences decodes the cached preferences into dest.
func (v *Vault) LoadPreferences(dest any) error {
	return v.loadJSON(keystore.KeyUserPreferences, dest, "[Vault.LoadPreferences]")
}

func (v *Vault) saveJSON(key string, value any, op string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(err, op+" encode")
	}
	if err := v.store.Set(key, string(raw)); err != nil {
		return pkgerrors.Wrap(err, op+" write")
	}
	return nil
}

func (v *Vault) loadJSON(key string, dest any, op string) error {
	raw, err := v.store.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return pkgerrors.Wrap(err, op+" decode")
	}
	return nil
}
