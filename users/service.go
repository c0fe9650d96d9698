package users

import (
	"context"
	"io"
	"net/url"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/yLucasx3/joga-go/api"
	"github.com/yLucasx3/joga-go/credentials"
	"github.com/yLucasx3/joga-go/keystore"
)

// Service wraps the user endpoints of the resource API. Profile and
// preference reads and writes keep the local cache in sync as a side effect.
type Service struct {
	client *api.Client
	vault  *credentials.Vault
	store  keystore.Store
}

// NewService builds a user service. store is the general store holding the
// persisted device id.
func NewService(client *api.Client, vault *credentials.Vault, store keystore.Store) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New("[users.NewService] client is required")
	}
	if vault == nil {
		return nil, pkgerrors.New("[users.NewService] vault is required")
	}
	if store == nil {
		return nil, pkgerrors.New("[users.NewService] store is required")
	}
	return &Service{client: client, vault: vault, store: store}, nil
}

// Me fetches the signed-in user's record and caches it locally.
func (s *Service) Me(ctx context.Context) (*User, error) {
	var user User
	if err := s.client.Get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	if err := s.vault.SaveUser(user); err != nil {
		return nil, pkgerrors.Wrap(err, "[Service.Me] cache user")
	}
	return &user, nil
}

// Get fetches another user's public profile.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New("[Service.Get] user id is required")
	}
	var user User
	if err := s.client.Get(ctx, "/users/"+url.PathEscape(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile patches the signed-in user's profile and refreshes the cache.
func (s *Service) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*User, error) {
	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return nil, pkgerrors.New("[Service.UpdateProfile] name cannot be empty")
	}
	var user User
	if err := s.client.Patch(ctx, "/users/me", params, &user); err != nil {
		return nil, err
	}
	if err := s.vault.SaveUser(user); err != nil {
		return nil, pkgerrors.Wrap(err, "[Service.UpdateProfile] cache user")
	}
	return &user, nil
}

// UpdatePreferences patches the signed-in user's preferences and refreshes
// the local copy.
func (s *Service) UpdatePreferences(ctx context.Context, prefs Preferences) (*Preferences, error) {
	var updated Preferences
	if err := s.client.Patch(ctx, "/users/me/preferences", prefs, &updated); err != nil {
		return nil, err
	}
	if err := s.vault.SavePreferences(updated); err != nil {
		return nil, pkgerrors.Wrap(err, "[Service.UpdatePreferences] cache preferences")
	}
	return &updated, nil
}

// UploadAvatar replaces the signed-in user's avatar and refreshes the cached
// record.
func (s *Service) UploadAvatar(ctx context.Context, filename string, content io.Reader) (*User, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, pkgerrors.New("[Service.UploadAvatar] filename is required")
	}
	var user User
	if err := s.client.Upload(ctx, "/users/me/avatar", "avatar", filename, content, &user); err != nil {
		return nil, err
	}
	if err := s.vault.SaveUser(user); err != nil {
		return nil, pkgerrors.Wrap(err, "[Service.UploadAvatar] cache user")
	}
	return &user, nil
}

// DeleteAvatar removes the signed-in user's avatar.
func (s *Service) DeleteAvatar(ctx context.Context) error {
	return s.client.Delete(ctx, "/users/me/avatar", nil, nil)
}

// RegisterNotificationToken registers a push notification token for this
// device.
func (s *Service) RegisterNotificationToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New("[Service.RegisterNotificationToken] token is required")
	}
	body := map[string]string{"token": token}
	if deviceID, err := s.store.Get(keystore.KeyDeviceID); err == nil {
		body["deviceId"] = deviceID
	}
	return s.client.Post(ctx, "/users/me/notification-tokens", body, nil)
}

// RemoveNotificationToken deregisters a push notification token.
func (s *Service) RemoveNotificationToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New("[Service.RemoveNotificationToken] token is required")
	}
	return s.client.Delete(ctx, "/users/me/notification-tokens/"+url.PathEscape(token), nil, nil)
}

// Stats fetches a user's activity statistics.
func (s *Service) Stats(ctx context.Context, id string) (*Stats, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New("[Service.Stats] user id is required")
	}
	var stats Stats
	if err := s.client.Get(ctx, "/users/"+url.PathEscape(id)+"/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DeleteAccount deletes the signed-in user's account remotely, then wipes
// all local state. A failed remote delete keeps the local session intact.
func (s *Service) DeleteAccount(ctx context.Context) error {
	if err := s.client.Delete(ctx, "/users/me", nil, nil); err != nil {
		return err
	}
	if err := s.vault.Wipe(); err != nil {
		return pkgerrors.Wrap(err, "[Service.DeleteAccount] clear local state")
	}
	return nil
}

// CachedUser returns the locally cached user record, if any.
func (s *Service) CachedUser() (*User, error) {
	var user User
	if err := s.vault.LoadUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CachedPreferences returns the locally cached preferences, if any.
func (s *Service) CachedPreferences() (*Preferences, error) {
	var prefs Preferences
	if err := s.vault.LoadPreferences(&prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}
