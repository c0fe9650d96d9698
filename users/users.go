// Package users wraps the user-facing endpoints of the resource API and the
// local caching of the signed-in user's record and preferences.
package users

import "time"

// User is the profile record returned by the backend.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	AvatarURL      string    `json:"avatarUrl,omitempty"`
	Position       string    `json:"position,omitempty"`
	OrganizationID string    `json:"organizationId,omitempty"`
	MembershipID   string    `json:"membershipId,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
}

// Preferences are the user-tunable settings cached locally so the app can
// boot offline-aware.
type Preferences struct {
	FavoriteSports     []string `json:"favoriteSports,omitempty"`
	SearchRadiusKM     int      `json:"searchRadiusKm,omitempty"`
	NotificationsOn    bool     `json:"notificationsOn"`
	PreferredCity      string   `json:"preferredCity,omitempty"`
	ShowPhoneToPlayers bool     `json:"showPhoneToPlayers"`
}

// Stats summarizes a user's activity history.
type Stats struct {
	ActivitiesCreated int `json:"activitiesCreated"`
	ActivitiesJoined  int `json:"activitiesJoined"`
	ActivitiesPlayed  int `json:"activitiesPlayed"`
	Cancellations     int `json:"cancellations"`
}

// UpdateProfileParams carries the editable profile fields. Nil pointers are
// omitted from the PATCH body and left untouched by the backend.
type UpdateProfileParams struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Position *string `json:"position,omitempty"`
}
