// Package activities wraps the pickup-activity endpoints: browsing,
// creation, lifecycle management, and participation.
package activities

import "time"

// Activity is a scheduled pickup-sport session at a field or court.
type Activity struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Sport        string        `json:"sport"`
	Description  string        `json:"description,omitempty"`
	FieldID      string        `json:"fieldId,omitempty"`
	CourtID      string        `json:"courtId,omitempty"`
	OrganizerID  string        `json:"organizerId"`
	StartsAt     time.Time     `json:"startsAt"`
	EndsAt       time.Time     `json:"endsAt"`
	MaxPlayers   int           `json:"maxPlayers"`
	PricePerHead float64       `json:"pricePerHead,omitempty"`
	Status       string        `json:"status"`
	ShareToken   string        `json:"shareToken,omitempty"`
	Latitude     float64       `json:"latitude,omitempty"`
	Longitude    float64       `json:"longitude,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
}

// Participant is one confirmed player on an activity.
type Participant struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId,omitempty"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone,omitempty"`
	JoinedAt time.Time `json:"joinedAt,omitzero"`
}

// Page is a page of activities with offset pagination metadata.
type Page struct {
	Items   []Activity `json:"items"`
	Page    int        `json:"page"`
	PerPage int        `json:"perPage"`
	Total   int        `json:"total"`
}

// ListParams filter and paginate activity listings. The last-used filters
// are persisted locally so the app can restore them on next launch.
type ListParams struct {
	Sport   string    `json:"sport,omitempty"`
	City    string    `json:"city,omitempty"`
	From    time.Time `json:"from,omitzero"`
	To      time.Time `json:"to,omitzero"`
	Page    int       `json:"page,omitempty"`
	PerPage int       `json:"perPage,omitempty"`
}

// CreateParams is the payload for creating an activity.
type CreateParams struct {
	Title        string    `json:"title"`
	Sport        string    `json:"sport"`
	Description  string    `json:"description,omitempty"`
	FieldID      string    `json:"fieldId,omitempty"`
	CourtID      string    `json:"courtId,omitempty"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
	MaxPlayers   int       `json:"maxPlayers"`
	PricePerHead float64   `json:"pricePerHead,omitempty"`
}

// UpdateParams carries the editable activity fields. Nil pointers are
// omitted from the PATCH body.
type UpdateParams struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	StartsAt     *time.Time `json:"startsAt,omitempty"`
	EndsAt       *time.Time `json:"endsAt,omitempty"`
	MaxPlayers   *int       `json:"maxPlayers,omitempty"`
	PricePerHead *float64   `json:"pricePerHead,omitempty"`
}

// JoinParams identify the joining player to the organizer.
type JoinParams struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
