// Package fields wraps the venue endpoints: fields, courts and the
// establishments that operate them.
package fields

// Field is a bookable playing field.
type Field struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address,omitempty"`
	City            string   `json:"city,omitempty"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Sports          []string `json:"sports,omitempty"`
	PricePerHour    float64  `json:"pricePerHour,omitempty"`
	EstablishmentID string   `json:"establishmentId,omitempty"`
	PhotoURLs       []string `json:"photoUrls,omitempty"`
	DistanceKM      float64  `json:"distanceKm,omitempty"`
}

// Court is a single court within an establishment.
type Court struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Sport           string   `json:"sport"`
	Surface         string   `json:"surface,omitempty"`
	Indoor          bool     `json:"indoor"`
	PricePerHour    float64  `json:"pricePerHour,omitempty"`
	EstablishmentID string   `json:"establishmentId,omitempty"`
	PhotoURLs       []string `json:"photoUrls,omitempty"`
}

// Establishment is a venue operating one or more fields or courts.
type Establishment struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NearbyFieldsPage is one cursor-paginated page of nearby fields. An empty
// NextCursor marks the last page.
type NearbyFieldsPage struct {
	Items      []Field `json:"items"`
	NextCursor string  `json:"nextCursor,omitempty"`
}

// NearbyParams configure a nearby-fields query.
type NearbyParams struct {
	Latitude  float64
	Longitude float64
	RadiusKM  int
	Cursor    string
	Limit     int
}
