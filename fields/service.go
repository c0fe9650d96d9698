package fields

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/yLucasx3/joga-go/api"
)

// Service wraps the venue endpoints of the resource API.
type Service struct {
	client *api.Client
}

// NewService builds a venue service.
func NewService(client *api.Client) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New("[fields.NewService] client is required")
	}
	return &Service{client: client}, nil
}

// NearbyFields fetches one cursor-paginated page of fields around a
// coordinate. Pass the previous page's NextCursor to continue.
func (s *Service) NearbyFields(ctx context.Context, params NearbyParams) (*NearbyFieldsPage, error) {
	values := coordQuery(params.Latitude, params.Longitude)
	if params.RadiusKM > 0 {
		values.Set("radius", strconv.Itoa(params.RadiusKM))
	}
	if params.Cursor != "" {
		values.Set("cursor", params.Cursor)
	}
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}

	var page NearbyFieldsPage
	if err := s.client.Get(ctx, "/app/fields/nearby", values, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Field fetches one field.
func (s *Service) Field(ctx context.Context, id string) (*Field, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New("[Service.Field] field id is required")
	}
	var field Field
	if err := s.client.Get(ctx, "/app/fields/"+url.PathEscape(id), nil, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

// Courts lists courts, optionally filtered by sport.
func (s *Service) Courts(ctx context.Context, sport string) ([]Court, error) {
	values := url.Values{}
	if sport != "" {
		values.Set("sport", sport)
	}
	var courts []Court
	if err := s.client.Get(ctx, "/courts", values, &courts); err != nil {
		return nil, err
	}
	return courts, nil
}

// Court fetches one court.
func (s *Service) Court(ctx context.Context, id string) (*Court, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New("[Service.Court] court id is required")
	}
	var court Court
	if err := s.client.Get(ctx, "/courts/"+url.PathEscape(id), nil, &court); err != nil {
		return nil, err
	}
	return &court, nil
}

// SearchCourts finds courts by free-text query.
func (s *Service) SearchCourts(ctx context.Context, query string) ([]Court, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New("[Service.SearchCourts] query is required")
	}
	values := url.Values{}
	values.Set("q", query)

	var courts []Court
	if err := s.client.Get(ctx, "/courts/search", values, &courts); err != nil {
		return nil, err
	}
	return courts, nil
}

// NearbyCourts lists courts around a coordinate.
func (s *Service) NearbyCourts(ctx context.Context, lat, lng float64) ([]Court, error) {
	var courts []Court
	if err := s.client.Get(ctx, "/courts/nearby", coordQuery(lat, lng), &courts); err != nil {
		return nil, err
	}
	return courts, nil
}

// Establishments lists establishments.
func (s *Service) Establishments(ctx context.Context) ([]Establishment, error) {
	var establishments []Establishment
	if err := s.client.Get(ctx, "/establishments", nil, &establishments); err != nil {
		return nil, err
	}
	return establishments, nil
}

// Establishment fetches one establishment.
func (s *Service) Establishment(ctx context.Context, id string) (*Establishment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New("[Service.Establishment] establishment id is required")
	}
	var establishment Establishment
	if err := s.client.Get(ctx, "/establishments/"+url.PathEscape(id), nil, &establishment); err != nil {
		return nil, err
	}
	return &establishment, nil
}

// NearbyEstablishments lists establishments around a coordinate.
func (s *Service) NearbyEstablishments(ctx context.Context, lat, lng float64) ([]Establishment, error) {
	var establishments []Establishment
	if err := s.client.Get(ctx, "/establishments/nearby", coordQuery(lat, lng), &establishments); err != nil {
		return nil, err
	}
	return establishments, nil
}

func coordQuery(lat, lng float64) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	return values
}
