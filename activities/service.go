package activities

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/yLucasx3/joga-go/api"
	"github.com/yLucasx3/joga-go/internal/utils"
	"github.com/yLucasx3/joga-go/keystore"
)

const recentSearchLimit = 10

// Service wraps the activity endpoints with input validation and local
// persistence of listing filters and recent searches.
type Service struct {
	client  *api.Client
	store   keystore.Store
	nowTime func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithNowTime sets the clock used for date validation (primarily for
// testing).
func WithNowTime(now func() time.Time) ServiceOption {
	return func(s *Service) { s.nowTime = now }
}

// NewService builds an activity service. store is the general store used for
// cached filters and recent search history.
func NewService(client *api.Client, store keystore.Store, options ...ServiceOption) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New("[activities.NewService] client is required")
	}
	if store == nil {
		return nil, pkgerrors.New("[activities.NewService] store is required")
	}

	service := &Service{
		client:  client,
		store:   store,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(service)
	}
	return service, nil
}

// List fetches a filtered, paginated activity listing and remembers the
// filters for the next launch.
func (s *Service) List(ctx context.Context, params ListParams) (*Page, error) {
	var page Page
	if err := s.client.Get(ctx, "/activities", listQuery(params), &page); err != nil {
		return nil, err
	}
	s.rememberFilters(params)
	return &page, nil
}

// LastFilters returns the persisted filters from the previous List call.
func (s *Service) LastFilters() (ListParams, error) {
	raw, err := s.store.Get(keystore.KeyActivityFilters)
	if err != nil {
		return ListParams{}, err
	}
	var params ListParams
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return ListParams{}, pkgerrors.Wrap(err, "[Service.LastFilters] decode filters")
	}
	return params, nil
}

// Get fetches one activity with its participant list.
func (s *Service) Get(ctx context.Context, id string) (*Activity, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ActivityIDRequiredErr
	}
	var activity Activity
	if err := s.client.Get(ctx, "/activities/"+url.PathEscape(id), nil, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// GetByShareToken resolves an activity from an invite link token.
func (s *Service) GetByShareToken(ctx context.Context, token string) (*Activity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New("[Service.GetByShareToken] share token is required")
	}
	var activity Activity
	if err := s.client.Get(ctx, "/activities/share/"+url.PathEscape(token), nil, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// Create validates and creates an activity.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Activity, error) {
	if err := s.validateCreate(params); err != nil {
		return nil, err
	}
	var activity Activity
	if err := s.client.Post(ctx, "/activities", params, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// Update patches an activity's editable fields.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Activity, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ActivityIDRequiredErr
	}
	if params.StartsAt != nil && params.EndsAt != nil && !params.EndsAt.After(*params.StartsAt) {
		return nil, EndBeforeStartErr
	}
	if params.MaxPlayers != nil && utils.Value(params.MaxPlayers) < 2 {
		return nil, TooFewPlayersErr
	}
	var activity Activity
	if err := s.client.Patch(ctx, "/activities/"+url.PathEscape(id), params, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// Delete removes an activity.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ActivityIDRequiredErr
	}
	return s.client.Delete(ctx, "/activities/"+url.PathEscape(id), nil, nil)
}

// Cancel cancels an activity, notifying its participants.
func (s *Service) Cancel(ctx context.Context, id string) (*Activity, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ActivityIDRequiredErr
	}
	var activity Activity
	if err := s.client.Post(ctx, "/activities/"+url.PathEscape(id)+"/cancel", nil, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// Join adds the caller to an activity's participant list. The backend
// signals a full activity or a duplicate join through its own error codes,
// which pass through verbatim.
func (s *Service) Join(ctx context.Context, id string, params JoinParams) (*Participant, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ActivityIDRequiredErr
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, NameRequiredErr
	}
	if strings.TrimSpace(params.Phone) == "" {
		return nil, PhoneRequiredErr
	}
	var participant Participant
	if err := s.client.Post(ctx, "/activities/"+url.PathEscape(id)+"/participants", params, &participant); err != nil {
		return nil, err
	}
	return &participant, nil
}

// Leave removes a participant from an activity.
func (s *Service) Leave(ctx context.Context, id, participantID string) error {
	if strings.TrimSpace(id) == "" {
		return ActivityIDRequiredErr
	}
	if strings.TrimSpace(participantID) == "" {
		return pkgerrors.New("[Service.Leave] participant id is required")
	}
	return s.client.Delete(ctx, "/activities/"+url.PathEscape(id)+"/participants/"+url.PathEscape(participantID), nil, nil)
}

// Search finds activities by free-text query and records the query in the
// local recent-search history.
func (s *Service) Search(ctx context.Context, query string) ([]Activity, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, QueryRequiredErr
	}
	values := url.Values{}
	values.Set("q", query)

	var page Page
	if err := s.client.Get(ctx, "/activities/search", values, &page); err != nil {
		return nil, err
	}
	s.rememberSearch(query)
	return page.Items, nil
}

// Nearby lists activities around a coordinate.
func (s *Service) Nearby(ctx context.Context, lat, lng float64, radiusKM int) ([]Activity, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	if radiusKM > 0 {
		values.Set("radius", strconv.Itoa(radiusKM))
	}

	var page Page
	if err := s.client.Get(ctx, "/activities/nearby/list", values, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// RecentSearches returns the locally stored search history, most recent
// first.
func (s *Service) RecentSearches() []string {
	raw, err := s.store.Get(keystore.KeyRecentSearches)
	if err != nil {
		return nil
	}
	var searches []string
	if err := json.Unmarshal([]byte(raw), &searches); err != nil {
		return nil
	}
	return searches
}

func (s *Service) validateCreate(params CreateParams) error {
	if strings.TrimSpace(params.Title) == "" {
		return TitleRequiredErr
	}
	if strings.TrimSpace(params.Sport) == "" {
		return SportRequiredErr
	}
	if params.StartsAt.Before(s.nowTime()) {
		return StartInPastErr
	}
	if !params.EndsAt.After(params.StartsAt) {
		return EndBeforeStartErr
	}
	if params.MaxPlayers < 2 {
		return TooFewPlayersErr
	}
	return nil
}

// rememberFilters and rememberSearch are best-effort cache writes; a failed
// write never fails the request that triggered it.
func (s *Service) rememberFilters(params ListParams) {
	raw, err := json.Marshal(params)
	if err != nil {
		return
	}
	_ = s.store.Set(keystore.KeyActivityFilters, string(raw))
}

func (s *Service) rememberSearch(query string) {
	searches := s.RecentSearches()
	deduped := make([]string, 0, len(searches)+1)
	deduped = append(deduped, query)
	for _, previous := range searches {
		if previous != query {
			deduped = append(deduped, previous)
		}
	}
	if len(deduped) > recentSearchLimit {
		deduped = deduped[:recentSearchLimit]
	}
	raw, err := json.Marshal(deduped)
	if err != nil {
		return
	}
	_ = s.store.Set(keystore.KeyRecentSearches, string(raw))
}

func listQuery(params ListParams) url.Values {
	values := url.Values{}
	if params.Sport != "" {
		values.Set("sport", params.Sport)
	}
	if params.City != "" {
		values.Set("city", params.City)
	}
	if !params.From.IsZero() {
		values.Set("from", params.From.Format(time.RFC3339))
	}
	if !params.To.IsZero() {
		values.Set("to", params.To.Format(time.RFC3339))
	}
	if params.Page > 0 {
		values.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		values.Set("perPage", strconv.Itoa(params.PerPage))
	}
	return values
}
