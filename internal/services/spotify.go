// Spotify API implementation of [Service].
// Response types based on https://developer.spotify.com/documentation/web-api/reference/

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/freshcast/internal/models"
	"github.com/desertthunder/freshcast/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	defaultTimeout = 20 * time.Second
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyShow represents a podcast show.
type SpotifyShow struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Publisher string         `json:"publisher"`
	URI       string         `json:"uri"`
	Images    []SpotifyImage `json:"images"`
}

// SpotifyEpisode represents a podcast episode.
// ReleaseDate precision is controlled by release_date_precision and is usually "day".
type SpotifyEpisode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URI         string `json:"uri"`
	ReleaseDate string `json:"release_date"`
}

// SpotifySearchShows is the shows portion of a search response.
type SpotifySearchShows struct {
	Items []SpotifyShow `json:"items"`
	Total int           `json:"total"`
}

// SpotifySearchResponse represents a search response restricted to show results.
type SpotifySearchResponse struct {
	Shows SpotifySearchShows `json:"shows"`
}

// SpotifyEpisodePage represents a paginated response of show episodes.
type SpotifyEpisodePage struct {
	Items  []SpotifyEpisode `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
	Next   *string          `json:"next"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type simplePlaylistTrack struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Owner       Owner               `json:"owner"`
	Public      bool                `json:"public"`
	Tracks      simplePlaylistTrack `json:"tracks"`
	URI         string              `json:"uri"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items    []SpotifySimplePlaylist `json:"items"`
	Total    int                     `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
	Next     *string                 `json:"next"`
	Previous *string                 `json:"previous"`
}

// SpotifyService implements the Service interface for Spotify API interactions.
// Uses [oauth2] for the refresh-token exchange and plain bearer headers afterwards;
// the token is obtained once per run and never refreshed mid-run.
type SpotifyService struct {
	config      *oauth2.Config
	token       *oauth2.Token
	httpClient  *http.Client
	credentials map[string]string
	baseURL     string
	timeout     time.Duration
}

// NewSpotifyService creates a new Spotify service with the given credentials.
// Requires client_id, client_secret and user_id entries.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("missing client_id in credentials")
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("missing client_secret in credentials")
	}

	userID, ok := credentials["user_id"]
	if !ok || userID == "" {
		return nil, fmt.Errorf("missing user_id in credentials")
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  spotifyTokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &SpotifyService{
		config:      config,
		credentials: credentials,
		baseURL:     spotifyBaseURL,
		timeout:     defaultTimeout,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// SetTimeout overrides the fixed per-request timeout.
func (s *SpotifyService) SetTimeout(d time.Duration) {
	s.timeout = d
	s.httpClient = &http.Client{Timeout: d}
}

// Authenticate performs the credential exchange. Expects either an "access_token" or a
// "refresh_token" in credentials; the refresh path exchanges the token against the
// accounts endpoint with HTTP Basic client authentication.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = &oauth2.Token{AccessToken: accessToken}
		return nil
	}

	if refreshToken, ok := credentials["refresh_token"]; ok && refreshToken != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
		source := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

		token, err := source.Token()
		if err != nil {
			return fmt.Errorf("%w: refresh token exchange: %v", shared.ErrAuthFailed, err)
		}

		s.token = token
		return nil
	}

	return fmt.Errorf("%w: missing access_token or refresh_token in credentials", shared.ErrNotAuthenticated)
}

// doRequest performs an authenticated HTTP request to the Spotify API.
// A non-nil body is JSON-encoded; a non-nil result is decoded from the response body.
// Any status outside 2xx is an error that aborts the run.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := s.baseURL + endpoint

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: status %d", shared.ErrAPIRequest, method, endpoint, resp.StatusCode)
	}

	if result != nil {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, result); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}
	}

	return nil
}

// SearchShow resolves a free-text query to the first show result in the given market.
// The remote ranking is trusted: result limit is 1 and no local validation is performed.
func (s *SpotifyService) SearchShow(ctx context.Context, query, market string) (*models.Show, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "show")
	params.Set("market", market)
	params.Set("limit", "1")

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	if len(response.Shows.Items) == 0 {
		return nil, fmt.Errorf("%w: %q in market %s", shared.ErrShowNotFound, query, market)
	}

	item := response.Shows.Items[0]
	return &models.Show{
		ID:        item.ID,
		Name:      item.Name,
		Publisher: item.Publisher,
		URI:       item.URI,
	}, nil
}

// RecentEpisodes lists up to limit episodes of a show, assumed newest-first by the API.
func (s *SpotifyService) RecentEpisodes(ctx context.Context, showID, market string, limit int) ([]models.Episode, error) {
	if limit <= 0 {
		limit = 3
	}
	if limit > 50 {
		limit = 50
	}

	params := url.Values{}
	params.Set("market", market)
	params.Set("limit", fmt.Sprintf("%d", limit))
	endpoint := fmt.Sprintf("/shows/%s/episodes?%s", showID, params.Encode())

	var page SpotifyEpisodePage
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}

	episodes := make([]models.Episode, 0, len(page.Items))
	for _, item := range page.Items {
		episodes = append(episodes, models.Episode{
			URI:         item.URI,
			Name:        item.Name,
			ReleaseDate: item.ReleaseDate,
		})
	}

	return episodes, nil
}

// PlaylistPage retrieves one page of the current user's playlists.
func (s *SpotifyService) PlaylistPage(ctx context.Context, limit, offset int) (*models.PlaylistPage, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

	var response SpotifyPaginatedPlaylists
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	page := &models.PlaylistPage{
		Total:   response.Total,
		Limit:   response.Limit,
		Offset:  response.Offset,
		HasNext: response.Next != nil,
		Items:   make([]models.Playlist, 0, len(response.Items)),
	}
	for _, sp := range response.Items {
		page.Items = append(page.Items, models.Playlist{
			ID:          sp.ID,
			Name:        sp.Name,
			Description: sp.Description,
			TrackCount:  sp.Tracks.Total,
			Public:      sp.Public,
		})
	}

	return page, nil
}

// CreatePlaylist creates a playlist for the configured user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(s.credentials["user_id"]))

	payload := map[string]any{
		"name":        name,
		"public":      public,
		"description": description,
	}

	var created SpotifySimplePlaylist
	if err := s.doRequest(ctx, http.MethodPost, endpoint, payload, &created); err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:          created.ID,
		Name:        created.Name,
		Description: created.Description,
		Public:      created.Public,
	}, nil
}

// ReplacePlaylistItems overwrites the entire playlist contents with the given URIs.
func (s *SpotifyService) ReplacePlaylistItems(ctx context.Context, playlistID string, uris []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	payload := map[string]any{"uris": uris}
	return s.doRequest(ctx, http.MethodPut, endpoint, payload, nil)
}
