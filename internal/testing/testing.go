// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/desertthunder/freshcast/internal/models"
)

// MockService is a configurable test double for [services.Service].
// Unset function fields return zero values.
type MockService struct {
	AuthenticateFunc   func(ctx context.Context, credentials map[string]string) error
	SearchShowFunc     func(ctx context.Context, query, market string) (*models.Show, error)
	RecentEpisodesFunc func(ctx context.Context, showID, market string, limit int) ([]models.Episode, error)
	PlaylistPageFunc   func(ctx context.Context, limit, offset int) (*models.PlaylistPage, error)
	CreatePlaylistFunc func(ctx context.Context, name, description string, public bool) (*models.Playlist, error)
	ReplaceItemsFunc   func(ctx context.Context, playlistID string, uris []string) error
}

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, credentials)
	}
	return nil
}

func (m *MockService) SearchShow(ctx context.Context, query, market string) (*models.Show, error) {
	if m.SearchShowFunc != nil {
		return m.SearchShowFunc(ctx, query, market)
	}
	return &models.Show{}, nil
}

func (m *MockService) RecentEpisodes(ctx context.Context, showID, market string, limit int) ([]models.Episode, error) {
	if m.RecentEpisodesFunc != nil {
		return m.RecentEpisodesFunc(ctx, showID, market, limit)
	}
	return []models.Episode{}, nil
}

func (m *MockService) PlaylistPage(ctx context.Context, limit, offset int) (*models.PlaylistPage, error) {
	if m.PlaylistPageFunc != nil {
		return m.PlaylistPageFunc(ctx, limit, offset)
	}
	return &models.PlaylistPage{}, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, name, description, public)
	}
	return &models.Playlist{Name: name, Description: description, Public: public}, nil
}

func (m *MockService) ReplacePlaylistItems(ctx context.Context, playlistID string, uris []string) error {
	if m.ReplaceItemsFunc != nil {
		return m.ReplaceItemsFunc(ctx, playlistID, uris)
	}
	return nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)
