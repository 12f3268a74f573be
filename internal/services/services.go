package services

import (
	"context"

	"github.com/desertthunder/freshcast/internal/models"
)

// Service defines the catalog operations the curation job depends on.
// The production implementation is [SpotifyService].
type Service interface {
	// Authenticate performs credential exchange with the service.
	// Expects either an "access_token" or a "refresh_token" entry in credentials.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// SearchShow resolves a free-text query to the best-matching show in the given
	// market. Returns [shared.ErrShowNotFound] when the search yields no results.
	SearchShow(ctx context.Context, query, market string) (*models.Show, error)

	// RecentEpisodes lists up to limit episodes of a show, newest first, restricted
	// to the given market. An empty slice is not an error.
	RecentEpisodes(ctx context.Context, showID, market string, limit int) ([]models.Episode, error)

	// PlaylistPage retrieves one page of the authenticated user's playlists.
	PlaylistPage(ctx context.Context, limit, offset int) (*models.PlaylistPage, error)

	// CreatePlaylist creates a playlist owned by the configured user.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error)

	// ReplacePlaylistItems overwrites the playlist's entire contents with the given
	// URIs in order. Not an append or merge.
	ReplacePlaylistItems(ctx context.Context, playlistID string, uris []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
