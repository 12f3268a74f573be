package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/desertthunder/freshcast/internal/models"
	"github.com/desertthunder/freshcast/internal/shared"
	mocks "github.com/desertthunder/freshcast/internal/testing"
	"golang.org/x/time/rate"
)

var testClock = func() time.Time {
	return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
}

// newTestEngine builds an engine with an unlimited pacer and a fixed clock.
func newTestEngine(svc *mocks.MockService, opts EngineOpts) *CurateEngine {
	engine := NewCurateEngine(svc, opts, nil, rate.NewLimiter(rate.Inf, 0))
	engine.SetClock(testClock)
	return engine
}

// catalogService returns a mock with a distinct fresh episode per known show.
func catalogService(shows map[string]string) *mocks.MockService {
	return &mocks.MockService{
		SearchShowFunc: func(ctx context.Context, query, market string) (*models.Show, error) {
			id, ok := shows[query]
			if !ok {
				return nil, fmt.Errorf("%w: %q in market %s", shared.ErrShowNotFound, query, market)
			}
			return &models.Show{ID: id, Name: query, URI: "spotify:show:" + id}, nil
		},
		RecentEpisodesFunc: func(ctx context.Context, showID, market string, limit int) ([]models.Episode, error) {
			return []models.Episode{
				{URI: "spotify:episode:" + showID, Name: "latest", ReleaseDate: "2024-01-10"},
				{URI: "spotify:episode:" + showID + "-old", Name: "older", ReleaseDate: "2024-01-05"},
			}, nil
		},
	}
}

func TestResolvePlaylist(t *testing.T) {
	ctx := context.Background()

	t.Run("Finds Playlist On Later Page", func(t *testing.T) {
		target := models.Playlist{ID: "pl-2", Name: "Notícias do Dia (Auto)"}
		created := false

		svc := &mocks.MockService{
			PlaylistPageFunc: func(ctx context.Context, limit, offset int) (*models.PlaylistPage, error) {
				if limit != 50 {
					t.Errorf("expected page size 50, got %d", limit)
				}
				if offset == 0 {
					return &models.PlaylistPage{
						Items:   []models.Playlist{{ID: "pl-1", Name: "Road Trip"}},
						HasNext: true,
					}, nil
				}
				return &models.PlaylistPage{Items: []models.Playlist{target}}, nil
			},
			CreatePlaylistFunc: func(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
				created = true
				return &models.Playlist{ID: "pl-new", Name: name}, nil
			},
		}

		engine := newTestEngine(svc, EngineOpts{PlaylistName: "Notícias do Dia (Auto)", PageSize: 50})

		playlist, err := engine.ResolvePlaylist(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if playlist.ID != "pl-2" {
			t.Errorf("expected pl-2, got %s", playlist.ID)
		}
		if created {
			t.Error("expected no playlist creation when a page matches")
		}
	})

	t.Run("Match Is Case Sensitive", func(t *testing.T) {
		svc := &mocks.MockService{
			PlaylistPageFunc: func(ctx context.Context, limit, offset int) (*models.PlaylistPage, error) {
				return &models.PlaylistPage{
					Items: []models.Playlist{{ID: "pl-1", Name: "notícias do dia (auto)"}},
				}, nil
			},
			CreatePlaylistFunc: func(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
				return &models.Playlist{ID: "pl-new", Name: name}, nil
			},
		}

		engine := newTestEngine(svc, EngineOpts{PlaylistName: "Notícias do Dia (Auto)"})

		playlist, err := engine.ResolvePlaylist(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if playlist.ID != "pl-new" {
			t.Errorf("expected creation despite case-insensitive match, got %s", playlist.ID)
		}
	})

	t.Run("Creates Playlist When Absent", func(t *testing.T) {
		var gotName, gotDescription string
		var gotPublic bool

		svc := &mocks.MockService{
			PlaylistPageFunc: func(ctx context.Context, limit, offset int) (*models.PlaylistPage, error) {
				return &models.PlaylistPage{}, nil
			},
			CreatePlaylistFunc: func(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
				gotName, gotDescription, gotPublic = name, description, public
				return &models.Playlist{ID: "pl-new", Name: name, Description: description}, nil
			},
		}

		engine := newTestEngine(svc, EngineOpts{
			PlaylistName:        "Notícias do Dia (Auto)",
			PlaylistDescription: "Episódios mais recentes",
		})

		playlist, err := engine.ResolvePlaylist(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if playlist.ID != "pl-new" {
			t.Errorf("expected created playlist, got %s", playlist.ID)
		}
		if gotName != "Notícias do Dia (Auto)" || gotDescription != "Episódios mais recentes" {
			t.Errorf("unexpected creation args: %q %q", gotName, gotDescription)
		}
		if gotPublic {
			t.Error("expected a private playlist by default")
		}
	})

	t.Run("Propagates Listing Errors", func(t *testing.T) {
		svc := &mocks.MockService{
			PlaylistPageFunc: func(ctx context.Context, limit, offset int) (*models.PlaylistPage, error) {
				return nil, errors.New("boom")
			},
		}

		engine := newTestEngine(svc, EngineOpts{PlaylistName: "Anything"})

		if _, err := engine.ResolvePlaylist(ctx, nil); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Nil Service", func(t *testing.T) {
		engine := &CurateEngine{pacer: rate.NewLimiter(rate.Inf, 0)}
		if _, err := engine.ResolvePlaylist(ctx, nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestBuildEpisodeList(t *testing.T) {
	ctx := context.Background()

	t.Run("Preserves Configured Order", func(t *testing.T) {
		svc := catalogService(map[string]string{
			"news-a": "na", "news-b": "nb", "sports-a": "sa",
		})

		engine := newTestEngine(svc, EngineOpts{
			ShowQueries: []string{"news-a", "news-b", "sports-a"},
			Market:      "BR",
			FreshWindow: 36 * time.Hour,
		})

		uris, outcomes, err := engine.BuildEpisodeList(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{"spotify:episode:na", "spotify:episode:nb", "spotify:episode:sa"}
		if len(uris) != len(expected) {
			t.Fatalf("expected %d uris, got %d", len(expected), len(uris))
		}
		for i, uri := range expected {
			if uris[i] != uri {
				t.Errorf("position %d: expected %s, got %s", i, uri, uris[i])
			}
		}
		if len(outcomes) != 3 {
			t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
		}
		for _, outcome := range outcomes {
			if outcome.Outcome != Included {
				t.Errorf("query %q: expected inclusion, got %s", outcome.Query, outcome.Outcome)
			}
		}
	})

	t.Run("Skips Missing Shows Silently", func(t *testing.T) {
		svc := catalogService(map[string]string{"news-a": "na"})

		engine := newTestEngine(svc, EngineOpts{
			ShowQueries: []string{"news-a", "ghost show"},
			FreshWindow: 36 * time.Hour,
		})

		uris, outcomes, err := engine.BuildEpisodeList(ctx, nil)
		if err != nil {
			t.Fatalf("expected missing show to be skipped, got %v", err)
		}
		if len(uris) != 1 {
			t.Fatalf("expected 1 uri, got %d", len(uris))
		}
		if outcomes[1].Outcome != ShowNotFound {
			t.Errorf("expected show_not_found, got %s", outcomes[1].Outcome)
		}
		if outcomes[1].Status != "show_not_found" {
			t.Errorf("unexpected status %q", outcomes[1].Status)
		}
	})

	t.Run("Skips Shows Without Episodes", func(t *testing.T) {
		svc := catalogService(map[string]string{"news-a": "na", "silent": "sl"})
		svc.RecentEpisodesFunc = func(ctx context.Context, showID, market string, limit int) ([]models.Episode, error) {
			if showID == "sl" {
				return []models.Episode{}, nil
			}
			return []models.Episode{{URI: "spotify:episode:" + showID, ReleaseDate: "2024-01-10"}}, nil
		}

		engine := newTestEngine(svc, EngineOpts{
			ShowQueries: []string{"news-a", "silent"},
			FreshWindow: 36 * time.Hour,
		})

		uris, outcomes, err := engine.BuildEpisodeList(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(uris) != 1 {
			t.Fatalf("expected 1 uri, got %d", len(uris))
		}
		if outcomes[1].Outcome != NoEpisodes {
			t.Errorf("expected no_episodes, got %s", outcomes[1].Outcome)
		}
	})

	t.Run("Deduplicates Repeated URIs", func(t *testing.T) {
		svc := catalogService(map[string]string{"feed-a": "x", "feed-b": "x"})

		engine := newTestEngine(svc, EngineOpts{
			ShowQueries: []string{"feed-a", "feed-b"},
			FreshWindow: 36 * time.Hour,
		})

		uris, outcomes, err := engine.BuildEpisodeList(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(uris) != 1 {
			t.Fatalf("expected deduplicated list of 1, got %d", len(uris))
		}
		if outcomes[1].Outcome != Duplicate {
			t.Errorf("expected duplicate, got %s", outcomes[1].Outcome)
		}
	})

	t.Run("Caps The List Length", func(t *testing.T) {
		shows := map[string]string{}
		queries := make([]string, 0, 25)
		for i := 0; i < 25; i++ {
			q := fmt.Sprintf("show-%02d", i)
			shows[q] = fmt.Sprintf("id-%02d", i)
			queries = append(queries, q)
		}

		engine := newTestEngine(catalogService(shows), EngineOpts{
			ShowQueries: queries,
			FreshWindow: 36 * time.Hour,
			MaxEpisodes: 20,
		})

		uris, outcomes, err := engine.BuildEpisodeList(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(uris) != 20 {
			t.Errorf("expected list capped at 20, got %d", len(uris))
		}
		if len(outcomes) != 25 {
			t.Errorf("expected an outcome per query, got %d", len(outcomes))
		}
		if uris[0] != "spotify:episode:id-00" {
			t.Errorf("expected cap to keep the earliest entries, got %s first", uris[0])
		}
	})

	t.Run("Propagates Episode Errors", func(t *testing.T) {
		svc := catalogService(map[string]string{"news-a": "na"})
		svc.RecentEpisodesFunc = func(ctx context.Context, showID, market string, limit int) ([]models.Episode, error) {
			return nil, fmt.Errorf("%w: GET /shows: status 500", shared.ErrAPIRequest)
		}

		engine := newTestEngine(svc, EngineOpts{ShowQueries: []string{"news-a"}})

		if _, _, err := engine.BuildEpisodeList(ctx, nil); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Uses Cached Resolutions", func(t *testing.T) {
		searched := false
		svc := catalogService(map[string]string{})
		svc.SearchShowFunc = func(ctx context.Context, query, market string) (*models.Show, error) {
			searched = true
			return nil, fmt.Errorf("%w: %q", shared.ErrShowNotFound, query)
		}
		svc.RecentEpisodesFunc = func(ctx context.Context, showID, market string, limit int) ([]models.Episode, error) {
			return []models.Episode{{URI: "spotify:episode:" + showID, ReleaseDate: "2024-01-10"}}, nil
		}

		cache := &memoryCache{entries: map[string]*models.CachedShow{
			"news-a|BR": {Query: "news-a", Market: "BR", ShowID: "na", ShowName: "News A"},
		}}

		engine := NewCurateEngine(svc, EngineOpts{
			ShowQueries: []string{"news-a"},
			Market:      "BR",
			FreshWindow: 36 * time.Hour,
		}, cache, rate.NewLimiter(rate.Inf, 0))
		engine.SetClock(testClock)

		uris, outcomes, err := engine.BuildEpisodeList(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if searched {
			t.Error("expected cache hit to bypass search")
		}
		if len(uris) != 1 || uris[0] != "spotify:episode:na" {
			t.Errorf("unexpected uris: %v", uris)
		}
		if !outcomes[0].FromCache {
			t.Error("expected outcome flagged as cached")
		}
	})

	t.Run("Populates Cache After Search", func(t *testing.T) {
		svc := catalogService(map[string]string{"news-a": "na"})
		cache := &memoryCache{entries: map[string]*models.CachedShow{}}

		engine := NewCurateEngine(svc, EngineOpts{
			ShowQueries: []string{"news-a"},
			Market:      "BR",
			FreshWindow: 36 * time.Hour,
		}, cache, rate.NewLimiter(rate.Inf, 0))
		engine.SetClock(testClock)

		if _, _, err := engine.BuildEpisodeList(ctx, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stored, ok := cache.entries["news-a|BR"]
		if !ok {
			t.Fatal("expected resolution to be cached")
		}
		if stored.ShowID != "na" {
			t.Errorf("expected cached show na, got %s", stored.ShowID)
		}
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	resolvable := func(svc *mocks.MockService) *mocks.MockService {
		svc.PlaylistPageFunc = func(ctx context.Context, limit, offset int) (*models.PlaylistPage, error) {
			return &models.PlaylistPage{
				Items: []models.Playlist{{ID: "pl-1", Name: "Notícias do Dia (Auto)"}},
			}, nil
		}
		return svc
	}

	t.Run("Writes Fresh Episodes", func(t *testing.T) {
		var written []string
		svc := resolvable(catalogService(map[string]string{"news-a": "na", "sports-a": "sa"}))
		svc.ReplaceItemsFunc = func(ctx context.Context, playlistID string, uris []string) error {
			if playlistID != "pl-1" {
				t.Errorf("expected write against pl-1, got %s", playlistID)
			}
			written = uris
			return nil
		}

		engine := newTestEngine(svc, EngineOpts{
			PlaylistName: "Notícias do Dia (Auto)",
			ShowQueries:  []string{"news-a", "sports-a"},
			FreshWindow:  36 * time.Hour,
		})

		result, err := engine.Run(ctx, nil, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Written {
			t.Error("expected run to be marked written")
		}
		if result.RunID == "" {
			t.Error("expected a run ID")
		}
		if len(written) != 2 {
			t.Errorf("expected 2 uris written, got %d", len(written))
		}
	})

	t.Run("Skips Write When Nothing Fresh", func(t *testing.T) {
		svc := resolvable(&mocks.MockService{
			RecentEpisodesFunc: func(ctx context.Context, showID, market string, limit int) ([]models.Episode, error) {
				return []models.Episode{}, nil
			},
		})
		svc.ReplaceItemsFunc = func(ctx context.Context, playlistID string, uris []string) error {
			t.Error("expected no write for an empty episode list")
			return nil
		}

		engine := newTestEngine(svc, EngineOpts{
			PlaylistName: "Notícias do Dia (Auto)",
			ShowQueries:  []string{"news-a"},
		})

		result, err := engine.Run(ctx, nil, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Written {
			t.Error("expected unwritten result")
		}
		if len(result.EpisodeURIs) != 0 {
			t.Errorf("expected empty uri list, got %v", result.EpisodeURIs)
		}
	})

	t.Run("Dry Run Selects Without Writing", func(t *testing.T) {
		svc := resolvable(catalogService(map[string]string{"news-a": "na"}))
		svc.ReplaceItemsFunc = func(ctx context.Context, playlistID string, uris []string) error {
			t.Error("expected no write during dry run")
			return nil
		}

		engine := newTestEngine(svc, EngineOpts{
			PlaylistName: "Notícias do Dia (Auto)",
			ShowQueries:  []string{"news-a"},
			FreshWindow:  36 * time.Hour,
		})

		result, err := engine.Run(ctx, nil, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Written {
			t.Error("expected unwritten dry-run result")
		}
		if !result.DryRun {
			t.Error("expected dry-run flag set")
		}
		if len(result.EpisodeURIs) != 1 {
			t.Errorf("expected 1 selected uri, got %d", len(result.EpisodeURIs))
		}
	})

	t.Run("Write Failure Surfaces", func(t *testing.T) {
		svc := resolvable(catalogService(map[string]string{"news-a": "na"}))
		svc.ReplaceItemsFunc = func(ctx context.Context, playlistID string, uris []string) error {
			return errors.New("status 403")
		}

		engine := newTestEngine(svc, EngineOpts{
			PlaylistName: "Notícias do Dia (Auto)",
			ShowQueries:  []string{"news-a"},
			FreshWindow:  36 * time.Hour,
		})

		if _, err := engine.Run(ctx, nil, false); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Reports Progress Updates", func(t *testing.T) {
		svc := resolvable(catalogService(map[string]string{"news-a": "na"}))
		engine := newTestEngine(svc, EngineOpts{
			PlaylistName: "Notícias do Dia (Auto)",
			ShowQueries:  []string{"news-a"},
			FreshWindow:  36 * time.Hour,
		})

		progress := make(chan ProgressUpdate, 50)
		if _, err := engine.Run(ctx, progress, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		phases := map[Phase]bool{}
		for update := range progress {
			phases[update.Phase] = true
		}
		for _, phase := range []Phase{ResolveTarget, CurateShows, WriteItems} {
			if !phases[phase] {
				t.Errorf("expected at least one %s update", phase)
			}
		}
	})
}

// memoryCache is an in-memory ShowCache for engine tests.
type memoryCache struct {
	entries map[string]*models.CachedShow
}

func (m *memoryCache) Get(query, market string) (*models.CachedShow, error) {
	return m.entries[query+"|"+market], nil
}

func (m *memoryCache) Put(cached *models.CachedShow) error {
	m.entries[cached.Query+"|"+cached.Market] = cached
	return nil
}
