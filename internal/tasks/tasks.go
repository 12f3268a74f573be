// package tasks implements the playlist curation run.
//
// The core abstraction is CurateEngine, which resolves the target playlist, builds the
// episode list from the configured shows, and overwrites the playlist contents.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/freshcast/internal/models"
	"github.com/desertthunder/freshcast/internal/services"
	"github.com/desertthunder/freshcast/internal/shared"
	"golang.org/x/time/rate"
)

// Outcome classifies what a single configured show contributed to the run.
type Outcome int

const (
	Included     Outcome = iota // episode URI appended to the list
	ShowNotFound                // search yielded no results; silent skip
	NoEpisodes                  // show resolved but has zero episodes; silent skip
	Duplicate                   // selected URI already present in the list
)

func (o Outcome) String() string {
	switch o {
	case Included:
		return "included"
	case ShowNotFound:
		return "show_not_found"
	case NoEpisodes:
		return "no_episodes"
	case Duplicate:
		return "duplicate"
	default:
		return ""
	}
}

// ShowOutcome records the result of curating one configured show query.
type ShowOutcome struct {
	Query      string       `json:"query"`
	Show       *models.Show `json:"show,omitempty"`
	EpisodeURI string       `json:"episode_uri,omitempty"`
	Outcome    Outcome      `json:"-"`
	Status     string       `json:"status"`
	FromCache  bool         `json:"from_cache,omitempty"`
}

// CurationResult contains all data from a full curation run.
type CurationResult struct {
	RunID       string          `json:"run_id"`
	Playlist    models.Playlist `json:"playlist"`
	Outcomes    []ShowOutcome   `json:"outcomes"`
	EpisodeURIs []string        `json:"episode_uris"`
	Written     bool            `json:"written"`
	DryRun      bool            `json:"dry_run,omitempty"`
}

// ShowCache fronts show resolution with a persistent (query, market) → show ID mapping.
// Get returns (nil, nil) on a miss.
type ShowCache interface {
	Get(query, market string) (*models.CachedShow, error)
	Put(cached *models.CachedShow) error
}

// Curator defines the operations of a curation run.
type Curator interface {
	// Run performs a full curation: resolve playlist, build episode list, replace contents.
	Run(ctx context.Context, progress chan<- ProgressUpdate, dryRun bool) (*CurationResult, error)

	// ResolvePlaylist finds the target playlist by exact name or creates it.
	ResolvePlaylist(ctx context.Context, progress chan<- ProgressUpdate) (*models.Playlist, error)

	// BuildEpisodeList curates the configured shows into a deduplicated, ordered, capped URI list.
	BuildEpisodeList(ctx context.Context, progress chan<- ProgressUpdate) ([]string, []ShowOutcome, error)
}

// EngineOpts carries the curation policy, copied from the immutable configuration.
type EngineOpts struct {
	PlaylistName        string
	PlaylistDescription string
	PlaylistPublic      bool
	Market              string
	FreshWindow         time.Duration
	MaxEpisodes         int
	PageSize            int
	RecentLimit         int
	ShowQueries         []string
}

// CurateEngine implements Curator against a catalog [services.Service].
//
// The pacer bounds request rate after each successful inclusion; tests inject
// rate.NewLimiter(rate.Inf, 0). The clock is injectable for freshness tests.
type CurateEngine struct {
	service services.Service
	cache   ShowCache
	pacer   *rate.Limiter
	now     func() time.Time
	opts    EngineOpts
}

// NewCurateEngine creates a CurateEngine. cache may be nil (resolution always hits the
// search endpoint) and pacer may be nil (defaults to one request per 250ms).
func NewCurateEngine(service services.Service, opts EngineOpts, cache ShowCache, pacer *rate.Limiter) *CurateEngine {
	if pacer == nil {
		pacer = rate.NewLimiter(rate.Every(250*time.Millisecond), 1)
	}
	if opts.MaxEpisodes <= 0 {
		opts.MaxEpisodes = 20
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = 3
	}

	return &CurateEngine{
		service: service,
		cache:   cache,
		pacer:   pacer,
		now:     func() time.Time { return time.Now().UTC() },
		opts:    opts,
	}
}

// SetClock overrides the engine's notion of "now". Zero-delay tests only.
func (e *CurateEngine) SetClock(now func() time.Time) {
	e.now = now
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CurateEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// ResolvePlaylist pages through the user's playlists comparing names exactly and
// case-sensitively; the first match wins. When no page matches and no further pages
// exist, the playlist is created with the configured name, description and visibility.
func (e *CurateEngine) ResolvePlaylist(ctx context.Context, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	offset := 0
	for page := 1; ; page++ {
		e.sendProgress(progress, resolvingPlaylistUpdate(page, e.opts.PlaylistName))

		resp, err := e.service.PlaylistPage(ctx, e.opts.PageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: listing playlists: %v", shared.ErrAPIRequest, err)
		}

		for _, pl := range resp.Items {
			if pl.Name == e.opts.PlaylistName {
				e.sendProgress(progress, playlistFoundUpdate(&pl))
				return &pl, nil
			}
		}

		if !resp.HasNext {
			break
		}
		offset += e.opts.PageSize
	}

	e.sendProgress(progress, creatingPlaylistUpdate(e.opts.PlaylistName))

	created, err := e.service.CreatePlaylist(ctx, e.opts.PlaylistName, e.opts.PlaylistDescription, e.opts.PlaylistPublic)
	if err != nil {
		return nil, fmt.Errorf("%w: creating playlist: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, playlistCreatedUpdate(created))
	return created, nil
}

// resolveShow resolves a query to a show, consulting the cache first when configured.
func (e *CurateEngine) resolveShow(ctx context.Context, query string) (*models.Show, bool, error) {
	if e.cache != nil {
		cached, err := e.cache.Get(query, e.opts.Market)
		if err == nil && cached != nil {
			return &models.Show{ID: cached.ShowID, Name: cached.ShowName}, true, nil
		}
	}

	show, err := e.service.SearchShow(ctx, query, e.opts.Market)
	if err != nil {
		return nil, false, err
	}

	if e.cache != nil {
		// Cache writes never fail the run.
		_ = e.cache.Put(models.NewCachedShow(query, e.opts.Market, *show))
	}

	return show, false, nil
}

// BuildEpisodeList curates every configured show query, in order, into a deduplicated
// episode URI list capped at MaxEpisodes. Not-found shows and episode-less shows are
// skipped silently; their outcomes still appear in the returned slice.
func (e *CurateEngine) BuildEpisodeList(ctx context.Context, progress chan<- ProgressUpdate) ([]string, []ShowOutcome, error) {
	if e.service == nil {
		return nil, nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	total := len(e.opts.ShowQueries)
	uris := make([]string, 0, total)
	seen := make(map[string]struct{}, total)
	outcomes := make([]ShowOutcome, 0, total)

	for i, query := range e.opts.ShowQueries {
		e.sendProgress(progress, curatingShowUpdate(i+1, total, query))

		outcome := ShowOutcome{Query: query}

		show, fromCache, err := e.resolveShow(ctx, query)
		if err != nil {
			if errors.Is(err, shared.ErrShowNotFound) {
				outcome.Outcome = ShowNotFound
				outcome.Status = outcome.Outcome.String()
				outcomes = append(outcomes, outcome)
				e.sendProgress(progress, showSkippedUpdate(i+1, total, query, outcome.Outcome))
				continue
			}
			return nil, nil, err
		}

		outcome.Show = show
		outcome.FromCache = fromCache

		episodes, err := e.service.RecentEpisodes(ctx, show.ID, e.opts.Market, e.opts.RecentLimit)
		if err != nil {
			return nil, nil, err
		}

		if len(episodes) == 0 {
			outcome.Outcome = NoEpisodes
			outcome.Status = outcome.Outcome.String()
			outcomes = append(outcomes, outcome)
			e.sendProgress(progress, showSkippedUpdate(i+1, total, query, outcome.Outcome))
			continue
		}

		uri := selectFreshest(episodes, e.now(), e.opts.FreshWindow)
		outcome.EpisodeURI = uri

		if _, dup := seen[uri]; dup {
			outcome.Outcome = Duplicate
			outcome.Status = outcome.Outcome.String()
			outcomes = append(outcomes, outcome)
			e.sendProgress(progress, showSkippedUpdate(i+1, total, query, outcome.Outcome))
			continue
		}

		seen[uri] = struct{}{}
		uris = append(uris, uri)
		outcome.Outcome = Included
		outcome.Status = outcome.Outcome.String()
		outcomes = append(outcomes, outcome)
		e.sendProgress(progress, showIncludedUpdate(i+1, total, show.Name, uri))

		if err := e.pacer.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("pacing interrupted: %w", err)
		}
	}

	if len(uris) > e.opts.MaxEpisodes {
		uris = uris[:e.opts.MaxEpisodes]
	}

	return uris, outcomes, nil
}

// Run performs a full curation run. When dryRun is set, or when the episode list comes
// back empty, the playlist write is skipped; an empty list means "nothing fresh found",
// never "clear the playlist".
func (e *CurateEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, dryRun bool) (*CurationResult, error) {
	playlist, err := e.ResolvePlaylist(ctx, progress)
	if err != nil {
		return nil, err
	}

	uris, outcomes, err := e.BuildEpisodeList(ctx, progress)
	if err != nil {
		return nil, err
	}

	result := &CurationResult{
		RunID:       shared.GenerateID(),
		Playlist:    *playlist,
		Outcomes:    outcomes,
		EpisodeURIs: uris,
		DryRun:      dryRun,
	}

	if len(uris) == 0 {
		e.sendProgress(progress, writeSkippedUpdate())
		return result, nil
	}

	if dryRun {
		e.sendProgress(progress, dryRunUpdate(len(uris)))
		return result, nil
	}

	e.sendProgress(progress, writingPlaylistUpdate(playlist.Name, len(uris)))

	if err := e.service.ReplacePlaylistItems(ctx, playlist.ID, uris); err != nil {
		return result, fmt.Errorf("%w: replacing playlist items: %v", shared.ErrAPIRequest, err)
	}

	result.Written = true
	e.sendProgress(progress, writeCompletedUpdate(playlist.Name, len(uris)))
	return result, nil
}
