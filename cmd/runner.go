package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/freshcast/internal/repositories"
	"github.com/desertthunder/freshcast/internal/services"
	"github.com/desertthunder/freshcast/internal/shared"
	"github.com/desertthunder/freshcast/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	service services.Service
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Service services.Service
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		service: opts.Service,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		updateCommand, showsCommand, playlistCommand, cacheCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// connect returns an authenticated catalog service, building one from environment
// credentials on first use. A pre-injected service (tests) is returned as-is.
func (r *Runner) connect(ctx context.Context) (services.Service, error) {
	if r.service != nil {
		return r.service, nil
	}

	creds, err := shared.CredentialsFromEnv()
	if err != nil {
		return nil, err
	}

	svc, err := services.NewSpotifyService(creds.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}
	svc.SetTimeout(r.config.Client.Timeout())

	r.logger.Debug("exchanging refresh token")
	if err := svc.Authenticate(ctx, creds.Map()); err != nil {
		return nil, err
	}

	r.service = svc
	return svc, nil
}

// newEngine builds a CurateEngine from the runner's configuration.
// A cache open failure downgrades to uncached resolution with a warning.
func (r *Runner) newEngine(svc services.Service) *tasks.CurateEngine {
	opts := tasks.EngineOpts{
		PlaylistName:        r.config.Playlist.Name,
		PlaylistDescription: r.config.Playlist.Description,
		PlaylistPublic:      r.config.Playlist.Public,
		Market:              r.config.Curation.Market,
		FreshWindow:         r.config.Curation.FreshWindow(),
		MaxEpisodes:         r.config.Curation.MaxEpisodes,
		PageSize:            r.config.Client.PageSize,
		RecentLimit:         r.config.Client.RecentLimit,
		ShowQueries:         r.config.Curation.ShowQueries(),
	}

	var cache tasks.ShowCache
	if r.config.Cache.Enabled {
		if repo, err := r.openCache(); err != nil {
			r.logger.Warn("show cache unavailable, resolving without it", "error", err)
		} else {
			cache = repo
		}
	}

	pacer := rate.NewLimiter(rate.Every(r.config.Client.Pause()), 1)

	return tasks.NewCurateEngine(svc, opts, cache, pacer)
}

// openCache opens the configured cache database and ensures its schema exists.
func (r *Runner) openCache() (*repositories.ShowCacheRepository, error) {
	db, err := shared.NewDatabase(r.config.Cache.Path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, r.config.Cache.MaxOpenConns, r.config.Cache.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return repositories.NewShowCacheRepository(db), nil
}

// drainProgress forwards engine progress updates to the logger in the background.
func (r *Runner) drainProgress() chan tasks.ProgressUpdate {
	progress := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase.String())
		}
	}()
	return progress
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
