package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/freshcast/internal/formatter"
	"github.com/desertthunder/freshcast/internal/shared"
	"github.com/desertthunder/freshcast/internal/tasks"
	"github.com/desertthunder/freshcast/internal/ui"
	"github.com/urfave/cli/v3"
)

// Update performs the full curation run and prints the summary.
func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	dryRun := cmd.Bool("dry-run")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	useTUI := cmd.Bool("tui")

	svc, err := r.connect(ctx)
	if err != nil {
		return err
	}
	engine := r.newEngine(svc)

	if useTUI {
		return r.runTUI(ctx, engine, dryRun)
	}

	r.logger.Info("starting curation run",
		"playlist", r.config.Playlist.Name,
		"shows", len(r.config.Curation.ShowQueries()),
		"dry_run", dryRun,
	)

	progress := r.drainProgress()
	result, err := engine.Run(ctx, progress, dryRun)
	close(progress)
	if err != nil {
		return err
	}

	if useJSON {
		return formatter.WriteJSON(r.output, result, pretty)
	}

	return formatter.WriteSummary(r.output, result)
}

// runTUI executes the run inside the terminal UI.
func (r *Runner) runTUI(ctx context.Context, engine *tasks.CurateEngine, dryRun bool) error {
	model := ui.NewModel(ctx, engine, dryRun)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if _, runErr := model.Result(); runErr != nil {
		return runErr
	}

	return nil
}

// Shows previews episode selection for the configured shows without a playlist write.
func (r *Runner) Shows(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	svc, err := r.connect(ctx)
	if err != nil {
		return err
	}
	engine := r.newEngine(svc)

	progress := r.drainProgress()
	uris, outcomes, err := engine.BuildEpisodeList(ctx, progress)
	close(progress)
	if err != nil {
		return err
	}

	if useJSON {
		data, err := shared.MarshalJSON(outcomes, pretty)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", data)
	}

	r.writePlain("Configured shows: %d\n\n", len(outcomes))
	for i, outcome := range outcomes {
		switch outcome.Outcome {
		case tasks.Included:
			r.writePlain("%d. ✓ %s\n   %s\n", i+1, outcome.Show.Name, outcome.EpisodeURI)
		case tasks.Duplicate:
			r.writePlain("%d. – %s (duplicate episode)\n", i+1, outcome.Query)
		default:
			r.writePlain("%d. ✗ %s (%s)\n", i+1, outcome.Query, outcome.Outcome)
		}
	}
	r.writePlainln("%d episodes would be written.", len(uris))

	return nil
}

// PlaylistResolve finds or creates the target playlist and prints its ID.
func (r *Runner) PlaylistResolve(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.connect(ctx)
	if err != nil {
		return err
	}
	engine := r.newEngine(svc)

	progress := r.drainProgress()
	playlist, err := engine.ResolvePlaylist(ctx, progress)
	close(progress)
	if err != nil {
		return err
	}

	r.writePlain("✓ %s\n", playlist.Name)
	r.writePlain("  ID: %s\n", playlist.ID)
	return nil
}

// CacheInit creates the cache database and applies migrations.
func (r *Runner) CacheInit(ctx context.Context, cmd *cli.Command) error {
	if !r.config.Cache.Enabled {
		r.logger.Warn("cache is disabled in config; initializing anyway", "path", r.config.Cache.Path)
	}

	db, err := shared.NewDatabase(r.config.Cache.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	r.writePlain("✓ Cache initialized at %s\n", r.config.Cache.Path)
	return nil
}

// CacheList prints all cached show resolutions.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	if !r.config.Cache.Enabled {
		return fmt.Errorf("%w: set [cache] enabled = true in config.toml", shared.ErrCacheDisabled)
	}

	repo, err := r.openCache()
	if err != nil {
		return err
	}

	cached, err := repo.List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data, err := shared.MarshalJSON(cached, true)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", data)
	}

	if len(cached) == 0 {
		r.writePlain("Cache is empty.\n")
		return nil
	}

	r.writePlain("Cached resolutions: %d\n\n", len(cached))
	for i, c := range cached {
		r.writePlain("%d. %q → %s", i+1, c.Query, c.ShowID)
		if c.ShowName != "" {
			r.writePlain(" (%s)", c.ShowName)
		}
		r.writePlain("\n")
	}

	return nil
}

// CacheClear removes every cached show resolution.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if !r.config.Cache.Enabled {
		return fmt.Errorf("%w: set [cache] enabled = true in config.toml", shared.ErrCacheDisabled)
	}

	repo, err := r.openCache()
	if err != nil {
		return err
	}

	removed, err := repo.Clear()
	if err != nil {
		return err
	}

	r.writePlain("✓ Removed %d cached resolutions\n", removed)
	return nil
}

// SetupConfig writes the embedded default configuration to disk.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Edit the show list and set SPOTIFY_* environment variables before running 'update'.\n")
	return nil
}
