// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// updateCommand runs the full curation: resolve playlist, build list, replace contents.
func updateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Update the playlist with the freshest episode from each configured show",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Select episodes but skip the playlist write",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the run result as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Watch run progress in an interactive terminal UI",
			},
		},
		Action: r.Update,
	}
}

// showsCommand previews episode selection without touching the playlist.
func showsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "shows",
		Usage: "Resolve configured shows and print the episode each would contribute",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Shows,
	}
}

// playlistCommand handles target playlist operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Target playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "resolve",
				Usage:  "Find the target playlist by name, creating it when absent, and print its ID",
				Action: r.PlaylistResolve,
			},
		},
	}
}

// cacheCommand manages the show-resolution cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the show-resolution cache",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create the cache database and run migrations",
				Action: r.CacheInit,
			},
			{
				Name:  "list",
				Usage: "List cached show resolutions",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached show resolutions",
				Action: r.CacheClear,
			},
		},
	}
}

// setupCommand handles setup operations for configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a starter config.toml with the default curation settings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Destination path for the config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
