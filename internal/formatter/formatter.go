// package formatter renders curation results for CLI output.
package formatter

import (
	"fmt"
	"io"

	"github.com/desertthunder/freshcast/internal/shared"
	"github.com/desertthunder/freshcast/internal/tasks"
)

// WriteSummary writes a human-readable account of a curation run: the target playlist,
// each show's outcome, and the final status line.
func WriteSummary(w io.Writer, result *tasks.CurationResult) error {
	if result == nil {
		return fmt.Errorf("no result to summarize")
	}

	if _, err := fmt.Fprintf(w, "Playlist: %s (ID: %s)\n\n", result.Playlist.Name, result.Playlist.ID); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	for i, outcome := range result.Outcomes {
		switch outcome.Outcome {
		case tasks.Included:
			name := outcome.Query
			if outcome.Show != nil {
				name = outcome.Show.Name
			}
			fmt.Fprintf(w, "%d. ✓ %s\n   %s\n", i+1, name, outcome.EpisodeURI)
			if outcome.FromCache {
				fmt.Fprintf(w, "   (show resolved from cache)\n")
			}
		case tasks.ShowNotFound:
			fmt.Fprintf(w, "%d. ✗ %s (no show matched the search)\n", i+1, outcome.Query)
		case tasks.NoEpisodes:
			fmt.Fprintf(w, "%d. ✗ %s (show has no episodes)\n", i+1, outcome.Query)
		case tasks.Duplicate:
			fmt.Fprintf(w, "%d. – %s (episode already in the list)\n", i+1, outcome.Query)
		}
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", StatusLine(result)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

// StatusLine returns the single closing line for a run.
func StatusLine(result *tasks.CurationResult) string {
	switch {
	case len(result.EpisodeURIs) == 0:
		return "Nenhum episódio fresco encontrado; playlist não atualizada."
	case result.DryRun:
		return fmt.Sprintf("Dry run: %d episódios selecionados; playlist não modificada.", len(result.EpisodeURIs))
	case result.Written:
		return fmt.Sprintf("Playlist atualizada com %d episódios.", len(result.EpisodeURIs))
	default:
		return fmt.Sprintf("%d episódios selecionados; playlist não modificada.", len(result.EpisodeURIs))
	}
}

// WriteJSON writes the result as JSON, indented when pretty is set.
func WriteJSON(w io.Writer, result *tasks.CurationResult, pretty bool) error {
	data, err := shared.MarshalJSON(result, pretty)
	if err != nil {
		return err
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
