package tasks

import (
	"fmt"

	"github.com/desertthunder/freshcast/internal/models"
)

// ProgressUpdate represents a progress event during a curation run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveTarget Phase = iota
	CreateTarget
	CurateShows
	WriteItems
)

func (p Phase) String() string {
	switch p {
	case ResolveTarget:
		return "resolve_target"
	case CreateTarget:
		return "create_target"
	case CurateShows:
		return "curate_shows"
	case WriteItems:
		return "write_items"
	default:
		return ""
	}
}

func resolvingPlaylistUpdate(page int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTarget,
		Step:    page,
		Message: fmt.Sprintf("Looking for playlist '%s' (page %d)...", name, page),
	}
}

func playlistFoundUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTarget,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func creatingPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateTarget,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist '%s' not found, creating...", name),
	}
}

func playlistCreatedUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateTarget,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func curatingShowUpdate(step, total int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CurateShows,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, query),
	}
}

func showIncludedUpdate(step, total int, name, uri string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CurateShows,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, name),
		Data:    uri,
	}
}

func showSkippedUpdate(step, total int, query string, outcome Outcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CurateShows,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s (%s)", step, total, query, outcome),
	}
}

func writingPlaylistUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteItems,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Replacing contents of '%s' with %d episodes...", name, count),
	}
}

func writeCompletedUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteItems,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✓ %s updated with %d episodes", name, count),
	}
}

func writeSkippedUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteItems,
		Step:    1,
		Total:   1,
		Message: "No fresh episodes found; playlist left untouched",
	}
}

func dryRunUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteItems,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Dry run: would write %d episodes", count),
	}
}
