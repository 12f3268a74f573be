package tasks

import (
	"time"

	"github.com/desertthunder/freshcast/internal/models"
)

// releaseDateLayout is the calendar-date format used by the catalog.
const releaseDateLayout = "2006-01-02"

// releaseHour pins duration arithmetic for day-precision dates to noon UTC.
const releaseHour = 12

// selectFreshest returns the URI of the first episode (assumed newest-first) released
// within the freshness window, measured from now. The boundary is inclusive: an episode
// exactly window-old still qualifies.
//
// Episodes with missing or unparseable dates are skipped during the scan. When no
// episode qualifies, the first episode's URI is returned unconditionally; the window
// is a soft preference, not a hard filter. Callers must not pass an empty slice.
func selectFreshest(episodes []models.Episode, now time.Time, window time.Duration) string {
	for _, episode := range episodes {
		if episode.ReleaseDate == "" {
			continue
		}

		released, err := time.Parse(releaseDateLayout, episode.ReleaseDate)
		if err != nil {
			continue
		}
		released = released.Add(releaseHour * time.Hour)

		if now.Sub(released).Hours() <= window.Hours() {
			return episode.URI
		}
	}

	return episodes[0].URI
}
