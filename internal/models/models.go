package models

import (
	"fmt"
	"time"
)

// Show represents a podcast series resolved from the catalog.
type Show struct {
	ID        string
	Name      string
	Publisher string
	URI       string
}

// Episode represents a single podcast episode.
//
// ReleaseDate is a calendar date string as returned by the catalog ("2006-01-02");
// it carries no time-of-day precision.
type Episode struct {
	URI         string
	Name        string
	ReleaseDate string
}

// Playlist represents a playlist from the streaming service.
type Playlist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
	Public      bool
}

// PlaylistPage is one page of a paginated playlist listing.
// HasNext reports whether further pages exist.
type PlaylistPage struct {
	Items   []Playlist
	Total   int
	Limit   int
	Offset  int
	HasNext bool
}

// CachedShow is a persisted show resolution: a configured search query mapped to
// the catalog show ID it resolved to in a given market.
type CachedShow struct {
	ID        string
	Query     string
	Market    string
	ShowID    string
	ShowName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCachedShow creates a CachedShow for the given resolution with creation timestamps set.
func NewCachedShow(query, market string, show Show) *CachedShow {
	now := time.Now().UTC()
	return &CachedShow{
		Query:     query,
		Market:    market,
		ShowID:    show.ID,
		ShowName:  show.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks that the cached row carries the fields required by the schema.
func (c *CachedShow) Validate() error {
	if c.Query == "" {
		return fmt.Errorf("cached show requires a query")
	}
	if c.Market == "" {
		return fmt.Errorf("cached show requires a market")
	}
	if c.ShowID == "" {
		return fmt.Errorf("cached show requires a show ID")
	}
	return nil
}
