// Package models defines domain entities for the playlist curation job.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing catalog data
//   - [Show] : Podcast series metadata from the catalog
//   - [Episode] : Single episode with its release date and playable URI
//   - [Playlist] : Playlist metadata
//   - [PlaylistPage] : One page of a paginated playlist listing
//
// 2. Persistent Entities: Database-backed rows for the show-resolution cache
//   - [CachedShow] : A (query, market) → show ID mapping with timestamps
package models
