// Package services provides the catalog client used by the curation job.
//
// [Service] is the seam between the curation logic in internal/tasks and the remote
// REST API. [SpotifyService] is the production implementation: it performs a single
// refresh-token exchange via [golang.org/x/oauth2] at startup, then attaches the bearer
// token to every request itself. Requests share one fixed timeout and fail the run on
// any non-2xx status; there is no retry or backoff.
//
// The only lookup failure modeled as a non-fatal outcome is a show search with zero
// results, surfaced as [shared.ErrShowNotFound] so callers can skip the show.
package services
