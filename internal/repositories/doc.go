// package repositories provides the persistence layer for the show-resolution cache.
//
// The cache maps a configured search query (plus market) to the catalog show ID it
// resolved to, so repeat runs skip the search endpoint. It is optional and never the
// source of truth: playlist contents always come from the remote service.
package repositories
