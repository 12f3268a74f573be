// Package ui implements the terminal UI for watching a curation run.
//
// The model consumes tasks.ProgressUpdate events from the engine while the run executes
// in a background goroutine, then renders the final per-show outcomes.
package ui
