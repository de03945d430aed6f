package tui

import (
	"likeshelf/internal/domain"
	"likeshelf/internal/syncer"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// RecordsLoadedMsg signals that a fresh view of the store is ready
type RecordsLoadedMsg struct {
	Records []*domain.VideoRecord
	Total   int
}

// SyncDoneMsg signals that a sync pass completed
type SyncDoneMsg struct {
	Result syncer.Result
}

// ThumbsDoneMsg signals that a thumbnail caching pass completed
type ThumbsDoneMsg struct {
	Cached int
}

// AvailabilityDoneMsg signals that an availability check completed
type AvailabilityDoneMsg struct {
	Missing int
	Checked int
}

// ExportDoneMsg signals that an export finished (or was cancelled)
type ExportDoneMsg struct {
	Saved bool
}
