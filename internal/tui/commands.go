package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"likeshelf/internal/domain"
	"likeshelf/internal/likes"
)

// Command factories for async operations

// LoadRecordsCmd re-queries the store for the current view
func LoadRecordsCmd(svc *likes.Service, mode domain.SortMode, search string) tea.Cmd {
	return func() tea.Msg {
		records, err := svc.Query(mode, search)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading records"}
		}
		total, err := svc.Count()
		if err != nil {
			return ErrMsg{Err: err, Context: "counting records"}
		}
		return RecordsLoadedMsg{Records: records, Total: total}
	}
}

// SyncCmd runs a full sync pass
func SyncCmd(svc *likes.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		res, err := svc.Sync(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "sync"}
		}
		return SyncDoneMsg{Result: res}
	}
}

// CacheThumbsCmd mirrors thumbnails for every record lacking a local copy
func CacheThumbsCmd(svc *likes.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		cached, err := svc.CacheThumbnails(ctx, nil)
		if err != nil {
			return ErrMsg{Err: err, Context: "caching thumbnails"}
		}
		return ThumbsDoneMsg{Cached: cached}
	}
}

// CheckAvailabilityCmd reconciles every stored id against the remote source
func CheckAvailabilityCmd(svc *likes.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		missing, err := svc.CheckAvailability(ctx, nil)
		if err != nil {
			return ErrMsg{Err: err, Context: "checking availability"}
		}
		total, err := svc.Count()
		if err != nil {
			return ErrMsg{Err: err, Context: "counting records"}
		}
		return AvailabilityDoneMsg{Missing: len(missing), Checked: total}
	}
}

// ExportCmd serializes the store to the save-file boundary
func ExportCmd(svc *likes.Service) tea.Cmd {
	return func() tea.Msg {
		saved, err := svc.ExportAll()
		if err != nil {
			return ErrMsg{Err: err, Context: "export"}
		}
		return ExportDoneMsg{Saved: saved}
	}
}
