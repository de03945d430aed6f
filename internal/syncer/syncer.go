// Package syncer drives full pagination of the remote liked list and merges
// each page into the local store under first-seen-wins.
package syncer

import (
	"context"
	"log/slog"
	"time"

	"likeshelf/internal/domain"
)

// ThumbnailCacher is the follow-on step invoked after a successful pass.
// A nil subset means "every record still lacking a local thumbnail".
type ThumbnailCacher interface {
	CacheThumbnails(ctx context.Context, subset []*domain.VideoRecord) (int, error)
}

// Engine orchestrates source pagination and store merges.
type Engine struct {
	source domain.LikesSource
	store  domain.Store
	thumbs ThumbnailCacher
	logger *slog.Logger
	now    func() time.Time
}

// Result is the outcome of one full sync pass.
type Result struct {
	// Fetched is the total item count the remote reported across pages.
	Fetched int
	// Inserted is how many of those were new to the store.
	Inserted int
	// Pages is the number of pages walked.
	Pages int
}

// NewEngine creates a sync engine. thumbs may be nil to skip the follow-on
// thumbnail pass (tests use this).
func NewEngine(source domain.LikesSource, store domain.Store, thumbs ThumbnailCacher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{source: source, store: store, thumbs: thumbs, logger: logger, now: time.Now}
}

// Sync walks the remote list page by page, strictly in continuation-token
// order, merging each page in its own transaction. Any fetch or merge error
// aborts the pass immediately; pages committed before the failure stay
// committed. Sync success is defined purely by pagination completing - the
// follow-on thumbnail pass never fails a sync.
func (e *Engine) Sync(ctx context.Context) (Result, error) {
	var res Result
	token := ""

	for {
		page, err := e.source.FetchLikedPage(ctx, token)
		if err != nil {
			e.logger.Error("sync aborted", "page", res.Pages+1, "error", err)
			return res, err
		}

		inserted, err := e.store.MergePage(page.Items)
		if err != nil {
			e.logger.Error("page merge failed", "page", res.Pages+1, "error", err)
			return res, err
		}

		res.Fetched += page.PageCount
		res.Inserted += inserted
		res.Pages++
		e.logger.Debug("page merged", "page", res.Pages, "items", page.PageCount, "new", inserted)

		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	if err := e.store.SaveSyncMeta(domain.SyncMeta{
		LastSyncedAt: e.now().UTC().Format(time.RFC3339),
		LastFetched:  res.Fetched,
	}); err != nil {
		e.logger.Warn("failed to save sync metadata", "error", err)
	}

	e.logger.Info("sync complete", "fetched", res.Fetched, "new", res.Inserted, "pages", res.Pages)

	if e.thumbs != nil {
		if cached, err := e.thumbs.CacheThumbnails(ctx, nil); err != nil {
			e.logger.Warn("thumbnail pass failed after sync", "error", err)
		} else {
			e.logger.Debug("thumbnail pass complete", "cached", cached)
		}
	}

	return res, nil
}
