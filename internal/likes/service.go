// Package likes wires the sync engine, thumbnail cache, reconciler and
// query layer into the single service surface the UI consumes.
package likes

import (
	"context"
	"encoding/json"
	"log/slog"

	"likeshelf/internal/domain"
	"likeshelf/internal/query"
	"likeshelf/internal/reconcile"
	"likeshelf/internal/syncer"
	"likeshelf/internal/thumbs"
)

const exportFilename = "liked-videos.json"

// Service exposes the boundary operations: Sync, CacheThumbnails,
// CheckAvailability, Query and ExportAll. Operations are intended to run
// serially from the caller's perspective; the UI disables its triggers
// while one is in flight.
type Service struct {
	store      domain.Store
	engine     *syncer.Engine
	thumbs     *thumbs.Cache
	reconciler *reconcile.Reconciler
	queries    *query.Service
	saver      domain.FileSaver
	logger     *slog.Logger
}

// NewService assembles the service. The sync engine is given the service
// itself as its follow-on thumbnail cacher.
func NewService(store domain.Store, source domain.LikesSource, cache *thumbs.Cache, saver domain.FileSaver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:      store,
		thumbs:     cache,
		reconciler: reconcile.NewReconciler(source, logger),
		queries:    query.NewService(store, logger),
		saver:      saver,
		logger:     logger,
	}
	s.engine = syncer.NewEngine(source, store, s, logger)
	return s
}

// Sync runs one full pagination pass. See the syncer package for the
// failure and durability contract.
func (s *Service) Sync(ctx context.Context) (syncer.Result, error) {
	return s.engine.Sync(ctx)
}

// CacheThumbnails mirrors thumbnails for the given records, or for every
// stored record when subset is nil. Only records with a remote URL and no
// local copy are attempted. Successful paths are written back to the store,
// strictly unset to set. Returns the number of thumbnails cached.
func (s *Service) CacheThumbnails(ctx context.Context, subset []*domain.VideoRecord) (int, error) {
	candidates := subset
	if candidates == nil {
		all, err := s.store.All()
		if err != nil {
			return 0, err
		}
		candidates = all
	}

	var pairs []thumbs.Pair
	for _, rec := range candidates {
		if rec.NeedsThumbnail() {
			pairs = append(pairs, thumbs.Pair{ID: rec.ID, URL: rec.ThumbnailURL})
		}
	}
	if len(pairs) == 0 {
		s.logger.Debug("no thumbnails to cache")
		return 0, nil
	}

	results := s.thumbs.CacheMany(ctx, pairs)

	cached := 0
	for id, path := range results {
		if path == "" {
			continue
		}
		if err := s.store.SetThumbnailPath(id, path); err != nil {
			s.logger.Warn("failed to persist thumbnail path", "id", id, "error", err)
			continue
		}
		cached++
	}
	s.logger.Info("thumbnails cached", "requested", len(pairs), "cached", cached)
	return cached, nil
}

// CheckAvailability reconciles the given ids (or every stored id when
// subset is nil) against the remote source. Results are only applied to
// the store after all batches succeed; on error nothing is written and the
// error surfaces to the caller.
func (s *Service) CheckAvailability(ctx context.Context, subset []string) ([]string, error) {
	checked := subset
	if checked == nil {
		all, err := s.store.All()
		if err != nil {
			return nil, err
		}
		for _, rec := range all {
			checked = append(checked, rec.ID)
		}
	}
	if len(checked) == 0 {
		return nil, nil
	}

	missing, err := s.reconciler.CheckAvailability(ctx, checked)
	if err != nil {
		return nil, err
	}
	if err := s.store.ApplyAvailability(checked, missing); err != nil {
		return nil, err
	}
	s.logger.Info("availability reconciled", "checked", len(checked), "missing", len(missing))
	return missing, nil
}

// Query returns the filtered, sorted view for presentation.
func (s *Service) Query(mode domain.SortMode, searchText string) ([]*domain.VideoRecord, error) {
	return s.queries.Query(mode, searchText)
}

// QueryFuzzy is the looser interactive-filter variant.
func (s *Service) QueryFuzzy(searchText string) ([]*domain.VideoRecord, error) {
	return s.queries.QueryFuzzy(searchText)
}

// Count reports how many records the store holds.
func (s *Service) Count() (int, error) {
	return s.store.Count()
}

// SyncMeta returns bookkeeping from the last completed sync, if any.
func (s *Service) SyncMeta() (domain.SyncMeta, bool) {
	return s.store.GetSyncMeta()
}

// Wipe clears every record and all sync metadata. The caller is expected
// to have confirmed the reset with the user; nothing here asks twice.
func (s *Service) Wipe() error {
	if err := s.store.Wipe(); err != nil {
		return err
	}
	s.logger.Info("store wiped")
	return nil
}

// ExportAll serializes the entire store as indented JSON through the
// save-file boundary. A false return without error means the user
// cancelled, which is a no-op, not a failure.
func (s *Service) ExportAll() (bool, error) {
	records, err := s.store.All()
	if err != nil {
		return false, err
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return false, err
	}

	saved, err := s.saver.Save(exportFilename, payload)
	if err != nil {
		return false, err
	}
	if !saved {
		s.logger.Debug("export cancelled")
		return false, nil
	}
	s.logger.Info("exported store", "records", len(records))
	return true, nil
}
