// Package reconcile confirms which previously-seen video ids still exist at
// the remote source.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"likeshelf/internal/domain"
)

// maxBatch is the hard ceiling the remote existence check imposes.
const maxBatch = 50

// Reconciler batches ids against the source's existence check.
type Reconciler struct {
	source domain.LikesSource
	logger *slog.Logger
}

func NewReconciler(source domain.LikesSource, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{source: source, logger: logger}
}

// CheckAvailability partitions ids into batches of at most 50, asks the
// source which still resolve, and returns the union of ids absent from the
// responses. Unlike thumbnail mirroring this is existence truth, not
// best-effort enrichment: any batch error aborts the remaining batches and
// surfaces to the caller, who must discard partial progress.
func (r *Reconciler) CheckAvailability(ctx context.Context, ids []string) ([]string, error) {
	var missing []string

	for start := 0; start < len(ids); start += maxBatch {
		end := start + maxBatch
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		existing, err := r.source.CheckExistence(ctx, batch)
		if err != nil {
			r.logger.Error("existence check failed", "batch", start/maxBatch+1, "error", err)
			return nil, fmt.Errorf("existence check: %w", err)
		}

		exists := make(map[string]bool, len(existing))
		for _, id := range existing {
			exists[id] = true
		}
		for _, id := range batch {
			if !exists[id] {
				missing = append(missing, id)
			}
		}
	}

	r.logger.Debug("availability check complete", "checked", len(ids), "missing", len(missing))
	return missing, nil
}
