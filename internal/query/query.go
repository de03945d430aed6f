// Package query produces filtered, sorted, read-only views over the store.
package query

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"likeshelf/internal/domain"
)

// Service serves presentation queries from store snapshots. It performs no
// mutation.
type Service struct {
	store    domain.Store
	collator *collate.Collator
	logger   *slog.Logger
}

func NewService(store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		collator: collate.New(language.Und, collate.IgnoreCase),
		logger:   logger,
	}
}

// Query returns all records matching searchText, ordered by mode. An empty
// searchText matches everything. Matching is case-insensitive substring over
// title OR channel name; results are deduplicated by id preserving first
// occurrence.
func (s *Service) Query(mode domain.SortMode, searchText string) ([]*domain.VideoRecord, error) {
	records, err := s.store.All()
	if err != nil {
		return nil, err
	}

	filtered := filterSubstring(records, searchText)
	filtered = dedupeByID(filtered)
	s.sortRecords(filtered, mode)
	return filtered, nil
}

// QueryFuzzy is a looser variant used by the interactive filter: records
// are ranked by fuzzy match quality against title or channel instead of
// exact substring containment.
func (s *Service) QueryFuzzy(searchText string) ([]*domain.VideoRecord, error) {
	records, err := s.store.All()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(searchText) == "" {
		out := make([]*domain.VideoRecord, len(records))
		copy(out, records)
		return out, nil
	}

	type ranked struct {
		rec  *domain.VideoRecord
		dist int
	}
	var matches []ranked
	for _, rec := range records {
		dist := -1
		if r := fuzzy.RankMatchNormalizedFold(searchText, rec.Title); r >= 0 {
			dist = r
		}
		if r := fuzzy.RankMatchNormalizedFold(searchText, rec.ChannelTitle); r >= 0 && (dist < 0 || r < dist) {
			dist = r
		}
		if dist >= 0 {
			matches = append(matches, ranked{rec: rec, dist: dist})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })

	out := make([]*domain.VideoRecord, len(matches))
	for i, m := range matches {
		out[i] = m.rec
	}
	return dedupeByID(out), nil
}

func filterSubstring(records []*domain.VideoRecord, searchText string) []*domain.VideoRecord {
	out := make([]*domain.VideoRecord, 0, len(records))
	q := strings.ToLower(strings.TrimSpace(searchText))
	if q == "" {
		out = append(out, records...)
		return out
	}
	for _, rec := range records {
		if strings.Contains(titleLC(rec), q) || strings.Contains(channelLC(rec), q) {
			out = append(out, rec)
		}
	}
	return out
}

// Projections are populated at record creation; fall back to computing them
// for records from older data files.
func titleLC(rec *domain.VideoRecord) string {
	if rec.TitleLC != "" {
		return rec.TitleLC
	}
	return strings.ToLower(rec.Title)
}

func channelLC(rec *domain.VideoRecord) string {
	if rec.ChannelLC != "" {
		return rec.ChannelLC
	}
	return strings.ToLower(rec.ChannelTitle)
}

func dedupeByID(records []*domain.VideoRecord) []*domain.VideoRecord {
	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, rec := range records {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		out = append(out, rec)
	}
	return out
}

func (s *Service) sortRecords(records []*domain.VideoRecord, mode domain.SortMode) {
	switch mode {
	case domain.SortLikedDesc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].LikedAtTS > records[j].LikedAtTS
		})
	case domain.SortLikedAsc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].LikedAtTS < records[j].LikedAtTS
		})
	case domain.SortLoggedDesc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].DateLoggedTS > records[j].DateLoggedTS
		})
	case domain.SortTitleAsc:
		sort.SliceStable(records, func(i, j int) bool {
			return s.collator.CompareString(records[i].Title, records[j].Title) < 0
		})
	case domain.SortChannelAsc:
		sort.SliceStable(records, func(i, j int) bool {
			return s.collator.CompareString(records[i].ChannelTitle, records[j].ChannelTitle) < 0
		})
	}
}
