package domain

import (
	"strings"
	"time"
)

// VideoRecord is the canonical unit of persistence: one liked video as it
// was first observed. Descriptive fields are never rewritten by later syncs
// (first-seen-wins); only ThumbnailLocalPath and IsMissing mutate afterwards.
type VideoRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle,omitempty"`
	Duration     string `json:"duration,omitempty"`    // ISO 8601, e.g. "PT4M13S"
	PublishedAt  string `json:"publishedAt,omitempty"` // RFC 3339
	LikedAt      string `json:"likedAt,omitempty"`     // RFC 3339

	ThumbnailURL       string `json:"thumbnailUrl,omitempty"`
	ThumbnailLocalPath string `json:"thumbnailLocalPath,omitempty"`

	// DateLogged is when this record was first written locally.
	DateLogged string `json:"dateLogged"`

	// IsMissing is set by the availability reconciler when the remote
	// source no longer returns this id.
	IsMissing bool `json:"isMissing,omitempty"`

	// Derived projections kept consistent with their source fields at
	// record creation; they exist to serve search and numeric sort.
	TitleLC      string `json:"titleLC,omitempty"`
	ChannelLC    string `json:"channelLC,omitempty"`
	LikedAtTS    int64  `json:"likedAtTS,omitempty"`
	DateLoggedTS int64  `json:"dateLoggedTS,omitempty"`
}

// Finalize populates the derived projections from the source fields.
// Called once, when the record is created.
func (v *VideoRecord) Finalize() {
	v.TitleLC = strings.ToLower(v.Title)
	v.ChannelLC = strings.ToLower(v.ChannelTitle)
	v.LikedAtTS = parseTS(v.LikedAt)
	v.DateLoggedTS = parseTS(v.DateLogged)
}

// HasThumbnail reports whether a local mirror of the thumbnail exists.
func (v *VideoRecord) HasThumbnail() bool {
	return v.ThumbnailLocalPath != ""
}

// NeedsThumbnail reports whether this record is a candidate for mirroring:
// a remote URL is known and no local copy has been written yet.
func (v *VideoRecord) NeedsThumbnail() bool {
	return v.ThumbnailLocalPath == "" && v.ThumbnailURL != ""
}

func parseTS(s string) int64 {
	if s == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

// LikedPage is one page of the remote liked-videos listing.
type LikedPage struct {
	Items []*VideoRecord
	// NextToken is the continuation token for the following page;
	// empty means this was the final page.
	NextToken string
	// PageCount is the number of items the remote reported for this page.
	PageCount int
}

// SortMode selects the ordering of query results.
type SortMode int

const (
	SortLikedDesc SortMode = iota
	SortLikedAsc
	SortLoggedDesc
	SortTitleAsc
	SortChannelAsc
)

// String returns a human-readable label for the sort mode.
func (m SortMode) String() string {
	switch m {
	case SortLikedDesc:
		return "Liked (newest)"
	case SortLikedAsc:
		return "Liked (oldest)"
	case SortLoggedDesc:
		return "Saved (newest)"
	case SortTitleAsc:
		return "Title A-Z"
	case SortChannelAsc:
		return "Channel A-Z"
	default:
		return "Unknown"
	}
}

// Next cycles to the following sort mode, wrapping around.
func (m SortMode) Next() SortMode {
	if m == SortChannelAsc {
		return SortLikedDesc
	}
	return m + 1
}

// SyncMeta records bookkeeping about the last completed sync pass.
type SyncMeta struct {
	LastSyncedAt string `json:"lastSyncedAt,omitempty"`
	LastFetched  int    `json:"lastFetched,omitempty"`
}
