package domain

import "context"

// LikesSource is the boundary to the remote video platform. Implementations
// normalize raw API payloads into VideoRecord before returning them.
type LikesSource interface {
	// FetchLikedPage returns one page of the user's liked videos.
	// An empty token requests the first page.
	FetchLikedPage(ctx context.Context, pageToken string) (*LikedPage, error)

	// CheckExistence reports which of the given ids (at most 50 per call)
	// still resolve at the remote source.
	CheckExistence(ctx context.Context, ids []string) ([]string, error)
}

// ImageFetcher retrieves remote image bytes, following redirects.
type ImageFetcher interface {
	FetchBytes(ctx context.Context, url string) (data []byte, contentType string, err error)
}

// FileSaver writes an export payload to a user-chosen destination.
// A false return without error means the user cancelled.
type FileSaver interface {
	Save(defaultName string, payload []byte) (bool, error)
}

// Store is the persistent keyed table of VideoRecord. Writers hold the
// first-seen-wins contract: MergePage never touches existing records,
// SetThumbnailPath only transitions unset to set, and ApplyAvailability
// rewrites IsMissing and nothing else.
type Store interface {
	MergePage(items []*VideoRecord) (inserted int, err error)
	Get(id string) (*VideoRecord, bool)
	All() ([]*VideoRecord, error)
	Count() (int, error)

	SetThumbnailPath(id, path string) error
	ApplyAvailability(checked, missing []string) error

	GetSyncMeta() (SyncMeta, bool)
	SaveSyncMeta(meta SyncMeta) error

	Wipe() error
	Close() error
}
