package youtube

import "likeshelf/internal/domain"

// mapVideo normalizes a raw API resource into the canonical record shape.
// loggedAt is stamped as DateLogged; the store only keeps it if the record
// turns out to be new.
func mapVideo(raw videoResource, loggedAt string) *domain.VideoRecord {
	rec := &domain.VideoRecord{
		ID:         raw.ID,
		Title:      "Unknown Title",
		DateLogged: loggedAt,
	}
	if s := raw.Snippet; s != nil {
		if s.Title != "" {
			rec.Title = s.Title
		}
		rec.ChannelTitle = s.ChannelTitle
		rec.PublishedAt = s.PublishedAt
		rec.ThumbnailURL = pickBestThumb(s.Thumbnails)
	}
	if c := raw.ContentDetails; c != nil {
		rec.Duration = c.Duration
	}
	rec.Finalize()
	return rec
}

// pickBestThumb returns the highest-resolution thumbnail URL available.
func pickBestThumb(t thumbnails) string {
	for _, cand := range []*thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if cand != nil && cand.URL != "" {
			return cand.URL
		}
	}
	return ""
}
