package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"likeshelf/internal/domain"
	"likeshelf/internal/store"
)

func newService(t *testing.T, records ...*domain.VideoRecord) *Service {
	t.Helper()
	st, err := store.NewVideoStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	_, err = st.MergePage(records)
	require.NoError(t, err)
	return NewService(st, nil)
}

func video(id, title, channel, likedAt, dateLogged string) *domain.VideoRecord {
	v := &domain.VideoRecord{
		ID:           id,
		Title:        title,
		ChannelTitle: channel,
		LikedAt:      likedAt,
		DateLogged:   dateLogged,
	}
	v.Finalize()
	return v
}

func ids(records []*domain.VideoRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestQuerySubstringMatchesTitleOrChannel(t *testing.T) {
	s := newService(t,
		video("1", "Lofi Beats", "ChillHop", "", "2024-01-01T00:00:00Z"),
		video("2", "Rock Anthem", "Lofi Station", "", "2024-01-02T00:00:00Z"),
		video("3", "Jazz Hour", "Blue Note", "", "2024-01-03T00:00:00Z"),
	)

	got, err := s.Query(domain.SortLoggedDesc, "lofi")
	require.NoError(t, err)
	require.Equal(t, []string{"2", "1"}, ids(got))
}

func TestQuerySubstringIsCaseInsensitive(t *testing.T) {
	s := newService(t,
		video("1", "LOFI BEATS", "ChillHop", "", "2024-01-01T00:00:00Z"),
	)

	got, err := s.Query(domain.SortTitleAsc, "LoFi")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestQueryMatchesMidString(t *testing.T) {
	s := newService(t,
		video("1", "Deep Lofi Mix", "Someone", "", "2024-01-01T00:00:00Z"),
	)

	got, err := s.Query(domain.SortTitleAsc, "lofi")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestQueryDeduplicatesByID(t *testing.T) {
	// Title and channel both match; the record must appear once.
	s := newService(t,
		video("1", "Lofi Beats", "Lofi Station", "", "2024-01-01T00:00:00Z"),
	)

	got, err := s.Query(domain.SortTitleAsc, "lofi")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestQueryEmptySearchReturnsAll(t *testing.T) {
	s := newService(t,
		video("1", "A", "", "", "2024-01-01T00:00:00Z"),
		video("2", "B", "", "", "2024-01-02T00:00:00Z"),
	)

	got, err := s.Query(domain.SortTitleAsc, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestQuerySortLoggedDesc(t *testing.T) {
	s := newService(t,
		video("jan", "Jan", "", "", "2024-01-01T00:00:00Z"),
		video("mar", "Mar", "", "", "2024-03-01T00:00:00Z"),
		video("feb", "Feb", "", "", "2024-02-01T00:00:00Z"),
	)

	got, err := s.Query(domain.SortLoggedDesc, "")
	require.NoError(t, err)
	require.Equal(t, []string{"mar", "feb", "jan"}, ids(got))
}

func TestQuerySortLiked(t *testing.T) {
	s := newService(t,
		video("old", "Old", "", "2023-01-01T00:00:00Z", "2024-01-01T00:00:00Z"),
		video("new", "New", "", "2024-06-01T00:00:00Z", "2024-01-01T00:00:00Z"),
		video("mid", "Mid", "", "2023-06-01T00:00:00Z", "2024-01-01T00:00:00Z"),
	)

	desc, err := s.Query(domain.SortLikedDesc, "")
	require.NoError(t, err)
	require.Equal(t, []string{"new", "mid", "old"}, ids(desc))

	asc, err := s.Query(domain.SortLikedAsc, "")
	require.NoError(t, err)
	require.Equal(t, []string{"old", "mid", "new"}, ids(asc))
}

func TestQuerySortTitleCaseInsensitive(t *testing.T) {
	s := newService(t,
		video("b", "banana", "", "", "2024-01-01T00:00:00Z"),
		video("a", "Apple", "", "", "2024-01-01T00:00:00Z"),
		video("c", "Cherry", "", "", "2024-01-01T00:00:00Z"),
	)

	got, err := s.Query(domain.SortTitleAsc, "")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestQuerySortChannel(t *testing.T) {
	s := newService(t,
		video("1", "X", "zulu", "", "2024-01-01T00:00:00Z"),
		video("2", "Y", "Alpha", "", "2024-01-01T00:00:00Z"),
	)

	got, err := s.Query(domain.SortChannelAsc, "")
	require.NoError(t, err)
	require.Equal(t, []string{"2", "1"}, ids(got))
}

func TestQueryFuzzy(t *testing.T) {
	s := newService(t,
		video("1", "Synthwave Mix", "RetroWave", "", "2024-01-01T00:00:00Z"),
		video("2", "Morning Jazz", "Cafe Music", "", "2024-01-01T00:00:00Z"),
	)

	got, err := s.QueryFuzzy("synwav")
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, ids(got))

	all, err := s.QueryFuzzy("  ")
	require.NoError(t, err)
	require.Len(t, all, 2)
}
