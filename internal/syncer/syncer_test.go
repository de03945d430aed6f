package syncer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"likeshelf/internal/domain"
	"likeshelf/internal/store"
)

// fakeSource serves a scripted sequence of pages keyed by token.
type fakeSource struct {
	pages map[string]*domain.LikedPage
	errAt string // token whose fetch fails
	calls []string
}

func (f *fakeSource) FetchLikedPage(_ context.Context, token string) (*domain.LikedPage, error) {
	f.calls = append(f.calls, token)
	if f.errAt != "" && token == f.errAt {
		return nil, domain.ErrSourceOffline
	}
	page, ok := f.pages[token]
	if !ok {
		return nil, errors.New("unexpected token")
	}
	return page, nil
}

func (f *fakeSource) CheckExistence(context.Context, []string) ([]string, error) {
	return nil, errors.New("not used")
}

type fakeCacher struct {
	calls int
	err   error
}

func (f *fakeCacher) CacheThumbnails(context.Context, []*domain.VideoRecord) (int, error) {
	f.calls++
	return 0, f.err
}

func makeRecords(prefix string, n int) []*domain.VideoRecord {
	out := make([]*domain.VideoRecord, n)
	for i := range out {
		v := &domain.VideoRecord{
			ID:         fmt.Sprintf("%s%03d", prefix, i),
			Title:      fmt.Sprintf("Video %s%d", prefix, i),
			DateLogged: "2024-01-01T00:00:00Z",
		}
		v.Finalize()
		out[i] = v
	}
	return out
}

func newTestStore(t *testing.T) *store.VideoStore {
	t.Helper()
	s, err := store.NewVideoStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSyncTwoPages(t *testing.T) {
	src := &fakeSource{pages: map[string]*domain.LikedPage{
		"":   {Items: makeRecords("a", 50), NextToken: "T2", PageCount: 50},
		"T2": {Items: makeRecords("b", 10), PageCount: 10},
	}}
	st := newTestStore(t)
	cacher := &fakeCacher{}

	res, err := NewEngine(src, st, cacher, nil).Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 60, res.Fetched)
	require.Equal(t, 60, res.Inserted)
	require.Equal(t, 2, res.Pages)

	count, err := st.Count()
	require.NoError(t, err)
	require.Equal(t, 60, count)

	// Pages were requested strictly in token order.
	require.Equal(t, []string{"", "T2"}, src.calls)

	// The engine triggered thumbnail caching after the pass.
	require.Equal(t, 1, cacher.calls)

	meta, found := st.GetSyncMeta()
	require.True(t, found)
	require.Equal(t, 60, meta.LastFetched)
}

func TestSyncIdempotent(t *testing.T) {
	src := &fakeSource{pages: map[string]*domain.LikedPage{
		"": {Items: makeRecords("a", 20), PageCount: 20},
	}}
	st := newTestStore(t)
	eng := NewEngine(src, st, nil, nil)

	res1, err := eng.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 20, res1.Inserted)

	res2, err := eng.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 20, res2.Fetched)
	require.Equal(t, 0, res2.Inserted)

	count, err := st.Count()
	require.NoError(t, err)
	require.Equal(t, 20, count)
}

func TestSyncAbortsOnFetchError(t *testing.T) {
	src := &fakeSource{
		pages: map[string]*domain.LikedPage{
			"": {Items: makeRecords("a", 50), NextToken: "T2", PageCount: 50},
		},
		errAt: "T2",
	}
	st := newTestStore(t)
	cacher := &fakeCacher{}

	res, err := NewEngine(src, st, cacher, nil).Sync(context.Background())
	require.ErrorIs(t, err, domain.ErrSourceOffline)

	// The first page stays committed.
	count, err := st.Count()
	require.NoError(t, err)
	require.Equal(t, 50, count)
	require.Equal(t, 50, res.Fetched)

	// No thumbnail pass after a failed sync.
	require.Zero(t, cacher.calls)

	// No fresh sync metadata either.
	_, found := st.GetSyncMeta()
	require.False(t, found)
}

func TestSyncThumbnailFailureDoesNotFailSync(t *testing.T) {
	src := &fakeSource{pages: map[string]*domain.LikedPage{
		"": {Items: makeRecords("a", 5), PageCount: 5},
	}}
	st := newTestStore(t)
	cacher := &fakeCacher{err: errors.New("disk full")}

	res, err := NewEngine(src, st, cacher, nil).Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, res.Fetched)
	require.Equal(t, 1, cacher.calls)
}

func TestSyncMonotonicGrowth(t *testing.T) {
	st := newTestStore(t)

	// First source has 30 items; second, shrunken source has 10 of them.
	big := &fakeSource{pages: map[string]*domain.LikedPage{
		"": {Items: makeRecords("a", 30), PageCount: 30},
	}}
	small := &fakeSource{pages: map[string]*domain.LikedPage{
		"": {Items: makeRecords("a", 10), PageCount: 10},
	}}

	_, err := NewEngine(big, st, nil, nil).Sync(context.Background())
	require.NoError(t, err)
	_, err = NewEngine(small, st, nil, nil).Sync(context.Background())
	require.NoError(t, err)

	count, err := st.Count()
	require.NoError(t, err)
	require.Equal(t, 30, count)
}
