package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"likeshelf/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestFetchLikedPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/videos", r.URL.Path)
		require.Equal(t, "like", r.URL.Query().Get("myRating"))
		require.Equal(t, "snippet,contentDetails", r.URL.Query().Get("part"))
		require.Empty(t, r.URL.Query().Get("pageToken"))

		fmt.Fprint(w, `{
			"items": [
				{
					"id": "vid1",
					"snippet": {
						"title": "Lofi Beats",
						"channelTitle": "ChillHop",
						"publishedAt": "2023-03-01T10:00:00Z",
						"thumbnails": {
							"high": {"url": "https://img.example/hi.jpg"},
							"default": {"url": "https://img.example/def.jpg"}
						}
					},
					"contentDetails": {"duration": "PT4M13S"}
				},
				{"id": "vid2", "snippet": {"title": "", "thumbnails": {}}}
			],
			"nextPageToken": "TOK2"
		}`)
	}))
	defer srv.Close()

	c := NewClient(nil, WithBaseURL(srv.URL), withClock(fixedClock))
	page, err := c.FetchLikedPage(context.Background(), "")
	require.NoError(t, err)

	require.Equal(t, "TOK2", page.NextToken)
	require.Equal(t, 2, page.PageCount)
	require.Len(t, page.Items, 2)

	v := page.Items[0]
	require.Equal(t, "vid1", v.ID)
	require.Equal(t, "Lofi Beats", v.Title)
	require.Equal(t, "ChillHop", v.ChannelTitle)
	require.Equal(t, "PT4M13S", v.Duration)
	require.Equal(t, "https://img.example/hi.jpg", v.ThumbnailURL)
	require.Equal(t, "2024-06-01T12:00:00Z", v.DateLogged)
	require.Equal(t, "lofi beats", v.TitleLC)
	require.Equal(t, "chillhop", v.ChannelLC)
	require.NotZero(t, v.DateLoggedTS)

	// Empty title falls back to the placeholder.
	require.Equal(t, "Unknown Title", page.Items[1].Title)
}

func TestFetchLikedPagePassesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "TOK2", r.URL.Query().Get("pageToken"))
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer srv.Close()

	c := NewClient(nil, WithBaseURL(srv.URL))
	page, err := c.FetchLikedPage(context.Background(), "TOK2")
	require.NoError(t, err)
	require.Empty(t, page.NextToken)
	require.Zero(t, page.PageCount)
}

func TestFetchLikedPageAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(nil, WithBaseURL(srv.URL))
	_, err := c.FetchLikedPage(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestFetchLikedPageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(nil, WithBaseURL(srv.URL))
	_, err := c.FetchLikedPage(context.Background(), "")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrAuthFailed)
}

func TestCheckExistence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "id", r.URL.Query().Get("part"))
		ids := strings.Split(r.URL.Query().Get("id"), ",")
		require.Equal(t, []string{"a", "b", "c"}, ids)
		// Only a and c still resolve.
		fmt.Fprint(w, `{"items": [{"id": "a"}, {"id": "c"}]}`)
	}))
	defer srv.Close()

	c := NewClient(nil, WithBaseURL(srv.URL))
	existing, err := c.CheckExistence(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, existing)
}

func TestCheckExistenceEmptyInput(t *testing.T) {
	c := NewClient(nil, WithBaseURL("http://unused.invalid"))
	existing, err := c.CheckExistence(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, existing)
}

func TestCheckExistenceRejectsOversizedBatch(t *testing.T) {
	c := NewClient(nil, WithBaseURL("http://unused.invalid"))
	ids := make([]string, 51)
	for i := range ids {
		ids[i] = fmt.Sprintf("v%d", i)
	}
	_, err := c.CheckExistence(context.Background(), ids)
	require.Error(t, err)
}

func TestProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/channels", r.URL.Path)
		require.Equal(t, "snippet", r.URL.Query().Get("part"))
		require.Equal(t, "true", r.URL.Query().Get("mine"))
		fmt.Fprint(w, `{"items": [{"snippet": {"title": "My Channel"}}]}`)
	}))
	defer srv.Close()

	c := NewClient(nil, WithBaseURL(srv.URL))
	name, err := c.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "My Channel", name)
}

func TestProfileNoChannel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer srv.Close()

	c := NewClient(nil, WithBaseURL(srv.URL))
	name, err := c.Profile(context.Background())
	require.NoError(t, err)
	require.Empty(t, name)
}

func TestPickBestThumb(t *testing.T) {
	tests := []struct {
		name string
		in   thumbnails
		want string
	}{
		{
			name: "prefers maxres",
			in: thumbnails{
				Maxres:  &thumbnail{URL: "max"},
				Default: &thumbnail{URL: "def"},
			},
			want: "max",
		},
		{
			name: "falls through to medium",
			in: thumbnails{
				Medium:  &thumbnail{URL: "med"},
				Default: &thumbnail{URL: "def"},
			},
			want: "med",
		},
		{
			name: "empty when nothing set",
			in:   thumbnails{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, pickBestThumb(tt.in))
		})
	}
}
