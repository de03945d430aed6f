package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"likeshelf/internal/domain"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	defaultTimeout = 30 * time.Second
	userAgent      = "likeshelf/1.0"

	// pageSize is the maximum the videos.list endpoint accepts, both for
	// liked-page listing and for id existence checks.
	pageSize = 50
)

// Client implements domain.LikesSource against the YouTube Data API v3.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Tests point this at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client, typically with an
// OAuth-authenticated one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func withClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a new YouTube API client. The supplied HTTP client is
// expected to attach credentials (see the auth package in this directory).
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doRequest performs an authenticated GET and returns the response body.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("youtube request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("youtube request failed", "error", err)
		return nil, domain.ErrSourceOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrAuthFailed
	case resp.StatusCode != http.StatusOK:
		c.logger.Error("youtube request error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// FetchLikedPage returns one page of the authenticated user's liked videos,
// using videos.list with myRating=like. An empty pageToken fetches page one.
func (c *Client) FetchLikedPage(ctx context.Context, pageToken string) (*domain.LikedPage, error) {
	query := url.Values{}
	query.Set("part", "snippet,contentDetails")
	query.Set("myRating", "like")
	query.Set("maxResults", fmt.Sprintf("%d", pageSize))
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	body, err := c.doRequest(ctx, "/videos", query)
	if err != nil {
		return nil, err
	}

	var resp videoListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	loggedAt := c.now().UTC().Format(time.RFC3339)
	items := make([]*domain.VideoRecord, 0, len(resp.Items))
	for _, raw := range resp.Items {
		items = append(items, mapVideo(raw, loggedAt))
	}

	return &domain.LikedPage{
		Items:     items,
		NextToken: resp.NextPageToken,
		PageCount: len(items),
	}, nil
}

// Profile returns the display name of the authenticated user's channel,
// via channels.list with mine=true. An account with no channel yields an
// empty name without error.
func (c *Client) Profile(ctx context.Context) (string, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("mine", "true")

	body, err := c.doRequest(ctx, "/channels", query)
	if err != nil {
		return "", err
	}

	var resp channelListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", nil
	}
	return resp.Items[0].Snippet.Title, nil
}

// CheckExistence returns the subset of ids the API still resolves. At most
// 50 ids per call; larger inputs are the reconciler's problem, not ours.
func (c *Client) CheckExistence(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > pageSize {
		return nil, fmt.Errorf("existence check limited to %d ids, got %d", pageSize, len(ids))
	}

	query := url.Values{}
	query.Set("part", "id")
	query.Set("id", strings.Join(ids, ","))
	query.Set("maxResults", fmt.Sprintf("%d", pageSize))

	body, err := c.doRequest(ctx, "/videos", query)
	if err != nil {
		return nil, err
	}

	var resp videoListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	existing := make([]string, 0, len(resp.Items))
	for _, raw := range resp.Items {
		if raw.ID != "" {
			existing = append(existing, raw.ID)
		}
	}
	return existing, nil
}
