package youtube

// Raw API response shapes for videos.list. Only the fields we read.

type videoListResponse struct {
	Items         []videoResource `json:"items"`
	NextPageToken string          `json:"nextPageToken"`
}

type videoResource struct {
	ID             string          `json:"id"`
	Snippet        *videoSnippet   `json:"snippet"`
	ContentDetails *contentDetails `json:"contentDetails"`
}

type videoSnippet struct {
	Title        string     `json:"title"`
	ChannelTitle string     `json:"channelTitle"`
	PublishedAt  string     `json:"publishedAt"`
	Thumbnails   thumbnails `json:"thumbnails"`
}

type contentDetails struct {
	Duration string `json:"duration"`
}

type thumbnails struct {
	Maxres   *thumbnail `json:"maxres"`
	Standard *thumbnail `json:"standard"`
	High     *thumbnail `json:"high"`
	Medium   *thumbnail `json:"medium"`
	Default  *thumbnail `json:"default"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type channelListResponse struct {
	Items []channelResource `json:"items"`
}

type channelResource struct {
	Snippet *channelSnippet `json:"snippet"`
}

type channelSnippet struct {
	Title string `json:"title"`
}
