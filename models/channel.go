package models

// ChannelListResponse is the channel-info payload, shaped like the YouTube channels.list response.
type ChannelListResponse struct {
	Items []ChannelItem `json:"items"`
}

type ChannelItem struct {
	ID         string            `json:"id"`
	Snippet    ChannelSnippet    `json:"snippet"`
	Statistics ChannelStatistics `json:"statistics"`
}

type ChannelSnippet struct {
	Title      string            `json:"title"`
	Thumbnails ChannelThumbnails `json:"thumbnails"`
}

type ChannelThumbnails struct {
	Default *Thumbnail `json:"default,omitempty"`
	Medium  *Thumbnail `json:"medium,omitempty"`
	High    *Thumbnail `json:"high,omitempty"`
}

type Thumbnail struct {
	URL string `json:"url"`
}

// ChannelStatistics counts are strings, as the YouTube API serializes them.
type ChannelStatistics struct {
	SubscriberCount string `json:"subscriberCount"`
	ViewCount       string `json:"viewCount"`
	VideoCount      string `json:"videoCount"`
}
