package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"collabhub/models"
	"collabhub/utils"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

const requestTimeout = 10 * time.Second

// APIClient calls the YouTube Data API directly with a server-side key.
type APIClient struct {
	svc *yt.Service
}

// NewAPIClient creates a client; an empty key yields a client that always fails with
// ErrKeyNotConfigured.
func NewAPIClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*APIClient, error) {
	if apiKey == "" {
		return &APIClient{}, nil
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &APIClient{svc: svc}, nil
}

// FetchChannelInfo looks up one channel by id. API and transport failures become a 502 StatusError.
func (c *APIClient) FetchChannelInfo(ctx context.Context, channelID string) (*models.ChannelListResponse, error) {
	if c.svc == nil {
		return nil, ErrKeyNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.svc.Channels.List([]string{"snippet", "statistics"}).Id(channelID).Context(ctx).Do()
	if err != nil {
		utils.GetLogger().Warn("YouTube API request failed", zap.String("channelID", channelID), zap.Error(err))
		return nil, &StatusError{Status: http.StatusBadGateway, Message: "YouTube API error: " + describe(err)}
	}
	return convertChannels(resp), nil
}

func describe(err error) string {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return fmt.Sprintf("%d %s", gerr.Code, gerr.Message)
	}
	return err.Error()
}

func convertChannels(resp *yt.ChannelListResponse) *models.ChannelListResponse {
	out := &models.ChannelListResponse{Items: []models.ChannelItem{}}
	for _, ch := range resp.Items {
		if ch == nil {
			continue
		}
		item := models.ChannelItem{ID: ch.Id}
		if ch.Snippet != nil {
			item.Snippet.Title = ch.Snippet.Title
			if th := ch.Snippet.Thumbnails; th != nil {
				item.Snippet.Thumbnails = models.ChannelThumbnails{
					Default: convertThumbnail(th.Default),
					Medium:  convertThumbnail(th.Medium),
					High:    convertThumbnail(th.High),
				}
			}
		}
		if st := ch.Statistics; st != nil {
			item.Statistics = models.ChannelStatistics{
				SubscriberCount: strconv.FormatUint(st.SubscriberCount, 10),
				ViewCount:       strconv.FormatUint(st.ViewCount, 10),
				VideoCount:      strconv.FormatUint(st.VideoCount, 10),
			}
		}
		out.Items = append(out.Items, item)
	}
	return out
}

func convertThumbnail(t *yt.Thumbnail) *models.Thumbnail {
	if t == nil {
		return nil
	}
	return &models.Thumbnail{URL: t.Url}
}
