package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"collabhub/models"
)

// HTTPLookup calls a channel-info proxy endpoint, e.g. https://api.example.com/youtube/channel-info.
type HTTPLookup struct {
	endpoint string
	client   *http.Client
}

func NewHTTPLookup(endpoint string, client *http.Client) *HTTPLookup {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &HTTPLookup{endpoint: strings.TrimRight(endpoint, "?"), client: client}
}

type detailBody struct {
	Detail string `json:"detail"`
}

// FetchChannelInfo returns a *StatusError for non-2xx responses, using the body's detail when
// present. Transport failures are returned as is.
func (h *HTTPLookup) FetchChannelInfo(ctx context.Context, channelID string) (*models.ChannelListResponse, error) {
	u := h.endpoint + "?channelId=" + url.QueryEscape(channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build channel info request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("channel info request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body detailBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, &StatusError{Status: resp.StatusCode, Message: body.Detail}
	}

	var out models.ChannelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode channel info: %w", err)
	}
	return &out, nil
}
