package youtube

import (
	"context"
	"fmt"
	"net/http"

	"collabhub/models"
)

// ChannelInfoService fetches channel metadata shaped like the YouTube channels.list response.
type ChannelInfoService interface {
	FetchChannelInfo(ctx context.Context, channelID string) (*models.ChannelListResponse, error)
}

const msgKeyNotConfigured = "YouTube API key not configured on server."

// StatusError is a non-success channel-info response. Detail is shown to the user when set.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("channel info request failed with status %d", e.Status)
}

func (e *StatusError) HTTPStatus() int { return e.Status }
func (e *StatusError) Detail() string  { return e.Message }

// ErrKeyNotConfigured is returned when the server has no YouTube API key.
var ErrKeyNotConfigured = &StatusError{Status: http.StatusInternalServerError, Message: msgKeyNotConfigured}
