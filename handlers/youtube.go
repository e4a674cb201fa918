package handlers

import (
	"errors"
	"net/http"
	"strings"

	"collabhub/services/youtube"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChannelInfoHandler proxies channel lookups so the API key stays on the server.
type ChannelInfoHandler struct {
	Lookup youtube.ChannelInfoService
}

func NewChannelInfoHandler(lookup youtube.ChannelInfoService) *ChannelInfoHandler {
	return &ChannelInfoHandler{Lookup: lookup}
}

// GetChannelInfo handles GET /youtube/channel-info?channelId=. Errors use {"detail": ...}.
func (h *ChannelInfoHandler) GetChannelInfo(c *gin.Context) {
	channelID := strings.TrimSpace(c.Query("channelId"))
	if channelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "channelId is required"})
		return
	}

	resp, err := h.Lookup.FetchChannelInfo(c.Request.Context(), channelID)
	if err != nil {
		var se *youtube.StatusError
		if errors.As(err, &se) {
			c.JSON(se.HTTPStatus(), gin.H{"detail": se.Detail()})
			return
		}
		getLogger(c).Error("Channel info lookup failed", zap.String("channelID", channelID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"detail": "YouTube API error: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
