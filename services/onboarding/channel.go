package onboarding

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"collabhub/models"
	"collabhub/utils"

	"go.uber.org/zap"
)

const (
	msgChannelNotFound = "Channel not found"
	msgChannelNetwork  = "Failed to fetch channel. Please check your network connection or try again later."

	lookupTimeout = 10 * time.Second
)

var channelIDPattern = regexp.MustCompile(`(?:channel/|user/|c/)?([\w-]{21,})`)

// statusError is implemented by lookup clients for non-success HTTP responses.
type statusError interface {
	error
	HTTPStatus() int
	Detail() string
}

// NormalizeChannelInput extracts the channel id from a youtube.com URL; any other input is used as is.
func NormalizeChannelInput(input string) string {
	if !strings.Contains(input, "youtube.com") {
		return input
	}
	if m := channelIDPattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	return input
}

// lookupFailure maps a client error to the message shown next to the channel field.
func lookupFailure(err error) *LookupError {
	var se statusError
	if errors.As(err, &se) {
		msg := se.Detail()
		if msg == "" {
			msg = fmt.Sprintf("Error: %d", se.HTTPStatus())
		}
		return &LookupError{Status: se.HTTPStatus(), Message: msg}
	}
	return &LookupError{Message: msgChannelNetwork}
}

// channelDetails converts the first item of a lookup response. It returns nil when there is none.
func channelDetails(input string, resp *models.ChannelListResponse) *models.YouTubeDetails {
	if resp == nil || len(resp.Items) == 0 {
		return nil
	}
	ch := resp.Items[0]
	d := &models.YouTubeDetails{
		ChannelURL:      input,
		ChannelID:       ch.ID,
		ChannelName:     ch.Snippet.Title,
		SubscriberCount: ch.Statistics.SubscriberCount,
		TotalViews:      ch.Statistics.ViewCount,
		VideoCount:      ch.Statistics.VideoCount,
	}
	if t := ch.Snippet.Thumbnails.Default; t != nil {
		d.ProfileImage = t.URL
	}
	return d
}

// LookupChannel resolves a channel URL or id and stores the YouTube details on the session. On
// failure the session keeps its previous details, records the message and a *LookupError is returned.
func (s *DefaultOnboardingService) LookupChannel(ctx context.Context, userID, input string) (*models.WizardSession, error) {
	logger := utils.GetLogger()

	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyChannelInput
	}
	session, err := s.Sessions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.IsBrandFlow() {
		return nil, ErrWrongFlow
	}

	channelID := NormalizeChannelInput(input)
	v, fetchErr, _ := s.lookups.Do(userID+"|"+channelID, func() (interface{}, error) {
		// Shared by every caller in flight, so one caller going away must not cancel the others.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		return s.Channels.FetchChannelInfo(fetchCtx, channelID)
	})

	var failure *LookupError
	var details *models.YouTubeDetails
	if fetchErr != nil {
		failure = lookupFailure(fetchErr)
		logger.Warn("Channel lookup failed", zap.String("userID", userID), zap.String("channelID", channelID), zap.Error(fetchErr))
	} else if details = channelDetails(input, v.(*models.ChannelListResponse)); details == nil {
		failure = &LookupError{Message: msgChannelNotFound}
	}

	session, err = s.Sessions.Update(ctx, userID, func(session *models.WizardSession) (bool, error) {
		if failure != nil {
			session.LookupError = failure.Message
		} else if err := Reduce(session, SetYouTubeDetails{Details: *details}); err != nil {
			return false, err
		}
		session.UpdatedAt = s.now()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if failure != nil {
		return session, failure
	}
	logger.Info("Channel lookup succeeded", zap.String("userID", userID), zap.String("channelID", session.PlatformDetails.YouTube.ChannelID))
	return session, nil
}
