package handlers

import (
	"collabhub/middleware"
)

// HandlerBundle groups all endpoint handlers and the auth they sit behind.
type HandlerBundle struct {
	Verifier middleware.TokenVerifier

	Onboarding  *OnboardingHandler
	ChannelInfo *ChannelInfoHandler
	Health      *HealthHandler
}
