package routes

import (
	"time"

	"collabhub/handlers"
	"collabhub/middleware"
	"collabhub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// statusInterval limits onboarding status checks per user.
const statusInterval = 2 * time.Second

// RegisterOnboardingRoutes registers the wizard endpoints behind bearer-token auth.
func RegisterOnboardingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	h := hb.Onboarding
	api := r.Group("/api/onboarding")
	{
		api.Use(middleware.AuthMiddleware(hb.Verifier))

		api.POST("/session", h.StartSession)
		api.GET("/session", h.GetSession)
		api.DELETE("/session", h.AbandonSession)

		// Creator steps
		api.POST("/role", h.SelectRole)
		api.PUT("/personal", h.UpdatePersonal)
		api.POST("/platforms/toggle", h.TogglePlatform)
		api.PUT("/platforms/:platform/details", h.SetPlatformDetails)
		api.PUT("/platforms/:platform/pricing", h.SetPricing)
		api.POST("/youtube/lookup", h.LookupChannel)
		api.POST("/profile-picture", h.AttachProfilePicture)
		api.DELETE("/profile-picture", h.ClearProfilePicture)

		// Brand steps
		api.PATCH("/brand", h.UpdateBrand)
		api.POST("/brand/platforms/toggle", h.ToggleBrandPlatform)
		api.PUT("/brand/social-links/:key", h.SetSocialLink)
		api.POST("/brand/preferences/toggle", h.ToggleBrandPreference)
		api.POST("/brand/logo", h.AttachLogo)

		api.POST("/next", h.Next)
		api.POST("/back", h.Back)
		api.POST("/submit", h.Submit)
		api.GET("/status", middleware.UserRateLimitMiddleware(statusInterval), h.Status)
	}
}

// RegisterYouTubeRoutes registers the public channel-info proxy.
func RegisterYouTubeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/youtube/channel-info", hb.ChannelInfo.GetChannelInfo)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, maxRequestsPerMin int) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(maxRequestsPerMin))

	RegisterOnboardingRoutes(r, hb)
	RegisterYouTubeRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
