package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collabhub/config"
	"collabhub/cron"
	"collabhub/database"
	"collabhub/database/repository"
	"collabhub/handlers"
	"collabhub/middleware"
	"collabhub/routes"
	"collabhub/services/onboarding"
	"collabhub/services/storage"
	"collabhub/services/tasks"
	"collabhub/services/youtube"
	"collabhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	ctx := context.Background()

	database.InitDB()
	utils.InitSessionCache()
	utils.StartHealthMonitor(utils.GetSessionClient(), database.MongoClient)

	rowStore := repository.NewMongoRowStore(database.Database())

	blobs, closeBlobs := newBlobStore(ctx, logger)
	defer closeBlobs()

	verifier := newVerifier(ctx, logger)
	channels := newChannelLookup(ctx, logger)

	queue := asynq.NewClient(cron.QueueRedisOpt())
	defer queue.Close()
	worker := cron.InitCleanupWorker(blobs)
	defer worker.Shutdown()

	onboardingService := &onboarding.DefaultOnboardingService{
		Sessions: onboarding.NewRedisSessionStore(utils.GetSessionClient(), config.AppConfig.DraftTTL),
		Rows:     rowStore,
		Blobs:    blobs,
		Channels: channels,
		Reaper:   tasks.NewAsynqReaper(queue, config.AppConfig.OrphanCleanupDelay),
		Options: onboarding.Options{
			SubmitLockTTL: config.AppConfig.SubmitLockTTL,
			RedirectDelay: config.AppConfig.RedirectDelay,
		},
	}

	handlerBundle := &handlers.HandlerBundle{
		Verifier:    verifier,
		Onboarding:  handlers.NewOnboardingHandler(onboardingService),
		ChannelInfo: handlers.NewChannelInfoHandler(channels),
		Health:      handlers.NewHealthHandler(),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle, config.AppConfig.MaxRequestsPerMin)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Sugar().Warnf("main: failed to disconnect MongoDB: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// newBlobStore picks the upload backend from STORAGE_DRIVER.
func newBlobStore(ctx context.Context, logger *zap.Logger) (storage.BlobStore, func()) {
	switch config.AppConfig.StorageDriver {
	case "firebase":
		store, err := storage.NewFirebaseStore(ctx, config.AppConfig.FirebaseCredentialsPath, config.AppConfig.FirebaseBucket)
		if err != nil {
			logger.Fatal("main: failed to initialize firebase storage", zap.Error(err))
		}
		return store, func() { _ = store.Close() }
	default:
		cld, err := utils.Cloudinary()
		if err != nil {
			logger.Fatal("main: failed to initialize cloudinary storage", zap.Error(err))
		}
		return storage.NewCloudinaryStore(cld, config.AppConfig.CloudinaryCloudName), func() {}
	}
}

// newVerifier picks the identity provider from AUTH_PROVIDER.
func newVerifier(ctx context.Context, logger *zap.Logger) middleware.TokenVerifier {
	if config.AppConfig.AuthProvider == "firebase" {
		client, err := utils.FirebaseAuth(ctx)
		if err != nil {
			logger.Fatal("main: failed to initialize firebase auth", zap.Error(err))
		}
		return middleware.FirebaseVerifier{Client: client}
	}
	if config.AppConfig.JWTSecret == "" {
		logger.Fatal("main: JWT_SECRET is required when AUTH_PROVIDER=jwt")
	}
	return middleware.JWTVerifier{Secret: []byte(config.AppConfig.JWTSecret)}
}

// newChannelLookup calls the configured proxy when CHANNEL_INFO_URL is set, the YouTube API otherwise.
func newChannelLookup(ctx context.Context, logger *zap.Logger) youtube.ChannelInfoService {
	if url := config.AppConfig.ChannelInfoURL; url != "" {
		return youtube.NewHTTPLookup(url, nil)
	}
	client, err := youtube.NewAPIClient(ctx, config.AppConfig.YouTubeAPIKey)
	if err != nil {
		logger.Fatal("main: failed to initialize YouTube client", zap.Error(err))
	}
	if config.AppConfig.YouTubeAPIKey == "" {
		logger.Warn("main: YOUTUBE_API_KEY not set; channel lookups will fail")
	}
	return client
}
