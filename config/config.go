package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Identity: "jwt" verifies HS256 tokens with JWTSecret, "firebase" verifies Firebase ID tokens.
	AuthProvider            string `mapstructure:"AUTH_PROVIDER"`
	JWTSecret               string `mapstructure:"JWT_SECRET"`
	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	FirebaseBucket          string `mapstructure:"FIREBASE_BUCKET"`

	// Blob storage: "cloudinary" or "firebase".
	StorageDriver       string `mapstructure:"STORAGE_DRIVER"`
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// YouTube Data API key used by the channel-info proxy.
	YouTubeAPIKey string `mapstructure:"YOUTUBE_API_KEY"`
	// Optional external channel-info endpoint; when empty the API is called in-process.
	ChannelInfoURL string `mapstructure:"CHANNEL_INFO_URL"`

	// Onboarding tuning.
	DraftTTL           time.Duration `mapstructure:"DRAFT_TTL"`
	SubmitLockTTL      time.Duration `mapstructure:"SUBMIT_LOCK_TTL"`
	OrphanCleanupDelay time.Duration `mapstructure:"ORPHAN_CLEANUP_DELAY"`
	RedirectDelay      time.Duration `mapstructure:"REDIRECT_DELAY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "collabhub")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("AUTH_PROVIDER", "jwt")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	viper.SetDefault("FIREBASE_BUCKET", "")
	viper.SetDefault("STORAGE_DRIVER", "cloudinary")
	viper.SetDefault("YOUTUBE_API_KEY", "")
	viper.SetDefault("CHANNEL_INFO_URL", "")
	viper.SetDefault("DRAFT_TTL", 7*24*time.Hour)
	viper.SetDefault("SUBMIT_LOCK_TTL", 2*time.Minute)
	viper.SetDefault("ORPHAN_CLEANUP_DELAY", 30*time.Minute)
	viper.SetDefault("REDIRECT_DELAY", 1200*time.Millisecond)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
