package utils

import (
	"context"
	"log"
	"time"

	"collabhub/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionClient holds onboarding drafts, staged files and submit locks.
	SessionClient *redis.Client
)

// InitSessionCache initializes the Redis client for onboarding sessions (DB from AppConfig).
func InitSessionCache() {
	SessionClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := SessionClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Sessions): %v", err)
	}
}

// GetSessionClient returns the onboarding session client.
func GetSessionClient() *redis.Client {
	if SessionClient == nil {
		InitSessionCache()
	}
	return SessionClient
}

