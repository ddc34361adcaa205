package bootstrap

import (
	"context"

	"github.com/charmbracelet/log"

	"benchboard/internal/config"
	"benchboard/internal/database"
	"benchboard/internal/geoip"
	"benchboard/internal/leaderboard"
	"benchboard/internal/support"
)

func Setup() {
	config.ReadSettings()

	if _, err := database.SetupDB(); err != nil {
		log.Fatalf("failed to set up database: %v", err)
	}

	if err := geoip.Load(); err != nil {
		log.Error("Failed to load GeoLite database", "error", err)
	}

	redisClient, err := support.GetRedisClient()
	if err != nil {
		log.Warn("Redis unavailable, leaderboard caching and config sync disabled", "error", err)
		return
	}

	leaderboard.EnableCache(redisClient)
	config.EnableRedisSynchronization(context.Background(), redisClient)
}
