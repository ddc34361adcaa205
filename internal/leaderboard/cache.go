package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"benchboard/internal/api/dto"
	"benchboard/internal/config"
)

const (
	cacheKeyPrefix = "benchboard:leaderboard:"
	cacheOpTimeout = 2 * time.Second
)

var (
	cacheMu     sync.RWMutex
	cacheClient *redis.Client
	fillGroup   singleflight.Group
)

// EnableCache turns on best-effort page caching. Without it every
// query goes straight to the database, which stays correct, just
// slower under load.
func EnableCache(client *redis.Client) {
	cacheMu.Lock()
	cacheClient = client
	cacheMu.Unlock()
}

func getCacheClient() *redis.Client {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	return cacheClient
}

// GetPage serves a leaderboard page through the cache. Concurrent
// misses for the same key collapse into a single database fill.
func GetPage(ctx context.Context, deviceType string, page, limit int) (dto.LeaderboardResponse, error) {
	page, limit = ClampPaging(page, limit)

	client := getCacheClient()
	ttl := time.Duration(config.GetConfig().Leaderboard.CacheTTLSeconds) * time.Second
	if client == nil || ttl <= 0 {
		return BuildPage(deviceType, page, limit)
	}

	key := fmt.Sprintf("%s%s:%d:%d", cacheKeyPrefix, deviceType, page, limit)

	opCtx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	if payload, err := client.Get(opCtx, key).Result(); err == nil {
		var cached dto.LeaderboardResponse
		if err := json.Unmarshal([]byte(payload), &cached); err == nil {
			return cached, nil
		}
		log.Warn("Discarding undecodable leaderboard cache entry", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		log.Warn("Leaderboard cache read failed", "key", key, "error", err)
	}

	result, err, _ := fillGroup.Do(key, func() (any, error) {
		response, err := BuildPage(deviceType, page, limit)
		if err != nil {
			return nil, err
		}

		if payload, err := json.Marshal(response); err == nil {
			storeCtx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
			defer cancel()
			if err := client.Set(storeCtx, key, payload, ttl).Err(); err != nil {
				log.Warn("Leaderboard cache write failed", "key", key, "error", err)
			}
		}

		return response, nil
	})
	if err != nil {
		return dto.LeaderboardResponse{}, err
	}

	return result.(dto.LeaderboardResponse), nil
}

// InvalidateCache drops every cached page. Called after any write to
// the result set; readers repopulate lazily.
func InvalidateCache(ctx context.Context) {
	client := getCacheClient()
	if client == nil {
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	iter := client.Scan(opCtx, 0, cacheKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(opCtx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn("Leaderboard cache scan failed", "error", err)
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := client.Del(opCtx, keys...).Err(); err != nil {
		log.Warn("Leaderboard cache invalidation failed", "error", err)
	}
}
