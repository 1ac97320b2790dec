// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/AKM-dv/aafa-partner/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient backs the durable provider session record.
	SessionCacheClient *redis.Client
	// OrdersCacheClient backs the persisted live-order list.
	OrdersCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client for the session store.
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := SessionCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Session): %v", err)
	}
}

// GetSessionCacheClient returns the session store client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitOrdersCache initializes the Redis client for the order store.
func InitOrdersCache() {
	OrdersCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisOrdersDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := OrdersCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Orders): %v", err)
	}
}

// GetOrdersCacheClient returns the order store client.
func GetOrdersCacheClient() *redis.Client {
	if OrdersCacheClient == nil {
		InitOrdersCache()
	}
	return OrdersCacheClient
}

// InitRedis initializes all Redis clients used by the app.
func InitRedis() {
	InitSessionCache()
	InitOrdersCache()
}
