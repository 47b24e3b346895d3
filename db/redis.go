package db

import (
	"context"
	"fmt"
	"time"

	"stonehub/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis 初始化Redis连接并测试连通性
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// CheckRedis performs a set/get/del round trip on a throwaway key.
func CheckRedis(ctx context.Context, client *redis.Client) error {
	const key = "stonehub:healthcheck"
	const want = "Redis connection successful!"

	if err := client.Set(ctx, key, want, time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set Redis key: %w", err)
	}

	val, err := client.Get(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to get Redis key: %w", err)
	}
	if val != want {
		return fmt.Errorf("unexpected value from Redis: got %s", val)
	}

	if err := client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete Redis key: %w", err)
	}
	return nil
}
