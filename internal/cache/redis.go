// Package cache реализует кеш на основе Redis: JSON-кеширование списков,
// denylist отозванных токенов и дедупликацию просмотров.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minwoojang/husband-er/internal/config"
)

// Cache обёртка над клиентом Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis по настройкам из конфига.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Get пытается получить значение из кеша по ключу.
func (c *Cache) Get(key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	err = json.Unmarshal([]byte(val), result)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение в кеш с временем жизни.
func (c *Cache) Set(key string, value any, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Db.Set(context.Background(), key, jsonData, expiration).Err()
}

// Invalidate удаляет значение из кеша по ключу.
func (c *Cache) Invalidate(key string) error {
	return c.Db.Del(context.Background(), key).Err()
}

// DenyToken помещает идентификатор токена в denylist на время его жизни.
// Используется при выходе из системы.
func (c *Cache) DenyToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	const op = "cache.DenyToken"
	if err := c.Db.Set(ctx, "deny:"+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// TokenDenied проверяет, отозван ли токен.
func (c *Cache) TokenDenied(ctx context.Context, tokenID string) (bool, error) {
	const op = "cache.TokenDenied"
	_, err := c.Db.Get(ctx, "deny:"+tokenID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// MarkViewed отмечает просмотр поста пользователем на время ttl.
// Возвращает true, если это первый просмотр за период: SETNX выступает
// атомарным примитивом, так что параллельные вкладки не накручивают счётчик.
func (c *Cache) MarkViewed(ctx context.Context, userUID string, postID int, ttl time.Duration) (bool, error) {
	const op = "cache.MarkViewed"
	key := fmt.Sprintf("viewed:%s:%d", userUID, postID)
	first, err := c.Db.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return first, nil
}
