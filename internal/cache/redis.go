package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var client *redis.Client

// InitRedis connects the package-level client. An empty REDIS_ADDR leaves
// caching disabled and every helper becomes a no-op.
func InitRedis(cfg *config.Config, log *zap.Logger) {
	if cfg.RedisAddr == "" {
		log.Info("redis disabled, REDIS_ADDR not set")
		return
	}

	c := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		log.Fatal("redis ping failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	client = c
	log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
}

// GetJSON reads key and, if present, decodes it into dest.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}

	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value as JSON with the given TTL.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if client == nil {
		return nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Delete drops the given keys.
func Delete(ctx context.Context, keys ...string) error {
	if client == nil || len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}

func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}
