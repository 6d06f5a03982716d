package redis

import (
	"context"
	"errors"
	"movie_curator/configs"
	"movie_curator/pkg/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

var ErrNotConnected = errors.New("redis: not connected")

func ConnectRedis() {
	if configs.GetConfigs().RedisUrl == "" {
		logger.Warn().Msg("REDIS_URL is empty, lookup cache disabled")
		return
	}
	time.Sleep(time.Duration(configs.GetConfigs().WaitForRedisConnectionSec) * time.Second)
	client := redis.NewClient(&redis.Options{
		Addr:     configs.GetConfigs().RedisUrl,
		Password: configs.GetConfigs().RedisPassword,
		DB:       0,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		logger.Error().Err(err).Msg("redis ping failed, lookup cache disabled")
		return
	}
	logger.Info().Str("pong", pong).Msg("redis client connected")
	redisClient = client
}

func IsNilError(err error) bool {
	return errors.Is(err, redis.Nil)
}

func GetRedis(ctx context.Context, key string) (string, error) {
	if redisClient == nil {
		return "", ErrNotConnected
	}
	val, err := redisClient.Get(ctx, key).Result()
	return val, err
}

func SetRedis(ctx context.Context, key string, value interface{}, duration time.Duration) error {
	if redisClient == nil {
		return ErrNotConnected
	}
	err := redisClient.Set(ctx, key, value, duration).Err()
	return err
}
