package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"canteenscore/canteen-service/internal/app/canteen/entity"
	"canteenscore/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

const (
	serviceName     = "canteen-service"
	predictionKeyNS = "classifier:prediction:"
)

// PredictionCache кеширует ответы классификатора в Redis.
// Ключ - BLAKE2b-256 от байтов картинки: одинаковое фото не отправляется повторно
type PredictionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func NewPredictionCache(client *redis.Client, ttl time.Duration) *PredictionCache {
	return &PredictionCache{client: client, ttl: ttl}
}

// ImageKey - ключ кеша для содержимого картинки
func ImageKey(image []byte) string {
	sum := blake2b.Sum256(image)
	return predictionKeyNS + hex.EncodeToString(sum[:])
}

func (c *PredictionCache) Get(ctx context.Context, image []byte) (*entity.Prediction, error) {
	defer metrics.NewRedisTimer(serviceName, metrics.RedisOpGet).ObserveDuration()

	data, err := c.client.Get(ctx, ImageKey(image)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, predictionKeyNS)
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get prediction from cache: %w", err)
	}

	var prediction entity.Prediction
	if err := json.Unmarshal(data, &prediction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached prediction: %w", err)
	}

	metrics.RecordCacheHit(serviceName, predictionKeyNS)
	return &prediction, nil
}

func (c *PredictionCache) Set(ctx context.Context, image []byte, prediction *entity.Prediction) error {
	defer metrics.NewRedisTimer(serviceName, metrics.RedisOpSet).ObserveDuration()

	data, err := json.Marshal(prediction)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction: %w", err)
	}

	if err := c.client.Set(ctx, ImageKey(image), data, c.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set prediction in cache: %w", err)
	}

	return nil
}
