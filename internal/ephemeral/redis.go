package ephemeral

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"clubconnect/entity"
	"clubconnect/internal/config"
)

// RedisStore keeps verification state in redis so in-flight OTPs and approval
// tokens survive restarts and can be shared across instances.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(conf *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", conf.Redis.Host, conf.Redis.Port),
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	return &RedisStore{client: client, ctx: ctx}, nil
}

func (s *RedisStore) Put(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(s.ctx, key, data, ttl).Err()
}

func (s *RedisStore) Get(key string, dest interface{}) error {
	data, err := s.client.Get(s.ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis get: %w", err)
	}
	return json.Unmarshal(data, dest)
}

func (s *RedisStore) Delete(key string) error {
	return s.client.Del(s.ctx, key).Err()
}

// Sweep is a no-op: redis expires keys natively.
func (s *RedisStore) Sweep() int {
	return 0
}
