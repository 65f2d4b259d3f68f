package helpers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisGetJSON decodes the JSON value at key into dest. It reports false when
// the key does not exist.
func RedisGetJSON[T any](ctx context.Context, rdb redis.Cmdable, key string, dest *T) (bool, error) {
	res, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(res, dest); err != nil {
		return false, err
	}
	return true, nil
}

// RedisMGetJSON decodes the JSON values at keys. Missing keys yield ok=false
// at their index.
func RedisMGetJSON[T any](ctx context.Context, rdb redis.Cmdable, keys ...string) ([]T, []bool, error) {
	out := make([]T, len(keys))
	found := make([]bool, len(keys))
	if len(keys) == 0 {
		return out, found, nil
	}
	vals, err := rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(s), &out[i]); err != nil {
			return nil, nil, err
		}
		found[i] = true
	}
	return out, found, nil
}
