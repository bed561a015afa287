package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/middleware"
)

// Values pass through encoding/json on the way in and out, so anything
// cached here must survive a JSON round-trip. Fields tagged `json:"-"`
// are lost; do not cache types that rely on them.

// GetJSON reads key and unmarshals it into dest. The boolean reports
// whether the key existed; a missing key (or an unset client) is not an
// error.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and writes it under key with the given TTL. A nil
// client makes this a no-op.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside serves key from Redis when present; on a miss it runs fetch,
// which must fill dest, and stores the result best-effort. A broken
// cache read is treated as a miss so the source of truth still answers.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache read failed, falling back to source",
			"key", key, "error", err)
		found = false
	}
	if found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}
