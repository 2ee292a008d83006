package rdx

import (
	"context"
	"encoding/json"
	"time"

	"roamly/globals"
	"roamly/logger"

	"github.com/redis/go-redis/v9"
)

// Conn is the shared redis client. Caching is best effort: every helper
// degrades to a miss when redis is unreachable.
var Conn *redis.Client

func init() {
	Conn = redis.NewClient(&redis.Options{
		Addr: globals.Env("REDIS_ADDR", "localhost:6379"),
	})
}

// Cache keys for the read-heavy tour listings.
const (
	KeyTourStats = "tours:stats"
	KeyTopTours  = "tours:top5"
)

// GetJSON loads and decodes a cached value. ok=false on miss or error.
func GetJSON[T any](ctx context.Context, key string) (T, bool) {
	var out T
	raw, err := Conn.Get(ctx, key).Result()
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		Conn.Del(ctx, key)
		return out, false
	}
	return out, true
}

// SetJSON stores a value with a TTL. Failures are logged, not surfaced.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := Conn.Set(ctx, key, raw, ttl).Err(); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// InvalidateTourCaches drops the derived listings after any tour or
// rating write.
func InvalidateTourCaches(ctx context.Context) {
	if err := Conn.Del(ctx, KeyTourStats, KeyTopTours).Err(); err != nil {
		logger.Log.Warn().Err(err).Msg("cache invalidation failed")
	}
}
