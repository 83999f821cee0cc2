package rdx

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

func Set(key, value string) error {
	return Conn.Set(context.Background(), key, value, 0).Err()
}

func Get(key string) (string, error) {
	return Conn.Get(context.Background(), key).Result()
}

func Del(key string) (int64, error) {
	return Conn.Del(context.Background(), key).Result()
}

// GetJSON reads a cached JSON value into out; returns false on miss or
// decode failure so callers fall through to the database.
func GetJSON(ctx context.Context, key string, out interface{}) bool {
	val, err := Conn.Get(ctx, key).Result()
	if err != nil || val == "" {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

// SetJSON caches a JSON-encoded value with a TTL; failures are ignored,
// the cache is best-effort.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = Conn.Set(ctx, key, data, ttl).Err()
}
