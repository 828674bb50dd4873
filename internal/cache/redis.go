package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes the Redis connection. The server degrades gracefully
// without Redis: every helper below becomes a no-op when the client is
// nil.
func Init() error {
	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client, nil when degraded
func GetClient() *redis.Client {
	return client
}

func authKey(email string) string {
	h := sha256.Sum256([]byte(email))
	return "auth:" + hex.EncodeToString(h[:])
}

func credentialHash(email, password string) string {
	h := sha256.Sum256([]byte(email + ":" + password))
	return hex.EncodeToString(h[:])
}

// GetCachedAuth returns a cached user id for verified credentials
func GetCachedAuth(ctx context.Context, email, password string) (int, bool) {
	if client == nil {
		return 0, false
	}
	stored, err := client.Get(ctx, authKey(email)).Result()
	if err != nil {
		return 0, false
	}
	var hash string
	var id int
	if _, err := fmt.Sscanf(stored, "%64s %d", &hash, &id); err != nil {
		return 0, false
	}
	if hash != credentialHash(email, password) {
		return 0, false
	}
	return id, true
}

// CacheAuth stores a verified credential hash briefly so repeated logins
// skip the bcrypt check
func CacheAuth(ctx context.Context, email, password string, userID int) {
	if client == nil {
		return
	}
	value := fmt.Sprintf("%s %d", credentialHash(email, password), userID)
	client.Set(ctx, authKey(email), value, 15*time.Minute)
}

// InvalidateAuth drops a user's cached credential hash, used on
// password change and account updates
func InvalidateAuth(ctx context.Context, email string) {
	if client == nil {
		return
	}
	client.Del(ctx, authKey(email))
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateTrialCaches clears trial-related caches.
// Called when: CreateTrial, UpdateTrial, DeleteTrial
func InvalidateTrialCaches(ctx context.Context) {
	InvalidatePattern(ctx, "trial:*")
}

// InvalidateREPCaches clears REP-related caches, including the derived
// vendor projection.
// Called when: CreateREP, UpdateREP, DeleteREP
func InvalidateREPCaches(ctx context.Context) {
	InvalidatePattern(ctx, "rep:*")
	InvalidatePattern(ctx, "vendor:*")
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
