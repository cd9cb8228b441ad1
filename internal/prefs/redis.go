package prefs

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error matching

	"github.com/redis/go-redis/v9" // Redis client
)

// DefaultRedisKey is where the theme is stored
const DefaultRedisKey = "walletctl:theme"

type themeRecord struct {
	Theme Theme `json:"theme"` // Saved theme
}

// RedisStore keeps the theme in Redis without expiry
type RedisStore struct {
	rdb *redis.Client // Redis client
	key string        // Key holding the preference
}

// NewRedisStore uses DefaultRedisKey when key is empty
func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

// Load returns the saved theme or DefaultTheme
func (s *RedisStore) Load(ctx context.Context) (Theme, error) {
	var rec themeRecord
	found, err := getJSON(ctx, s.rdb, s.key, &rec)
	if err != nil || !found {
		return DefaultTheme, err
	}
	return ParseTheme(string(rec.Theme)), nil
}

// Save writes the theme
func (s *RedisStore) Save(ctx context.Context, theme Theme) error {
	return setJSON(ctx, s.rdb, s.key, themeRecord{Theme: theme})
}

// getJSON retrieves a value from Redis and unmarshals it into dest
func getJSON(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// setJSON stores value as JSON with no TTL
func setJSON(ctx context.Context, rdb *redis.Client, key string, value any) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, 0).Err() // Persist without expiry
}
