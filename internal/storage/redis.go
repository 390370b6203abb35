package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/nairacharge/topup-backend/internal/models"
)

const (
	sessionKeyPrefix = "topup:session:"
	dedupKeyPrefix   = "topup:event:"
)

// RedisStore backs sessions and event dedup with Redis so state survives
// restarts and multiple instances see the same conversation.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store from an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

// Get returns the stored session or a fresh start-step session when the
// key is missing or has expired. A corrupt record is treated as absent
// rather than failing the whole event.
func (r *RedisStore) Get(ctx context.Context, userID string) (*models.Session, error) {
	val, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return models.NewSession(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		log.Printf("⚠️  Corrupt session record for %s, starting fresh: %v", userID, err)
		return models.NewSession(userID), nil
	}
	return &session, nil
}

// Put upserts the session JSON with a fresh TTL.
func (r *RedisStore) Put(ctx context.Context, userID string, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(userID), data, SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}

// Delete removes the session key. Idempotent.
func (r *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

// Seen records the provider message ID with SETNX. A failed SETNX means
// another delivery of the same event got there first.
func (r *RedisStore) Seen(ctx context.Context, messageID string) (bool, error) {
	ok, err := r.client.SetNX(ctx, dedupKeyPrefix+messageID, 1, DedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record event id in redis: %w", err)
	}
	return !ok, nil
}
