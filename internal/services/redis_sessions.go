package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSessionPrefix = "admitflow:session:"

// RedisSessionStore keeps chat sessions in Redis so multiple instances
// can serve the same conversation. Expiry is handled by Redis TTLs, so
// Sweep has nothing to do.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	ctx    context.Context
}

// NewRedisSessionStore creates a Redis-backed session store
func NewRedisSessionStore(addr, password string, ttl time.Duration) *RedisSessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
		ctx:    context.Background(),
	}
}

func (r *RedisSessionStore) Get(sessionKey string) (*ChatSession, bool) {
	data, err := r.client.Get(r.ctx, redisSessionPrefix+sessionKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️  Redis session read failed for %s: %v", sessionKey, err)
		}
		return nil, false
	}

	var session ChatSession
	if err := json.Unmarshal(data, &session); err != nil {
		log.Printf("⚠️  Corrupt session payload for %s, dropping: %v", sessionKey, err)
		r.Delete(sessionKey)
		return nil, false
	}
	return &session, true
}

func (r *RedisSessionStore) Set(session *ChatSession) {
	// Expiry is fixed at ttl past StartedAt; rewriting the session on
	// every answer must not slide it forward
	remaining := r.ttl - time.Since(session.StartedAt)
	if remaining <= 0 {
		r.Delete(session.SessionKey)
		return
	}

	data, err := json.Marshal(session)
	if err != nil {
		log.Printf("⚠️  Failed to marshal session %s: %v", session.SessionKey, err)
		return
	}

	if err := r.client.Set(r.ctx, redisSessionPrefix+session.SessionKey, data, remaining).Err(); err != nil {
		log.Printf("⚠️  Redis session write failed for %s: %v", session.SessionKey, err)
	}
}

func (r *RedisSessionStore) Delete(sessionKey string) {
	if err := r.client.Del(r.ctx, redisSessionPrefix+sessionKey).Err(); err != nil {
		log.Printf("⚠️  Redis session delete failed for %s: %v", sessionKey, err)
	}
}

// Sweep is a no-op: keys carry their own TTL
func (r *RedisSessionStore) Sweep(maxAge time.Duration) int {
	return 0
}

func (r *RedisSessionStore) Count() int {
	var count int
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(r.ctx, cursor, redisSessionPrefix+"*", 100).Result()
		if err != nil {
			log.Printf("⚠️  Redis session scan failed: %v", err)
			return count
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return count
}
