package services

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisSessionStore(t *testing.T) (*miniredis.Miniredis, *RedisSessionStore) {
	t.Helper()

	mr := miniredis.NewMiniRedis()
	if err := mr.Start(); err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	return mr, NewRedisSessionStore(mr.Addr(), "", SessionTTL)
}

func TestRedisSessionStore_CRUD(t *testing.T) {
	mr, store := setupRedisSessionStore(t)
	defer mr.Close()

	_, ok := store.Get("whatsapp:+919876543210")
	assert.False(t, ok)

	session := NewChatSession("whatsapp:+919876543210")
	session.Phase = PhaseInForm
	session.Cursor = 3
	session.Answers["student_name"] = "Asha Rao"
	store.Set(session)

	got, ok := store.Get("whatsapp:+919876543210")
	require.True(t, ok)
	assert.Equal(t, PhaseInForm, got.Phase)
	assert.Equal(t, 3, got.Cursor)
	assert.Equal(t, "Asha Rao", got.Answers["student_name"])
	assert.Equal(t, 1, store.Count())

	store.Delete("whatsapp:+919876543210")
	_, ok = store.Get("whatsapp:+919876543210")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Count())
}

func TestRedisSessionStore_ExpiryIsFixedFromSessionStart(t *testing.T) {
	mr, store := setupRedisSessionStore(t)
	defer mr.Close()

	session := NewChatSession("whatsapp:+919876543210")
	session.StartedAt = time.Now().Add(-23 * time.Hour)
	store.Set(session)

	// Answering again must not push expiry back out to the full window
	session.Cursor = 1
	store.Set(session)

	ttl := mr.TTL(redisSessionPrefix + "whatsapp:+919876543210")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestRedisSessionStore_StaleSessionIsDroppedOnWrite(t *testing.T) {
	mr, store := setupRedisSessionStore(t)
	defer mr.Close()

	session := NewChatSession("whatsapp:+919876543210")
	session.StartedAt = time.Now().Add(-25 * time.Hour)
	store.Set(session)

	_, ok := store.Get("whatsapp:+919876543210")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Count())
}

func TestRedisSessionStore_KeysExpireServerSide(t *testing.T) {
	mr, store := setupRedisSessionStore(t)
	defer mr.Close()

	session := NewChatSession("whatsapp:+919876543210")
	store.Set(session)

	mr.FastForward(SessionTTL + time.Minute)

	_, ok := store.Get("whatsapp:+919876543210")
	assert.False(t, ok)
}
