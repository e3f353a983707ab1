package services

import (
	"sync"
	"time"
)

// Chat session phases
const (
	PhaseGreeting = "greeting"
	PhaseInForm   = "inform"
)

// ChatSession is the state of one WhatsApp conversation
type ChatSession struct {
	SessionKey string            `json:"session_key"` // sender phone number
	Phase      string            `json:"phase"`
	Cursor     int               `json:"cursor"` // index into the question list
	Answers    map[string]string `json:"answers"`
	StartedAt  time.Time         `json:"started_at"`
}

// NewChatSession creates a fresh session in the greeting phase
func NewChatSession(sessionKey string) *ChatSession {
	return &ChatSession{
		SessionKey: sessionKey,
		Phase:      PhaseGreeting,
		Cursor:     0,
		Answers:    make(map[string]string),
		StartedAt:  time.Now(),
	}
}

// SessionStore holds chat sessions. Injected into the chatbot so the
// in-process map can be swapped for Redis when running more than one
// instance.
type SessionStore interface {
	Get(sessionKey string) (*ChatSession, bool)
	Set(session *ChatSession)
	Delete(sessionKey string)
	// Sweep removes sessions older than maxAge and returns how many
	Sweep(maxAge time.Duration) int
	Count() int
}

// MemorySessionStore keeps sessions in a process-local map. Sessions do
// not survive a restart and are not shared across instances.
type MemorySessionStore struct {
	sessions map[string]*ChatSession
	mu       sync.RWMutex
}

// NewMemorySessionStore creates a new in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*ChatSession),
	}
}

func (m *MemorySessionStore) Get(sessionKey string) (*ChatSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[sessionKey]
	return session, exists
}

func (m *MemorySessionStore) Set(session *ChatSession) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.SessionKey] = session
}

func (m *MemorySessionStore) Delete(sessionKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionKey)
}

// Sweep removes every session started more than maxAge ago. Called
// lazily on each inbound message; there is no background timer.
func (m *MemorySessionStore) Sweep(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for key, session := range m.sessions {
		if session.StartedAt.Before(cutoff) {
			delete(m.sessions, key)
			removed++
		}
	}
	return removed
}

func (m *MemorySessionStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
