package session

import (
	"sync"

	"github.com/tgfetch/video-bot/internal/model"
)

// Session is the flow state kept per user between interactions. ContentType
// stays empty until the user picks one; it is only ever set after URL and
// VideoInfo are.
type Session struct {
	CurrentURL  string
	VideoInfo   *model.VideoInfo
	ContentType model.ContentType
}

// State derives the flow state from what has been filled in so far.
func (s *Session) State() model.FlowState {
	switch {
	case s == nil || s.CurrentURL == "":
		return model.FlowIdle
	case s.ContentType == "":
		return model.FlowAwaitingContentType
	default:
		return model.FlowAwaitingQuality
	}
}

// Store is the per-user session storage the flow consumes. Implementations
// must be safe for concurrent use by handler goroutines.
type Store interface {
	Get(userID int64) (*Session, bool)
	Set(userID int64, s *Session)
	Clear(userID int64)
}

// MemoryStore keeps sessions in a mutex-guarded map.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

// Get returns a copy of the user's session so callers can mutate freely and
// commit with Set.
func (m *MemoryStore) Get(userID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, false
	}
	copied := *s
	return &copied, true
}

func (m *MemoryStore) Set(userID int64, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	m.sessions[userID] = &copied
}

func (m *MemoryStore) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
