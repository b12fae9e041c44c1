package trivia

import (
	"context"
	"errors"
	"sync"
)

// ErrSessionNotFound indicates no session exists for the given id.
var ErrSessionNotFound = errors.New("trivia session not found")

// Session is one in-progress game: the index of the current question and
// the running score. Index is always a valid question index while the
// session exists; reaching the question count deletes the session.
type Session struct {
	Index int `json:"index"`
	Score int `json:"score"`
}

// Store holds trivia sessions keyed by session id. At most one session
// exists per id at a time. Implementations must be safe for concurrent
// use by multiple tool invocations.
type Store interface {
	// Get returns the session for the id, or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*Session, error)
	// Put creates or replaces the session for the id.
	Put(ctx context.Context, id string, sess *Session) error
	// Delete removes the session for the id. Deleting a missing session
	// is not an error.
	Delete(ctx context.Context, id string) error
}

// MemoryStore is a mutex-guarded in-memory session store. State is lost
// on restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
	}
}

// Get returns a copy of the stored session so callers cannot mutate
// shared state without a Put.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Put creates or replaces the session for the id.
func (s *MemoryStore) Put(ctx context.Context, id string, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = *sess
	return nil
}

// Delete removes the session for the id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
