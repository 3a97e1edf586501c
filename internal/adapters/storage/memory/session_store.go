package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// SessionStore - SessionStorePort в памяти процесса.
// Используется по умолчанию и в тестах; данные живут до перезапуска.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]map[string]string)}
}

func (s *SessionStore) Get(ctx context.Context, sessionID uuid.UUID, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.sessions[sessionID]
	if !ok {
		return "", false, nil
	}
	value, ok := values[key]
	return value, ok, nil
}

func (s *SessionStore) Set(ctx context.Context, sessionID uuid.UUID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.sessions[sessionID]
	if !ok {
		values = make(map[string]string)
		s.sessions[sessionID] = values
	}
	values[key] = value
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID uuid.UUID, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(values, key)
	}
	if len(values) == 0 {
		delete(s.sessions, sessionID)
	}
	return nil
}
