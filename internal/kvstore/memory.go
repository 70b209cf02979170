package kvstore

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MemoryStore is a map-backed Store. It is the default backend and the one
// the unit tests run against.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]json.RawMessage
	logger *slog.Logger
}

func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]json.RawMessage),
		logger: logger,
	}
}

func (s *MemoryStore) Get(key string) json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.data[key]
	if !ok {
		return nil
	}
	cp := make(json.RawMessage, len(raw))
	copy(cp, raw)
	return cp
}

func (s *MemoryStore) Set(key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("Failed to serialize value", "key", key, "error", err)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return true
}

func (s *MemoryStore) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return true
}
