package kvstore

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
)

// FileStore keeps the whole key space in memory and persists it to a single
// JSON snapshot file after every write. The snapshot is written to a
// temporary file and renamed into place so a crash mid-write cannot corrupt
// the previous snapshot.
type FileStore struct {
	mu     sync.Mutex
	path   string
	data   map[string]json.RawMessage
	logger *slog.Logger
}

// NewFileStore opens (or creates) the snapshot at path.
func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		data:   make(map[string]json.RawMessage),
		logger: logger,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Get(key string) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[key]
	if !ok {
		return nil
	}
	cp := make(json.RawMessage, len(raw))
	copy(cp, raw)
	return cp
}

func (s *FileStore) Set(key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("Failed to serialize value", "key", key, "error", err)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return s.persist()
}

func (s *FileStore) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.persist()
}

// persist writes the snapshot atomically. Callers hold the lock.
func (s *FileStore) persist() bool {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		s.logger.Error("Failed to serialize snapshot", "path", s.path, "error", err)
		return false
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.logger.Error("Failed to write snapshot", "path", tmp, "error", err)
		return false
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.Error("Failed to replace snapshot", "path", s.path, "error", err)
		return false
	}
	return true
}
