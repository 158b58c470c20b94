package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"machflow/pkg/logger"
)

// MemoryStore is the ephemeral Store used by tests and by runs without a
// durable path. Values are kept as raw JSON so decode behavior matches the
// SQLite store exactly.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]json.RawMessage
	logger logger.Logger
}

func NewMemoryStore(logger logger.Logger) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]json.RawMessage),
		logger: logger,
	}
}

func (s *MemoryStore) Get(key string, dest interface{}) error {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return ErrKeyNotFound
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("Bozuk JSON değeri, anahtar yok sayılıyor", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return ErrKeyNotFound
	}

	return nil
}

func (s *MemoryStore) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("değer encode edilemedi: %w", err)
	}

	s.mu.Lock()
	s.data[key] = data
	s.mu.Unlock()
	return nil
}

// SetRaw stores an arbitrary byte payload without encoding, the way an
// external flow (or corruption) could leave it.
func (s *MemoryStore) SetRaw(key string, raw []byte) {
	s.mu.Lock()
	s.data[key] = json.RawMessage(raw)
	s.mu.Unlock()
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Has(key string) (bool, error) {
	s.mu.RLock()
	_, ok := s.data[key]
	s.mu.RUnlock()
	return ok, nil
}

func (s *MemoryStore) Ping() error {
	return nil
}
