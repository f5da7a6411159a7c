// Package ephemeral holds short-lived verification state: OTP challenges and
// club-join approval tokens. The store is injected into services so tests can
// swap it and so the in-memory backend can be replaced by redis without
// touching workflow code. Entries expire by TTL; nothing here survives a
// restart unless the redis backend is configured.
package ephemeral

import (
	"encoding/json"
	"sync"
	"time"

	"clubconnect/entity"
)

type Store interface {
	// Put stores value under key for ttl. An existing entry is overwritten,
	// which is how OTP resends replace the previous challenge.
	Put(key string, value interface{}, ttl time.Duration) error
	// Get decodes the entry into dest; entity.ErrNotFound when the key is
	// absent or expired.
	Get(key string, dest interface{}) error
	Delete(key string) error
	// Sweep drops expired entries and reports how many were removed. The
	// redis backend expires natively and always reports zero.
	Sweep() int
}

type memoryEntry struct {
	data   []byte
	expiry time.Time
}

// MemoryStore is the default backend: a mutex-guarded map with lazy expiry on
// read plus the periodic sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{data: data, expiry: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(key string, dest interface{}) error {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return entity.ErrNotFound
	}
	if s.now().After(entry.expiry) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return entity.ErrNotFound
	}
	return json.Unmarshal(entry.data, dest)
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, entry := range s.entries {
		if now.After(entry.expiry) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// SetClock overrides the time source; used by tests to force expiry.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
