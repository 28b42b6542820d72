package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is the single-device adapter: a process-local map with JSON
// value round-tripping. It is also the fact overlay the Postgres adapter
// serves reads from.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string]json.RawMessage
	revision int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]json.RawMessage),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string, out any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode value for %q: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}
	s.mu.Lock()
	s.values[key] = raw
	s.revision++
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.revision++
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) AddToSet(ctx context.Context, key string, member string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var members []string
	if raw, ok := s.values[key]; ok {
		if err := json.Unmarshal(raw, &members); err != nil {
			return false, fmt.Errorf("key %q does not hold a set: %w", key, err)
		}
	}
	for _, m := range members {
		if m == member {
			return false, nil
		}
	}
	members = append(members, member)
	raw, err := json.Marshal(members)
	if err != nil {
		return false, err
	}
	s.values[key] = raw
	s.revision++
	return true, nil
}

func (s *MemoryStore) InSet(_ context.Context, key string, member string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.values[key]
	if !ok {
		return false, nil
	}
	var members []string
	if err := json.Unmarshal(raw, &members); err != nil {
		return false, fmt.Errorf("key %q does not hold a set: %w", key, err)
	}
	for _, m := range members {
		if m == member {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *MemoryStore) Flush(context.Context) error {
	return nil
}

// raw returns the stored JSON for key without decoding it.
func (s *MemoryStore) raw(key string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false
	}
	cp := make(json.RawMessage, len(v))
	copy(cp, v)
	return cp, true
}

// Snapshot returns a copy of every stored key and raw value.
func (s *MemoryStore) Snapshot() map[string]json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]json.RawMessage, len(s.values))
	for k, v := range s.values {
		cp := make(json.RawMessage, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// Restore replaces the full store contents. Used by import and by the
// Postgres adapter's initial load.
func (s *MemoryStore) Restore(values map[string]json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		cp := make(json.RawMessage, len(v))
		copy(cp, v)
		s.values[k] = cp
	}
	s.revision++
}
