// Package memory provides an in-process KVStore used by tests and by the
// CLI when no database is wanted.
package memory

import (
	"context"
	"sync"
)

// KVStore keeps collections in a map. Values are copied on the way in and
// out so callers never share backing arrays with the store.
type KVStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailPuts, when set, is returned by every Put and nothing is written.
	FailPuts error
	// FailKeys fails Put for the listed keys only.
	FailKeys map[string]error
}

func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string][]byte)}
}

func (s *KVStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *KVStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailPuts != nil {
		return s.FailPuts
	}
	if err := s.FailKeys[key]; err != nil {
		return err
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Keys returns the stored keys, for assertions in tests.
func (s *KVStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}
