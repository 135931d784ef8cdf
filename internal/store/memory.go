package store

import (
	"context"
	"sync"
)

// MemoryStore is the in-process backend used in tests and as the failover
// fallback. Contents are lost on restart.
type MemoryStore struct {
	values sync.Map
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok := s.values.Load(key)
	if !ok {
		return nil, false, nil
	}
	return val.([]byte), true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	buf := make([]byte, len(value))
	copy(buf, value)
	s.values.Store(key, buf)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.values.Delete(key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
