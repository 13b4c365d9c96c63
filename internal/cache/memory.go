package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore keeps payloads in process, for single-instance deployments without Redis.
type memoryStore struct {
	items *gocache.Cache
}

func newMemoryStore(ttl time.Duration) *memoryStore {
	return &memoryStore{items: gocache.New(ttl, 2*ttl)}
}

func (s *memoryStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	payload, ok := v.([]byte)
	return payload, ok, nil
}

func (s *memoryStore) set(ctx context.Context, key string, payload []byte) error {
	s.items.SetDefault(key, payload)
	return nil
}

func (s *memoryStore) deletePrefix(ctx context.Context, prefix string) error {
	for key := range s.items.Items() {
		if strings.HasPrefix(key, prefix) {
			s.items.Delete(key)
		}
	}
	return nil
}

func (s *memoryStore) close() error {
	s.items.Flush()
	return nil
}
