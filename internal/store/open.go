package store

import (
	"fmt"

	"github.com/mmcdole/marquee/internal/domain"
)

// Backend names accepted by Open
const (
	BackendBolt   = "bolt"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Open returns the store for the configured backend.
// An empty baseCacheDir always yields a memory-only store.
func Open(backend, baseCacheDir, apiURL string) (domain.Store, error) {
	if baseCacheDir == "" {
		return NewMemoryStore(), nil
	}

	switch backend {
	case "", BackendBolt:
		s, err := NewBoltStore(baseCacheDir, apiURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendBadger:
		s, err := NewBadgerStore(baseCacheDir, apiURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
