package query

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Entry is one cached read. Generation is the root's generation when the
// fetch started; a later invalidation bumps the root past it.
type Entry struct {
	Data       json.RawMessage `json:"data"`
	FetchedAt  time.Time       `json:"fetched_at"`
	Generation uint64          `json:"generation"`
}

type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
	Generation(ctx context.Context, root string) (uint64, error)
	Invalidate(ctx context.Context, root string) (uint64, error)
}

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// memorySweepInterval is the least time between two sweeps of expired
// entries, which run on Set.
const memorySweepInterval = time.Minute

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu          sync.Mutex
	items       map[string]memoryItem
	generations map[string]uint64
	now         func() time.Time
	lastSweep   time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:       make(map[string]memoryItem),
		generations: make(map[string]uint64),
		now:         time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		return Entry{}, false, nil
	}
	if !item.expiresAt.IsZero() && s.now().After(item.expiresAt) {
		delete(s.items, key)
		return Entry{}, false, nil
	}
	return item.entry, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= memorySweepInterval {
		s.sweep(now)
	}

	item := memoryItem{entry: entry}
	if ttl > 0 {
		item.expiresAt = now.Add(ttl)
	}
	s.items[key] = item
	return nil
}

// sweep drops expired entries. Keys that are never read again, such as
// one-off searches, would otherwise stay until the process exits.
func (s *MemoryStore) sweep(now time.Time) {
	for key, item := range s.items {
		if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
			delete(s.items, key)
		}
	}
	s.lastSweep = now
}

func (s *MemoryStore) Generation(_ context.Context, root string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[root], nil
}

func (s *MemoryStore) Invalidate(_ context.Context, root string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[root]++
	return s.generations[root], nil
}

// Len reports the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
