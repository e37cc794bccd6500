// Package memory provides the in-process KV fallback for single-instance
// deployments or when the shared store is unreachable.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/louisbranch/roster.space/internal/store"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Store is a mutex-guarded map satisfying store.KV. Expired entries are
// reclaimed lazily on access and swept opportunistically on writes.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time

	writes int
}

// sweepInterval is the number of writes between full expiry sweeps.
const sweepInterval = 64

// New returns an empty in-process store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// NewWithClock returns a store using the supplied clock. Tests use this to
// step time without sleeping.
func NewWithClock(now func() time.Time) *Store {
	s := New()
	s.now = now
	return s
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || s.expired(e) {
		delete(s.entries, key)
		return nil, store.ErrAbsent
	}
	return append([]byte(nil), e.value...), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(key, value, ttl)
	return nil
}

func (s *Store) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && !s.expired(e) {
		return store.ErrExists
	}
	s.put(key, value, ttl)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// put stores the entry and occasionally sweeps expired neighbors so a
// long-lived process doesn't accumulate dead keys. Callers hold the mutex.
func (s *Store) put(key string, value []byte, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = entry{value: append([]byte(nil), value...), expiresAt: expiresAt}

	s.writes++
	if s.writes%sweepInterval == 0 {
		for k, e := range s.entries {
			if s.expired(e) {
				delete(s.entries, k)
			}
		}
	}
}

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}
