package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/roster.space/internal/store"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	return NewWithClock(clock.Now), clock
}

func TestGetSetDelete(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, store.ErrAbsent) {
		t.Fatalf("get missing = %v, want ErrAbsent", err)
	}
	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("get = %q, %v", got, err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, store.ErrAbsent) {
		t.Fatalf("get deleted = %v, want ErrAbsent", err)
	}
}

func TestSetIfAbsent(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	if err := s.SetIfAbsent(ctx, "lock", []byte("a"), time.Second); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := s.SetIfAbsent(ctx, "lock", []byte("b"), time.Second); !errors.Is(err, store.ErrExists) {
		t.Fatalf("second set = %v, want ErrExists", err)
	}

	// Expiry makes the key reclaimable.
	clock.Advance(time.Second)
	if err := s.SetIfAbsent(ctx, "lock", []byte("c"), time.Second); err != nil {
		t.Fatalf("set after expiry: %v", err)
	}
	got, err := s.Get(ctx, "lock")
	if err != nil || string(got) != "c" {
		t.Fatalf("get = %q, %v", got, err)
	}
}

func TestTTLExpiry(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), 30*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	clock.Advance(29 * time.Second)
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("get before expiry: %v", err)
	}
	clock.Advance(time.Second)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, store.ErrAbsent) {
		t.Fatalf("get after expiry = %v, want ErrAbsent", err)
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	clock.Advance(24 * time.Hour)
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("get = %v, want value", err)
	}
}

func TestHonorsContext(t *testing.T) {
	s, _ := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Set(ctx, "k", nil, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("set = %v, want context.Canceled", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Fatalf("get = %v, want context.Canceled", err)
	}
}

func TestValueIsCopied(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	v := []byte("abc")
	if err := s.Set(ctx, "k", v, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	v[0] = 'z'
	got, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller slice: %q", got)
	}
}
