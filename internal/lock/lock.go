// Package lock serializes roster mutations. Writers acquire a short-TTL
// named lock in the backing store before any read-modify-write; the TTL
// bounds staleness if a holder dies without releasing.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	apperrors "github.com/louisbranch/roster.space/internal/platform/errors"
	"github.com/louisbranch/roster.space/internal/store"
)

// ErrBusy indicates the lock could not be acquired within the budget. The
// caller must report it; it must never apply the mutation anyway.
var ErrBusy = apperrors.New(apperrors.CodeLockBusy, "roster locked by another trigger")

const (
	// DefaultTTL bounds how long a crashed holder can starve other writers.
	DefaultTTL = 2 * time.Second
	// DefaultAcquireBudget bounds total wall-clock time spent acquiring.
	DefaultAcquireBudget = 1500 * time.Millisecond

	defaultRetryInterval = 50 * time.Millisecond
	releaseTimeout       = time.Second
)

// Coordinator acquires per-roster locks against a KV store.
type Coordinator struct {
	kv       store.KV
	ttl      time.Duration
	budget   time.Duration
	interval time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTTL overrides the lock TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Coordinator) { c.ttl = ttl }
}

// WithAcquireBudget overrides the total time spent retrying acquisition.
func WithAcquireBudget(budget time.Duration) Option {
	return func(c *Coordinator) { c.budget = budget }
}

// WithRetryInterval overrides the pause between acquisition attempts.
func WithRetryInterval(interval time.Duration) Option {
	return func(c *Coordinator) { c.interval = interval }
}

// New returns a Coordinator backed by kv.
func New(kv store.KV, opts ...Option) *Coordinator {
	c := &Coordinator{
		kv:       kv,
		ttl:      DefaultTTL,
		budget:   DefaultAcquireBudget,
		interval: defaultRetryInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLock runs fn while holding the exclusive lock for rosterID. The lock
// is released on every exit path, including a panicking fn. Acquisition
// failures return ErrBusy; store faults surface with their own code so the
// caller can phrase them differently.
func (c *Coordinator) WithLock(ctx context.Context, rosterID string, fn func(ctx context.Context) error) error {
	key := lockKey(rosterID)
	token, err := newToken()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "generate lock token", err)
	}

	acquire := func() (struct{}, error) {
		err := c.kv.SetIfAbsent(ctx, key, token, c.ttl)
		if err == nil {
			return struct{}{}, nil
		}
		if errors.Is(err, store.ErrExists) {
			return struct{}{}, err // retryable: holder may release any moment
		}
		return struct{}{}, backoff.Permanent(err)
	}

	if _, err := backoff.Retry(ctx, acquire,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.interval)),
		backoff.WithMaxElapsedTime(c.budget),
	); err != nil {
		if apperrors.IsCode(err, apperrors.CodeStoreUnavailable) {
			return err
		}
		return apperrors.Wrap(apperrors.CodeLockBusy, "acquire roster lock", err)
	}

	defer c.release(key, token)
	return fn(ctx)
}

// release deletes the lock if this coordinator still owns it. The check is
// best effort: the KV contract has no compare-and-delete, and a lock that
// slips past here is still reclaimed by its TTL.
func (c *Coordinator) release(key string, token []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	current, err := c.kv.Get(ctx, key)
	if err != nil || string(current) != string(token) {
		return
	}
	_ = c.kv.Delete(ctx, key)
}

func lockKey(rosterID string) string {
	return "lock:msg:" + rosterID
}

func newToken() ([]byte, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	return []byte(hex.EncodeToString(raw)), nil
}
