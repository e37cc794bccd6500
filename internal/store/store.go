// Package store defines the key-value contract backing locks, sessions, and
// bootstrap entries. Implementations must provide atomic set-if-absent with
// TTL semantics; the coordinator assumes nothing stronger.
package store

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/roster.space/internal/platform/errors"
)

// ErrAbsent indicates the key does not exist or has expired.
var ErrAbsent = apperrors.New(apperrors.CodeNotFound, "key absent")

// ErrExists indicates SetIfAbsent lost to a live entry.
var ErrExists = apperrors.New(apperrors.CodeLockBusy, "key already set")

// KV is the backing store shared by the lock coordinator and the session
// manager. A ttl of zero means the entry never expires. Every call honors
// the context deadline; implementations never block past it.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
