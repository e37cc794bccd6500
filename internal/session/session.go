// Package session persists the intermediate choice of a two-step admin
// move: step one picks the participant, step two picks the destination.
// Each selection lives in the KV store under a short TTL so an abandoned
// panel cleans itself up.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/fxamacker/cbor/v2"

	apperrors "github.com/louisbranch/roster.space/internal/platform/errors"
	"github.com/louisbranch/roster.space/internal/store"
)

// DefaultTTL is how long a pending selection survives without the second
// step completing.
const DefaultTTL = 2 * time.Minute

// Selection is the state carried between the two admin move steps.
type Selection struct {
	ParticipantID string `cbor:"participant"`
	SourceGroup   int    `cbor:"source"`
}

// Manager stores pending selections keyed by roster and acting admin, so
// two admins on the same roster never clobber each other's picks.
type Manager struct {
	kv  store.KV
	ttl time.Duration
}

// New returns a Manager backed by kv. A non-positive ttl falls back to
// DefaultTTL.
func New(kv store.KV, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{kv: kv, ttl: ttl}
}

// Start records sel as the pending selection for actorID on rosterID,
// replacing any previous one.
func (m *Manager) Start(ctx context.Context, rosterID, actorID string, sel Selection) error {
	raw, err := cbor.Marshal(sel)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "encode selection", err)
	}
	if err := m.kv.Set(ctx, sessionKey(rosterID, actorID), raw, m.ttl); err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "persist selection", err)
	}
	return nil
}

// Get returns the pending selection for actorID on rosterID. A missing or
// expired selection reports SESSION_EXPIRED; the caller should tell the
// admin to restart the move.
func (m *Manager) Get(ctx context.Context, rosterID, actorID string) (Selection, error) {
	raw, err := m.kv.Get(ctx, sessionKey(rosterID, actorID))
	if errors.Is(err, store.ErrAbsent) {
		return Selection{}, apperrors.New(apperrors.CodeSessionExpired, "no pending selection")
	}
	if err != nil {
		return Selection{}, apperrors.Wrap(apperrors.CodeStoreUnavailable, "load selection", err)
	}
	var sel Selection
	if err := cbor.Unmarshal(raw, &sel); err != nil {
		return Selection{}, apperrors.Wrap(apperrors.CodeSessionExpired, "decode selection", err)
	}
	return sel, nil
}

// Clear drops the pending selection, if any. Called after the second step
// completes or fails terminally.
func (m *Manager) Clear(ctx context.Context, rosterID, actorID string) error {
	if err := m.kv.Delete(ctx, sessionKey(rosterID, actorID)); err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "clear selection", err)
	}
	return nil
}

func sessionKey(rosterID, actorID string) string {
	return "session:" + rosterID + ":" + actorID
}
