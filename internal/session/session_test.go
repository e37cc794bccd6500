package session

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/louisbranch/roster.space/internal/platform/errors"
	"github.com/louisbranch/roster.space/internal/store/memory"
)

func TestStartGetClear(t *testing.T) {
	m := New(memory.New(), time.Minute)
	ctx := context.Background()

	sel := Selection{ParticipantID: "p1", SourceGroup: 2}
	if err := m.Start(ctx, "m1", "admin", sel); err != nil {
		t.Fatalf("start: %v", err)
	}
	got, err := m.Get(ctx, "m1", "admin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != sel {
		t.Fatalf("selection = %+v, want %+v", got, sel)
	}

	if err := m.Clear(ctx, "m1", "admin"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := m.Get(ctx, "m1", "admin"); !apperrors.IsCode(err, apperrors.CodeSessionExpired) {
		t.Fatalf("get after clear = %v, want SESSION_EXPIRED", err)
	}
}

func TestGet_MissingReportsExpired(t *testing.T) {
	m := New(memory.New(), time.Minute)
	if _, err := m.Get(context.Background(), "m1", "admin"); !apperrors.IsCode(err, apperrors.CodeSessionExpired) {
		t.Fatalf("get = %v, want SESSION_EXPIRED", err)
	}
}

func TestGet_ExpiredByTTL(t *testing.T) {
	base := time.Now()
	now := base
	kv := memory.NewWithClock(func() time.Time { return now })
	m := New(kv, 30*time.Second)
	ctx := context.Background()

	if err := m.Start(ctx, "m1", "admin", Selection{ParticipantID: "p1", SourceGroup: 1}); err != nil {
		t.Fatalf("start: %v", err)
	}
	now = base.Add(31 * time.Second)
	if _, err := m.Get(ctx, "m1", "admin"); !apperrors.IsCode(err, apperrors.CodeSessionExpired) {
		t.Fatalf("get after ttl = %v, want SESSION_EXPIRED", err)
	}
}

func TestStart_ReplacesPrevious(t *testing.T) {
	m := New(memory.New(), time.Minute)
	ctx := context.Background()

	if err := m.Start(ctx, "m1", "admin", Selection{ParticipantID: "p1", SourceGroup: 1}); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := m.Start(ctx, "m1", "admin", Selection{ParticipantID: "p2", SourceGroup: 3}); err != nil {
		t.Fatalf("second start: %v", err)
	}
	got, err := m.Get(ctx, "m1", "admin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ParticipantID != "p2" || got.SourceGroup != 3 {
		t.Fatalf("selection = %+v, want replacement", got)
	}
}

func TestActorsIsolated(t *testing.T) {
	m := New(memory.New(), time.Minute)
	ctx := context.Background()

	if err := m.Start(ctx, "m1", "alice", Selection{ParticipantID: "p1", SourceGroup: 1}); err != nil {
		t.Fatalf("start alice: %v", err)
	}
	if err := m.Start(ctx, "m1", "bob", Selection{ParticipantID: "p2", SourceGroup: 2}); err != nil {
		t.Fatalf("start bob: %v", err)
	}
	got, err := m.Get(ctx, "m1", "alice")
	if err != nil || got.ParticipantID != "p1" {
		t.Fatalf("alice selection = %+v, %v", got, err)
	}
	got, err = m.Get(ctx, "m1", "bob")
	if err != nil || got.ParticipantID != "p2" {
		t.Fatalf("bob selection = %+v, %v", got, err)
	}
}

func TestClear_MissingIsNoError(t *testing.T) {
	m := New(memory.New(), 0)
	if err := m.Clear(context.Background(), "m1", "admin"); err != nil {
		t.Fatalf("clear missing = %v, want nil", err)
	}
}
