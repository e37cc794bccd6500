// Package engine runs the trigger pipeline: resolve the roster from the
// shared artifact, mutate it under the per-roster lock, and deliver the
// re-rendered artifact while still holding the lock.
package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/roster.space/internal/lock"
	"github.com/louisbranch/roster.space/internal/platform/i18n"
	"github.com/louisbranch/roster.space/internal/render"
	"github.com/louisbranch/roster.space/internal/roster"
	"github.com/louisbranch/roster.space/internal/roster/codec"
	"github.com/louisbranch/roster.space/internal/store"
	"github.com/louisbranch/roster.space/internal/transport"
)

// BootstrapTTL is how long a freshly created roster's state stays readable
// by token before the artifact's own payload becomes authoritative.
const BootstrapTTL = 3 * time.Minute

// Pipeline executes roster mutations end to end.
type Pipeline struct {
	locks  *lock.Coordinator
	kv     store.KV
	tracer trace.Tracer
}

// NewPipeline returns a Pipeline using locks for write serialization and kv
// for bootstrap entries.
func NewPipeline(locks *lock.Coordinator, kv store.KV) *Pipeline {
	return &Pipeline{
		locks:  locks,
		kv:     kv,
		tracer: otel.Tracer("roster.space/engine"),
	}
}

// Bootstrap stores the encoded roster under the creating interaction's
// token. Triggers that arrive before the artifact's first payload write
// resolve against this entry.
func (p *Pipeline) Bootstrap(ctx context.Context, token string, r roster.Roster) error {
	payload, err := codec.Encode(r)
	if err != nil {
		return err
	}
	return p.kv.Set(ctx, bootKey(token), []byte(payload), BootstrapTTL)
}

// Execute resolves the roster, applies the trigger's action, and on success
// hands the re-rendered view to deliver. Resolve, apply, and deliver all
// run while holding the roster's lock, so concurrent triggers observe each
// other's writes. The returned error is the first failure in the chain,
// carrying its domain code.
func (p *Pipeline) Execute(ctx context.Context, trig transport.Trigger, artifact transport.Artifact, deliver func(context.Context, render.View) error) error {
	ctx, span := p.tracer.Start(ctx, "engine.Execute", trace.WithAttributes(
		attribute.String("roster.id", trig.RosterID),
		attribute.String("roster.action", actionName(trig.Action)),
	))
	defer span.End()

	catalog := i18n.Match(trig.Locale)
	err := p.locks.WithLock(ctx, trig.RosterID, func(ctx context.Context) error {
		current, err := p.resolve(ctx, trig, artifact)
		if err != nil {
			return err
		}
		next, err := roster.Apply(current, trig.Action, roster.Actor{
			ID:         trig.ActorID,
			Privileged: trig.ActorPrivileged,
		})
		if err != nil {
			return err
		}
		view, err := render.Message(next, catalog)
		if err != nil {
			return err
		}
		return deliver(ctx, view)
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// resolve recovers the roster, preferring the live artifact over the
// trigger's inline copy, and falling back to the bootstrap entry for
// messages whose first payload write has not landed yet.
func (p *Pipeline) resolve(ctx context.Context, trig transport.Trigger, artifact transport.Artifact) (roster.Roster, error) {
	content, err := artifact.Read(ctx)
	if err != nil || content == "" {
		content = trig.Content
	}
	r, decodeErr := codec.Decode(trig.RosterID, content)
	if decodeErr == nil {
		return r, nil
	}
	if trig.Token != "" {
		if raw, err := p.kv.Get(ctx, bootKey(trig.Token)); err == nil {
			if r, err := codec.Decode(trig.RosterID, string(raw)); err == nil {
				return r, nil
			}
		}
	}
	return roster.Roster{}, decodeErr
}

func bootKey(token string) string {
	return "boot:" + token
}

func actionName(a roster.Action) string {
	switch a.(type) {
	case roster.Join:
		return "join"
	case roster.Leave:
		return "leave"
	case roster.Kick:
		return "kick"
	case roster.Move:
		return "move"
	default:
		return "unknown"
	}
}
