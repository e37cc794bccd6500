// Package transport defines the contract between the chat platform and the
// engine: a normalized trigger going in, and an artifact handle for writing
// results back out.
package transport

import (
	"context"

	"github.com/louisbranch/roster.space/internal/render"
	"github.com/louisbranch/roster.space/internal/roster"
)

// Trigger is one normalized actor interaction against a roster.
type Trigger struct {
	// RosterID is the id of the shared message carrying the roster.
	RosterID string
	ActorID  string
	// ActorPrivileged is true when the platform grants the actor elevated
	// permission (server admin), independent of roster ownership.
	ActorPrivileged bool
	// Action is the mutation the actor requested.
	Action roster.Action
	// Locale selects the message catalog for anything shown to the actor.
	Locale string
	// Token authorizes follow-up writes for this interaction and keys the
	// bootstrap entry for freshly created rosters.
	Token string
	AppID string
	// Content is the artifact text as delivered with the trigger. It may
	// lag behind the live artifact; the engine re-reads under the lock.
	Content string
}

// Artifact is the engine's handle on the shared message. Implementations
// talk to the chat platform; the engine never does.
type Artifact interface {
	// Read returns the artifact's current text.
	Read(ctx context.Context) (string, error)
	// Write replaces the artifact's text and components.
	Write(ctx context.Context, view render.View) error
	// NotifyActor sends an actor-only notice without touching the artifact.
	NotifyActor(ctx context.Context, text string) error
}
