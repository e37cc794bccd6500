package engine

import (
	"context"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/louisbranch/roster.space/internal/platform/errors"
	"github.com/louisbranch/roster.space/internal/platform/i18n"
	"github.com/louisbranch/roster.space/internal/render"
	"github.com/louisbranch/roster.space/internal/roster"
	"github.com/louisbranch/roster.space/internal/transport"
)

// DefaultFastBudget is how long a trigger may run before the responder
// switches to the deferred path. It sits inside the platform's webhook
// deadline with room for the response to travel back.
const DefaultFastBudget = 2 * time.Second

// ResponseKind classifies the terminal response for a trigger.
type ResponseKind int

const (
	// ResponseImmediate carries the updated view; the transport answers
	// the webhook with an in-place message update.
	ResponseImmediate ResponseKind = iota + 1
	// ResponseDeferred means the pipeline is still running; the transport
	// acknowledges now and the responder finishes through the artifact.
	ResponseDeferred
	// ResponseFailed carries a localized actor-only notice; the artifact
	// is untouched.
	ResponseFailed
)

// Response is the single terminal response for one trigger.
type Response struct {
	Kind   ResponseKind
	View   render.View
	Notice string
}

// Responder races the pipeline against the fast budget and guarantees
// exactly one terminal response per trigger.
type Responder struct {
	pipeline *Pipeline
	budget   time.Duration
}

// NewResponder returns a Responder over p. A non-positive budget falls
// back to DefaultFastBudget.
func NewResponder(p *Pipeline, budget time.Duration) *Responder {
	if budget <= 0 {
		budget = DefaultFastBudget
	}
	return &Responder{pipeline: p, budget: budget}
}

// Respond executes the trigger and returns its terminal response. If the
// pipeline beats the budget the view (or rejection notice) comes back
// inline; otherwise the caller gets ResponseDeferred and the responder
// finishes in the background, writing the artifact on success or sending
// an actor-only notice on failure.
func (rd *Responder) Respond(ctx context.Context, trig transport.Trigger, artifact transport.Artifact) Response {
	catalog := i18n.Match(trig.Locale)

	// The pipeline must outlive the webhook request on the deferred path.
	bg := context.WithoutCancel(ctx)

	var mu sync.Mutex
	deferred := false
	var captured *render.View

	// While the fast window is open the view is captured for the inline
	// response; once it closes, delivery writes the artifact directly,
	// still under the roster lock.
	deliver := func(ctx context.Context, v render.View) error {
		mu.Lock()
		if !deferred {
			captured = &v
			mu.Unlock()
			return nil
		}
		mu.Unlock()
		return artifact.Write(ctx, v)
	}

	done := make(chan error, 1)
	go func() {
		done <- rd.pipeline.Execute(bg, trig, artifact, deliver)
	}()

	timer := time.NewTimer(rd.budget)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return Response{Kind: ResponseFailed, Notice: Notice(catalog, trig.Action, err)}
		}
		return Response{Kind: ResponseImmediate, View: *captured}

	case <-timer.C:
		mu.Lock()
		deferred = true
		late := captured
		mu.Unlock()

		go func() {
			err := <-done
			switch {
			case err != nil:
				_ = artifact.NotifyActor(bg, Notice(catalog, trig.Action, err))
			case late != nil:
				// Delivery landed in the fast window but the deadline won
				// the race; flush the captured view to the artifact.
				_ = artifact.Write(bg, *late)
			}
		}()
		return Response{Kind: ResponseDeferred}
	}
}

// Notice renders the actor-only text for a failed trigger. Business
// rejections get their specific localized message; coordination and
// infrastructure failures collapse into a generic busy notice.
func Notice(c *i18n.Catalog, action roster.Action, err error) string {
	code := apperrors.GetCode(err)
	if !code.IsRejection() {
		return c.Format(i18n.KeyBusy, nil)
	}
	key := string(code)
	if code == apperrors.CodeNotMember {
		// Kick and Move reject on the target's membership, not the actor's.
		switch action.(type) {
		case roster.Kick, roster.Move:
			key = i18n.KeyTargetNotMember
		}
	}
	return c.Format(key, localizeMetadata(c, apperrors.GetMetadata(err)))
}

// localizeMetadata rewrites group indexes into the locale's numerals so
// rejection messages match the rendered roster.
func localizeMetadata(c *i18n.Catalog, metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		switch k {
		case "Group", "From", "To":
			if n, err := strconv.Atoi(v); err == nil {
				out[k] = c.Ordinal(n)
				continue
			}
		}
		out[k] = v
	}
	return out
}
