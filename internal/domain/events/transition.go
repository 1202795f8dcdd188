package events

import (
	"errors"
	"fmt"

	"events-app/internal/domain/access"
)

var (
	// ErrEventNotFound reports a snapshot load for a missing event.
	ErrEventNotFound = errors.New("event not found")
	// ErrLifecycleNotFound reports a missing lifecycle for an event type.
	ErrLifecycleNotFound = errors.New("lifecycle not found")
	// ErrTransitionUndefined reports that the graph has no edge from the
	// current status to the requested one. Distinct from the permission
	// failure so clients can tell "not possible" from "not you".
	ErrTransitionUndefined = errors.New("transition undefined")
	// ErrTransitionNotAllowed reports that the edge exists but its access
	// rule does not match the caller.
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	// ErrApplicationsAlreadyClosed reports a close of an already closed
	// application period.
	ErrApplicationsAlreadyClosed = errors.New("applications already closed")
)

// AttemptTransition moves the snapshot to the target status if the lifecycle
// defines that edge and the identity passes its rule. The input snapshot is
// not mutated; the returned snapshot carries the new status.
func AttemptTransition(identity access.Identity, snap Snapshot, target string) (Snapshot, error) {
	if _, ok := snap.Lifecycle.StatusByName(target); !ok {
		return Snapshot{}, fmt.Errorf("%w: no status %q in lifecycle %q", ErrTransitionUndefined, target, snap.Lifecycle.EventType)
	}

	tr, ok := snap.Lifecycle.TransitionBetween(snap.Status, target)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: no edge %q -> %q", ErrTransitionUndefined, snap.Status, target)
	}

	if !access.Matches(identity, tr.AllowedFor, snap.Context()) {
		return Snapshot{}, fmt.Errorf("%w: %q -> %q", ErrTransitionNotAllowed, snap.Status, target)
	}

	out := snap
	out.Status = target
	return out, nil
}
