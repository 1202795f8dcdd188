package events

import (
	"errors"
	"testing"
	"time"

	"events-app/internal/domain/access"
	"events-app/internal/domain/applications"
	"events-app/internal/domain/lifecycle"
)

type fakeStore struct {
	snapshots map[uint]Snapshot
	loadErr   error
	saveErr   error

	savedStatus   map[uint]string
	savedDeadline map[uint]*time.Time
	savedOpen     map[uint]bool
	savedApps     map[uint][]applications.Application
}

func newFakeStore(snaps ...Snapshot) *fakeStore {
	f := &fakeStore{
		snapshots:     map[uint]Snapshot{},
		savedStatus:   map[uint]string{},
		savedDeadline: map[uint]*time.Time{},
		savedOpen:     map[uint]bool{},
		savedApps:     map[uint][]applications.Application{},
	}
	for _, s := range snaps {
		f.snapshots[s.EventID] = s
	}
	return f
}

func (f *fakeStore) LoadSnapshot(eventID uint) (Snapshot, error) {
	if f.loadErr != nil {
		return Snapshot{}, f.loadErr
	}
	snap, ok := f.snapshots[eventID]
	if !ok {
		return Snapshot{}, ErrEventNotFound
	}
	return snap, nil
}

func (f *fakeStore) LoadLifecycle(eventType string) (lifecycle.Lifecycle, error) {
	return testLifecycle(), nil
}

func (f *fakeStore) SaveStatus(eventID uint, status string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedStatus[eventID] = status
	snap := f.snapshots[eventID]
	snap.Status = status
	f.snapshots[eventID] = snap
	return nil
}

func (f *fakeStore) SaveDeadline(eventID uint, deadline *time.Time) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedDeadline[eventID] = deadline
	snap := f.snapshots[eventID]
	snap.Deadline = deadline
	f.snapshots[eventID] = snap
	return nil
}

func (f *fakeStore) SaveApplicationOpen(eventID uint, open bool) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedOpen[eventID] = open
	snap := f.snapshots[eventID]
	snap.ApplicationOpen = open
	f.snapshots[eventID] = snap
	return nil
}

func (f *fakeStore) SaveApplications(eventID uint, apps []applications.Application) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedApps[eventID] = apps
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAttemptTransitionUndefinedVsNotAllowed(t *testing.T) {
	snap := draftSnapshot()

	// edge exists, rule does not match
	_, err := AttemptTransition(access.Identity{ID: 99}, snap, "Requesting")
	if !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected ErrTransitionNotAllowed, got %v", err)
	}

	// no such edge
	_, err = AttemptTransition(access.Identity{ID: 7}, snap, "Published")
	if !errors.Is(err, ErrTransitionUndefined) {
		t.Fatalf("expected ErrTransitionUndefined, got %v", err)
	}

	// no such status at all
	_, err = AttemptTransition(access.Identity{ID: 7}, snap, "Archived")
	if !errors.Is(err, ErrTransitionUndefined) {
		t.Fatalf("expected ErrTransitionUndefined for unknown status, got %v", err)
	}
}

func TestAttemptTransitionSuccessDoesNotMutateInput(t *testing.T) {
	snap := draftSnapshot()
	next, err := AttemptTransition(access.Identity{ID: 7}, snap, "Requesting")
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if next.Status != "Requesting" {
		t.Fatalf("expected Requesting, got %s", next.Status)
	}
	if snap.Status != "Draft" {
		t.Fatal("input snapshot must not be mutated")
	}
}

func TestAttemptTransitionIsNotIdempotent(t *testing.T) {
	snap := draftSnapshot()
	snap.Status = "Requesting"

	first, err := AttemptTransition(access.Identity{ID: 1}, snap, "Published")
	if err != nil {
		t.Fatalf("first transition: %v", err)
	}

	// same target again from the new status: no self-loop exists, so this
	// must fail as undefined rather than silently succeed
	_, err = AttemptTransition(access.Identity{ID: 1}, first, "Published")
	if !errors.Is(err, ErrTransitionUndefined) {
		t.Fatalf("expected ErrTransitionUndefined on repeat, got %v", err)
	}
}

func TestExecuteTransitionPersists(t *testing.T) {
	store := newFakeStore(draftSnapshot())
	svc := NewService(store, nil)

	next, err := svc.ExecuteTransition(access.Identity{ID: 7}, 42, "Requesting")
	if err != nil {
		t.Fatalf("execute transition: %v", err)
	}
	if next.Status != "Requesting" {
		t.Fatalf("expected Requesting, got %s", next.Status)
	}
	if store.savedStatus[42] != "Requesting" {
		t.Fatal("new status was not persisted")
	}
}

func TestExecuteTransitionDeniedPersistsNothing(t *testing.T) {
	store := newFakeStore(draftSnapshot())
	svc := NewService(store, nil)

	_, err := svc.ExecuteTransition(access.Identity{ID: 99}, 42, "Requesting")
	if !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected ErrTransitionNotAllowed, got %v", err)
	}
	if _, saved := store.savedStatus[42]; saved {
		t.Fatal("denied transition must not write")
	}
}

func TestCloseApplications(t *testing.T) {
	snap := draftSnapshot()
	snap.ApplicationOpen = true
	snap.Applications = []applications.Application{
		{ID: 1, UserID: 9, Status: applications.StatusRequesting},
		{ID: 2, UserID: 10, Status: applications.StatusAccepted},
	}
	store := newFakeStore(snap)
	svc := NewService(store, nil)

	if err := svc.CloseApplications(42); err != nil {
		t.Fatalf("close: %v", err)
	}
	if open, saved := store.savedOpen[42]; !saved || open {
		t.Fatal("application period must be persisted as closed")
	}
	moved := store.savedApps[42]
	if len(moved) != 1 || moved[0].ID != 1 || moved[0].Status != applications.StatusPending {
		t.Fatalf("expected only the requesting record moved to pending, got %v", moved)
	}

	// second close is an explicit error on the manual path
	err := svc.CloseApplications(42)
	if !errors.Is(err, ErrApplicationsAlreadyClosed) {
		t.Fatalf("expected ErrApplicationsAlreadyClosed, got %v", err)
	}
}

func TestSetApplicationPeriod(t *testing.T) {
	deadline := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	openSnap := draftSnapshot()
	openSnap.ApplicationOpen = true
	openSnap.Applications = []applications.Application{
		{ID: 1, UserID: 9, Status: applications.StatusRequesting},
		{ID: 2, UserID: 10, Status: applications.StatusAccepted},
	}

	t.Run("closing flip moves requesting to pending", func(t *testing.T) {
		store := newFakeStore(openSnap)
		svc := NewService(store, nil)

		if err := svc.SetApplicationPeriod(42, nil, false); err != nil {
			t.Fatalf("set period: %v", err)
		}
		if open, saved := store.savedOpen[42]; !saved || open {
			t.Fatal("flag must be persisted as closed")
		}
		moved := store.savedApps[42]
		if len(moved) != 1 || moved[0].ID != 1 || moved[0].Status != applications.StatusPending {
			t.Fatalf("expected the requesting record in pending, got %v", moved)
		}
	})

	t.Run("deadline change while open leaves applications alone", func(t *testing.T) {
		store := newFakeStore(openSnap)
		svc := NewService(store, nil)

		if err := svc.SetApplicationPeriod(42, &deadline, true); err != nil {
			t.Fatalf("set period: %v", err)
		}
		if d := store.savedDeadline[42]; d == nil || !d.Equal(deadline) {
			t.Fatalf("deadline not persisted, got %v", d)
		}
		if _, saved := store.savedOpen[42]; saved {
			t.Fatal("the open flag must not be rewritten")
		}
		if _, saved := store.savedApps[42]; saved {
			t.Fatal("applications must not be touched")
		}
	})

	t.Run("reopen sets the flag without touching applications", func(t *testing.T) {
		store := newFakeStore(draftSnapshot())
		svc := NewService(store, nil)

		if err := svc.SetApplicationPeriod(42, &deadline, true); err != nil {
			t.Fatalf("set period: %v", err)
		}
		if open, saved := store.savedOpen[42]; !saved || !open {
			t.Fatal("flag must be persisted as open")
		}
		if _, saved := store.savedApps[42]; saved {
			t.Fatal("applications must not be touched")
		}
	})
}

func TestCloseApplicationsIfDue(t *testing.T) {
	deadline := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	base := draftSnapshot()
	base.ApplicationOpen = true
	base.Deadline = &deadline
	base.Applications = []applications.Application{{ID: 1, UserID: 9, Status: applications.StatusRequesting}}

	t.Run("fires after deadline", func(t *testing.T) {
		store := newFakeStore(base)
		svc := NewService(store, fixedClock(deadline.Add(time.Minute)))

		closed, err := svc.CloseApplicationsIfDue(42, deadline)
		if err != nil || !closed {
			t.Fatalf("expected close, got closed=%v err=%v", closed, err)
		}
		if len(store.savedApps[42]) != 1 {
			t.Fatal("requesting application must move to pending exactly once")
		}
	})

	t.Run("stale when deadline moved", func(t *testing.T) {
		store := newFakeStore(base)
		svc := NewService(store, fixedClock(deadline.Add(time.Minute)))

		closed, err := svc.CloseApplicationsIfDue(42, deadline.Add(-time.Hour))
		if err != nil || closed {
			t.Fatalf("stale fire must be a no-op, got closed=%v err=%v", closed, err)
		}
		if _, saved := store.savedOpen[42]; saved {
			t.Fatal("stale fire must not write")
		}
	})

	t.Run("stale when already closed", func(t *testing.T) {
		snap := base
		snap.ApplicationOpen = false
		store := newFakeStore(snap)
		svc := NewService(store, fixedClock(deadline.Add(time.Minute)))

		closed, err := svc.CloseApplicationsIfDue(42, deadline)
		if err != nil || closed {
			t.Fatalf("fire on a closed period must be a no-op, got closed=%v err=%v", closed, err)
		}
	})

	t.Run("not yet due", func(t *testing.T) {
		store := newFakeStore(base)
		svc := NewService(store, fixedClock(deadline.Add(-time.Minute)))

		closed, err := svc.CloseApplicationsIfDue(42, deadline)
		if err != nil || closed {
			t.Fatalf("early fire must be a no-op, got closed=%v err=%v", closed, err)
		}
	})
}
