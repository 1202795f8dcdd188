package events

import (
	"fmt"
	"time"

	"events-app/internal/domain/access"
	"events-app/internal/domain/applications"
)

// Service owns the two mutation paths of the core: status transitions and
// application-period closes. API handlers and the deadline scheduler share
// these; there is no other way a status or application set changes.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Snapshot loads the decision read model for one event.
func (s *Service) Snapshot(eventID uint) (Snapshot, error) {
	return s.store.LoadSnapshot(eventID)
}

// ExecuteTransition loads the event, attempts the transition for the
// identity and persists the new status on success.
func (s *Service) ExecuteTransition(identity access.Identity, eventID uint, target string) (Snapshot, error) {
	snap, err := s.store.LoadSnapshot(eventID)
	if err != nil {
		return Snapshot{}, err
	}

	next, err := AttemptTransition(identity, snap, target)
	if err != nil {
		return Snapshot{}, err
	}

	if err := s.store.SaveStatus(eventID, next.Status); err != nil {
		return Snapshot{}, fmt.Errorf("save status: %w", err)
	}
	return next, nil
}

// SetApplicationPeriod persists a new deadline and open flag. Flipping the
// flag from open to closed runs the same transform as CloseApplications, so
// requesting applications never survive the flip.
func (s *Service) SetApplicationPeriod(eventID uint, deadline *time.Time, open bool) error {
	snap, err := s.store.LoadSnapshot(eventID)
	if err != nil {
		return err
	}
	if err := s.store.SaveDeadline(eventID, deadline); err != nil {
		return fmt.Errorf("save deadline: %w", err)
	}
	switch {
	case open && !snap.ApplicationOpen:
		if err := s.store.SaveApplicationOpen(eventID, true); err != nil {
			return fmt.Errorf("reopen applications: %w", err)
		}
	case !open && snap.ApplicationOpen:
		return s.close(snap)
	}
	return nil
}

// CloseApplications ends an event's application period: the open flag flips
// and every application still in requesting moves to pending. Closing an
// already closed period is an error on this manual path.
func (s *Service) CloseApplications(eventID uint) error {
	snap, err := s.store.LoadSnapshot(eventID)
	if err != nil {
		return err
	}
	if !snap.ApplicationOpen {
		return fmt.Errorf("%w: event %d", ErrApplicationsAlreadyClosed, eventID)
	}
	return s.close(snap)
}

// CloseApplicationsIfDue is the scheduler's fire path. It re-reads the event
// and silently discards the fire when it is stale: the period is already
// closed, or the deadline moved since the timer was armed. The returned
// flag reports whether a close actually happened.
func (s *Service) CloseApplicationsIfDue(eventID uint, armedDeadline time.Time) (bool, error) {
	snap, err := s.store.LoadSnapshot(eventID)
	if err != nil {
		return false, err
	}
	if !snap.ApplicationOpen {
		return false, nil
	}
	if snap.Deadline == nil || !snap.Deadline.Equal(armedDeadline) {
		return false, nil
	}
	if s.now().Before(*snap.Deadline) {
		return false, nil
	}
	if err := s.close(snap); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) close(snap Snapshot) error {
	if err := s.store.SaveApplicationOpen(snap.EventID, false); err != nil {
		return fmt.Errorf("close applications: %w", err)
	}
	if changed := applications.BulkCloseToPending(snap.Applications); len(changed) > 0 {
		if err := s.store.SaveApplications(snap.EventID, changed); err != nil {
			return fmt.Errorf("move requesting applications to pending: %w", err)
		}
	}
	return nil
}
