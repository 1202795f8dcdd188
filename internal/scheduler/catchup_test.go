package scheduler

import (
	"testing"
	"time"

	"events-app/internal/domain/applications"
	"events-app/internal/domain/events"
	"events-app/internal/domain/lifecycle"
)

// memStore backs both the scheduler scan and the events service with one
// in-memory event, so the whole deadline-close path runs for real.
type memStore struct {
	snap      events.Snapshot
	saveOpen  []bool
	savedApps [][]applications.Application
}

func (m *memStore) LoadSnapshot(eventID uint) (events.Snapshot, error) {
	if eventID != m.snap.EventID {
		return events.Snapshot{}, events.ErrEventNotFound
	}
	return m.snap, nil
}

func (m *memStore) LoadLifecycle(eventType string) (lifecycle.Lifecycle, error) {
	return m.snap.Lifecycle, nil
}

func (m *memStore) SaveStatus(eventID uint, status string) error {
	m.snap.Status = status
	return nil
}

func (m *memStore) SaveDeadline(eventID uint, deadline *time.Time) error {
	m.snap.Deadline = deadline
	return nil
}

func (m *memStore) SaveApplicationOpen(eventID uint, open bool) error {
	m.saveOpen = append(m.saveOpen, open)
	m.snap.ApplicationOpen = open
	return nil
}

func (m *memStore) SaveApplications(eventID uint, apps []applications.Application) error {
	m.savedApps = append(m.savedApps, apps)
	return nil
}

func (m *memStore) ListOpenDeadlines() ([]Entry, error) {
	if !m.snap.ApplicationOpen || m.snap.Deadline == nil {
		return nil, nil
	}
	return []Entry{{EventID: m.snap.EventID, Deadline: *m.snap.Deadline}}, nil
}

func TestCatchUpClosesMissedDeadlineExactlyOnce(t *testing.T) {
	now := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(-24 * time.Hour) // missed while the process was down

	store := &memStore{snap: events.Snapshot{
		EventID:         42,
		Status:          "Published",
		ApplicationOpen: true,
		Deadline:        &deadline,
		Applications: []applications.Application{
			{ID: 1, UserID: 9, Status: applications.StatusRequesting},
			{ID: 2, UserID: 10, Status: applications.StatusAccepted},
			{ID: 3, UserID: 11, Status: applications.StatusRequesting},
		},
	}}
	clock := func() time.Time { return now }
	service := events.NewService(store, clock)

	s := New(store, service, clock)
	defer s.Stop()
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	if len(store.saveOpen) != 1 || store.saveOpen[0] {
		t.Fatalf("expected exactly one close write, got %v", store.saveOpen)
	}
	if len(store.savedApps) != 1 {
		t.Fatalf("expected one application rewrite, got %d", len(store.savedApps))
	}
	moved := store.savedApps[0]
	if len(moved) != 2 {
		t.Fatalf("expected both requesting applications moved, got %v", moved)
	}
	for _, app := range moved {
		if app.Status != applications.StatusPending {
			t.Fatalf("application %d: expected pending, got %s", app.ID, app.Status)
		}
	}

	// a second start is a no-op: the period is closed now
	if err := s.Start(); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if len(store.saveOpen) != 1 {
		t.Fatalf("close must happen exactly once, got %v", store.saveOpen)
	}
}
