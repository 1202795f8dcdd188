package events

import (
	"time"

	"events-app/internal/domain/access"
	"events-app/internal/domain/applications"
	"events-app/internal/domain/lifecycle"
)

// Snapshot is the read model every permission and transition decision runs
// against. It is rebuilt from the persisted rows on each request and never
// stored itself.
type Snapshot struct {
	EventID          uint
	EventType        string
	Status           string
	Lifecycle        lifecycle.Lifecycle
	Organizers       []uint
	OrganizingBodies []uint
	ApplicationOpen  bool
	Deadline         *time.Time
	Applications     []applications.Application
}

// Context projects the snapshot into the role-resolution context used by
// access rules.
func (s Snapshot) Context() *access.Context {
	return &access.Context{
		Organizers:       s.Organizers,
		OrganizingBodies: s.OrganizingBodies,
		Applications:     s.Applications,
	}
}

// CurrentStatus resolves the snapshot's status name against its lifecycle.
func (s Snapshot) CurrentStatus() (lifecycle.Status, bool) {
	return s.Lifecycle.StatusByName(s.Status)
}

// Store is the persistence surface the decision core depends on. Handlers
// and the scheduler go through it; nothing in this package issues queries.
type Store interface {
	LoadSnapshot(eventID uint) (Snapshot, error)
	LoadLifecycle(eventType string) (lifecycle.Lifecycle, error)
	SaveStatus(eventID uint, status string) error
	SaveDeadline(eventID uint, deadline *time.Time) error
	SaveApplicationOpen(eventID uint, open bool) error
	SaveApplications(eventID uint, apps []applications.Application) error
}
