package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"events-app/internal/domain/applications"
	"events-app/internal/domain/events"
	"events-app/internal/domain/lifecycle"
	"events-app/internal/scheduler"
)

// Store is the gorm-backed implementation of the persistence surfaces the
// decision core and the scheduler depend on.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// LoadSnapshot rebuilds the decision read model for one event from its row,
// its lifecycle and its applications.
func (s *Store) LoadSnapshot(eventID uint) (events.Snapshot, error) {
	var ev events.Event
	if err := s.db.First(&ev, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return events.Snapshot{}, fmt.Errorf("%w: id %d", events.ErrEventNotFound, eventID)
		}
		return events.Snapshot{}, fmt.Errorf("load event %d: %w", eventID, err)
	}

	lc, err := s.LoadLifecycle(ev.EventType)
	if err != nil {
		return events.Snapshot{}, err
	}

	var apps []applications.Application
	if err := s.db.Where("event_id = ?", eventID).Order("created_at ASC").Find(&apps).Error; err != nil {
		return events.Snapshot{}, fmt.Errorf("load applications for event %d: %w", eventID, err)
	}

	return events.Snapshot{
		EventID:          ev.ID,
		EventType:        ev.EventType,
		Status:           ev.Status,
		Lifecycle:        lc,
		Organizers:       ev.Organizers,
		OrganizingBodies: ev.OrganizingBodies,
		ApplicationOpen:  ev.ApplicationOpen,
		Deadline:         ev.ApplicationDeadline,
		Applications:     apps,
	}, nil
}

func (s *Store) LoadLifecycle(eventType string) (lifecycle.Lifecycle, error) {
	var lc lifecycle.Lifecycle
	if err := s.db.Where("event_type = ?", eventType).First(&lc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lifecycle.Lifecycle{}, fmt.Errorf("%w: event type %q", events.ErrLifecycleNotFound, eventType)
		}
		return lifecycle.Lifecycle{}, fmt.Errorf("load lifecycle %q: %w", eventType, err)
	}
	return lc, nil
}

func (s *Store) SaveStatus(eventID uint, status string) error {
	return s.db.Model(&events.Event{}).Where("id = ?", eventID).Update("status", status).Error
}

func (s *Store) SaveDeadline(eventID uint, deadline *time.Time) error {
	return s.db.Model(&events.Event{}).Where("id = ?", eventID).Update("application_deadline", deadline).Error
}

func (s *Store) SaveApplicationOpen(eventID uint, open bool) error {
	return s.db.Model(&events.Event{}).Where("id = ?", eventID).Update("application_open", open).Error
}

func (s *Store) SaveApplications(eventID uint, apps []applications.Application) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, app := range apps {
			if err := tx.Model(&applications.Application{}).
				Where("id = ? AND event_id = ?", app.ID, eventID).
				Updates(map[string]interface{}{
					"status":    app.Status,
					"confirmed": app.Confirmed,
					"attended":  app.Attended,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListOpenDeadlines feeds the scheduler's catch-up scan.
func (s *Store) ListOpenDeadlines() ([]scheduler.Entry, error) {
	var rows []events.Event
	err := s.db.Select("id", "application_deadline").
		Where("application_open = ? AND application_deadline IS NOT NULL", true).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list open deadlines: %w", err)
	}

	entries := make([]scheduler.Entry, 0, len(rows))
	for _, ev := range rows {
		entries = append(entries, scheduler.Entry{EventID: ev.ID, Deadline: *ev.ApplicationDeadline})
	}
	return entries, nil
}
