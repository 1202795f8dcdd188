package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"events-app/internal/infra/metrics"
)

// Entry is one open application period with a deadline, as reported by the
// persistence layer for the catch-up scan.
type Entry struct {
	EventID  uint
	Deadline time.Time
}

// Store lists the events the scheduler needs to watch.
type Store interface {
	ListOpenDeadlines() ([]Entry, error)
}

// Closer is the shared mutation path the scheduler fires into. The armed
// deadline travels along so a stale fire (deadline edited, period already
// closed) is detected against fresh data and discarded.
type Closer interface {
	CloseApplicationsIfDue(eventID uint, armedDeadline time.Time) (bool, error)
}

// DeadlineScheduler closes application periods once their deadline passes.
// One one-shot timer per event; re-arming replaces the previous timer,
// disarming drops it. A fire that fails is logged and dropped: the next
// process start's catch-up scan picks the event up again.
type DeadlineScheduler struct {
	store  Store
	closer Closer
	now    func() time.Time

	mu     sync.Mutex
	timers map[uint]*time.Timer
}

func New(store Store, closer Closer, now func() time.Time) *DeadlineScheduler {
	if now == nil {
		now = time.Now
	}
	return &DeadlineScheduler{
		store:  store,
		closer: closer,
		now:    now,
		timers: map[uint]*time.Timer{},
	}
}

// Start runs the catch-up scan and arms a timer for every future deadline.
// Deadlines already in the past are fired immediately, covering closes
// missed while the process was down.
func (s *DeadlineScheduler) Start() error {
	entries, err := s.store.ListOpenDeadlines()
	if err != nil {
		return fmt.Errorf("deadline catch-up scan: %w", err)
	}
	for _, e := range entries {
		if !e.Deadline.After(s.now()) {
			if err := s.Fire(e.EventID, e.Deadline); err != nil {
				log.Printf("deadline catch-up for event %d failed: %v", e.EventID, err)
			}
			continue
		}
		s.Arm(e.EventID, e.Deadline)
	}
	return nil
}

// Arm schedules (or reschedules) the close for one event. A deadline not
// after now fires synchronously instead of arming a timer.
func (s *DeadlineScheduler) Arm(eventID uint, deadline time.Time) {
	if !deadline.After(s.now()) {
		if err := s.Fire(eventID, deadline); err != nil {
			log.Printf("immediate deadline fire for event %d failed: %v", eventID, err)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.timers[eventID]; ok {
		old.Stop()
	}
	s.timers[eventID] = time.AfterFunc(deadline.Sub(s.now()), func() {
		if err := s.Fire(eventID, deadline); err != nil {
			log.Printf("deadline fire for event %d failed: %v", eventID, err)
		}
	})
}

// Disarm drops the timer for an event whose deadline was cleared or whose
// row was deleted.
func (s *DeadlineScheduler) Disarm(eventID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[eventID]; ok {
		t.Stop()
		delete(s.timers, eventID)
	}
}

// Fire runs the close for one event and reports the result synchronously.
// The timer entry goes away regardless of outcome; stale fires come back as
// a quiet no-op from the closer.
func (s *DeadlineScheduler) Fire(eventID uint, armedDeadline time.Time) error {
	s.mu.Lock()
	if t, ok := s.timers[eventID]; ok {
		t.Stop()
		delete(s.timers, eventID)
	}
	s.mu.Unlock()

	closed, err := s.closer.CloseApplicationsIfDue(eventID, armedDeadline)
	if err != nil {
		return err
	}
	if closed {
		metrics.DeadlineClosesTotal.Inc()
		log.Printf("closed application period for event %d", eventID)
	}
	return nil
}

// Armed reports how many timers are currently scheduled. Exported for the
// metrics gauge.
func (s *DeadlineScheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every armed timer.
func (s *DeadlineScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
