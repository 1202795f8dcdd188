package applications

import (
	"errors"
	"fmt"
)

var (
	// ErrAttendanceRequiresConfirmation rejects marking attendance for an
	// unconfirmed participant.
	ErrAttendanceRequiresConfirmation = errors.New("attendance requires confirmation")
	// ErrCannotUnconfirmAttended rejects removing confirmation from a
	// participant already marked as attended.
	ErrCannotUnconfirmAttended = errors.New("cannot unconfirm an attended participant")
	// ErrApplicationsStillOpen rejects organizer status changes while the
	// application period is still running.
	ErrApplicationsStillOpen = errors.New("applications are still open")
	// ErrUnknownStatus rejects a status value outside the known set.
	ErrUnknownStatus = errors.New("unknown application status")
)

// CanSetConfirmed checks whether the confirmed flag may move to newValue.
// Confirmation may only be withdrawn while the participant has not attended.
func CanSetConfirmed(app Application, newValue bool) error {
	if !newValue && app.Attended {
		return fmt.Errorf("%w: application %d", ErrCannotUnconfirmAttended, app.ID)
	}
	return nil
}

// CanSetAttended checks whether the attended flag may move to newValue.
// Attendance may only be recorded for confirmed participants.
func CanSetAttended(app Application, newValue bool) error {
	if newValue && !app.Confirmed {
		return fmt.Errorf("%w: application %d", ErrAttendanceRequiresConfirmation, app.ID)
	}
	return nil
}

// CanSetStatus checks whether an organizer may move an application to the
// given status. Status changes are only legal once the event's application
// period has closed.
func CanSetStatus(app Application, newStatus Status, applicationOpen bool) error {
	if !newStatus.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, newStatus)
	}
	if applicationOpen {
		return fmt.Errorf("%w: application %d", ErrApplicationsStillOpen, app.ID)
	}
	return nil
}

// BulkCloseToPending returns the applications rewritten for an application
// period close: everything still in requesting moves to pending. The input is
// not mutated; only changed records are returned, ready to be persisted as
// part of the close.
func BulkCloseToPending(apps []Application) []Application {
	var changed []Application
	for _, app := range apps {
		if app.Status != StatusRequesting {
			continue
		}
		app.Status = StatusPending
		changed = append(changed, app)
	}
	return changed
}
