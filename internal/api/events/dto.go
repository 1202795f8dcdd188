package events

import (
	"time"

	domevents "events-app/internal/domain/events"
)

type CreateEventRequest struct {
	Name             string     `json:"name" binding:"required"`
	Description      string     `json:"description"`
	EventType        string     `json:"event_type" binding:"required"`
	StartsAt         *time.Time `json:"starts_at"`
	EndsAt           *time.Time `json:"ends_at"`
	MaxParticipants  int        `json:"max_participants"`
	OrganizingBodies []uint     `json:"organizing_bodies"`
}

type UpdateEventRequest struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	StartsAt        *time.Time `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
	MaxParticipants *int       `json:"max_participants"`
}

type UpdateOrganizersRequest struct {
	Organizers       []uint `json:"organizers" binding:"required"`
	OrganizingBodies []uint `json:"organizing_bodies"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

type DeadlineRequest struct {
	// nil clears the deadline; the period then only closes manually
	Deadline *time.Time `json:"deadline"`
	Open     bool       `json:"open"`
}

type EventResponse struct {
	domevents.Event
	Rights *domevents.Permissions `json:"rights,omitempty"`
}
