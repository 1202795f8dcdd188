package lifecycle

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"events-app/internal/domain/access"
)

// Capability names one access-gated action available while an event sits in
// a status. Every status must carry an explicit rule for every capability;
// a missing rule is a validation error, not an implicit "nobody".
type Capability string

const (
	CapViewApplications      Capability = "view_applications"
	CapApproveParticipants   Capability = "approve_participants"
	CapEditDetails           Capability = "edit_details"
	CapEditOrganizers        Capability = "edit_organizers"
	CapEditApplicationStatus Capability = "edit_application_status"
	CapVisibility            Capability = "visibility"
	CapApplicable            Capability = "applicable"
)

// AllCapabilities lists every rule a status must define.
var AllCapabilities = []Capability{
	CapViewApplications,
	CapApproveParticipants,
	CapEditDetails,
	CapEditOrganizers,
	CapEditApplicationStatus,
	CapVisibility,
	CapApplicable,
}

// Status is one named node of a lifecycle with its capability rules.
type Status struct {
	Name  string                     `json:"name"`
	Rules map[Capability]access.Rule `json:"rules"`
}

// Rule returns the status's rule for the capability, failing closed (empty
// rule) if the capability was never defined.
func (s Status) Rule(c Capability) access.Rule {
	if s.Rules == nil {
		return access.Rule{}
	}
	return s.Rules[c]
}

// Transition is a directed, access-gated edge between statuses. A nil From
// is the creation transition: how a new event enters the lifecycle.
type Transition struct {
	From       *string     `json:"from"`
	To         string      `json:"to"`
	AllowedFor access.Rule `json:"allowed_for"`
}

// IsCreation reports whether this is the lifecycle's entry edge.
func (t Transition) IsCreation() bool {
	return t.From == nil
}

// Lifecycle is the complete approval state machine for one event type.
// Statuses and transitions are persisted as JSON columns, the same shape
// they travel in over the API.
type Lifecycle struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	EventType     string         `gorm:"not null;uniqueIndex:idx_lifecycles_event_type" json:"event_type"`
	Statuses      StatusList     `gorm:"type:jsonb;not null" json:"statuses"`
	Transitions   TransitionList `gorm:"type:jsonb;not null" json:"transitions"`
	InitialStatus string         `gorm:"not null" json:"initial_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StatusList []Status

func (l StatusList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *StatusList) Scan(value interface{}) error {
	return scanJSON(value, l, "lifecycle.StatusList")
}

type TransitionList []Transition

func (l TransitionList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *TransitionList) Scan(value interface{}) error {
	return scanJSON(value, l, "lifecycle.TransitionList")
}

func scanJSON(value, dest interface{}, what string) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %s", value, what)
	}
}
