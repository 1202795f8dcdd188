package events

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"events-app/internal/domain/media"
)

// Event is the persisted event row. Organizer and body sets live in JSON
// columns, the same way the lifecycle definitions do.
type Event struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	EventType   string `gorm:"not null" json:"event_type"`

	Status          string `gorm:"not null" json:"status"`
	ApplicationOpen bool   `gorm:"not null;default:false" json:"application_open"`

	ApplicationDeadline *time.Time `json:"application_deadline"`

	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`

	MaxParticipants int `gorm:"not null;default:0" json:"max_participants"`

	Organizers       UintList `gorm:"type:jsonb;not null" json:"organizers"`
	OrganizingBodies UintList `gorm:"type:jsonb;not null" json:"organizing_bodies"`

	HeadImageID *string      `json:"head_image_id,omitempty"`
	HeadImage   *media.Image `gorm:"foreignKey:HeadImageID" json:"head_image,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UintList []uint

func (l UintList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]uint{})
	}
	return json.Marshal(l)
}

func (l *UintList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into events.UintList", value)
	}
}
