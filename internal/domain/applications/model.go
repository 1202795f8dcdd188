package applications

import "time"

type Status string

const (
	StatusRequesting Status = "requesting"
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusRequesting, StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type Application struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	EventID uint `gorm:"not null;index:idx_applications_event" json:"event_id"`
	UserID  uint `gorm:"not null;index:idx_applications_user" json:"user_id"`
	BodyID  uint `gorm:"not null" json:"body_id"`

	Status     Status `gorm:"type:varchar(20);not null;default:'requesting'" json:"status"`
	Motivation string `json:"motivation"`

	Confirmed bool `gorm:"not null;default:false" json:"confirmed"`
	Attended  bool `gorm:"not null;default:false" json:"attended"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
