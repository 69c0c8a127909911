package models

import "time"

// Card/student statuses. A card moves freely between these via explicit
// updates; there is no automatic transition and no terminal state.
const (
	StatusActive       = "active"
	StatusBlocked      = "blocked"
	StatusUnregistered = "unregistered"
)

func IsValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusBlocked, StatusUnregistered:
		return true
	}
	return false
}

// Student is one registered RFID card. Balance is stored in integer units
// and only mutated while the card is active.
type Student struct {
	UID       string    `gorm:"primaryKey;size:50" json:"uid"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Phone     string    `gorm:"size:15" json:"phone"`
	Status    string    `gorm:"size:20;not null;default:active" json:"status"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func (Student) TableName() string { return "students" }

func (s *Student) IsBlocked() bool {
	return s.Status == StatusBlocked
}
