package models

import (
	"time"

	"gorm.io/datatypes"
)

// StateSnapshot - строка key-value хранилища состояния
type StateSnapshot struct {
	Key        string         `gorm:"primaryKey;size:191"`
	Payload    datatypes.JSON `gorm:"not null"`
	LastUpdate time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
