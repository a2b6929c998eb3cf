package models

import (
	"time"

	"gorm.io/gorm"
)

// Event kinds for ActionEvent.
const (
	ActionActivate = "activate"
	ActionCancel   = "cancel"
)

// ActionEvent records a timer firing its command, or its canceller running
// after activity resumed.
type ActionEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	TimerName string         `gorm:"not null;index" json:"timer_name"`
	Command   string         `gorm:"not null" json:"command"`
	Kind      string         `gorm:"not null" json:"kind"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
