package models

import (
	"time"

	"gorm.io/gorm"
)

// IdleSample records one scheduler tick: how long the user had been idle
// and whether a fullscreen window was suppressing timers at that moment.
type IdleSample struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
	IdleMs     int64          `gorm:"not null" json:"idle_ms"`
	Fullscreen bool           `gorm:"not null;default:false" json:"fullscreen"`
	Suppressed bool           `gorm:"not null;default:false" json:"suppressed"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// DaySummary is the aggregated view of one day of samples.
type DaySummary struct {
	Day             string  `json:"day"`
	Samples         int64   `json:"samples"`
	SuppressedCount int64   `json:"suppressed_count"`
	MaxIdleMs       int64   `json:"max_idle_ms"`
	MaxIdleMinutes  float64 `json:"max_idle_minutes"`
}

// ReportPeriod bounds a report in time.
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

// Report is the full reporting payload for one period.
type Report struct {
	Period          ReportPeriod   `json:"period"`
	Days            []DaySummary   `json:"days"`
	Activations     map[string]int `json:"activations"`
	TotalSamples    int64          `json:"total_samples"`
	TotalSuppressed int64          `json:"total_suppressed"`
	GeneratedAt     time.Time      `json:"generated_at"`
}
