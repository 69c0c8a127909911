package models

import "time"

const (
	SeverityLow    = "Low"
	SeverityMedium = "Medium"
	SeverityHigh   = "High"
)

// Anomaly is one detected event, written alongside the system log that
// triggered it. Append-only; cleared only by /reset_system.
type Anomaly struct {
	AnomalyID uint      `gorm:"primaryKey;autoIncrement" json:"anomaly_id"`
	Type      string    `gorm:"size:50" json:"type"`
	Source    string    `gorm:"size:50" json:"source"`
	Details   string    `gorm:"type:text" json:"details"`
	Severity  string    `gorm:"size:20;index" json:"severity"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (Anomaly) TableName() string { return "anomalies" }
