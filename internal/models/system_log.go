package models

import "time"

// SystemLog is one ingested reading of the five reader health metrics.
// A nil reading means the submitted value was missing or non-numeric; the
// row is kept anyway and the detector simply skips it.
type SystemLog struct {
	LogID          uint      `gorm:"primaryKey;autoIncrement" json:"log_id"`
	Timestamp      time.Time `gorm:"index;not null" json:"timestamp"`
	CPUUsage       *float64  `json:"cpu_usage"`
	MemoryUsage    *float64  `json:"memory_usage"`    // memory usage in %
	WifiSignal     *float64  `json:"wifi_signal"`     // signal strength in dBm
	ReaderResponse *float64  `json:"reader_response"` // NFC reader response time in ms
	ErrorRate      *float64  `json:"error_rate"`      // error rate in %
	Anomaly        int       `gorm:"not null;default:0" json:"anomaly"` // 0 = normal, 1 = anomaly
}

func (SystemLog) TableName() string { return "system_logs" }
