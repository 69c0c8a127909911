package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campuscard/card_backend/internal/anomaly"
	"github.com/campuscard/card_backend/internal/models"
	"github.com/campuscard/card_backend/internal/notify"
	"github.com/campuscard/card_backend/internal/ws"
)

// TelemetryController ingests reader telemetry and runs the outlier
// detector over complete samples. Detector, Hub and Notifier may be nil;
// ingestion then degrades to plain storage.
type TelemetryController struct {
	DB       *gorm.DB
	Detector *anomaly.Detector
	Hub      *ws.TelemetryHub
	Notifier *notify.Telegram
	Log      *zap.Logger
}

func (tc *TelemetryController) logger() *zap.Logger {
	if tc.Log == nil {
		return zap.NewNop()
	}
	return tc.Log
}

// List returns the last 10 telemetry logs, newest first.
func (tc *TelemetryController) List(c *gin.Context) {
	var logs []models.SystemLog
	if err := tc.DB.Order("timestamp DESC").Limit(10).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// ListAnomalies returns the last 10 detected anomalies, newest first.
func (tc *TelemetryController) ListAnomalies(c *gin.Context) {
	var anomalies []models.Anomaly
	if err := tc.DB.Order("timestamp DESC").Limit(10).Find(&anomalies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, anomalies)
}

// Create stores one telemetry sample. Unparseable feature values become
// null readings rather than rejecting the sample; classification only runs
// when the detector is loaded and all five readings are present. Inference
// problems never fail the request: the log is saved either way and the
// classification outcome says what happened.
func (tc *TelemetryController) Create(c *gin.Context) {
	data, ok := bindJSON(c)
	if !ok {
		return
	}

	logRow := models.SystemLog{
		Timestamp:      parseTimestamp(getString(data, "timestamp")),
		CPUUsage:       coerceReading(data, "cpu_usage"),
		MemoryUsage:    coerceReading(data, "memory_usage"),
		WifiSignal:     coerceReading(data, "wifi_signal"),
		ReaderResponse: coerceReading(data, "reader_response"),
		ErrorRate:      coerceReading(data, "error_rate"),
		Anomaly:        0,
	}
	if err := tc.DB.Create(&logRow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	cls := tc.classify(&logRow)
	broadcastLog(tc.Hub, logRow)

	message := "System log saved"
	if cls.Evaluated && cls.Outlier {
		message = "Log saved, anomaly detected"
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":         "success",
		"message":        message,
		"log":            logRow,
		"classification": cls,
	})
}

// classify runs the detector over a freshly stored log and, on an outlier,
// flags the log and appends the anomaly row in one transaction.
func (tc *TelemetryController) classify(logRow *models.SystemLog) anomaly.Classification {
	if tc.Detector == nil {
		return anomaly.Skipped("no model loaded")
	}

	readings := []*float64{logRow.CPUUsage, logRow.MemoryUsage, logRow.WifiSignal, logRow.ReaderResponse, logRow.ErrorRate}
	vector := make([]float64, 0, len(readings))
	for _, r := range readings {
		if r == nil {
			return anomaly.Skipped("incomplete features")
		}
		vector = append(vector, *r)
	}

	label, err := tc.Detector.Predict(vector)
	if err != nil {
		tc.logger().Warn("telemetry classification failed", zap.Uint("log_id", logRow.LogID), zap.Error(err))
		return anomaly.Skipped("inference failed")
	}
	if label != anomaly.LabelOutlier {
		return anomaly.Evaluated(label)
	}

	event := models.Anomaly{
		Type:      "System",
		Source:    "Sensor",
		Details:   snapshotDetails(vector),
		Severity:  models.SeverityHigh,
		Timestamp: time.Now().UTC(),
	}
	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SystemLog{}).Where("log_id = ?", logRow.LogID).
			Update("anomaly", 1).Error; err != nil {
			return err
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		// Fail open: the sample is already stored, it just stays unflagged.
		tc.logger().Error("failed to persist anomaly", zap.Uint("log_id", logRow.LogID), zap.Error(err))
		return anomaly.Skipped("persistence failed")
	}

	logRow.Anomaly = 1
	broadcastAnomaly(tc.Hub, event)
	tc.Notifier.AnomalyDetected(event)
	return anomaly.Evaluated(label)
}

// Predict runs the detector without persisting anything. Unlike ingestion
// this endpoint is strict: every feature must be present and numeric.
func (tc *TelemetryController) Predict(c *gin.Context) {
	if tc.Detector == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "No model loaded"})
		return
	}

	data, ok := bindJSON(c)
	if !ok {
		return
	}

	vector := make([]float64, 0, len(anomaly.FeatureOrder))
	for _, feature := range anomaly.FeatureOrder {
		v, present := data[feature]
		if !present {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "All features required and must be numeric"})
			return
		}
		f, ok := toFloat(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "All features required and must be numeric"})
			return
		}
		vector = append(vector, f)
	}

	label, err := tc.Detector.Predict(vector)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	result := "Normal"
	if label == anomaly.LabelOutlier {
		result = "Anomaly"
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "prediction": result})
}

// coerceReading pulls one feature out of the payload, or nil when the
// value is missing or not a number.
func coerceReading(data map[string]any, key string) *float64 {
	v, present := data[key]
	if !present {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// parseTimestamp takes the sample's own clock when it parses as ISO-8601,
// otherwise stamps it on arrival. Readers with drifting clocks send
// garbage here more often than not.
func parseTimestamp(raw string) time.Time {
	if raw != "" {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts
			}
		}
	}
	return time.Now().UTC()
}

// snapshotDetails serializes the classified vector for the anomaly record.
func snapshotDetails(vector []float64) string {
	snapshot := make(map[string]float64, len(anomaly.FeatureOrder))
	for i, feature := range anomaly.FeatureOrder {
		snapshot[feature] = vector[i]
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return ""
	}
	return string(data)
}
