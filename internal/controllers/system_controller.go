package controllers

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuscard/card_backend/internal/models"
)

type SystemController struct {
	DB *gorm.DB
}

// Reset clears the transaction ledger and the anomaly log atomically.
// Students and telemetry logs are kept.
func (sc *SystemController) Reset(c *gin.Context) {
	var numTx, numAnomalies int64
	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.TransactionLog{})
		if res.Error != nil {
			return res.Error
		}
		numTx = res.RowsAffected

		res = tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Anomaly{})
		if res.Error != nil {
			return res.Error
		}
		numAnomalies = res.RowsAffected
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("System reset: %d transactions, %d anomalies cleared", numTx, numAnomalies),
	})
}

// Dashboard aggregates anomaly counts, severity distribution and the share
// of telemetry logs that were flagged.
func (sc *SystemController) Dashboard(c *gin.Context) {
	var totalAnomalies, high, medium, low int64
	var systemLogs, anomalyLogs int64

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&totalAnomalies, sc.DB.Model(&models.Anomaly{})},
		{&high, sc.DB.Model(&models.Anomaly{}).Where("severity = ?", models.SeverityHigh)},
		{&medium, sc.DB.Model(&models.Anomaly{}).Where("severity = ?", models.SeverityMedium)},
		{&low, sc.DB.Model(&models.Anomaly{}).Where("severity = ?", models.SeverityLow)},
		{&systemLogs, sc.DB.Model(&models.SystemLog{})},
		{&anomalyLogs, sc.DB.Model(&models.SystemLog{}).Where("anomaly = ?", 1)},
	}
	for _, q := range counts {
		if err := q.query.Count(q.dst).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
	}

	anomalyRate := 0.0
	if systemLogs > 0 {
		anomalyRate = math.Round(float64(anomalyLogs)/float64(systemLogs)*100*100) / 100
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"total_anomalies": totalAnomalies,
		"severity_distribution": gin.H{
			"High":   high,
			"Medium": medium,
			"Low":    low,
		},
		"system_logs":  systemLogs,
		"anomaly_rate": anomalyRate,
	})
}
