package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuscard/card_backend/internal/models"
)

type TransactionController struct {
	DB *gorm.DB
}

// LogTransaction records a card purchase: the raw amount is deducted from
// the balance and appended to the ledger in a single transaction.
func (tc *TransactionController) LogTransaction(c *gin.Context) {
	data, ok := bindJSON(c)
	if !ok {
		return
	}

	uid := getString(data, "uid")
	amountVal, hasAmount := data["amount"]
	if uid == "" || !hasAmount {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "UID and amount are required"})
		return
	}
	amount, ok := toInt(amountVal)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "UID and amount are required"})
		return
	}

	var student models.Student
	if err := tc.DB.Where("uid = ?", uid).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if student.Status != models.StatusActive {
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "Transaction denied. Card inactive."})
		return
	}

	txRow := models.TransactionLog{
		UID:       uid,
		Amount:    amount,
		Timestamp: time.Now().UTC(),
	}
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Student{}).Where("uid = ?", uid).
			Update("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
			return err
		}
		return tx.Create(&txRow).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": fmt.Sprintf("Transaction failed: %v", err)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":      "success",
		"message":     "Transaction logged successfully",
		"transaction": txRow,
	})
}

// Recent returns the last 10 ledger rows, newest first.
func (tc *TransactionController) Recent(c *gin.Context) {
	var txs []models.TransactionLog
	if err := tc.DB.Order("timestamp DESC").Limit(10).Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, txs)
}
