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

type StudentController struct {
	DB *gorm.DB
}

// Register creates a student/card record. Duplicate uids are rejected and
// leave the table untouched.
func (sc *StudentController) Register(c *gin.Context) {
	data, ok := bindJSON(c)
	if !ok {
		return
	}

	uid := getString(data, "uid")
	name := getString(data, "name")
	phone := getString(data, "phone")

	if uid == "" || name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "UID and name are required"})
		return
	}

	var existing models.Student
	if err := sc.DB.Where("uid = ?", uid).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Student already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	student := models.Student{
		UID:       uid,
		Name:      name,
		Phone:     phone,
		Status:    models.StatusActive,
		Balance:   0,
		CreatedAt: time.Now().UTC(),
	}
	if err := sc.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Student registered", "student": student})
}

func (sc *StudentController) List(c *gin.Context) {
	var students []models.Student
	if err := sc.DB.Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "students": students})
}

// UpdateStatus moves a card to any of the three statuses. Repeating the
// same transition is a no-op, not an error.
func (sc *StudentController) UpdateStatus(c *gin.Context) {
	data, ok := bindJSON(c)
	if !ok {
		return
	}

	uid := getString(data, "uid")
	newStatus := getString(data, "status")

	if uid == "" || !models.IsValidStatus(newStatus) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "UID and valid status (active/blocked/unregistered) are required",
		})
		return
	}

	sc.setStatus(c, uid, newStatus)
}

// BlockCard, UnblockCard and UnregisterCard are the fixed-status shortcuts
// behind the dashboard buttons; they take only a uid.
func (sc *StudentController) BlockCard(c *gin.Context)      { sc.fixedStatus(c, models.StatusBlocked) }
func (sc *StudentController) UnblockCard(c *gin.Context)    { sc.fixedStatus(c, models.StatusActive) }
func (sc *StudentController) UnregisterCard(c *gin.Context) { sc.fixedStatus(c, models.StatusUnregistered) }

func (sc *StudentController) fixedStatus(c *gin.Context, newStatus string) {
	data, ok := bindJSON(c)
	if !ok {
		return
	}
	uid := getString(data, "uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "UID is required"})
		return
	}
	sc.setStatus(c, uid, newStatus)
}

func (sc *StudentController) setStatus(c *gin.Context, uid, newStatus string) {
	var student models.Student
	if err := sc.DB.Where("uid = ?", uid).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	student.Status = newStatus
	if err := sc.DB.Model(&student).Update("status", newStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("Student %s status updated to %s", uid, newStatus),
		"student": student,
	})
}

// Recharge adds the raw amount to an active card's balance. The update and
// the re-read run in one transaction so a failed write never leaks a
// partial balance.
func (sc *StudentController) Recharge(c *gin.Context) {
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
	if err := sc.DB.Where("uid = ?", uid).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if student.Status != models.StatusActive {
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "Recharge not allowed. Student is not active."})
		return
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Student{}).Where("uid = ?", uid).
			Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
			return err
		}
		return tx.Where("uid = ?", uid).First(&student).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": fmt.Sprintf("Recharge failed: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"message":     "Balance updated successfully",
		"uid":         student.UID,
		"new_balance": student.Balance,
	})
}
