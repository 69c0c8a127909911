package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/campuscard/card_backend/internal/middleware"
	"github.com/campuscard/card_backend/internal/models"
	"github.com/campuscard/card_backend/internal/utils"
)

// AuthController signs operators into the management console. Stateless
// JWT: logout is client-side token disposal.
type AuthController struct {
	DB        *gorm.DB
	JWTSecret string
	ExpiresIn time.Duration
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid or missing JSON"})
		return
	}

	var op models.Operator
	if err := a.DB.Where("email = ?", req.Email).First(&op).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid credentials"})
		return
	}
	if !op.Active || !utils.CheckPassword(op.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid credentials"})
		return
	}

	now := time.Now().UTC()
	claims := middleware.Claims{
		OperatorID: op.OperatorID,
		Role:       op.Role,
		Email:      op.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "card_backend",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ExpiresIn)),
			Subject:   strconv.FormatUint(uint64(op.ID), 10),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(a.ExpiresIn.Seconds()),
		"role":         op.Role,
	})
}

func (a *AuthController) Me(c *gin.Context) {
	oVal, _ := c.Get("operator")
	op := oVal.(models.Operator)
	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"operator_id": op.OperatorID,
		"email":       op.Email,
		"full_name":   op.FullName,
		"role":        op.Role,
		"active":      op.Active,
		"created_at":  op.CreatedAt,
		"updated_at":  op.UpdatedAt,
	})
}

// Logout for stateless JWT: client discards the token.
func (a *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "logged out"})
}
