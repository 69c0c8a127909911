package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/campuscard/card_backend/internal/models"
)

type AuthConfig struct {
	JWTSecret    string
	JWTExpiresIn time.Duration
}

type Claims struct {
	OperatorID string `json:"operator_id"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware resolves the bearer token to an active operator and stores
// it in the request context under "operator".
func AuthMiddleware(db *gorm.DB, cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing or invalid authorization header"})
			return
		}
		tokenStr := strings.TrimSpace(auth[len("Bearer "):])

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid token"})
			return
		}

		var op models.Operator
		if err := db.Where("operator_id = ? AND active = ?", claims.OperatorID, true).First(&op).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "operator not found or inactive"})
			return
		}

		c.Set("operator", op)
		c.Next()
	}
}

func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		oVal, ok := c.Get("operator")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "unauthorized"})
			return
		}
		op := oVal.(models.Operator)
		if _, ok := allowed[op.Role]; !ok {
			// admin passes any role gate
			if op.Role != "admin" {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "forbidden"})
				return
			}
		}
		c.Next()
	}
}
