package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscard/card_backend/internal/middleware"
	"github.com/campuscard/card_backend/internal/models"
	"github.com/campuscard/card_backend/internal/utils"
)

const testSecret = "test_secret"

func newAuthRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	if err := db.AutoMigrate(&models.Operator{}); err != nil {
		t.Fatalf("migrate operators: %v", err)
	}

	r := gin.New()
	authCtrl := &AuthController{DB: db, JWTSecret: testSecret, ExpiresIn: time.Hour}
	authMW := middleware.AuthMiddleware(db, middleware.AuthConfig{JWTSecret: testSecret, JWTExpiresIn: time.Hour})

	r.POST("/api/auth/login", authCtrl.Login)
	api := r.Group("/api", authMW)
	api.GET("/auth/me", authCtrl.Me)
	api.POST("/auth/logout", authCtrl.Logout)
	return r
}

func seedOperator(t *testing.T, db *gorm.DB, email, password string, active bool) {
	t.Helper()
	hashed, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	op := models.Operator{
		OperatorID: uuid.NewString(),
		FullName:   "Ops",
		Email:      email,
		Password:   hashed,
		Role:       "admin",
		Active:     active,
	}
	if err := db.Create(&op).Error; err != nil {
		t.Fatalf("create operator: %v", err)
	}
}

func TestLoginAndMe(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(t, db)
	seedOperator(t, db, "ops@example.com", "hunter22", true)

	w := doRequest(t, r, http.MethodPost, "/api/auth/login", `{"email":"ops@example.com","password":"hunter22"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatal("missing access token")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	me := decodeBody(t, rec)
	if me["email"] != "ops@example.com" {
		t.Errorf("unexpected identity: %v", me)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(t, db)
	seedOperator(t, db, "ops@example.com", "hunter22", true)

	cases := []string{
		`{"email":"ops@example.com","password":"wrong"}`,
		`{"email":"ghost@example.com","password":"hunter22"}`,
	}
	for _, body := range cases {
		w := doRequest(t, r, http.MethodPost, "/api/auth/login", body)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("body %s: expected 401, got %d", body, w.Code)
		}
	}
}

func TestLoginRejectsInactiveOperator(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(t, db)
	seedOperator(t, db, "ops@example.com", "hunter22", false)

	w := doRequest(t, r, http.MethodPost, "/api/auth/login", `{"email":"ops@example.com","password":"hunter22"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(t, db)

	w := doRequest(t, r, http.MethodGet, "/api/auth/me", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", rec.Code)
	}
}
