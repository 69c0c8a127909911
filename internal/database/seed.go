package database

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscard/card_backend/internal/config"
	"github.com/campuscard/card_backend/internal/models"
	"github.com/campuscard/card_backend/internal/utils"
)

// SeedAdmin creates the initial operator account when none exists yet.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.Operator{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := cfg.AdminEmail
	if email == "" {
		email = "admin@example.com"
	}
	fullName := cfg.AdminFullName
	if fullName == "" {
		fullName = "Administrator"
	}
	password := cfg.AdminPassword
	if password == "" {
		password = "admin123"
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.Operator{
		OperatorID: uuid.NewString(),
		FullName:   fullName,
		Email:      email,
		Password:   hashed,
		Role:       "admin",
		Active:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded initial admin operator:", email)
	return nil
}
