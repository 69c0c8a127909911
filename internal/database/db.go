package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/campuscard/card_backend/internal/config"
	"github.com/campuscard/card_backend/internal/models"
)

// Connect opens the store selected by DB_DRIVER. Postgres is the default;
// sqlite (pure-Go driver) covers single-node deployments and tests.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
		)
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("database: unknown driver %q", cfg.DBDriver)
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Student{},
		&models.TransactionLog{},
		&models.SystemLog{},
		&models.Anomaly{},
		&models.Operator{},
	)
}
