package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	DBDriver   string `yaml:"db_driver"` // postgres | sqlite
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_sslmode"`
	DBPath     string `yaml:"db_path"` // sqlite only

	JWTSecret    string `yaml:"jwt_secret"`
	JWTExpiresIn string `yaml:"jwt_expires_in"` // minutes

	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
	AdminFullName string `yaml:"admin_full_name"`

	// Anomaly detector artifact. Absence disables /predict and ingestion
	// flagging; logs are still stored.
	ModelPath string `yaml:"model_path"`

	TelegramBotToken string `yaml:"telegram_bot_token"`
	TelegramChatID   string `yaml:"telegram_chat_id"`
}

// Load builds the config from environment variables, with an optional YAML
// overlay taken from CONFIG_FILE. File values fill in before the env pass,
// so an explicitly set env var always wins.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: decode yaml: %w", err)
		}
	}

	setenv(&cfg.Port, "PORT", "8080")
	setenv(&cfg.DBDriver, "DB_DRIVER", "postgres")
	setenv(&cfg.DBHost, "DB_HOST", "localhost")
	setenv(&cfg.DBPort, "DB_PORT", "5432")
	setenv(&cfg.DBUser, "DB_USER", "postgres")
	setenv(&cfg.DBPassword, "DB_PASSWORD", "postgres")
	setenv(&cfg.DBName, "DB_NAME", "campuscard_db")
	setenv(&cfg.DBSSLMode, "DB_SSLMODE", "disable")
	setenv(&cfg.DBPath, "DB_PATH", "campuscard.db")
	setenv(&cfg.JWTSecret, "JWT_SECRET", "supersecret_change_me")
	setenv(&cfg.JWTExpiresIn, "JWT_EXPIRES_IN", "60")
	setenv(&cfg.AdminEmail, "ADMIN_EMAIL", "admin@example.com")
	setenv(&cfg.AdminPassword, "ADMIN_PASSWORD", "admin123")
	setenv(&cfg.AdminFullName, "ADMIN_FULL_NAME", "Administrator")
	setenv(&cfg.ModelPath, "MODEL_PATH", "anomaly_detector.json")
	setenv(&cfg.TelegramBotToken, "TELEGRAM_BOT_TOKEN", "")
	setenv(&cfg.TelegramChatID, "TELEGRAM_CHAT_ID", "")

	return cfg, nil
}

// setenv overrides dst with the env value when present, keeps the YAML
// value otherwise, and falls back to the default when both are empty.
func setenv(dst *string, key, fallback string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
		return
	}
	if *dst == "" {
		*dst = fallback
	}
}
