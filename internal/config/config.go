package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Env string // "development" or "production"

	DB struct {
		DSN string
	}
	API struct {
		Port        string
		BasePath    string
		AdminToken  string
		ViewerToken string
	}
	Mail struct {
		Host   string
		Port   int
		User   string
		Pass   string
		Secure bool // implicit TLS; STARTTLS otherwise
		From   string
	}
	Kafka struct {
		Broker  string
		Topic   string
		GroupID string
	}
	Telegram struct {
		BotToken string
		ChatID   int64
	}
	Logging struct {
		Dir   string
		Level string
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	cfg.Env = os.Getenv("APP_ENV")

	// Database DSN
	cfg.DB.DSN = os.Getenv("DB_DSN")

	// API settings
	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")
	cfg.API.AdminToken = os.Getenv("ADMIN_TOKEN")
	cfg.API.ViewerToken = os.Getenv("VIEWER_TOKEN")

	// Mail settings (checked per request by the mail endpoint, not at boot)
	cfg.Mail.Host = os.Getenv("MAIL_HOST")
	if p, err := strconv.Atoi(os.Getenv("MAIL_PORT")); err == nil {
		cfg.Mail.Port = p
	}
	cfg.Mail.User = os.Getenv("MAIL_USER")
	cfg.Mail.Pass = os.Getenv("MAIL_PASS")
	cfg.Mail.Secure = os.Getenv("MAIL_SECURE") == "true"
	cfg.Mail.From = os.Getenv("MAIL_FROM")

	// Kafka settings (submission ingestion disabled when broker is empty)
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	// Telegram admin alerts (disabled when token is empty)
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if id, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil {
		cfg.Telegram.ChatID = id
	}

	// Logging
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Validate required settings
	missing := []string{}
	if cfg.DB.DSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.API.AdminToken == "" {
		missing = append(missing, "ADMIN_TOKEN")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api"
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = "no-reply@viloassist.com"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "vilo_submissions"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "vilo-admin"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}

// Production reports whether the service runs with production hardening
// (strict TLS verification, terse error payloads).
func (c Config) Production() bool {
	return c.Env == "production"
}
