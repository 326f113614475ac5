package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Email transports.
const (
	EmailProviderSMTP     = "smtp"
	EmailProviderSendgrid = "sendgrid"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL string
	LogLevel    string
	Environment string
	Location    *time.Location

	CronSpecSweep string
	SweepWindow   time.Duration

	WhatsAppURL        string
	WhatsAppUser       string
	WhatsAppPassword   string
	WhatsAppTimeout    time.Duration
	WhatsAppRatePerSec float64
	EmailProvider      string
	MailHost           string
	MailPort           int
	MailUser           string
	MailPassword       string
	MailFrom           string
	MailFromName       string
	SendgridAPIKey     string
	SchoolName         string

	HTTPAddr         string
	AdminAPIToken    string
	CORSAllowOrigins []string

	TelegramToken   string // optional; the admin bot is disabled when empty
	AdminTelegramID int64
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getenv("ENVIRONMENT", "development"))

	tz := getenv("TIMEZONE", "Asia/Jakarta")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	cfg.CronSpecSweep = getenv("CRON_SPEC_SWEEP", "*/5 * * * *")

	windowMinutes, err := strconv.Atoi(getenv("SWEEP_WINDOW_MINUTES", "5"))
	if err != nil || windowMinutes <= 0 {
		return nil, fmt.Errorf("invalid SWEEP_WINDOW_MINUTES: must be a positive integer")
	}
	cfg.SweepWindow = time.Duration(windowMinutes) * time.Minute

	cfg.WhatsAppURL = getenv("WA_API_URL", "https://wa-reportify.devops.my.id/send/message")
	cfg.WhatsAppUser = os.Getenv("WA_API_USER")
	cfg.WhatsAppPassword = os.Getenv("WA_API_PASSWORD")
	cfg.WhatsAppTimeout, err = time.ParseDuration(getenv("WA_API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WA_API_TIMEOUT: %w", err)
	}
	cfg.WhatsAppRatePerSec, err = strconv.ParseFloat(getenv("WA_REQUESTS_PER_SECOND", "2"), 64)
	if err != nil || cfg.WhatsAppRatePerSec <= 0 {
		return nil, fmt.Errorf("invalid WA_REQUESTS_PER_SECOND: must be a positive number")
	}

	cfg.EmailProvider = strings.ToLower(getenv("EMAIL_PROVIDER", EmailProviderSMTP))
	switch cfg.EmailProvider {
	case EmailProviderSMTP, EmailProviderSendgrid:
	default:
		return nil, fmt.Errorf("invalid EMAIL_PROVIDER %q: use %q or %q", cfg.EmailProvider, EmailProviderSMTP, EmailProviderSendgrid)
	}
	cfg.MailHost = getenv("MAIL_HOST", "smtp.gmail.com")
	cfg.MailPort, err = strconv.Atoi(getenv("MAIL_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_PORT: %w", err)
	}
	cfg.MailUser = os.Getenv("MAIL_USER")
	cfg.MailPassword = os.Getenv("MAIL_PASS")
	cfg.MailFrom = getenv("MAIL_FROM", cfg.MailUser)
	cfg.MailFromName = getenv("MAIL_FROM_NAME", "Reportify")
	cfg.SendgridAPIKey = os.Getenv("SENDGRID_API_KEY")
	if cfg.EmailProvider == EmailProviderSendgrid && cfg.SendgridAPIKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is not set")
	}
	cfg.SchoolName = getenv("SCHOOL_NAME", "Sekolah Pelita Bangsa")

	cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
	cfg.AdminAPIToken = os.Getenv("ADMIN_API_TOKEN")
	cfg.CORSAllowOrigins = splitList(getenv("CORS_ALLOW_ORIGINS", "*"))

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID"); adminIDStr != "" {
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}
	if cfg.TelegramToken != "" && cfg.AdminTelegramID == 0 {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
