package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is loaded once at startup and passed by reference into every
// collaborator constructor. Nothing re-reads the environment after Load.
type Config struct {
	Port        string
	DatabaseURL string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTAccessSecret  string
	JWTRefreshSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	// OpenAIKeys is the AI fallback roster: interchangeable credentials
	// tried in random order until one succeeds.
	OpenAIKeys  []string
	OpenAIModel string

	UploadDir string

	AdminEmail    string
	AdminUsername string
	AdminPassword string
}

func Load() *Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))

	return &Config{
		Port:        getEnv("PORT", "3000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),

		JWTAccessSecret:  getEnv("ACCESS_TOKEN_SECRET", "change-me-access-secret"),
		JWTRefreshSecret: getEnv("REFRESH_TOKEN_SECRET", "change-me-refresh-secret"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@invoicehub.local"),

		OpenAIKeys:  splitKeys(os.Getenv("OPENAI_API_KEYS")),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminUsername: getEnv("ADMIN_USERNAME", "superadmin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
