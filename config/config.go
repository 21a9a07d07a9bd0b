package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   string
	AppEnv string

	DB DBConfig

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	BaseURL string

	SMTP   SMTPConfig
	R2     *R2Config
	Google *GoogleConfig

	RateLimitRPS   float64
	RateLimitBurst int

	DefaultAdmin DefaultAdminConfig
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type DefaultAdminConfig struct {
	Login    string
	Email    string
	Password string
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Not fatal, production runs without a .env file
		slog.Debug("no .env file loaded", "error", err)
	}

	return &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "forum"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:   getDuration("TOKEN_TTL", 30*24*time.Hour),
		BcryptCost: getInt("BCRYPT_COST", 10),
		BaseURL:    getEnv("BASE_URL", "http://localhost:8080"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "no-reply@localhost"),
		},
		R2:             GetR2Config(),
		Google:         NewGoogleConfig(),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 10),
		DefaultAdmin: DefaultAdminConfig{
			Login:    getEnv("DEFAULT_ADMIN_LOGIN", "admin"),
			Email:    getEnv("DEFAULT_ADMIN_EMAIL", "admin@localhost"),
			Password: getEnv("DEFAULT_ADMIN_PASSWORD", "Admin12345"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
