package config

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var Migrations embed.FS

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
}

func (c *R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.BucketName != ""
}

func GetR2Config() *R2Config {
	return &R2Config{
		AccountID:       getEnv("CLOUDFLARE_ACCOUNT_ID", ""),
		AccessKeyID:     getEnv("CLOUDFLARE_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("CLOUDFLARE_SECRET_ACCESS_KEY", ""),
		BucketName:      getEnv("CLOUDFLARE_BUCKET_NAME", ""),
		PublicURL:       getEnv("CLOUDFLARE_PUBLIC_URL", ""),
		Region:          "auto",
	}
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// GormConfig is shared by the server and tests so both translate driver errors
// and stamp rows in UTC.
func GormConfig(silent bool) *gorm.Config {
	cfg := &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	return cfg
}

func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), GormConfig(cfg.IsProduction()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the embedded goose migrations to the database behind db.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
