package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/agora-forum/api-go/config"
	"github.com/agora-forum/api-go/mailer"
	"github.com/agora-forum/api-go/models"
	"github.com/agora-forum/api-go/services"
	"github.com/agora-forum/api-go/utils"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openSQL opens a database/sql handle for goose. The caller must close it.
func openSQL(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	goose.SetBaseFS(config.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runMigration(fn func(db *sql.DB) error) error {
	db, err := openSQL(config.Load())
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

var rootCmd = &cobra.Command{
	Use:   "forumctl",
	Short: "Operator tooling for the forum API",
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(func(db *sql.DB) error {
			return goose.UpContext(cmd.Context(), db, "migrations")
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(func(db *sql.DB) error {
			return goose.DownContext(cmd.Context(), db, "migrations")
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(func(db *sql.DB) error {
			return goose.StatusContext(cmd.Context(), db, "migrations")
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default admin account and categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log := slog.New(slog.NewTextHandler(os.Stdout, nil))

		db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), config.GormConfig(true))
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		if err := config.RunMigrations(cmd.Context(), db); err != nil {
			return err
		}

		users := []services.CreateUserInput{{
			RegisterInput: services.RegisterInput{
				Login:                cfg.DefaultAdmin.Login,
				Email:                cfg.DefaultAdmin.Email,
				Password:             cfg.DefaultAdmin.Password,
				PasswordConfirmation: cfg.DefaultAdmin.Password,
				FullName:             "Administrator",
			},
			Role: models.RoleAdmin,
		}}

		demoPassword, _ := cmd.Flags().GetString("demo-user-password")
		if demoPassword != "" {
			users = append(users, services.CreateUserInput{
				RegisterInput: services.RegisterInput{
					Login:                "user",
					Email:                "user@localhost",
					Password:             demoPassword,
					PasswordConfirmation: demoPassword,
					FullName:             "Demo User",
				},
				Role: models.RoleUser,
			})
		}

		ledger := services.NewRatingLedger(log)
		posts := services.NewPostService(db, services.NewLikeRegistry(db, ledger, log), log)
		categories := services.NewCategoryService(db, posts, log)
		accounts := services.NewAccountService(
			db,
			utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
			mailer.NewLogMailer(log),
			services.AccountConfig{BaseURL: cfg.BaseURL, BcryptCost: cfg.BcryptCost},
			log,
		)

		if err := services.Seed(cmd.Context(), accounts, categories, users, log); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
		fmt.Println("Seed completed")
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("demo-user-password", "", "Also create a confirmed demo account named \"user\" with this password")
}
