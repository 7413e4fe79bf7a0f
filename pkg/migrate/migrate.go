package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/vietshop/checkout-backend/pkg/config"
	"github.com/vietshop/checkout-backend/pkg/db"
	"github.com/vietshop/checkout-backend/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Up applies all pending migrations against the provided database handle.
func Up(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// MaybeRunDev applies migrations at startup when auto-migrate is enabled.
// Production deploys run migrations out of band.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.DB.AutoMigrate {
		return nil
	}
	if cfg.App.IsProd() {
		if logg != nil {
			logg.Warn(ctx, "auto-migrate requested in production, skipping")
		}
		return nil
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("getting sql db for migrations: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "applying pending migrations")
	}
	return Up(ctx, sqlDB)
}
