package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/project/circulation/pkg/logger"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

// SetupPostgres applies every pending migration found in migrations/.
func SetupPostgres(ctx context.Context, dsn string, l *zap.Logger) error {
	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open postgres for migrations: %w", err)
	}
	defer database.Close()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err = goose.SetDialect("postgres"); err != nil {
		return err
	}

	before, err := goose.GetDBVersionContext(ctx, database)
	if logger.CheckError(err, l, "can not read schema version", zap.Error(err)) {
		return err
	}

	if err = goose.UpContext(ctx, database, migrationsDir); logger.CheckError(err, l, "migration failed", zap.Error(err)) {
		return err
	}

	after, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return err
	}

	logger.MakeInfo(l, "schema is up to date", zap.Int64("from_version", before), zap.Int64("to_version", after))
	return nil
}
