package main

import (
	"database/sql"
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	appmigrations "github.com/wolfman30/practice-comms-hub/migrations"
	"github.com/wolfman30/practice-comms-hub/pkg/logging"
)

func main() {
	down := flag.Bool("down", false, "roll back one migration instead of applying all")
	force := flag.Int("force", -1, "force the schema version without running migrations (recovers a dirty state)")
	flag.Parse()

	_ = godotenv.Load()
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	m, err := newMigrator(databaseURL)
	if err != nil {
		logger.Error("failed to initialize migrator", "error", err)
		os.Exit(1)
	}
	defer func() { _, _ = m.Close() }()

	switch {
	case *force >= 0:
		if err := m.Force(*force); err != nil {
			logger.Error("failed to force schema version", "version", *force, "error", err)
			os.Exit(1)
		}
		logger.Info("schema version forced", "version", *force)
	case *down:
		if err := m.Steps(-1); err != nil {
			logger.Error("rollback failed", "error", err)
			os.Exit(1)
		}
		logger.Info("rolled back one migration")
	default:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Error("migrate up failed", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations complete")
	}
}

func newMigrator(databaseURL string) (*migrate.Migrate, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, err
	}
	srcDriver, err := iofs.New(appmigrations.FS, ".")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
}
