// Command migrate applies or rolls back the embedded schema migrations.
//
// Usage: migrate [up|down|version]
package main

import (
	"errors"
	"fmt"
	"os"

	"dunning-dashboard/config"
	pgStorage "dunning-dashboard/internal/adapter/storage/postgres"
	"dunning-dashboard/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
)

func main() {
	cfg, err := config.Load(os.Getenv("DUNNING_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if !cfg.Database.Configured() {
		log.Fatal().Msg("database.url is required")
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if cmd == "up" {
		if err := pgStorage.MigrateUp(cfg.Database.URL, log); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		return
	}

	m, err := pgStorage.NewMigrator(cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("init migrator")
	}
	defer m.Close()

	switch cmd {
	case "down":
		if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("rollback failed")
		}
		log.Info().Msg("rolled back one migration")
	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatal().Err(err).Msg("read version")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("schema version")
	default:
		log.Fatal().Str("command", cmd).Msg("unknown command, expected up, down or version")
	}
}
