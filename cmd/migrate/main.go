// Package main applies database schema migrations.
package main

import (
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/neondnd/isekai/internal/config"
	"github.com/neondnd/isekai/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	migrationsDir := flag.String("migrations", "migrations", "path to migration SQL files")
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// golang-migrate selects its pgx v5 driver by DSN scheme.
	dsn := strings.Replace(cfg.Database.DSN(), "postgres://", "pgx5://", 1)

	m, err := migrate.New("file://"+*migrationsDir, dsn)
	if err != nil {
		logger.Fatal("initializing migrations", zap.Error(err))
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("database already up to date")
			return
		}
		logger.Fatal("running migrations", zap.Error(err), zap.Bool("down", *down))
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logger.Fatal("reading migration version", zap.Error(err))
	}
	logger.Info("migrations applied",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
		zap.Bool("down", *down),
		zap.Duration("elapsed", time.Since(start)),
	)
}
