package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"library-desk/internal/config"
	"library-desk/internal/lending"
	"library-desk/internal/presentation"
	"library-desk/internal/registry"
	"library-desk/internal/repository"
	"library-desk/internal/repository/file"
	"library-desk/internal/repository/sqlite"
	"library-desk/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Fatalf("parse log level: %v", err)
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshots, closeStore, err := buildSnapshots(cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}
	defer closeStore()

	if err := snapshots.Init(ctx); err != nil {
		logger.Fatalf("init snapshot repository: %v", err)
	}

	reg := registry.New()
	if cfg.Seed.Enabled {
		reg = registry.Seeded()
	}
	engine := lending.NewEngine(reg, lending.Config{
		MaxLoans:   cfg.Loans.Max,
		DateLayout: cfg.Locale.DateFormat,
	})

	circulation := service.NewCirculationService(
		reg,
		engine,
		snapshots,
		presentation.NewLogPresenter(logger, engine.MaxLoans()),
		logger,
	)

	if err := circulation.Load(ctx); err != nil {
		logger.Warnf("restore snapshot: %v", err)
	}

	logger.Info("circulation desk ready")
}

func buildSnapshots(cfg config.Config, logger *logrus.Logger) (repository.SnapshotRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		logger.Infof("using snapshot file %s", cfg.Storage.FilePath)
		return file.NewSnapshotRepository(cfg.Storage.FilePath), func() {}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		logger.Infof("using sqlite database %s", cfg.Storage.Path)
		return sqlite.NewSnapshotRepository(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
