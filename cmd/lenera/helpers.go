package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/la-lenera/internal/catalog"
	"github.com/Veraticus/la-lenera/internal/clock"
	"github.com/Veraticus/la-lenera/internal/common"
	"github.com/Veraticus/la-lenera/internal/compose"
	"github.com/Veraticus/la-lenera/internal/config"
	"github.com/Veraticus/la-lenera/internal/cooldown"
	"github.com/Veraticus/la-lenera/internal/hours"
	"github.com/Veraticus/la-lenera/internal/order"
	"github.com/Veraticus/la-lenera/internal/storage"
	"github.com/Veraticus/la-lenera/internal/zone"
)

// loadSite resolves the catalog and the runtime configuration.
func loadSite() (*catalog.Catalog, *config.Site, error) {
	cat, err := config.LoadCatalog(viper.GetString(config.KeyCatalogPath))
	if err != nil {
		return nil, nil, common.NewUserError("No se pudo cargar el catálogo", err)
	}
	site, err := config.LoadSite(viper.GetViper(), cat)
	if err != nil {
		return nil, nil, common.NewUserError("Configuración inválida", err)
	}
	return cat, site, nil
}

// initStorage opens the local database and brings its schema up to date.
func initStorage(ctx context.Context, site *config.Site) (*storage.SQLiteStorage, error) {
	dbPath := site.DatabasePath
	if dbPath == "" {
		dbPath = config.ExpandPath(config.DefaultDatabasePath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// wallClock is the viewer's clock for commands that compose messages.
var wallClock = time.Now

// newDeps assembles the order collaborators for one catalog and store.
// Cooldown store failures are reported on logger.
func newDeps(cat *catalog.Catalog, site *config.Site, store cooldown.Store, nav order.Navigator, sched clock.Scheduler, logger *slog.Logger) (order.Deps, error) {
	gate, err := hours.FromSchedule(cat.Schedule)
	if err != nil {
		return order.Deps{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	composer, err := compose.New(site.Phone, catalog.Sentinel)
	if err != nil {
		return order.Deps{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return order.Deps{
		Catalog:   cat,
		Matcher:   zone.NewMatcher(cat.Neighborhoods, catalog.Sentinel),
		Hours:     gate,
		Composer:  composer,
		Cooldown:  cooldown.NewGate(store, cooldown.WithLogger(logger)),
		Navigator: nav,
		Scheduler: sched,
	}, nil
}

// openLogFile returns a logger writing next to the database so that the
// terminal stays free for the TUI.
func openLogFile(site *config.Site) (*slog.Logger, func(), error) {
	dir := filepath.Dir(site.DatabasePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	path := filepath.Join(dir, "lenera.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // path derived from configuration
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level, err := common.ParseLevel(viper.GetString(config.KeyLogLevel))
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	logger, err := common.NewLogger(f, level, viper.GetString(config.KeyLogFormat))
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, func() { _ = f.Close() }, nil
}
