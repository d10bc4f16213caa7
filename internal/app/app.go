// internal/app/app.go

// Package app owns service construction and wiring. Everything is built
// here, registered in the di container, and handed to the API layer.
package app

import (
	"context"
	"fmt"

	"github.com/meditrain/simstudio/internal/api"
	"github.com/meditrain/simstudio/internal/config"
	"github.com/meditrain/simstudio/internal/di"
	"github.com/meditrain/simstudio/internal/services"
	"github.com/meditrain/simstudio/internal/storage"
	"github.com/meditrain/simstudio/internal/utils"
)

// App bundles every constructed service for the server's lifetime.
type App struct {
	Store     *storage.FileStorage
	Index     *services.IndexService
	Scenarios *services.ScenarioService
	Catalog   *services.CatalogService
	Exporter  *services.ExportService
	Hub       *api.WSHub
}

// InitServices constructs all services in dependency order and registers
// them in the container. The sqlite index is optional: when it fails to
// open the server still runs on directory scans.
func InitServices() (*App, error) {
	cfg := config.Current()
	logger := utils.GetLogger()

	store, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	var index *services.IndexService
	index, err = services.NewIndexService(cfg.IndexDBPath)
	if err != nil {
		logger.Warnf("scenario index unavailable, falling back to directory scans: %v", err)
		index = nil
	}

	locks := services.NewLockManager()
	scenarios := services.NewScenarioService(store, index, locks)
	catalog := services.NewCatalogService(store)
	exporter := services.NewExportService(scenarios)
	hub := api.NewWSHub()

	if index != nil {
		if err := scenarios.RebuildIndex(context.Background()); err != nil {
			logger.Warnf("rebuild scenario index: %v", err)
		}
	}

	app := &App{
		Store:     store,
		Index:     index,
		Scenarios: scenarios,
		Catalog:   catalog,
		Exporter:  exporter,
		Hub:       hub,
	}

	container := di.GetContainer()
	container.Register("storage", store)
	container.Register("scenarios", scenarios)
	container.Register("catalog", catalog)
	container.Register("export", exporter)
	container.Register("hub", hub)
	if index != nil {
		container.Register("index", index)
	}

	return app, nil
}

// Close releases resources held by the app.
func (a *App) Close() {
	if a.Index != nil {
		a.Index.Close()
	}
}
