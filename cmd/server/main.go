// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meditrain/simstudio/internal/api"
	"github.com/meditrain/simstudio/internal/app"
	"github.com/meditrain/simstudio/internal/config"
	"github.com/meditrain/simstudio/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	createDirectories(cfg)

	if err := config.Init(cfg.DataDir); err != nil {
		log.Fatalf("init config: %v", err)
	}

	if err := utils.InitLogger(filepath.Join(cfg.LogDir, "server.log")); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	logger := utils.GetLogger()

	application, err := app.InitServices()
	if err != nil {
		logger.Fatalf("init services: %v", err)
	}
	defer application.Close()

	handler := api.NewHandler(application.Scenarios, application.Catalog, application.Exporter, application.Hub)
	router := api.SetupRouter(handler)

	logger.Infof("simstudio listening on :%s", cfg.Port)
	runWithGracefulShutdown(router, cfg.Port, logger)
}

func runWithGracefulShutdown(router *gin.Engine, port string, logger *utils.Logger) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("forced shutdown: %v", err)
	}
	logger.Infof("server stopped")
}

func createDirectories(cfg *config.AppConfig) {
	dirs := []string{
		cfg.DataDir,
		filepath.Join(cfg.DataDir, "scenarios"),
		filepath.Join(cfg.DataDir, "catalog"),
		cfg.StaticDir,
		cfg.LogDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("create dir %s: %v", dir, err)
		}
	}
}
