package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-browser/internal/api"
	"recipe-browser/internal/core/catalog"
	"recipe-browser/internal/core/catalog/cache"
	"recipe-browser/internal/core/catalog/snapshot"
	"recipe-browser/internal/infrastructure/config"
	"recipe-browser/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("starting application",
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.Bool("debug", cfg.App.Debug),
		zap.String("db_path", cfg.Catalog.DBPath),
	)

	ctx := context.Background()

	// With no local database and no recipe files, try a snapshot download so a
	// fresh deployment can bootstrap itself.
	if _, err := os.Stat(cfg.Catalog.DBPath); os.IsNotExist(err) {
		if _, err := os.Stat(cfg.Catalog.RecipesDir); os.IsNotExist(err) {
			if cfg.Catalog.SnapshotURL != "" {
				client := snapshot.NewClient(&cfg.Catalog)
				if err := client.Download(ctx, cfg.Catalog.RecipesDir); err != nil {
					common.LogError("snapshot download failed", zap.Error(err))
				}
			}
		}
	}

	store, err := catalog.OpenStore(cfg.Catalog.DBPath)
	if err != nil {
		common.LogFatal("Failed to open catalog store", zap.Error(err))
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		common.LogFatal("Failed to count recipes", zap.Error(err))
	}
	if count == 0 {
		if _, err := os.Stat(cfg.Catalog.RecipesDir); err == nil {
			stats, err := catalog.ImportRecipes(ctx, store, cfg.Catalog.RecipesDir, cfg.Catalog.ImportWorkers)
			if err != nil {
				common.LogFatal("Recipe import failed", zap.Error(err))
			}
			common.LogInfo("recipe import finished",
				zap.Int("files", stats.Files),
				zap.Int("processed", stats.Processed),
				zap.Int("inserted", stats.Inserted),
				zap.Int("replaced", stats.Replaced),
				zap.Int("failed", stats.Failed),
			)
		} else {
			common.LogWarn("catalog is empty and no recipe directory exists",
				zap.String("recipes_dir", cfg.Catalog.RecipesDir),
			)
		}
	}

	if err := store.Load(ctx); err != nil {
		common.LogFatal("Failed to load catalog", zap.Error(err))
	}

	groups, err := catalog.LoadGroupIndex(cfg.Catalog.GroupsFile)
	if err != nil {
		common.LogFatal("Failed to load ingredient groups", zap.Error(err))
	}

	results, err := cache.NewService(&cfg.Cache)
	if err != nil {
		// Only fatal when caching was explicitly requested.
		if cfg.Cache.Enabled {
			common.LogFatal("Failed to initialize result cache", zap.Error(err))
		}
		common.LogWarn("result cache unavailable, continuing without it", zap.Error(err))
	}
	defer results.Close()

	details := cache.NewManager(cfg.Cache.MaxSize, cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	defer details.Close()

	svc := catalog.NewService(store, groups, results, details, cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize)

	router := api.SetupRouter(cfg, svc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("listening",
			zap.Int("port", cfg.Server.Port),
			zap.Int("recipes", store.Size()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
