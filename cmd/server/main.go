package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/NasuPanda/mnemos-web/internal/api"
	"github.com/NasuPanda/mnemos-web/internal/config"
	"github.com/NasuPanda/mnemos-web/internal/datastore"
	"github.com/NasuPanda/mnemos-web/internal/imagehost"
	"github.com/NasuPanda/mnemos-web/internal/jobs"
	"github.com/NasuPanda/mnemos-web/internal/logger"
	"github.com/NasuPanda/mnemos-web/internal/readiness"
	"github.com/NasuPanda/mnemos-web/internal/services"
	"github.com/NasuPanda/mnemos-web/internal/storage"
	"github.com/NasuPanda/mnemos-web/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
		logger.WithJSON(strings.EqualFold(cfg.LogFormat, "json")),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Mnemos Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("data_file=%s", cfg.DataFile)
	log.Debug("document_key=%s", cfg.DocumentKey)
	log.Debug("storage_backend=%s", cfg.StorageBackend)
	log.Debug("image_host=%s", cfg.ImageHost)
	log.Debug("replication_worker_count=%d", cfg.ReplicationWorkerCount)
	log.Debug("replication_queue_size=%d", cfg.ReplicationQueueSize)

	// Open storage
	remote, err := storage.NewBackend(storage.ConfigFrom(cfg))
	if err != nil {
		log.Error("failed to open storage backend: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing storage backend")
		if err := remote.Close(); err != nil {
			log.Warn("storage close error: %v", err)
		}
	}()
	local, localKey := storage.NewLocalBackup(cfg.DataFile)
	log.Info("storage: remote=%s local=%s", remote.Name(), local.Name())

	uploader, err := imagehost.New(cfg)
	if err != nil {
		log.Error("failed to configure image host: %v", err)
		os.Exit(1)
	}

	// Initialize replication pool
	replicationPool := worker.NewPool(cfg.ReplicationWorkerCount, cfg.ReplicationQueueSize)

	store := datastore.New(datastore.Options{
		Remote:   remote,
		Key:      cfg.DocumentKey,
		Local:    local,
		LocalKey: localKey,
		Queue:    jobs.NewWorkerQueue(replicationPool, remote),
	})
	ready := readiness.New(store)

	srv := &api.Server{
		Store:           store,
		Readiness:       ready,
		ItemService:     services.NewItemService(store),
		CategoryService: services.NewCategoryService(store),
		SettingsService: services.NewSettingsService(store),
		Uploader:        uploader,
		MaxUploadBytes:  cfg.MaxUploadBytes,
		AllowedOrigins:  cfg.AllowedOrigins,
	}
	if disk, ok := uploader.(*imagehost.DiskUploader); ok {
		srv.ImagesDir = disk.Dir()
	}

	ctx, cancel := context.WithCancel(context.Background())
	replicationPool.Start(ctx)

	// Serve defaults right away; the stored document loads in the background.
	ready.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Let queued replications finish before cancelling the pool context
	log.Debug("stopping replication pool (%d queued)", replicationPool.QueueSize())
	replicationPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("Mnemos Server Stopped")
	log.Info("===========================================")
}
