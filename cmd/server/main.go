// Package main is the entry point for the StaySync calendar server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/staysync/backend/internal/api"
	"github.com/staysync/backend/internal/booking"
	"github.com/staysync/backend/internal/calendar"
	"github.com/staysync/backend/internal/config"
	"github.com/staysync/backend/internal/storage"
	"github.com/staysync/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	cfg := config.Load()

	// Flags override environment for local runs.
	addr := flag.String("addr", cfg.Addr, "HTTP server address")
	dataDir := flag.String("data", cfg.DataDir, "Data directory for SQLite database")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(*addr); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	log.Printf("Starting StaySync calendar server (version: %s)...", version)

	db, err := storage.NewDB(*dataDir + "/staysync.db")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations complete")

	hub := websocket.NewHub()
	go hub.Run()

	store := storage.NewStore(db)

	syncService := calendar.NewSyncService(store, cfg.FetchTimeout)

	// Export lookups go through a small TTL cache; reservation reads
	// stay uncached so the feed content is at most Cache-Control stale.
	exportReader := storage.NewCachedExportReader(store, cfg.ExportCacheTTL, time.Now)
	exportService := calendar.NewExportService(exportReader, store)

	validator := booking.NewValidator(store, cfg.MaxStayNights)

	scheduler := calendar.NewScheduler(syncService, store.Properties(), hub, cfg.DefaultSyncIntervalMin)
	if err := scheduler.Start(context.Background()); err != nil {
		log.Printf("Warning: Failed to start calendar scheduler: %v", err)
	}

	router := api.NewRouter(api.Services{
		DB:        db,
		Store:     store,
		Hub:       hub,
		Sync:      syncService,
		Export:    exportService,
		Validator: validator,
		Scheduler: scheduler,
	})

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	resp, err := http.Get("http://localhost" + addr + "/api/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
