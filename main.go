package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"railannouncements/internal/announcement"
	"railannouncements/internal/api"
	"railannouncements/internal/config"
	"railannouncements/internal/darwin"
	"railannouncements/internal/db"
	"railannouncements/internal/presets"
	"railannouncements/internal/rtt"
	"railannouncements/internal/stations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	addr := flag.String("addr", "", "listen address, overrides SERVER_ADDR")
	flag.Parse()

	logger := log.New(os.Stdout, "[railannounce] ", log.LstdFlags|log.Lshortfile)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	logger.Printf("configuration loaded | addr: %s | db_path: %s | darwin: %s", cfg.Server.Addr, cfg.Database.Path, cfg.Darwin.BaseURL)

	dbConn, err := db.OpenDatabase(cfg.Database, db.DefaultDatabaseOptions(), logger)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}

	table, err := stations.Default()
	if err != nil {
		logger.Fatalf("failed to load station table: %v", err)
	}

	var limiter *rate.Limiter
	if cfg.Darwin.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Darwin.RatePerSecond), cfg.Darwin.RatePerSecond)
	}

	var serviceCache darwin.ServiceCache
	switch {
	case cfg.Darwin.ServiceCacheTTL <= 0:
		// disabled
	case cfg.Darwin.CacheRedisAddr != "":
		pool := darwin.NewRedisPool(cfg.Darwin.CacheRedisAddr)
		defer pool.Close()
		serviceCache = darwin.NewRedisCache(pool, cfg.Darwin.ServiceCacheTTL, logger)
		logger.Printf("darwin: sharing service cache via redis | addr: %s", cfg.Darwin.CacheRedisAddr)
	default:
		serviceCache = darwin.NewMemoryCache(cfg.Darwin.ServiceCacheTTL)
	}

	enricher := darwin.NewEnricher(
		darwin.NewClient(cfg.Darwin.BaseURL, cfg.Darwin.Timeout, limiter),
		table,
		darwin.EnricherConfig{
			Concurrency:     cfg.Darwin.Concurrency,
			MaxAssociations: cfg.Darwin.MaxAssociations,
			Deadline:        cfg.Darwin.RequestDeadline,
		},
		serviceCache,
		logger,
	)

	if cfg.RTT.Username == "" {
		logger.Println("warning: RTT_API_USERNAME not set, /get-service-rtt will fail upstream")
	}
	rttClient := rtt.NewClient(rtt.Config{
		BaseURL:     cfg.RTT.BaseURL,
		Username:    cfg.RTT.Username,
		Password:    cfg.RTT.Password,
		Timeout:     cfg.RTT.Timeout,
		Concurrency: cfg.Darwin.Concurrency,
	}, table, logger)

	server, err := api.NewServer(cfg.Server, api.Deps{
		DB:        dbConn,
		Presets:   presets.NewStore(dbConn, logger),
		Enricher:  enricher,
		RTT:       rttClient,
		Registry:  announcement.Default(),
		PresetCfg: cfg.Presets,
	}, logger)
	if err != nil {
		_ = dbConn.Close()
		logger.Fatalf("failed to build server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Printf("server error: %v", err)
		}
	case <-ctx.Done():
		logger.Println("shutdown signal received, cleaning up...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown failed: %v", err)
	}
	logger.Println("application stopped")
}
