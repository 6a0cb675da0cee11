// Package main is the entry point for the academy manager daemon.
//
// One process per device: it owns the embedded database, serves the
// local REST API for the admin panel and the totem kiosk, and runs the
// background sweep that ages pending fees into overdue. Devices are
// reconciled manually through snapshot tokens, no network sync happens
// here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/treebjjjapan/manager-dojo-marques/config"
	"github.com/treebjjjapan/manager-dojo-marques/internal/checkin"
	"github.com/treebjjjapan/manager-dojo-marques/internal/httpapi"
	"github.com/treebjjjapan/manager-dojo-marques/internal/scheduler"
	"github.com/treebjjjapan/manager-dojo-marques/internal/scheduler/jobs"
	"github.com/treebjjjapan/manager-dojo-marques/internal/store"
	"github.com/treebjjjapan/manager-dojo-marques/internal/syncdata"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/logger"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/timeutil"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	opts := logger.DefaultOptions()
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	log := logger.New(opts).With(logger.String("app", cfg.App.Name))

	log.Info("starting academy manager",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug))

	// ─────────────────────────────────────────────────────────────────────────
	// 3. EMBEDDED STORE
	// ─────────────────────────────────────────────────────────────────────────
	st, err := store.Open(cfg.Store.Path, log)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		log.Info("closing store")
		if err := st.Close(); err != nil {
			log.Error("store close failed", logger.Err(err))
		}
	}()
	log.Info("store opened", logger.String("path", st.Path()))

	// ─────────────────────────────────────────────────────────────────────────
	// 4. CORE SERVICES
	// ─────────────────────────────────────────────────────────────────────────
	engine := checkin.New(st, log)
	codec := syncdata.New(st, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. BACKGROUND JOBS
	// ─────────────────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(scheduler.Config{
			Logger:   slog.Default(),
			Timezone: timeutil.AcademyTZ,
		})

		agingJob := jobs.NewFeeAgingJob(st, slog.Default())
		if err := sched.Register(agingJob, scheduler.NewIntervalSchedule(cfg.Scheduler.FeeAgingInterval)); err != nil {
			return fmt.Errorf("failed to register fee aging job: %w", err)
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			log.Info("stopping scheduler")
			_ = sched.Stop()
		}()

		// Sweep once on boot so fees that went overdue while the device
		// was off are corrected before the first check-in of the day.
		if err := sched.RunNow(agingJob.Name()); err != nil {
			log.Warn("initial fee aging sweep failed", logger.Err(err))
		}

		log.Info("scheduler started",
			logger.Duration("fee_aging_interval", cfg.Scheduler.FeeAgingInterval))
	} else {
		log.Warn("scheduler disabled, fees will not age automatically")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. HTTP API
	// ─────────────────────────────────────────────────────────────────────────
	server := httpapi.NewServer(httpapi.Dependencies{
		Config: cfg,
		Store:  st,
		Engine: engine,
		Codec:  codec,
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service failed", logger.Err(err))
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", logger.Err(err))
	}

	log.Info("shutdown complete")
	return nil
}
