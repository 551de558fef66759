package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sydney-events/internal/adapters/sources/eventfinda"
	"sydney-events/internal/adapters/sources/whatson"
	pg "sydney-events/internal/adapters/storage/postgres"
	"sydney-events/internal/config"
	"sydney-events/internal/ingest"
	"sydney-events/internal/platform/httpclient"
	"sydney-events/internal/platform/logger"
	"sydney-events/internal/router"
	"sydney-events/internal/scheduler"
)

// @title Sydney Events API
// @version 1.0
// @description Catálogo canónico de eventos agregados desde sources externos.
// @BasePath /
func main() {
	var (
		cfgPath = flag.String("config", "", "path al archivo YAML de config (opcional)")
		once    = flag.Bool("once", false, "correr un ciclo de ingesta y salir")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		// Todavía no hay logger configurado.
		panic(err)
	}

	log := logger.New(logger.Options{
		Level:   logger.ParseLevel(cfg.LogLevel),
		Format:  logger.ParseFormat(cfg.LogFormat),
		Service: "sydney-events",
	})

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Storage: Postgres si hay DSN, in-memory para dev.
	var repos router.Repos
	if cfg.DatabaseDSN != "" {
		db, err := pg.Open(cfg.DatabaseDSN)
		if err != nil {
			log.Error("failed to open database", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		repos = router.NewRepos(db)
		log.Info("using postgres storage", nil)
	} else {
		repos = router.NewRepos(nil)
		log.Warn("no database_dsn configured, using in-memory storage", nil)
	}

	// Pipeline de ingesta.
	normalizer := ingest.NewNormalizer(cfg.HomeCity, cfg.Region, cfg.PlaceholderImage)
	reconciler := ingest.NewReconciler(repos.Catalog)
	sweeper := ingest.NewSweeper(repos.Catalog, log)
	orc := ingest.NewOrchestrator(normalizer, reconciler, sweeper, log)

	srcOpts := ingest.Options{
		MaxPages:    cfg.Ingest.MaxPages,
		PageDelay:   cfg.Ingest.PageDelay,
		PageTimeout: cfg.Ingest.PageTimeout,
	}
	if cfg.WhatsOn.Enabled {
		orc.Register(whatson.New(cfg.WhatsOn, httpclient.New(0)), srcOpts)
		log.Info("configured source", map[string]any{"source": whatson.Name})
	}
	if cfg.EventFinda.Enabled {
		orc.Register(eventfinda.New(cfg.EventFinda), srcOpts)
		log.Info("configured source", map[string]any{"source": eventfinda.Name})
	}

	if *once {
		orc.RunIngestion(ctx)
		_, _ = sweeper.SweepExpired(ctx)
		return
	}

	sched, err := scheduler.New(ctx, orc, sweeper, cfg.Ingest.Cron, cfg.Ingest.SweepCron, log)
	if err != nil {
		log.Error("failed to build scheduler", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	h := router.New(router.Options{
		AuthVerifier: nil, // sin verifier para modo dev
		Orchestrator: orc,
	}, repos)

	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", map[string]any{"addr": cfg.Listen})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
