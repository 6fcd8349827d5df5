package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/auth"
	"github.com/MrSnakeDoc/nextdir/internal/catalog"
	"github.com/MrSnakeDoc/nextdir/internal/config"
	"github.com/MrSnakeDoc/nextdir/internal/directory"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/preview"
	"github.com/MrSnakeDoc/nextdir/internal/scheduler"
	"github.com/MrSnakeDoc/nextdir/internal/store"
	"github.com/MrSnakeDoc/nextdir/internal/submission"
	"github.com/MrSnakeDoc/nextdir/internal/utils"
	"github.com/MrSnakeDoc/nextdir/internal/version"
)

type App struct {
	cfg     *config.Config
	logger  logger.Logger
	server  *httpserver.Server
	store   store.RecordStore
	seed    *scheduler.SeedImporter
	sweeper *scheduler.SessionSweeper
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Open the store early - fail fast if unavailable
	recordStore, err := openStore(context.Background(), cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open %s store: %v", cfg.StoreDriver, err)
		os.Exit(1)
	}
	loggerClient.Info("record store initialized", logger.String("driver", recordStore.Name()))

	repo := catalog.NewRepository(recordStore, loggerClient)
	directories := directory.NewService(recordStore, repo, loggerClient)
	previews := preview.NewFetcher(cfg.PreviewTimeout, cfg.PreviewMaxBytes)

	if n, err := directories.EnsureDefaults(context.Background()); err != nil {
		loggerClient.Warn("failed to create default directories", logger.Error(err))
	} else if n > 0 {
		loggerClient.Info("default directories created", logger.Int("count", n))
	}

	sessions := auth.NewSessions(cfg.SessionTTL, loggerClient)
	sweeper := scheduler.NewSessionSweeper(sessions, loggerClient, cfg.SweepEvery)

	// Seed importer (only if a seed file is configured)
	var seed *scheduler.SeedImporter
	var reloadTrigger chan struct{}
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, initializing seed importer",
			logger.String("file", cfg.SeedFile),
			logger.String("schedule", cfg.SeedSchedule))
		reloadTrigger = make(chan struct{}, 1)
		seed = scheduler.NewSeedImporter(cfg.SeedFile, recordStore, previews, loggerClient, cfg.SeedSchedule, reloadTrigger)
	} else {
		loggerClient.Info("seed file not configured, seed import disabled")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:             loggerClient,
		StartTime:          time.Now(),
		Version:            version.Version,
		Commit:             version.Commit,
		BuildDate:          version.BuildDate,
		GoVersion:          version.GoVersion,
		TimeNow:            time.Now,
		AllowedHosts:       cfg.AllowedHosts,
		AllowedCIDRS:       cfg.AllowedCIDRS,
		AllowedOrigins:     cfg.AllowedOrigins,
		TrustProxy:         cfg.TrustProxy,
		Store:              recordStore,
		Catalog:            repo,
		Submissions:        submission.NewService(recordStore, loggerClient),
		Directories:        directories,
		Previews:           previews,
		Verifier:           auth.NewVerifier(cfg.AuthSecret, cfg.AuthIssuer, cfg.SessionTTL),
		Sessions:           sessions,
		AuthLoginURL:       cfg.AuthLoginURL,
		CookieSecure:       cfg.CookieSecure,
		SubmitBurst:        cfg.SubmitBurst,
		SubmitRefillPerMin: cfg.SubmitRefillPerMin,
		Seed:               seed,
		ReloadTrigger:      reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:     cfg,
		logger:  loggerClient,
		server:  server,
		store:   recordStore,
		seed:    seed,
		sweeper: sweeper,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting nextdir v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("nextdir %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start seed importer (imports once, then follows the cron schedule)
	if a.seed != nil {
		if err := a.seed.Start(ctx); err != nil {
			utils.CloseLogged(a.store, a.store.Name()+" store", a.logger)
			return fmt.Errorf("failed to start seed importer: %w", err)
		}
		a.logger.Info("seed importer started", logger.String("schedule", a.cfg.SeedSchedule))
	}

	a.sweeper.Start(ctx)
	a.logger.Info("session sweeper started", logger.Duration("interval", a.cfg.SweepEvery))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
		a.logger.Error("http server failed, shutting down", logger.Error(runErr))
	}

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	a.logger.Info("✅ nextdir stopped cleanly")
	return nil
}

// shutdown stops the background jobs and the server, then closes the
// store. The store is closed even when the server fails to stop.
func (a *App) shutdown() error {
	if a.seed != nil {
		a.seed.Stop()
	}
	a.sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	var err error
	if stopErr := a.server.Stop(shutdownCtx); stopErr != nil {
		err = fmt.Errorf("failed to stop server: %w", stopErr)
	}

	utils.CloseLogged(a.store, a.store.Name()+" store", a.logger)
	return err
}
