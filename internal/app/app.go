package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/httpserver"
	"github.com/MrSnakeDoc/linkvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/scheduler"
	"github.com/MrSnakeDoc/linkvault/internal/share"
	"github.com/MrSnakeDoc/linkvault/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	core     *Core
	server   *httpserver.Server
	importer *scheduler.Importer
}

// New opens storage and wires the server. Storage that cannot be opened is
// fatal: there is nothing to serve without it.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	loggerClient.Info("opening storage", logger.String("backend", cfg.Storage))
	core, err := OpenCore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	// Initialize homepage importer (if a homepage file is configured)
	var importer *scheduler.Importer
	var importTrigger chan struct{}
	if cfg.ImportEnabled() {
		loggerClient.Info("homepage files configured, initializing importer",
			logger.String("bookmarks", cfg.BookmarkFile),
			logger.String("services", cfg.ServicesFile))
		importTrigger = make(chan struct{}, 1)
		importer = scheduler.NewImporter(
			scheduler.HomepageSources(cfg.BookmarkFile, cfg.ServicesFile),
			core.Links,
			loggerClient.With(logger.String("component", "importer")),
			cfg.ImportInterval,
			importTrigger,
		)
	} else {
		loggerClient.Info("homepage files not configured, import disabled")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		CORSOrigins:   cfg.CORSOrigins,
		UnlockBurst:   cfg.UnlockBurst,
		UnlockPerMin:  cfg.UnlockPerMin,
		Links:         core.Links,
		Gate:          core.Gate,
		Inbox:         &share.Inbox{},
		Metrics:       core.Metrics,
		Storage:       core.Storage,
		StorageKind:   cfg.Storage,
		ImportTrigger: importTrigger,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		core:     core,
		server:   httpserver.New(cfg, loggerClient, d),
		importer: importer,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting LinkVault %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.core.Gate.IsLocked() {
		a.logger.Info("🔒 app lock enabled, vault starts locked")
	}

	// Start homepage importer (imports once and starts periodic refresh)
	if a.importer != nil {
		a.importer.Start(ctx)
		a.logger.Info("homepage importer started",
			logger.Duration("interval", a.cfg.ImportInterval))
	}

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
		a.logger.Error("server stopped unexpectedly", logger.Error(runErr))
	}

	if a.importer != nil {
		a.importer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	// Pending background enrichments finish before storage goes away.
	if err := a.core.Close(); err != nil {
		a.logger.Warn("failed to close storage", logger.Error(err))
	} else {
		a.logger.Info("✅ Storage closed cleanly")
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ LinkVault stopped cleanly")
	return nil
}
