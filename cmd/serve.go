package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/api"
	"github.com/killallgit/recipe-api/api/types"
	"github.com/killallgit/recipe-api/internal/services/cleanup"
	"github.com/killallgit/recipe-api/internal/services/handoff"
	"github.com/killallgit/recipe-api/internal/services/session"
	"github.com/killallgit/recipe-api/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Recipe Extraction API server with the configured settings.

The server watches the handoff mailbox for shared posts, runs extractions in
the background and exposes the extraction state and saved recipes over HTTP.

Example:
  recipe-api serve
  recipe-api serve --port 9090
  recipe-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	app, err := newApplication(cmd, true)
	if err != nil {
		return err
	}
	defer app.Close()

	cfg := app.config
	log := app.logger

	// Use config values if flags not provided
	host := serverHost
	if host == "" {
		host = cfg.Server.Host
	}
	port := serverPort
	if port == 0 {
		port = cfg.Server.Port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := session.NewManager(app.extractor, app.mailbox, log)
	defer manager.Close()

	sweeper := cleanup.NewService(cfg.Storage.TempDir, cfg.Storage.MaxTempAge, cfg.Storage.CleanupInterval, log, app.metrics)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	watcher := handoff.NewWatcher(handoff.WatcherConfig{
		Dir:          cfg.Handoff.SharedDir,
		FileName:     cfg.Handoff.PayloadFile,
		PollInterval: cfg.Handoff.PollInterval,
		Watch:        cfg.Handoff.Watch && cfg.Handoff.Backend != config.HandoffBackendRedis,
		Logger:       log,
		Metrics:      app.metrics,
	}, func(ctx context.Context) {
		if _, err := manager.CheckPending(ctx); err != nil {
			log.Error("failed to check pending extraction", zap.Error(err))
		}
	})
	watcherDone := make(chan error, 1)
	go func() {
		watcherDone <- watcher.Run(ctx)
	}()

	deps := &types.Dependencies{
		DB:            app.db,
		Mailbox:       app.mailbox,
		Capture:       app.capture,
		Session:       manager,
		RecipeService: app.recipes,
		Metrics:       app.metrics,
		Logger:        log,
		Build:         buildInfo(),
	}

	server := api.NewServer(api.Options{
		Address:        fmt.Sprintf("%s:%d", host, port),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		Routes: api.RouteOptions{
			MetricsEnabled: cfg.Monitoring.Enabled,
			MetricsPath:    cfg.Monitoring.MetricsPath,
		},
	}, deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	log.Info("server started",
		zap.String("address", fmt.Sprintf("%s:%d", host, port)),
		zap.String("version", Version),
		zap.String("handoff_backend", cfg.Handoff.Backend))

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case runErr = <-serverErr:
		log.Error("server failed, shutting down", zap.Error(runErr))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	if err := <-watcherDone; err != nil {
		log.Error("handoff watcher stopped with error", zap.Error(err))
	}

	log.Info("server gracefully stopped")
	return runErr
}
