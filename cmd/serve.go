package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/medalboard/internal/adapters/http/api"
	"github.com/okian/medalboard/internal/adapters/http/site"
	"github.com/okian/medalboard/internal/adapters/http/swagger"
	"github.com/okian/medalboard/internal/adapters/render"
	"github.com/okian/medalboard/internal/adapters/repository"
	app "github.com/okian/medalboard/internal/app"
	"github.com/okian/medalboard/internal/config"
	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

type serveFlags struct {
	config string
	data   string
	addr   string
	debug  bool
}

func newServeCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the results table and serve the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(ctx, cmd, f)
			if err != nil {
				return err
			}
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "YAML config file (overrides MEDALBOARD_CONFIG)")
	cmd.Flags().StringVar(&f.data, "data", "", "results table to load (.csv, .db, .sqlite)")
	cmd.Flags().StringVar(&f.addr, "addr", "", "HTTP listen address")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "debug logging in text format")
	return cmd
}

// loadConfig layers flags over defaults, file and env. Only flags the user
// set take effect.
func loadConfig(ctx context.Context, cmd *cobra.Command, f serveFlags) (*config.Config, error) {
	cfg, err := config.Load(ctx, f.config)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataPath = f.data
		cfg.DataFormat = ""
	}
	if flags.Changed("addr") {
		cfg.Addr = f.addr
	}
	if flags.Changed("debug") {
		cfg.Debug = f.debug
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogger picks text output at debug level in debug mode, JSON otherwise.
func initLogger(ctx context.Context, cfg *config.Config) error {
	format := logger.FormatJSON
	if cfg.Debug {
		format = logger.FormatText
	}
	if err := logger.Init(logger.WithFormat(format)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// newService loads the results table. Any load error is fatal.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	src, err := repository.Open(cfg.DataPath, cfg.DataFormat, repository.WithTable(cfg.SQLiteTable))
	if err != nil {
		return nil, err
	}
	svc := app.New(
		app.WithSource(src),
		app.WithLogger(log.Named("service")),
		app.WithTopAthletes(cfg.TopAthletes),
		app.WithCycleOffset(cfg.CycleOffset),
		app.WithViewSettings(cfg.Page()),
		app.WithRenderer(render.New(render.WithSize(cfg.PNGWidth, cfg.PNGHeight))),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, nil
}

// newHandler wires every route behind the request id middleware.
func newHandler(ctx context.Context, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	site.Register(ctx, mux)
	return api.RequestID(mux)
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := initLogger(ctx, cfg); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	svc, err := newService(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "cannot load results table", logger.String("data_path", cfg.DataPath), logger.Error(err))
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.Bool("debug", cfg.Debug))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			return err
		}
	case <-ctx.Done():
	}
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(shutdownCtx, "server stopped")
	return nil
}

// startSystemMetricsUpdater refreshes system gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
