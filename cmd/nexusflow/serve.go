package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/sandeepkv93/nexusflow/internal/config"
	"github.com/sandeepkv93/nexusflow/internal/httpapi"
	"github.com/sandeepkv93/nexusflow/internal/logging"
	"github.com/sandeepkv93/nexusflow/internal/metrics"
	"github.com/sandeepkv93/nexusflow/internal/middleware"
	"github.com/sandeepkv93/nexusflow/internal/scheduler"
	"github.com/sandeepkv93/nexusflow/internal/service"
	"github.com/sandeepkv93/nexusflow/internal/storage"
)

const (
	limiterSweepJob   = "ratelimit-sweep"
	limiterSweepEvery = time.Minute
	limiterIdle       = 10 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

func serveCommand(flags *globalFlags) *cli.Command {
	var skipMigrate bool
	return &cli.Command{
		Name:  "serve",
		Usage: "run the REST API server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "skip-migrate",
				Usage:       "do not apply migrations on startup",
				Sources:     cli.EnvVars("NEXUS_SKIP_MIGRATE"),
				Destination: &skipMigrate,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.LoadServer(flags.ConfigPath)
			if err != nil {
				return err
			}
			return serve(ctx, cfg, !skipMigrate)
		},
	}
}

// serverLogger applies the configured level and file in every environment.
// Development logs to stderr are human readable, JSON otherwise.
func serverLogger(cfg config.Server) (zerolog.Logger, io.Closer, error) {
	l, closer, err := logging.New(cfg.LogLevel, cfg.LogFile, cfg.IsDevelopment())
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("setup logger: %w", err)
	}
	return logging.Component(l, "server"), closer, nil
}

func serve(ctx context.Context, cfg config.Server, migrate bool) error {
	logger, closer, err := serverLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	repo, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()
	if migrate {
		if err := repo.MigrateUp(); err != nil {
			return err
		}
	}

	opts := []service.Option{service.WithLogger(logging.Component(logger, "service"))}
	engineOpts := []scheduler.Option{scheduler.WithLogger(logging.Component(logger, "scheduler"))}
	var m *metrics.Metrics
	if cfg.Metrics {
		m = metrics.New()
		opts = append(opts, service.WithObserver(m))
		engineOpts = append(engineOpts, scheduler.WithRunHook(m.JobRun))
	}

	engine := scheduler.NewEngine(engineOpts...)
	engine.Start()
	defer engine.Stop()

	var limiter *middleware.RateLimiter
	if perMinute := cfg.EffectiveRateLimit(); perMinute > 0 {
		limiter = middleware.NewRateLimiter(perMinute)
		_, err := engine.Schedule(limiterSweepJob, scheduler.Interval(limiterSweepEvery), func(time.Time) {
			if n := limiter.Sweep(limiterIdle); n > 0 {
				logger.Debug().Int("removed", n).Msg("rate limiter swept")
			}
		})
		if err != nil {
			return fmt.Errorf("schedule limiter sweep: %w", err)
		}
	}

	handler := httpapi.NewRouter(service.New(repo, opts...), httpapi.Options{
		Logger:      logging.Component(logger, "http"),
		Metrics:     m,
		CORSOrigins: cfg.Origins(),
		AuthSecret:  cfg.AuthSecret,
		RateLimiter: limiter,
		Ping:        repo.Ping,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
