package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/sandeepkv93/nexusflow/internal/client"
	"github.com/sandeepkv93/nexusflow/internal/config"
	"github.com/sandeepkv93/nexusflow/internal/logging"
	"github.com/sandeepkv93/nexusflow/internal/notify"
	"github.com/sandeepkv93/nexusflow/internal/scheduler"
	"github.com/sandeepkv93/nexusflow/internal/state"
	"github.com/sandeepkv93/nexusflow/internal/update"
)

func tuiCommand(flags *globalFlags) *cli.Command {
	var density int
	return &cli.Command{
		Name:  "tui",
		Usage: "open the terminal dashboard against a running server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "density",
				Usage:       "layout density, 1 (roomy) to 3 (compact)",
				Sources:     cli.EnvVars("NEXUS_TUI_DENSITY"),
				Value:       1,
				Destination: &density,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.LoadClient(flags.ConfigPath)
			if err != nil {
				return err
			}
			return runTUI(ctx, cfg, density)
		},
	}
}

func runTUI(ctx context.Context, cfg config.Client, density int) error {
	// The dashboard owns the terminal, so logs only go to a file.
	logger := zerolog.Nop()
	if cfg.LogFile != "" {
		l, closer, err := logging.New(cfg.LogLevel, cfg.LogFile, false)
		if err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}
		defer closer.Close()
		logger = logging.Component(l, "tui")
	}

	api := client.New(client.Config{BaseURL: cfg.APIURL, Token: cfg.APIToken, Timeout: cfg.HTTPTimeout})
	if _, err := api.Health(ctx); err != nil {
		logger.Warn().Err(err).Str("url", cfg.APIURL).Msg("server health check failed")
	}

	engine := scheduler.NewEngine(scheduler.WithLogger(logging.Component(logger, "scheduler")))
	engine.Start()
	defer engine.Stop()

	centerOpts := []notify.Option{notify.WithLogger(logging.Component(logger, "notify"))}
	if cfg.DesktopNotifications {
		centerOpts = append(centerOpts, notify.WithDesktop(notify.NewBeeepNotifier("Nexus Flow")))
	}

	app, err := state.NewApp(api, engine, notify.NewCenter(centerOpts...), state.Config{
		FocusMinutes:   cfg.FocusMinutes,
		BreakMinutes:   cfg.BreakMinutes,
		NotifySchedule: cfg.NotifySchedule,
		EventBuffer:    cfg.SchedulerBuffer,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	model := update.NewModelWithConfig(ctx, app, update.RuntimeConfig{
		RequestTimeout: cfg.HTTPTimeout,
		Density:        density,
	})
	_, runErr := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Close(closeCtx); err != nil {
		logger.Error().Err(err).Msg("record focus session on exit")
	}
	if runErr != nil {
		return fmt.Errorf("run dashboard: %w", runErr)
	}
	return nil
}
