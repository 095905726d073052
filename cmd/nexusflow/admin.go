package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/sandeepkv93/nexusflow/internal/config"
	"github.com/sandeepkv93/nexusflow/internal/middleware"
	"github.com/sandeepkv93/nexusflow/internal/storage"
)

func migrateCommand(flags *globalFlags) *cli.Command {
	run := func(name string, fn func(*storage.SQLRepository) error) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: "apply " + name + " migrations",
			Action: func(ctx context.Context, c *cli.Command) error {
				cfg, err := config.LoadServer(flags.ConfigPath)
				if err != nil {
					return err
				}
				repo, err := storage.Open(cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer repo.Close()
				if err := fn(repo); err != nil {
					return err
				}
				log.Info().Str("direction", name).Msg("migrations applied")
				return nil
			},
		}
	}
	return &cli.Command{
		Name:  "migrate",
		Usage: "manage the database schema",
		Commands: []*cli.Command{
			run("up", (*storage.SQLRepository).MigrateUp),
			run("down", (*storage.SQLRepository).MigrateDown),
		},
	}
}

func tokenCommand(flags *globalFlags) *cli.Command {
	var (
		subject string
		ttl     time.Duration
	)
	return &cli.Command{
		Name:  "token",
		Usage: "mint a bearer token for NEXUS_API_TOKEN",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "subject",
				Usage:       "token subject",
				Value:       "nexusflow-tui",
				Destination: &subject,
			},
			&cli.DurationFlag{
				Name:        "ttl",
				Usage:       "token lifetime, zero for no expiry",
				Value:       30 * 24 * time.Hour,
				Destination: &ttl,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.LoadServer(flags.ConfigPath)
			if err != nil {
				return err
			}
			if cfg.AuthSecret == "" {
				return errors.New("AUTH_SECRET is not set")
			}
			now := time.Now()
			claims := jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now)}
			if ttl > 0 {
				claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
			}
			token, err := middleware.IssueToken(cfg.AuthSecret, subject, claims)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(c.Root().Writer, token)
			return nil
		},
	}
}
