package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"aanmeldapp/internal/config"
	"aanmeldapp/internal/google"
	"aanmeldapp/internal/icloud"
	"aanmeldapp/internal/mailer"
	"aanmeldapp/internal/models"
	"aanmeldapp/internal/server"
	"aanmeldapp/internal/syncer"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "aanmeldapp",
		Usage: "Registration backend for the monthly lecture/dinner meetup.",
		Commands: []*cli.Command{
			serveCommand(),
			syncCommand(),
			setupSheetCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API for the registration form and admin dashboard.",
		Action: func(c *cli.Context) error {
			env, logger, loc, err := bootstrap()
			if err != nil {
				return err
			}

			sheetsClient, err := google.NewSheetsClient(c.Context, logger, env.CredentialsFile, env.SpreadsheetID)
			if err != nil {
				return fmt.Errorf("failed to create sheets client: %w", err)
			}

			s, err := buildSyncer(c.Context, logger, env)
			if err != nil {
				return err
			}

			m := mailer.New(logger, mailer.Config{
				Host:       env.SMTPHost,
				Port:       env.SMTPPort,
				Username:   env.SMTPUsername,
				Password:   env.SMTPPassword,
				Sender:     env.SMTPUsername,
				SenderName: env.SenderName,
				ReplyTo:    env.ContactEmail,
			})

			e := server.New(server.Deps{
				Logger:        logger,
				Provider:      server.NewProvider(logger, sheetsClient, loc, env.ConfigCacheTTL),
				Recorder:      sheetsClient,
				ConfigWriter:  sheetsClient,
				Mailer:        m,
				Syncer:        s,
				AdminPassword: env.AdminPassword,
				ContactEmail:  env.ContactEmail,
				Location:      loc,
			})

			logger.Info("Starting HTTP server", "listen", env.Listen)
			return e.Start(env.Listen)
		},
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync-calendar",
		Usage: "Upsert the organizer calendar blocks from the current config.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Log what would be synced without making changes."},
		},
		Action: func(c *cli.Context) error {
			env, logger, loc, err := bootstrap()
			if err != nil {
				return err
			}
			if env.OrganizerBackend == config.BackendOff {
				return fmt.Errorf("organizer sync is disabled (ORGANIZER_BACKEND=off)")
			}

			sheetsClient, err := google.NewSheetsClient(c.Context, logger, env.CredentialsFile, env.SpreadsheetID)
			if err != nil {
				return fmt.Errorf("failed to create sheets client: %w", err)
			}

			backend, err := buildBackend(c.Context, logger, env)
			if err != nil {
				return err
			}
			s := syncer.New(logger, backend, c.Bool("dry-run"))

			kv, err := sheetsClient.LoadConfig(c.Context)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg := models.ParseEventConfig(kv, loc)

			return s.Sync(c.Context, cfg)
		},
	}
}

func setupSheetCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup-sheet",
		Usage: "Ensure the current period's registration sheet exists.",
		Action: func(c *cli.Context) error {
			env, logger, loc, err := bootstrap()
			if err != nil {
				return err
			}

			sheetsClient, err := google.NewSheetsClient(c.Context, logger, env.CredentialsFile, env.SpreadsheetID)
			if err != nil {
				return fmt.Errorf("failed to create sheets client: %w", err)
			}

			kv, err := sheetsClient.LoadConfig(c.Context)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg := models.ParseEventConfig(kv, loc)
			title := models.SheetTitle(cfg.Date)

			created, err := sheetsClient.EnsureSheet(c.Context, title, models.RegistrationHeader)
			if err != nil {
				return fmt.Errorf("failed to ensure sheet %q: %w", title, err)
			}
			if created {
				logger.Info("Registration sheet created", "title", title)
			} else {
				logger.Info("Registration sheet already exists", "title", title)
			}
			return nil
		},
	}
}

// bootstrap loads the environment, logger and event timezone.
func bootstrap() (config.Env, *slog.Logger, *time.Location, error) {
	env, err := config.Load()
	if err != nil {
		return config.Env{}, nil, nil, err
	}
	logger := setupLogger(env.LogLevel)

	loc, err := time.LoadLocation(env.Timezone)
	if err != nil {
		return config.Env{}, nil, nil, fmt.Errorf("invalid timezone '%s': %w", env.Timezone, err)
	}
	return env, logger, loc, nil
}

// buildSyncer assembles the organizer syncer for the configured backend,
// or nil when sync is off.
func buildSyncer(ctx context.Context, logger *slog.Logger, env config.Env) (server.ISyncer, error) {
	if env.OrganizerBackend == config.BackendOff {
		return nil, nil
	}
	backend, err := buildBackend(ctx, logger, env)
	if err != nil {
		return nil, err
	}
	return syncer.New(logger, backend, false), nil
}

func buildBackend(ctx context.Context, logger *slog.Logger, env config.Env) (syncer.OrganizerCalendar, error) {
	switch env.OrganizerBackend {
	case config.BackendGoogle:
		backend, err := google.NewCalendarClient(ctx, logger, env.CredentialsFile, env.OrganizerCalendarID)
		if err != nil {
			return nil, fmt.Errorf("failed to create calendar client: %w", err)
		}
		return backend, nil
	case config.BackendCalDAV:
		backend, err := icloud.NewClient(logger, env.ICloudUsername, env.ICloudPassword, env.ICloudCalendar)
		if err != nil {
			return nil, fmt.Errorf("failed to create icloud client: %w", err)
		}
		return backend, nil
	}
	return nil, fmt.Errorf("unknown organizer backend %q", env.OrganizerBackend)
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
