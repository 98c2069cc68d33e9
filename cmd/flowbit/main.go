package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/terraincognita07/flowbit/internal/api"
	"github.com/terraincognita07/flowbit/internal/cli"
	"github.com/terraincognita07/flowbit/internal/config"
	"github.com/terraincognita07/flowbit/internal/db"
	"github.com/terraincognita07/flowbit/internal/i18n"
	"github.com/terraincognita07/flowbit/internal/logging"
	"github.com/terraincognita07/flowbit/internal/security"
)

const usage = `usage:
  flowbit                           start the HTTP server
  flowbit unlock <email-or-handle>  clear an account's failed login counter
  flowbit reset-password <email>    set a new password for an account`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log, os.Args[1:]); err != nil {
		log.Error("flowbit exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger, args []string) error {
	if len(args) == 0 {
		return serve(cfg, log)
	}

	switch args[0] {
	case "unlock", "reset-password":
		if len(args) != 2 {
			return errors.New(usage)
		}
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}

	database, err := db.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)
	ctx := context.Background()

	if args[0] == "unlock" {
		return cli.RunUnlockCommand(ctx, repositories.Accounts, args[1], os.Stdout)
	}

	hasher, err := security.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	source := cli.TerminalPasswordSource(os.Stdin, os.Stderr)
	return cli.RunResetPasswordCommand(ctx, repositories.Accounts, hasher, args[1], source, os.Stdout)
}

func serve(cfg config.Config, log *slog.Logger) error {
	location := loadLocation(cfg.Timezone, log)
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage, i18n.EmbeddedLocales())
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	hasher, err := security.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("password hasher init failed: %w", err)
	}

	handler, err := api.NewHandler(database, hasher, i18nManager, log)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newApp(handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("flowbit listening",
		"addr", "http://0.0.0.0:"+cfg.Port,
		"db", cfg.DBPath,
		"tz", location.String(),
		"language", i18nManager.DefaultLanguage(),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Flowbit",
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func loadLocation(name string, log *slog.Logger) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("invalid TZ, falling back to UTC", "tz", name)
		return time.UTC
	}
	return location
}
