package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/i474232898/farm-insight/internal/advisor"
	httpapi "github.com/i474232898/farm-insight/internal/api/http"
	"github.com/i474232898/farm-insight/internal/config"
	"github.com/i474232898/farm-insight/internal/geo"
	"github.com/i474232898/farm-insight/internal/logging"
	"github.com/i474232898/farm-insight/internal/scheduler"
)

func main() {
	app := &cli.App{
		Name:  "farm-insight",
		Usage: "Weather and mandi price insights for farmers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			weatherCommand(),
			marketCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by every command.
func setup(c *cli.Context, out io.Writer) (*config.AppConfig, *logrus.Logger, error) {
	envErr := config.LoadEnvFile()
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	log := logging.New(cfg.LogLevel)
	log.SetOutput(out)
	if envErr != nil {
		log.WithError(envErr).Debug("no .env file loaded, using process environment")
	}
	return cfg, log, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and the cache warm-up scheduler",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Usage:   "Listen port",
				EnvVars: []string{"PORT"},
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, log, err := setup(c, os.Stdout)
	if err != nil {
		return err
	}
	if port := c.String("port"); port != "" {
		cfg.Port = port
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, err := buildAdvisor(ctx, cfg, log)
	if err != nil {
		return err
	}

	// Scheduler that keeps the caches warm for the home location.
	sched := scheduler.New(cfg.Home, cfg.WarmInterval, service, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "farm-insight",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "farm-insight",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.WithField("port", cfg.Port).Info("http server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("fiber server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	return nil
}

func locationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:     "lat",
			Usage:    "Latitude in decimal degrees",
			Required: true,
		},
		&cli.Float64Flag{
			Name:     "lon",
			Usage:    "Longitude in decimal degrees",
			Required: true,
		},
	}
}

func locatorFrom(c *cli.Context) geo.Locator {
	return geo.Static{Latitude: c.Float64("lat"), Longitude: c.Float64("lon")}
}

func weatherCommand() *cli.Command {
	return &cli.Command{
		Name:  "weather",
		Usage: "Print the weather insight report for a location as JSON",
		Flags: locationFlags(),
		Action: oneShot(func(c *cli.Context, service *advisor.Service) any {
			return service.Weather(c.Context, locatorFrom(c))
		}),
	}
}

func marketCommand() *cli.Command {
	return &cli.Command{
		Name:  "market",
		Usage: "Print the market insight report for a location as JSON",
		Flags: locationFlags(),
		Action: oneShot(func(c *cli.Context, service *advisor.Service) any {
			return service.Market(c.Context, locatorFrom(c))
		}),
	}
}

// oneShot builds the advisor, runs fetch once and prints the report. Logs go
// to stderr so stdout stays valid JSON.
func oneShot(fetch func(*cli.Context, *advisor.Service) any) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, log, err := setup(c, os.Stderr)
		if err != nil {
			return err
		}

		service, err := buildAdvisor(c.Context, cfg, log)
		if err != nil {
			return err
		}
		return printJSON(fetch(c, service))
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
