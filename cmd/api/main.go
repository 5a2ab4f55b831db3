package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/survivetrack/internal/adapters/http"
	"github.com/samirrijal/survivetrack/internal/app"
	"github.com/samirrijal/survivetrack/internal/pkg/config"
	"github.com/samirrijal/survivetrack/internal/pkg/logging"
	"github.com/samirrijal/survivetrack/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load("survivetrack-api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, telemetry.Options{
			ServiceName: cfg.Telemetry.ServiceName,
			Exporter:    cfg.Telemetry.Exporter,
			Endpoint:    cfg.Telemetry.Endpoint,
			SampleRatio: cfg.Telemetry.SampleRatio,
		})
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	svc, err := app.Build(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	deps := &http.Dependencies{
		Atlas:          svc.Atlas,
		Briefing:       svc.Briefing,
		ARIA:           svc.ARIA,
		Maps:           svc.Maps,
		NATS:           svc.NATS,
		Cache:          svc.Cache,
		Version:        version,
		RequestTimeout: time.Duration(cfg.ARIA.Timeout+5) * time.Second,
	}

	// Fiber
	server := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024,
		AppName:      "SurviveTrack",
		ErrorHandler: http.ErrorHandler,
	})
	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:7860, http://127.0.0.1:7860",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(server, deps)

	// Serve until a signal arrives, then drain.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := cfg.Server.Addr()
		slog.Info("SurviveTrack starting", "addr", addr, "aria_online", svc.ARIA.Online(), "maps", svc.Maps.Name())
		return server.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received, draining connections...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Error("forced shutdown", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		svc.Close()
		os.Exit(1)
	}
	slog.Info("server stopped")
}
