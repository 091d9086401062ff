package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/treemap-grid/internal/application"
	"github.com/eugenenazirov/treemap-grid/internal/config"
	"github.com/eugenenazirov/treemap-grid/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("treemap-grid", "Treemap Grid - validates weighted items and packs them into rows")

	serveCmd := kingpinApp.Command("serve", "Run the HTTP server with the treemap form and JSON API").Default()
	configFile := serveCmd.Flag("config", "Path to YAML or TOML configuration file").String()
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	logLevel := serveCmd.Flag("log-level", "Log level (debug, info, warn, error)").String()

	renderCmd := kingpinApp.Command("render", "Validate a treemap document and print its rows")
	renderFile := renderCmd.Flag("file", "Path to the treemap JSON document (reads stdin when omitted)").Short('f').String()
	renderRows := renderCmd.Flag("rows", "Number of rows to render").Short('r').Required().String()

	switch kingpin.MustParse(kingpinApp.Parse(os.Args[1:])) {
	case renderCmd.FullCommand():
		os.Exit(render(os.Stdin, os.Stdout, os.Stderr, *renderFile, *renderRows))
	case serveCmd.FullCommand():
		overrides := &config.CLIOverrides{
			ConfigFile: *configFile,
		}

		if *port != "" {
			overrides.Port = port
		}

		if *rateLimitRPSFlag >= 0 {
			overrides.RateLimitRPS = rateLimitRPSFlag
		}

		if *rateLimitBurstFlag >= 0 {
			overrides.RateLimitBurst = rateLimitBurstFlag
		}

		if *logLevel != "" {
			overrides.LogLevel = logLevel
		}

		serve(overrides)
	}
}

func serve(overrides *config.CLIOverrides) {
	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
