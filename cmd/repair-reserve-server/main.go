package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/repair-reserve/internal/config"
	"github.com/iwvelando/repair-reserve/internal/logging"
	"github.com/iwvelando/repair-reserve/internal/server"
	"github.com/iwvelando/repair-reserve/pkg/constants"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to calculator configuration file for advisor, lookup and cache settings")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	address := flag.String("address", "", "listen address override")
	flag.Parse()

	serverConf, err := server.LoadConfig(*serverConfigLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *serverConfigLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		serverConf.Address = *address
	}

	logger, err := logging.New(serverConf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// The calculator configuration is optional for the server; without it the
	// collaborators read their API keys from the default environment variables.
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		logger.Info("no calculator configuration loaded, using defaults",
			zap.String("op", "main"),
			zap.String("path", *configLocation),
			zap.Error(err),
		)
		conf = &config.Configuration{}
	}
	if _, err := conf.ValidateConfiguration(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	services, err := conf.BuildServices(logger)
	if err != nil {
		logger.Fatal("failed to configure services",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	handler := server.NewHandler(logger, services, serverConf.BodySizeBytes(), version)
	if serverConf.RateLimitEnabled() {
		limiter := server.NewRateLimiter(serverConf.RateLimit.Capacity, serverConf.RefillInterval())
		defer limiter.Stop()
		handler = server.RateLimit(logger, limiter, handler)
	}

	srv := &http.Server{
		Addr:         serverConf.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "main"),
			zap.String("address", serverConf.Address),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	case sig := <-quit:
		logger.Info("shutting down",
			zap.String("op", "main"),
			zap.String("signal", sig.String()),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
