package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gemini-relay/config"
	"gemini-relay/handler"
	"gemini-relay/logging"
	"gemini-relay/relay"

	"github.com/sirupsen/logrus"
)

var version = "dev"

func main() {
	config.ParseArgs()
	if config.CliArgs.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(config.CliArgs.ConfigFile)
	if err != nil {
		logging.GetLogger().Fatalf("Failed to load configuration: %v", err)
	}

	if config.CliArgs.Debug {
		logging.InitLogger(logrus.DebugLevel)
	} else {
		logging.InitLogger(logging.ParseLevel(cfg.LogLevel))
	}
	logging.SetFormat(cfg.LogFormat)
	log := logging.GetLogger()

	if config.NewCredential(cfg.APIKeyEnv).APIKey() == "" {
		log.Warnf("%s is not set, prompts will be rejected until it is", cfg.APIKeyEnv)
	}

	listenAddress := cfg.ListenAddress
	if config.CliArgs.ListenAddress != "" {
		listenAddress = config.CliArgs.ListenAddress
	}

	httpHandler := handler.NewHTTPHandler(relay.FromConfig(cfg), cfg.MaxBodyBytes)

	// Define the server
	server := &http.Server{
		Addr:              listenAddress,
		Handler:           handler.Routes(httpHandler, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"model":   cfg.Model,
			"address": listenAddress,
		}).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infoln("Shutting down server...")

	// In-flight relays get the upstream timeout to finish.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout+time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
}
