package main

import (
	"flag"
	"fmt"
	"os"

	"flexile-tracker/internal/app"
	"flexile-tracker/internal/config"
	"flexile-tracker/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", os.Getenv(config.EnvPrefix+"_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flexile: %v\n", err)
		return 2
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(level, cfg.JSONLogs)

	application, err := app.NewApplication(cfg, log)
	if err != nil {
		log.Error("main", fmt.Errorf("startup: %w", err), nil)
		return 1
	}

	if err := application.Run(); err != nil {
		log.Error("main", err, nil)
		return 1
	}

	log.Info("main", "application terminated", nil)
	return 0
}
