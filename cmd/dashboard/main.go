package main

import (
	"flag"
	"log/slog"
	"os"

	"deliverypulse/internal/app"
	"deliverypulse/internal/config"
	"deliverypulse/internal/infrastructure"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (defaults to ./config.yaml or ./configs/config.yaml)")
	dataset := flag.String("dataset", "", "delivery extract to load, overrides DELIVERY_DATASET_FILE")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *dataset != "" {
		cfg.Dataset.Path = *dataset
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}
