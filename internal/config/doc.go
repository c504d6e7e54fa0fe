// Package config provides centralized configuration management for the delivery dashboard.
// It loads configuration from multiple sources, validates it, and exposes a typed
// Config to the rest of the application.
//
// # Configuration Sources
//
// Values are resolved in the following order of precedence:
//
//	1. Environment variables (highest priority), optionally seeded from a .env file
//	2. YAML configuration file
//	3. Built-in defaults (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern DELIVERY_<SECTION>_<FIELD>:
//
//	DELIVERY_SERVER_PORT=8080
//	DELIVERY_DATASET_FILE=data/train.csv
//	DELIVERY_LOGGING_LEVEL=debug
//	DELIVERY_SECURITY_RATE_LIMIT_RPS=20
//	DELIVERY_TELEMETRY_TRACE_EXPORTER=none
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Dataset.Path)
package config
