package config

import "time"

// Application constants
const (
	AppName   = "Delivery Pulse"
	EnvPrefix = "DELIVERY"

	// DefaultConfigFile is looked up in the working directory and ./configs
	DefaultConfigFile = "config.yaml"
	DotEnvFile        = ".env"

	DefaultPort            = 8080
	DefaultDatasetPath     = "data/train.csv"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// WebSocket limits for the interaction channel
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 4096
	WebSocketMaxMessageBytes = 4096
	WebSocketPongWait        = 60 * time.Second

	// API routes
	APIBasePath       = "/api"
	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"
)

// Trace exporters
const (
	TraceExporterStdout = "stdout"
	TraceExporterNone   = "none"
)
