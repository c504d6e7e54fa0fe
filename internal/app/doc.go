// Package app wires the delivery dashboard together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. The caller loads configuration and builds the logger
//	2. NewApplication initializes OpenTelemetry and the dashboard metrics
//	3. The dashboard service, interaction hub and health service are created
//	4. The chi router and HTTP server are configured
//	5. Start loads the dataset and begins serving
//
// # Routing
//
// RequestID and RealIP apply to every route. The /ws interaction channel sits
// outside the main middleware group because the upgrade must hijack an
// unwrapped ResponseWriter. Everything under /api goes through tracing,
// request logging, error handling, security headers, CORS, rate limiting and
// the request timeout. /metrics serves the Prometheus registry of this
// application instance.
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then Stop closes the interaction
// clients, drains in-flight HTTP requests within the configured shutdown
// timeout and flushes telemetry. Errors are returned to the caller; the
// package never calls os.Exit.
package app
