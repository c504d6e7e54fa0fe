package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"deliverypulse/internal/config"
	apierrors "deliverypulse/internal/errors"
	"deliverypulse/internal/infrastructure"
	dpmiddleware "deliverypulse/internal/middleware"
	"deliverypulse/internal/services"
	handlers "deliverypulse/internal/transport/http"
	"deliverypulse/pkg/contracts"
)

var (
	// BuildTime is set at link time with -ldflags "-X deliverypulse/internal/app.BuildTime=..."
	BuildTime = "unknown"
	// GitCommit is set at link time
	GitCommit = "unknown"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics

	errorHandler *apierrors.ErrorHandler
	interaction  *handlers.InteractionHandler
	listener     net.Listener
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard *services.DashboardService
	Health    *services.HealthService
}

// NewApplication wires telemetry, services, handlers and the router. The
// dataset is not loaded until Start, or an explicit LoadDataset call.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("build_time", BuildTime),
		slog.String("git_commit", GitCommit))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateDashboardMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices creates the dashboard service, the interaction handler
// and the health service that reports on both
func (a *Application) initializeServices() {
	dashboard := services.NewDashboardService(a.Logger,
		services.WithMetrics(a.Metrics),
		services.WithTracer(a.OTelProviders.Tracer),
		services.WithDefaultTraffic(a.Config.Dataset.DefaultTraffic),
	)

	a.interaction = handlers.NewInteractionHandler(
		dashboard,
		dpmiddleware.NewValidator(a.Logger),
		a.Config.WebSocket,
		a.Config.Server.RequestTimeout,
		a.Config.Security.AllowedOrigins,
		a.Metrics,
		a.Logger,
		a.errorHandler,
	)

	health := services.NewHealthService(
		contracts.Version,
		BuildTime,
		GitCommit,
		dashboard,
		a.interaction.Hub(),
		a.Logger,
	)

	a.Services = &ServiceContainer{
		Dashboard: dashboard,
		Health:    health,
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// These don't wrap the ResponseWriter, so the upgrade can hijack it
	r.Use(dpmiddleware.RequestID)
	r.Use(dpmiddleware.RealIP)

	r.With(apierrors.RecoveryMiddleware(a.errorHandler)).Get(config.WebSocketEndpoint, a.interaction.ServeWS)

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		r.Use(dpmiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(dpmiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.NewErrorMiddleware(a.errorHandler, a.Logger).Handler)
		r.Use(dpmiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(dpmiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(dpmiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.errorHandler,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	// Prometheus scrape endpoint, outside the middleware group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)
	}

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route(config.APIBasePath, func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(dpmiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger, a.errorHandler))

		healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.Post("/logs", handlers.NewClientLogHandler(a.Logger).Handle)

		dashboardHandler := handlers.NewDashboardHandler(
			a.Services.Dashboard,
			dpmiddleware.NewValidator(a.Logger),
			a.Logger,
			a.errorHandler,
		)
		r.Mount("/", dashboardHandler.Routes())
	})
}

// getCORSConfig returns the CORS configuration for the configured origins
func (a *Application) getCORSConfig() dpmiddleware.CORSConfig {
	return dpmiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			dpmiddleware.RequestIDHeader,
		},
		ExposedHeaders: []string{
			dpmiddleware.RequestIDHeader,
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.ListenAddr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// LoadDataset replaces the session dataset with the extract at path
func (a *Application) LoadDataset(ctx context.Context, path string) error {
	a.Logger.InfoContext(ctx, "Loading dataset", slog.String("path", path))
	if err := a.Services.Dashboard.Load(ctx, path); err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	return nil
}

// Addr returns the address the server is listening on, or the configured
// address before Start
func (a *Application) Addr() string {
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return a.Server.Addr
}

// Start loads the dataset when none is loaded yet and starts serving.
// cancel is called when the server stops on its own.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	if !a.Services.Dashboard.Loaded() {
		if err := a.LoadDataset(ctx, a.Config.DatasetPath(workingDir())); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			// Signal shutdown through context instead of os.Exit
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", a.Addr()),
		slog.String("websocket", config.WebSocketEndpoint),
		slog.String("metrics", config.MetricsEndpoint))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown
	a.interaction.Hub().Stop()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete",
		slog.Int64("websocket_connections", a.interaction.Hub().TotalConnections()))
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	// The run context may already be cancelled
	return a.Stop(context.WithoutCancel(ctx))
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
