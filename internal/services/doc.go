// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP handlers and the dataprocessing package, so that
// loading, filtering and aggregation rules live in one testable place.
//
// # Architecture
//
// Services follow these principles:
//
//	1. Handlers depend on small interfaces, services return concrete structs
//	2. Context propagation for cancellation and tracing
//	3. Options for optional collaborators such as metrics and tracers
//
// # Available Services
//
//	- DashboardService: owns the loaded dataset and computes the company,
//	  agents and restaurants views for a filter
//	- HealthService: liveness, readiness and version reporting
//
// # Dataset Lifecycle
//
// The extract is loaded once per session. Views never mutate it; every
// interaction filters the loaded records and recomputes the aggregates of
// one view concurrently:
//
//	svc := services.NewDashboardService(logger, services.WithMetrics(metrics))
//	if err := svc.Load(ctx, "data/train.csv"); err != nil {
//	    return err
//	}
//	view, err := svc.RestaurantsView(ctx, domain.FilterOptions{
//	    Traffic: []string{domain.TrafficJam},
//	})
//
// # Error Handling
//
// Load failures are returned as *errors.AppError values. Parsing errors
// carry the offending line and field in their context. A view is only
// failed by context cancellation or an absent dataset; an aggregate that
// cannot be computed for the current filter is listed in the view's Errors
// and leaves its own field empty.
package services
