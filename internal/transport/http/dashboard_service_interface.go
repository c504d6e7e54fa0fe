package http

import (
	"context"

	"deliverypulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handlers use
type DashboardServiceInterface interface {
	Summary(ctx context.Context) (domain.DatasetSummary, error)
	Filters(ctx context.Context) (domain.FilterBounds, error)

	// View returns *domain.CompanyView, *domain.AgentsView or *domain.RestaurantsView
	View(ctx context.Context, name string, opts domain.FilterOptions) (interface{}, error)
}
