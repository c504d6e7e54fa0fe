// Package api contains the request contracts of the dashboard HTTP and
// interaction APIs.
package api

import (
	"fmt"
	"time"

	"deliverypulse/pkg/contracts/domain"
)

// ViewQuery holds the filter controls shared by every dashboard view
type ViewQuery struct {
	MaxDate string   `json:"max_date,omitempty" validate:"omitempty,datetime=02-01-2006"`
	Traffic []string `json:"traffic,omitempty" validate:"omitempty,dive,traffic"`
}

// FilterOptions converts the query into domain filter options.
// An empty max date leaves the upper bound open.
func (q ViewQuery) FilterOptions() (domain.FilterOptions, error) {
	opts := domain.FilterOptions{Traffic: q.Traffic}
	if q.MaxDate == "" {
		return opts, nil
	}

	maxDate, err := time.Parse(domain.OrderDateLayout, q.MaxDate)
	if err != nil {
		return domain.FilterOptions{}, fmt.Errorf("max_date %q: %w", q.MaxDate, err)
	}
	opts.MaxDate = maxDate
	return opts, nil
}

// InteractionRequest is one message received on the interaction channel.
// Every message triggers a full filter and aggregate cycle for one view.
type InteractionRequest struct {
	ID   string `json:"id,omitempty" validate:"omitempty,max=64"`
	View string `json:"view" validate:"required,oneof=company agents restaurants"`
	ViewQuery
}

// ExportQuery selects one aggregate table of a view for CSV export
type ExportQuery struct {
	Aggregate string `json:"aggregate" validate:"required"`
	BOM       bool   `json:"bom,omitempty"`
}
