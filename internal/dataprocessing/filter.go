package dataprocessing

import (
	"time"

	"deliverypulse/pkg/contracts/domain"
)

// Filter returns the records ordered strictly before opts.MaxDate whose traffic density
// is one of opts.Traffic. A zero MaxDate leaves the date unbounded and a nil Traffic
// leaves the category unconstrained; an empty non-nil Traffic matches no record.
// The input slice is never modified.
func Filter(records []domain.Record, opts domain.FilterOptions) []domain.Record {
	allowed := make(map[string]struct{}, len(opts.Traffic))
	for _, t := range opts.Traffic {
		allowed[t] = struct{}{}
	}

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if !opts.MaxDate.IsZero() && !r.OrderDate.Before(opts.MaxDate) {
			continue
		}
		if opts.Traffic != nil {
			if _, ok := allowed[r.Traffic]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// DefaultFilterOptions selects every traffic category with no date bound. It is
// what a request that names no traffic category falls back to.
func DefaultFilterOptions() domain.FilterOptions {
	return domain.FilterOptions{
		Traffic: append([]string(nil), domain.AllTrafficDensities...),
	}
}

// DateBounds returns the earliest and latest order dates. Both are zero for empty input.
func DateBounds(records []domain.Record) (time.Time, time.Time) {
	var lo, hi time.Time
	for i, r := range records {
		if i == 0 || r.OrderDate.Before(lo) {
			lo = r.OrderDate
		}
		if i == 0 || r.OrderDate.After(hi) {
			hi = r.OrderDate
		}
	}
	return lo, hi
}

// Bounds describes what a client may filter on for the given records
func Bounds(records []domain.Record) domain.FilterBounds {
	lo, hi := DateBounds(records)
	return domain.FilterBounds{
		MinDate: lo,
		MaxDate: hi,
		Traffic: append([]string(nil), domain.AllTrafficDensities...),
	}
}
