// Package dataprocessing turns a raw food-delivery extract into dashboard aggregates.
// It consolidates loading, cleaning, filtering and aggregation into a cohesive package
// that handles the complete data lifecycle from CSV/Excel ingestion to view metrics.
//
// # Architecture
//
// The package is organized into four main components:
//
// 1. Parser: Reads the extract (CSV or XLSX) into text-only RawRecords
// 2. Cleaner: Trims, drops sentinel rows, coerces types and derives distance
// 3. Filter: Applies the dashboard date/traffic filter
// 4. Aggregators: Pure functions producing company, agent and restaurant metrics
//
// # Usage
//
//	raw, err := dataprocessing.ParseFile("train.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	records, err := dataprocessing.Clean(raw)
//	if err != nil {
//	    log.Fatal(err) // *CleanError names the line and field
//	}
//	visible := dataprocessing.Filter(records, domain.FilterOptions{Traffic: []string{"Jam"}})
//	perDay := dataprocessing.OrdersPerDay(visible)
//
// # Data Flow
//
//	Extract → Parser → RawRecords → Cleaner → Records → Filter → Aggregators → Views
//
// # Error Handling
//
// Cleaning fails as a whole on the first malformed value and reports the offending line,
// field and value through *CleanError, which matches ErrParse with errors.Is.
// Rows carrying a missing-value sentinel are dropped silently and counted in CleanReport.
// Aggregators over an empty input either return empty tables or ErrEmptyDataset
// for scalar metrics that have no value.
//
// # Testing
//
// Use table-driven tests with the record builders in testutil_test.go when adding
// new aggregators.
package dataprocessing
