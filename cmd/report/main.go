package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"deliverypulse/internal/config"
	"deliverypulse/internal/dataprocessing"
	apierrors "deliverypulse/internal/errors"
	"deliverypulse/internal/exporter"
	"deliverypulse/internal/infrastructure"
	dpmiddleware "deliverypulse/internal/middleware"
	"deliverypulse/internal/services"
	"deliverypulse/internal/validation"
	api "deliverypulse/pkg/contracts/api/v1"
	"deliverypulse/pkg/contracts/domain"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

// options are the parsed command line flags
type options struct {
	in       string
	out      string
	format   string
	maxDate  string
	traffic  string
	bom      bool
	logLevel string

	// trafficSet is true when -traffic was given, even as an empty list
	trafficSet bool
}

// trafficFilter returns nil when -traffic was not given, so the service default
// applies. An explicitly empty list selects no category at all.
func (o options) trafficFilter() []string {
	if !o.trafficSet {
		return nil
	}
	if traffic := splitList(o.traffic); traffic != nil {
		return traffic
	}
	return []string{}
}

// flagNames maps request contract fields back to the flags that set them
var flagNames = map[string]string{
	"max_date": "-max-date",
	"traffic":  "-traffic",
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the report and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "report: %v\n", err)
		return 2
	}

	logger, err := infrastructure.NewLogger(config.LoggingConfig{Level: opts.logLevel, Output: "console"}, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "report: %v\n", err)
		return 1
	}

	query := api.ViewQuery{MaxDate: opts.maxDate, Traffic: opts.trafficFilter()}
	if err := dpmiddleware.NewValidator(logger).ValidateStruct(query); err != nil {
		reportValidation(stderr, err)
		return 2
	}
	filter, err := query.FilterOptions()
	if err != nil {
		fmt.Fprintf(stderr, "report: -max-date: %v\n", err)
		return 2
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateExtract(opts.in); err != nil {
		fmt.Fprintf(stderr, "report: %v\n", err)
		return 1
	}
	if err := validator.ValidateOutputDirectory(opts.out); err != nil {
		fmt.Fprintf(stderr, "report: %v\n", err)
		return 1
	}

	svc := services.NewDashboardService(logger)
	if err := svc.Load(ctx, opts.in); err != nil {
		fmt.Fprintln(stderr, diagnose(err))
		return 1
	}

	tables, err := buildTables(ctx, svc, filter, logger)
	if err != nil {
		fmt.Fprintf(stderr, "report: %v\n", err)
		return 1
	}

	written, err := export(opts, tables, logger)
	if err != nil {
		fmt.Fprintf(stderr, "report: export failed: %v\n", err)
		return 1
	}

	for _, path := range written {
		fmt.Fprintln(stdout, path)
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", config.DefaultDatasetPath, "delivery extract to read (.csv or .xlsx)")
	fs.StringVar(&opts.out, "out", "reports", "output directory")
	fs.StringVar(&opts.format, "format", formatCSV, "export format: csv or xlsx")
	fs.StringVar(&opts.maxDate, "max-date", "", "exclusive upper bound on the order date (DD-MM-YYYY)")
	fs.StringVar(&opts.traffic, "traffic", "", "comma separated traffic categories (default all, empty selects none)")
	fs.BoolVar(&opts.bom, "bom", false, "prefix CSV files with a UTF-8 BOM")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "traffic" {
			opts.trafficSet = true
		}
	})
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if opts.format != formatCSV && opts.format != formatXLSX {
		return opts, fmt.Errorf("-format: want %s or %s, got %q", formatCSV, formatXLSX, opts.format)
	}
	return opts, nil
}

// buildTables computes the three views for filter in display order. Failed
// aggregates are reported and exported as header-only tables.
func buildTables(ctx context.Context, svc *services.DashboardService, filter domain.FilterOptions, logger *slog.Logger) (map[string][]exporter.Table, error) {
	tables := make(map[string][]exporter.Table, len(domain.Views))
	for _, name := range domain.Views {
		view, err := svc.View(ctx, name, filter)
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", name, err)
		}

		viewTables, err := exporter.ViewTables(view)
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", name, err)
		}
		tables[name] = viewTables

		for _, aggErr := range viewMeta(view).Errors {
			logger.Warn("aggregate unavailable",
				slog.String("view", name),
				slog.String("aggregate", aggErr.Aggregate),
				slog.String("reason", aggErr.Message))
		}
	}
	return tables, nil
}

// export writes <out>/<view>/<aggregate>.csv files or a single <out>/dashboard.xlsx
func export(opts options, tables map[string][]exporter.Table, logger *slog.Logger) ([]string, error) {
	if opts.format == formatXLSX {
		var all []exporter.Table
		for _, name := range domain.Views {
			all = append(all, tables[name]...)
		}
		path := filepath.Join(opts.out, "dashboard.xlsx")
		if err := exporter.NewWorkbookWriter(logger).WriteFile(path, all); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	writer := exporter.NewCSVWriter(logger)
	var written []string
	for _, name := range domain.Views {
		paths, err := writer.WriteDir(filepath.Join(opts.out, name), tables[name], exporter.WriteOptions{BOMPrefix: opts.bom})
		written = append(written, paths...)
		if err != nil {
			return written, fmt.Errorf("view %s: %w", name, err)
		}
	}
	return written, nil
}

// diagnose renders a load failure. Cleaning failures name the line and field.
func diagnose(err error) string {
	var cleanErr *dataprocessing.CleanError
	if errors.As(err, &cleanErr) {
		return fmt.Sprintf("report: invalid extract: line %d, field %s: cannot parse %q: %v",
			cleanErr.Line, cleanErr.Field, cleanErr.Value, cleanErr.Err)
	}
	return fmt.Sprintf("report: %v", err)
}

func viewMeta(view interface{}) domain.ViewMeta {
	switch v := view.(type) {
	case *domain.CompanyView:
		return v.ViewMeta
	case *domain.AgentsView:
		return v.ViewMeta
	case *domain.RestaurantsView:
		return v.ViewMeta
	}
	return domain.ViewMeta{}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// reportValidation prints each failing filter flag on its own line
func reportValidation(stderr io.Writer, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		if details, ok := apiErr.Details.(apierrors.ValidationErrors); ok {
			for _, fe := range details.Errors {
				name, ok := flagNames[fe.Field]
				if !ok {
					name = fe.Field
				}
				fmt.Fprintf(stderr, "report: %s: %s\n", name, fe.Message)
			}
			return
		}
	}
	fmt.Fprintf(stderr, "report: %v\n", err)
}
