package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"deliverypulse/internal/dataprocessing"
	apperrors "deliverypulse/internal/errors"
	"deliverypulse/internal/infrastructure"
	"deliverypulse/pkg/contracts/domain"
)

// Dataset is the cleaned extract held for the session. Records is never
// mutated after Load, so readers may share it without copying.
type Dataset struct {
	Records  []domain.Record
	Report   domain.CleanReport
	Source   string
	LoadedAt time.Time
}

// DashboardService loads the delivery extract once and derives the three
// dashboard views from it on every interaction
type DashboardService struct {
	mu      sync.RWMutex
	dataset *Dataset

	defaultTraffic []string
	metrics        *infrastructure.DashboardMetrics
	tracer         trace.Tracer
	logger         *slog.Logger
	now            func() time.Time
}

// DashboardOption configures a DashboardService
type DashboardOption func(*DashboardService)

// WithMetrics records aggregate and cleaning metrics on m
func WithMetrics(m *infrastructure.DashboardMetrics) DashboardOption {
	return func(s *DashboardService) { s.metrics = m }
}

// WithTracer traces every view and aggregate computation
func WithTracer(t trace.Tracer) DashboardOption {
	return func(s *DashboardService) { s.tracer = t }
}

// WithDefaultTraffic sets the traffic categories used when a request names none.
// An empty list keeps the default of every category.
func WithDefaultTraffic(traffic []string) DashboardOption {
	return func(s *DashboardService) { s.defaultTraffic = append([]string(nil), traffic...) }
}

// withClock overrides the view generation timestamp in tests
func withClock(now func() time.Time) DashboardOption {
	return func(s *DashboardService) { s.now = now }
}

// NewDashboardService creates a dashboard service with no dataset loaded
func NewDashboardService(logger *slog.Logger, opts ...DashboardOption) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}

	s := &DashboardService{
		tracer: otel.Tracer(infrastructure.MeterName),
		logger: logger.With(slog.String("component", "dashboard_service")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.defaultTraffic) == 0 {
		s.defaultTraffic = dataprocessing.DefaultFilterOptions().Traffic
	}
	return s
}

// Load reads, cleans and stores the extract at path. A failed load keeps the
// previously loaded dataset.
func (s *DashboardService) Load(ctx context.Context, path string) error {
	ctx, span := s.tracer.Start(ctx, "dataset.load", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	raw, err := dataprocessing.ParseFile(path)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return s.loadError(ctx, path, err)
	}

	return s.LoadRecords(ctx, raw, path)
}

// LoadRecords cleans already parsed rows and stores them as the dataset
func (s *DashboardService) LoadRecords(ctx context.Context, raw []domain.RawRecord, source string) error {
	start := time.Now()

	records, report, err := dataprocessing.CleanWithReport(raw)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return s.loadError(ctx, source, err)
	}

	ds := &Dataset{
		Records:  records,
		Report:   report,
		Source:   source,
		LoadedAt: s.now(),
	}

	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()

	infrastructure.RecordCleanMetrics(ctx, s.metrics, report)

	attrs := []slog.Attr{
		slog.String("source", source),
		slog.Int("input_rows", report.Input),
		slog.Int("kept_rows", report.Kept),
		slog.Duration("duration", time.Since(start)),
	}
	for reason, n := range report.Dropped {
		attrs = append(attrs, slog.Int("dropped_"+reason, n))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "dataset loaded", attrs...)

	return nil
}

// loadError converts a parse or clean failure into an application error that
// names the offending line and field when known
func (s *DashboardService) loadError(ctx context.Context, source string, err error) error {
	var appErr *apperrors.AppError

	var cleanErr *dataprocessing.CleanError
	var csvErr *csv.ParseError
	switch {
	case errors.As(err, &cleanErr):
		appErr = apperrors.NewParsingError("failed to clean extract", err).
			WithContext("line", cleanErr.Line).
			WithContext("field", cleanErr.Field)
	case errors.Is(err, dataprocessing.ErrMissingColumn),
		errors.Is(err, dataprocessing.ErrUnsupportedFormat),
		errors.Is(err, dataprocessing.ErrParse),
		errors.As(err, &csvErr):
		appErr = apperrors.NewParsingError("failed to read extract", err)
	default:
		appErr = apperrors.NewStorageError("failed to open extract", err)
	}
	appErr.WithContext("source", source)

	s.logger.ErrorContext(ctx, "dataset load failed",
		slog.String("source", source),
		slog.String("error", err.Error()))

	return appErr
}

// Loaded reports whether a dataset is available
func (s *DashboardService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset != nil
}

// Dataset returns the loaded dataset
func (s *DashboardService) Dataset(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	ds := s.dataset
	s.mu.RUnlock()

	if ds == nil {
		return nil, apperrors.NewUnavailableError("dataset has not been loaded")
	}
	return ds, nil
}

// Summary returns the source, cleaning report and filter bounds of the dataset
func (s *DashboardService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return domain.DatasetSummary{}, err
	}

	return domain.DatasetSummary{
		Source:   ds.Source,
		LoadedAt: ds.LoadedAt,
		Report:   ds.Report,
		Bounds:   dataprocessing.Bounds(ds.Records),
	}, nil
}

// Filters returns the date bounds and traffic options the controls offer
func (s *DashboardService) Filters(ctx context.Context) (domain.FilterBounds, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return domain.FilterBounds{}, err
	}
	return dataprocessing.Bounds(ds.Records), nil
}

// View computes the named view
func (s *DashboardService) View(ctx context.Context, name string, opts domain.FilterOptions) (interface{}, error) {
	switch name {
	case domain.ViewCompany:
		return s.CompanyView(ctx, opts)
	case domain.ViewAgents:
		return s.AgentsView(ctx, opts)
	case domain.ViewRestaurants:
		return s.RestaurantsView(ctx, opts)
	default:
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("view %q", name))
	}
}

// CompanyView computes the business-wide view over the filtered dataset
func (s *DashboardService) CompanyView(ctx context.Context, opts domain.FilterOptions) (*domain.CompanyView, error) {
	records, meta, err := s.prepare(ctx, domain.ViewCompany, opts)
	if err != nil {
		return nil, err
	}

	view := &domain.CompanyView{}
	err = s.compute(ctx, domain.ViewCompany, &meta, map[string]func() error{
		domain.AggOrdersPerDay: func() error {
			view.OrdersPerDay = dataprocessing.OrdersPerDay(records)
			return nil
		},
		domain.AggTrafficShare: func() error {
			view.TrafficShare = dataprocessing.TrafficShare(records)
			return nil
		},
		domain.AggOrdersByCityAndTraffic: func() error {
			view.OrdersByCityAndTraffic = dataprocessing.OrdersByCityAndTraffic(records)
			return nil
		},
		domain.AggOrdersPerWeek: func() error {
			view.OrdersPerWeek = dataprocessing.OrdersPerWeek(records)
			return nil
		},
		domain.AggOrdersPerAgentPerWeek: func() error {
			view.OrdersPerAgentPerWeek = dataprocessing.OrdersPerAgentPerWeek(records)
			return nil
		},
		domain.AggTrafficCentroids: func() error {
			view.TrafficCentroids = dataprocessing.TrafficCentroidByCity(records)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	view.ViewMeta = meta
	return view, nil
}

// AgentsView computes the delivery-agent view over the filtered dataset
func (s *DashboardService) AgentsView(ctx context.Context, opts domain.FilterOptions) (*domain.AgentsView, error) {
	records, meta, err := s.prepare(ctx, domain.ViewAgents, opts)
	if err != nil {
		return nil, err
	}

	view := &domain.AgentsView{}
	err = s.compute(ctx, domain.ViewAgents, &meta, map[string]func() error{
		domain.AggAge: func() error {
			ext, err := dataprocessing.AgeExtremes(records)
			if err != nil {
				return err
			}
			view.Age = &ext
			return nil
		},
		domain.AggVehicleCondition: func() error {
			ext, err := dataprocessing.VehicleConditionExtremes(records)
			if err != nil {
				return err
			}
			view.VehicleCondition = &ext
			return nil
		},
		domain.AggAvgRatingPerAgent: func() error {
			view.AvgRatingPerAgent = dataprocessing.AvgRatingPerAgent(records)
			return nil
		},
		domain.AggRatingByTraffic: func() error {
			view.RatingByTraffic = dataprocessing.RatingStatsByTraffic(records)
			return nil
		},
		domain.AggRatingByWeather: func() error {
			view.RatingByWeather = dataprocessing.RatingStatsByWeather(records)
			return nil
		},
		domain.AggFastestAgents: func() error {
			view.FastestAgents = dataprocessing.TopDeliveryAgents(records, true)
			return nil
		},
		domain.AggSlowestAgents: func() error {
			view.SlowestAgents = dataprocessing.TopDeliveryAgents(records, false)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	view.ViewMeta = meta
	return view, nil
}

// RestaurantsView computes the restaurant view over the filtered dataset
func (s *DashboardService) RestaurantsView(ctx context.Context, opts domain.FilterOptions) (*domain.RestaurantsView, error) {
	records, meta, err := s.prepare(ctx, domain.ViewRestaurants, opts)
	if err != nil {
		return nil, err
	}

	view := &domain.RestaurantsView{}
	festivalStat := func(dst **float64, festival string, kind domain.StatKind) func() error {
		return func() error {
			v, err := dataprocessing.TimeStatByFestival(records, festival, kind)
			if err != nil {
				return err
			}
			*dst = &v
			return nil
		}
	}

	err = s.compute(ctx, domain.ViewRestaurants, &meta, map[string]func() error{
		domain.AggUniqueAgents: func() error {
			n := dataprocessing.UniqueDeliveryAgents(records)
			view.UniqueAgents = &n
			return nil
		},
		domain.AggAvgDistanceKm: func() error {
			v, err := dataprocessing.AvgDistance(records)
			if err != nil {
				return err
			}
			view.AvgDistanceKm = &v
			return nil
		},
		domain.AggAvgTimeFestival:   festivalStat(&view.AvgTimeFestival, domain.FestivalYes, domain.StatAvgTime),
		domain.AggStdTimeFestival:   festivalStat(&view.StdTimeFestival, domain.FestivalYes, domain.StatStdTime),
		domain.AggAvgTimeNoFestival: festivalStat(&view.AvgTimeNoFestival, domain.FestivalNo, domain.StatAvgTime),
		domain.AggStdTimeNoFestival: festivalStat(&view.StdTimeNoFestival, domain.FestivalNo, domain.StatStdTime),
		domain.AggTimeByCity: func() error {
			view.TimeByCity = dataprocessing.TimeStatsByCity(records)
			return nil
		},
		domain.AggTimeByCityAndTraffic: func() error {
			sb := dataprocessing.TimeStatsByCityAndTraffic(records)
			view.TimeByCityAndTraffic = &sb
			return nil
		},
		domain.AggAvgDistanceByCity: func() error {
			view.AvgDistanceByCity = dataprocessing.AvgDistanceByCity(records)
			return nil
		},
		domain.AggTimeByCityAndOrderType: func() error {
			view.TimeByCityAndOrderType = dataprocessing.TimeStatsByCityAndOrderType(records)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	view.ViewMeta = meta
	return view, nil
}

// prepare filters the dataset and fills the view metadata
func (s *DashboardService) prepare(ctx context.Context, view string, opts domain.FilterOptions) ([]domain.Record, domain.ViewMeta, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, domain.ViewMeta{}, err
	}

	if opts.Traffic == nil {
		opts.Traffic = append([]string(nil), s.defaultTraffic...)
	}

	records := dataprocessing.Filter(ds.Records, opts)

	return records, domain.ViewMeta{
		View:        view,
		Filter:      opts,
		Rows:        len(records),
		GeneratedAt: s.now(),
	}, nil
}

// compute runs every aggregate of a view concurrently. A failing or panicking
// aggregate is reported on meta.Errors and leaves its field empty; only
// context cancellation fails the whole view.
func (s *DashboardService) compute(ctx context.Context, view string, meta *domain.ViewMeta, aggregates map[string]func() error) error {
	ctx, span := s.tracer.Start(ctx, "view."+view,
		trace.WithAttributes(attribute.Int("rows", meta.Rows)))
	defer span.End()

	var (
		mu     sync.Mutex
		failed []domain.AggregateError
	)

	g, gctx := errgroup.WithContext(ctx)
	for name, fn := range aggregates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			actx, aspan := s.tracer.Start(gctx, "aggregate."+name)
			defer aspan.End()

			start := time.Now()
			err := guard(fn)
			infrastructure.RecordAggregateMetrics(actx, s.metrics, view, name, time.Since(start), err)

			if err != nil {
				aggErr := apperrors.NewAggregationError(name, err).WithContext("view", view)
				infrastructure.RecordError(actx, aggErr)
				s.logger.WarnContext(actx, "aggregate failed",
					slog.String("view", view),
					slog.String("aggregate", name),
					slog.String("error_type", string(aggErr.Type)),
					slog.String("error", aggErr.Error()))

				mu.Lock()
				failed = append(failed, domain.AggregateError{Aggregate: name, Message: err.Error()})
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	order := make(map[string]int, len(domain.ViewAggregates[view]))
	for i, name := range domain.ViewAggregates[view] {
		order[name] = i
	}
	sort.Slice(failed, func(i, j int) bool {
		return order[failed[i].Aggregate] < order[failed[j].Aggregate]
	})
	meta.Errors = failed

	s.logger.DebugContext(ctx, "view computed",
		slog.String("view", view),
		slog.Int("rows", meta.Rows),
		slog.Int("failed_aggregates", len(failed)))

	return nil
}

// guard runs fn and converts a panic into an error
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrAggregatePanic, r)
		}
	}()
	return fn()
}
