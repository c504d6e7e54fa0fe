package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "deliverypulse/internal/errors"
	"deliverypulse/internal/exporter"
	dpmiddleware "deliverypulse/internal/middleware"
	api "deliverypulse/pkg/contracts/api/v1"
	"deliverypulse/pkg/contracts/domain"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DashboardHandler serves the dataset summary, the filter bounds, the three
// views and their exports with RFC 7807 error handling
type DashboardHandler struct {
	service        DashboardServiceInterface
	validator      *dpmiddleware.Validator
	queryValidator *dpmiddleware.QueryParamValidator
	csv            *exporter.CSVWriter
	workbook       *exporter.WorkbookWriter
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, validator *dpmiddleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:        service,
		validator:      validator,
		queryValidator: dpmiddleware.NewQueryParamValidator(logger, errorHandler),
		csv:            exporter.NewCSVWriter(logger),
		workbook:       exporter.NewWorkbookWriter(logger),
		logger:         logger.With(slog.String("component", "dashboard_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/dataset/summary", h.GetSummary)
	r.Get("/filters", h.GetFilters)
	r.With(h.ViewCtx).Get("/views/{view}", h.GetView)

	r.Route("/export", func(r chi.Router) {
		r.Get("/dashboard.xlsx", h.ExportWorkbook)
		r.With(h.ViewCtx).Get("/{view}.csv", h.ExportCSV)
	})

	return r
}

// ViewCtx middleware rejects unknown view names
func (h *DashboardHandler) ViewCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		view := chi.URLParam(r, "view")
		for _, v := range domain.Views {
			if v == view {
				next.ServeHTTP(w, r)
				return
			}
		}

		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"VIEW_NOT_FOUND",
			fmt.Sprintf("Dashboard view %q not found", view),
			map[string]interface{}{"available": domain.Views},
		))
	})
}

// GetSummary handles GET /api/dataset/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetFilters handles GET /api/filters
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	bounds, err := h.service.Filters(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, bounds)
}

// GetView handles GET /api/views/{view}?max_date=DD-MM-YYYY&traffic=Low&traffic=Jam
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "view")

	opts, err := h.filterOptions(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "computing view",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("view", name),
		slog.Int("traffic_filters", len(opts.Traffic)))

	view, err := h.service.View(r.Context(), name, opts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// ExportCSV handles GET /api/export/{view}.csv?aggregate=<name>&bom=true
func (h *DashboardHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "view")

	aggregate, ok := h.queryValidator.ValidateEnum(w, r, "aggregate", domain.ViewAggregates[name], "")
	if !ok {
		return
	}
	bom, ok := h.queryValidator.ValidateBool(w, r, "bom", false)
	if !ok {
		return
	}

	query := api.ExportQuery{Aggregate: aggregate, BOM: bom}
	if err := h.validator.ValidateStruct(query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	opts, err := h.filterOptions(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.View(r.Context(), name, opts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	tables, err := exporter.ViewTables(view)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ExportError("csv", err))
		return
	}
	table, found := exporter.FindTable(tables, query.Aggregate)
	if !found {
		h.errorHandler.HandleError(w, r, apierrors.ErrTableNotFound)
		return
	}

	var buf bytes.Buffer
	if err := h.csv.Write(&buf, table, exporter.WriteOptions{BOMPrefix: query.BOM}); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ExportError("csv", err))
		return
	}

	writeAttachment(w, contentTypeCSV, fmt.Sprintf("%s_%s.csv", name, table.Name), buf.Bytes())
}

// ExportWorkbook handles GET /api/export/dashboard.xlsx. All three views are
// computed for the same filter and written one sheet per aggregate.
func (h *DashboardHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	opts, err := h.filterOptions(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var tables []exporter.Table
	for _, name := range domain.Views {
		view, err := h.service.View(r.Context(), name, opts)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		viewTables, err := exporter.ViewTables(view)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ExportError("xlsx", err))
			return
		}
		tables = append(tables, viewTables...)
	}

	var buf bytes.Buffer
	if err := h.workbook.Write(&buf, tables); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ExportError("xlsx", err))
		return
	}

	h.logger.InfoContext(r.Context(), "workbook exported",
		slog.Int("sheets", len(tables)),
		slog.Int("bytes", buf.Len()))

	writeAttachment(w, contentTypeXLSX, "dashboard.xlsx", buf.Bytes())
}

// filterOptions reads and validates the shared filter query parameters.
// traffic may repeat or hold a comma separated list. An absent traffic
// parameter selects the default categories; a present but empty one
// (traffic=) selects none.
func (h *DashboardHandler) filterOptions(r *http.Request) (domain.FilterOptions, error) {
	q := r.URL.Query()

	query := api.ViewQuery{MaxDate: strings.TrimSpace(q.Get("max_date"))}
	values, ok := q["traffic"]
	if ok {
		query.Traffic = []string{}
	}
	for _, v := range values {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				query.Traffic = append(query.Traffic, t)
			}
		}
	}

	if err := h.validator.ValidateStruct(query); err != nil {
		return domain.FilterOptions{}, err
	}

	opts, err := query.FilterOptions()
	if err != nil {
		return domain.FilterOptions{}, apierrors.ErrValidation("max_date", err.Error())
	}
	return opts, nil
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
