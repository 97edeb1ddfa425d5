package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cafe-dashboard/internal/analytics"
	"cafe-dashboard/internal/errors"
	"cafe-dashboard/internal/models"
	"cafe-dashboard/internal/observability"
)

type APIHandlers struct {
	engine *analytics.Engine
	logger *slog.Logger
}

func NewAPIHandlers(engine *analytics.Engine, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		engine: engine,
		logger: logger,
	}
}

// selectionFromQuery builds the filter selection from the `locations` and
// `months` query parameters. An absent parameter means "all known values",
// matching the dashboard's initial dropdown state; a present-but-empty
// parameter is an explicit empty selection.
func (h *APIHandlers) selectionFromQuery(r *http.Request) models.FilterSelection {
	options := h.engine.FilterOptions()

	sel := models.FilterSelection{
		Locations: options.Locations,
		Months:    options.Months,
	}
	if r.URL.Query().Has("locations") {
		sel.Locations = splitParam(r.URL.Query().Get("locations"))
	}
	if r.URL.Query().Has("months") {
		sel.Months = splitParam(r.URL.Query().Get("months"))
	}
	return sel
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (h *APIHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	report, err := h.engine.Run(r.Context(), h.selectionFromQuery(r))
	if err != nil {
		var selErr *analytics.SelectionError
		if stderrors.As(err, &selErr) {
			errors.WriteError(w, h.logger, errors.ValidationWrap(err, selErr.Error()), requestID)
			return
		}
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "analytics run failed"), requestID)
		return
	}

	headers := map[string]string{
		"Cache-Control": "public, max-age=300",
	}

	errors.WriteSuccessWithHeaders(w, report, headers)
}

func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	headers := map[string]string{
		"Cache-Control": "public, max-age=300",
	}

	errors.WriteSuccessWithHeaders(w, h.engine.FilterOptions(), headers)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.engine.Stats())
}
