package analytichttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tallystack/tallystack/internal/analytics"
	"github.com/tallystack/tallystack/internal/analytics/export"
	"github.com/tallystack/tallystack/internal/platform/httpx"
)

const (
	defaultWindowDays = 30
	requestTimeout    = 5 * time.Second
)

// AnalyticsService defines the reporting contract used by the handler.
type AnalyticsService interface {
	AnalyzeRevenue(ctx context.Context, tenantID int64, windowDays, horizon int) (analytics.RevenueAnalysis, error)
	PriceRecommendations(ctx context.Context, tenantID int64, windowDays int, minConfidence analytics.Confidence) (analytics.RecommendationSet, error)
}

// Handler coordinates HTTP requests for the sales analytics endpoints.
type Handler struct {
	logger  *slog.Logger
	service AnalyticsService
	csvPool sync.Pool
}

// NewHandler constructs the analytics HTTP handler.
func NewHandler(logger *slog.Logger, service AnalyticsService) *Handler {
	h := &Handler{
		logger:  logger,
		service: service,
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

func (h *Handler) handleRevenue(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		h.handleFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	analysis, err := h.service.AnalyzeRevenue(ctx, filters.tenantID, filters.windowDays, filters.horizon)
	if err != nil {
		h.respondAnalyticsError(w, "analyze revenue", err)
		return
	}
	httpx.JSON(w, http.StatusOK, analysis)
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		h.handleFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	set, err := h.service.PriceRecommendations(ctx, filters.tenantID, filters.windowDays, filters.minConfidence)
	if err != nil {
		h.respondAnalyticsError(w, "price recommendations", err)
		return
	}
	httpx.JSON(w, http.StatusOK, set)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		h.handleFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	analysis, err := h.service.AnalyzeRevenue(ctx, filters.tenantID, filters.windowDays, filters.horizon)
	if err != nil {
		h.respondAnalyticsError(w, "export revenue", err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteSummaryCSV(buf, analysis, filters.windowDays); err != nil {
		h.handleServerError(w, "write summary csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteSeriesCSV(buf, analysis.Data); err != nil {
		h.handleServerError(w, "write series csv", err)
		return
	}
	if len(analysis.Forecast) > 0 {
		buf.WriteString("\n")
		if err := export.WriteForecastCSV(buf, analysis.Forecast); err != nil {
			h.handleServerError(w, "write forecast csv", err)
			return
		}
	}

	filename := fmt.Sprintf("revenue-analytics-%dd.csv", filters.windowDays)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) handleRecommendationsCSV(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		h.handleFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	set, err := h.service.PriceRecommendations(ctx, filters.tenantID, filters.windowDays, filters.minConfidence)
	if err != nil {
		h.respondAnalyticsError(w, "export recommendations", err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteRecommendationsCSV(buf, set); err != nil {
		h.handleServerError(w, "write recommendations csv", err)
		return
	}

	filename := fmt.Sprintf("price-recommendations-%dd.csv", filters.windowDays)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

type requestFilters struct {
	tenantID      int64
	windowDays    int
	horizon       int
	minConfidence analytics.Confidence
}

func parseFilters(r *http.Request) (requestFilters, error) {
	q := r.URL.Query()

	tenantStr := strings.TrimSpace(q.Get("tenant_id"))
	tenantID, err := strconv.ParseInt(tenantStr, 10, 64)
	if err != nil || tenantID <= 0 {
		return requestFilters{}, validationError{field: "tenant_id"}
	}

	filters := requestFilters{tenantID: tenantID, windowDays: defaultWindowDays}

	if windowStr := strings.TrimSpace(q.Get("window_days")); windowStr != "" {
		windowDays, err := strconv.Atoi(windowStr)
		if err != nil {
			return requestFilters{}, validationError{field: "window_days"}
		}
		filters.windowDays = windowDays
	}

	// Forecasting is opt-in. "forecast=true" requests the default horizon,
	// a positive count requests that many periods, and leaving the param
	// out (or "false"/"0") keeps the forecast off the payload.
	switch forecastStr := strings.TrimSpace(q.Get("forecast")); forecastStr {
	case "", "false":
	case "true":
		filters.horizon = analytics.DefaultForecastHorizon
	default:
		horizon, err := strconv.Atoi(forecastStr)
		if err != nil || horizon < 0 {
			return requestFilters{}, validationError{field: "forecast"}
		}
		filters.horizon = horizon
	}

	switch conf := analytics.Confidence(strings.TrimSpace(q.Get("min_confidence"))); conf {
	case "":
	case analytics.ConfidenceLow, analytics.ConfidenceMedium, analytics.ConfidenceHigh:
		filters.minConfidence = conf
	default:
		return requestFilters{}, validationError{field: "min_confidence"}
	}

	return filters, nil
}

func (h *Handler) respondAnalyticsError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, analytics.ErrInvalidWindow):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", err.Error())
	case errors.Is(err, analytics.ErrInsufficientData):
		httpx.Problem(w, http.StatusBadRequest, "Insufficient Data", err.Error())
	case errors.Is(err, analytics.ErrDatabaseUnavailable):
		h.logError(op, err)
		httpx.Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "sales history is temporarily unavailable")
	default:
		h.handleServerError(w, op, err)
	}
}

func (h *Handler) handleFilterError(w http.ResponseWriter, err error) {
	var vErr validationError
	if errors.As(err, &vErr) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", vErr.Error())
		return
	}
	h.handleServerError(w, "parse filters", err)
}

func (h *Handler) handleServerError(w http.ResponseWriter, op string, err error) {
	h.logError(op, err)
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

func (h *Handler) logError(op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err))
	}
}

type validationError struct {
	field string
}

func (v validationError) Error() string {
	return fmt.Sprintf("invalid %s", v.field)
}

// HandleRevenueForTest exposes the revenue handler for tests.
func (h *Handler) HandleRevenueForTest(w http.ResponseWriter, r *http.Request) { h.handleRevenue(w, r) }

// HandleRecommendationsForTest exposes the recommendations handler for tests.
func (h *Handler) HandleRecommendationsForTest(w http.ResponseWriter, r *http.Request) {
	h.handleRecommendations(w, r)
}

// HandleCSVForTest exposes the CSV handler for tests.
func (h *Handler) HandleCSVForTest(w http.ResponseWriter, r *http.Request) { h.handleCSV(w, r) }

// HandleRecommendationsCSVForTest exposes the recommendations CSV handler for tests.
func (h *Handler) HandleRecommendationsCSVForTest(w http.ResponseWriter, r *http.Request) {
	h.handleRecommendationsCSV(w, r)
}
