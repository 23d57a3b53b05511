package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/middleware"
	"github.com/Chandresh-Kathiriya/m-desk-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var (
	errInvalidFrom = errors.New("from must be in YYYY-MM-DD format")
	errInvalidTo   = errors.New("to must be in YYYY-MM-DD format")
)

// ReportHandler handles HTTP requests for reporting queries and exports
type ReportHandler struct {
	reportService service.ReportService
	logger        *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers all reporting routes. Reports are admin-only.
func (h *ReportHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Use(authMiddleware, adminOnly)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/sales", h.Sales)
		r.Get("/sales/export", h.ExportSales)
		r.Get("/purchases", h.Purchases)
	})
}

// Dashboard handles the aggregate business summary
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

// Sales handles the per-variant sales report over a date range
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseReportRange(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.reportService.SalesReport(r.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to build sales report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build sales report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, rows)
}

// ExportSales handles streaming the sales report as a CSV download
func (h *ReportHandler) ExportSales(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseReportRange(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sales-report.csv"`)

	if err := h.reportService.ExportSalesCSV(r.Context(), w, from, to); err != nil {
		// Headers are already out; all we can do is log.
		h.logger.Error("Failed to export sales report", zap.Error(err))
	}
}

// Purchases handles the per-variant purchase report over a date range
func (h *ReportHandler) Purchases(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseReportRange(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.reportService.PurchaseReport(r.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to build purchase report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build purchase report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, rows)
}

// parseReportRange reads from/to query params as YYYY-MM-DD. Defaults cover
// the last 30 days; the to bound is inclusive of its whole day.
func parseReportRange(r *http.Request) (time.Time, time.Time, error) {
	from := time.Now().AddDate(0, 0, -30)
	to := time.Now()

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidFrom
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidTo
		}
		to = parsed.AddDate(0, 0, 1)
	}

	return from, to, nil
}
