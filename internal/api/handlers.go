package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/crm-insights/internal/cache"
	"github.com/ignite/crm-insights/internal/domain"
	"github.com/ignite/crm-insights/internal/export"
	"github.com/ignite/crm-insights/internal/pkg/logger"
	"github.com/ignite/crm-insights/internal/report"
	"github.com/ignite/crm-insights/internal/validate"
)

// utf8BOM precedes CSV downloads so spreadsheet apps detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Handlers bundles the reporting engine behind HTTP endpoints. The
// export endpoints double as the download sink: they deliver finished
// CSVExportData to the client.
type Handlers struct {
	aggregator *report.Aggregator
	exporter   *export.Exporter
	reports    cache.Cache
	checker    *validate.DuplicateChecker
	cacheTTL   time.Duration
}

// NewHandlers creates the handler set.
func NewHandlers(
	aggregator *report.Aggregator,
	exporter *export.Exporter,
	reports cache.Cache,
	checker *validate.DuplicateChecker,
	cacheTTL time.Duration,
) *Handlers {
	return &Handlers{
		aggregator: aggregator,
		exporter:   exporter,
		reports:    reports,
		checker:    checker,
		cacheTTL:   cacheTTL,
	}
}

// HealthCheck reports server liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

// GetDashboard returns the cached dashboard summary. ?refresh=true
// forces recomputation.
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "true"

	data, err := h.reports.Fetch(r.Context(), "dashboard", h.cacheTTL, force, func(ctx context.Context) ([]byte, error) {
		summary, err := h.aggregator.Dashboard(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(summary)
	})
	if err != nil {
		logger.Error("dashboard report failed", "error", err)
		respondError(w, http.StatusInternalServerError, report.ErrDashboardReport.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetInteractionMetrics returns the interaction analytics report.
// Supported query params: start, end (YYYY-MM-DD, inclusive),
// organization_id, type_id.
func (h *Handlers) GetInteractionMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f report.InteractionFilter

	if v := q.Get("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid start date")
			return
		}
		f.Start = &t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid end date")
			return
		}
		// inclusive through end of day
		t = t.Add(24*time.Hour - time.Nanosecond)
		f.End = &t
	}
	f.OrganizationID = q.Get("organization_id")
	f.TypeID = q.Get("type_id")

	metrics, err := h.aggregator.InteractionMetrics(r.Context(), f)
	if err != nil {
		logger.Error("interaction metrics failed", "error", err)
		respondError(w, http.StatusInternalServerError, report.ErrInteractionReport.Error())
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

// GetNeedsVisit returns the ranked needs-visit list.
func (h *Handlers) GetNeedsVisit(w http.ResponseWriter, r *http.Request) {
	rows, err := h.aggregator.NeedsVisit(r.Context())
	if err != nil {
		logger.Error("needs-visit report failed", "error", err)
		respondError(w, http.StatusInternalServerError, report.ErrNeedsVisitReport.Error())
		return
	}
	if rows == nil {
		rows = []domain.OrganizationNeedsVisit{}
	}
	respondJSON(w, http.StatusOK, rows)
}

// ExportOrganizations streams the organization CSV export.
func (h *Handlers) ExportOrganizations(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "organizations", h.exporter.ExportOrganizationsChunked)
}

// ExportInteractions streams the interaction CSV export.
func (h *Handlers) ExportInteractions(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "interactions", h.exporter.ExportInteractionsChunked)
}

func (h *Handlers) serveExport(
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	run func(ctx context.Context, filter map[string]any, progress export.ProgressFunc) (*domain.CSVExportData, error),
) {
	jobID := uuid.New().String()

	data, err := run(r.Context(), nil, func(processed, total int) {
		logger.Debug("export progress", "job_id", jobID, "kind", kind,
			"processed", processed, "total", total)
	})
	if err != nil {
		logger.Error("export failed", "job_id", jobID, "kind", kind, "error", err)
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", data.MimeType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+data.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(utf8BOM)
	w.Write([]byte(data.Content))
}

// CheckOrganizationName answers duplicate-name checks for forms.
// Latest request wins; superseded checks return 409.
func (h *Handlers) CheckOrganizationName(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	duplicate, err := h.checker.CheckOrganizationName(r.Context(), name, q.Get("exclude_id"))
	if errors.Is(err, validate.ErrStale) {
		respondError(w, http.StatusConflict, "superseded by a newer check")
		return
	}
	if err != nil {
		logger.Error("duplicate check failed", "error", err)
		respondError(w, http.StatusInternalServerError, "duplicate check failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"duplicate": duplicate})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
