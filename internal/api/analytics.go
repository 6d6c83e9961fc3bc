package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/constants"
	"dispatch-app/backend/internal/importer"
	"dispatch-app/backend/internal/query"
	"dispatch-app/backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// AnalyticsSummary handles GET /api/analytics/summary?range=&warehouse=
func (h *Handlers) AnalyticsSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		summary, err := h.deps.Services.Analytics.Summary(r.Context(), r.URL.Query().Get("range"), r.URL.Query().Get("warehouse"))
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "", summary)
	}
}

// Report handles GET /api/analytics/reports/{report}. Job filters use the same
// parameters as the job list, plus range, start, end and format.
func (h *Handlers) Report() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		q := r.URL.Query()

		rt, err := query.ParseReportType(chi.URLParam(r, "report"))
		if err != nil {
			common.RespondError(w, initTime, err, "", http.StatusNotFound)
			return
		}
		format, err := services.ParseExportFormat(q.Get("format"))
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		filter, err := parseJobFilter(r)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}

		table, err := h.deps.Services.Analytics.Report(r.Context(), rt, services.ReportOptions{
			Filter: filter,
			Range:  q.Get("range"),
			Start:  q.Get("start"),
			End:    q.Get("end"),
		})
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}

		if format == services.ExportJSON {
			common.RespondSuccess(w, initTime, "", table)
			return
		}
		var buf bytes.Buffer
		if err := h.deps.Services.Analytics.Export(&buf, table, format); err != nil {
			common.RespondError(w, initTime, err, constants.MsgUnexpected)
			return
		}
		writeAttachment(w, fmt.Sprintf("%s-report.%s", rt, format), importer.Format(format), buf.Bytes())
	}
}

// Calendar handles GET /api/calendar?month=YYYY-MM
func (h *Handlers) Calendar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		days, err := h.deps.Services.Analytics.Calendar(r.Context(), r.URL.Query().Get("month"))
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "", days)
	}
}
