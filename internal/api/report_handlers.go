package api

import (
	"fmt"
	"net/http"
)

// GET /api/export/results returns the tenant-wide CSV of submission results.
func (rt *Router) handleExportResults(w http.ResponseWriter, r *http.Request) {
	res, err := rt.Export.ExportResults(actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", res.Filename))
	_, _ = w.Write(res.Data)
}

// GET /api/analytics/summary
func (rt *Router) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := rt.Analytics.Summary(actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
