// File path: internal/api/report_handler.go
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/plandeck/plandeck/internal/common"
	"github.com/plandeck/plandeck/internal/common/telemetry"
	"github.com/plandeck/plandeck/internal/report"
)

// handleGenerateReport renders the decision report, appends the history
// record, and streams the document as an attachment.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "projectID")
	p, err := s.store.Get(ctx, id)
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("get project: %w", err))
		return
	}
	start := time.Now()
	eng, err := report.NewComposer(s.theme).Compose(p)
	if err != nil {
		telemetry.RecordReport(0, 0, err)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("compose report: %w", err))
		return
	}
	artifact, meta, err := report.Package(p, eng)
	if err != nil {
		telemetry.RecordReport(0, 0, err)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("package report: %w", err))
		return
	}
	telemetry.RecordReport(eng.PageCount(), time.Since(start), nil)
	if _, err := s.store.AppendReport(ctx, id, meta); err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("record report: %w", err))
		return
	}
	common.Logger().Info("api: report generated", "project", id, "filename", artifact.Filename, "bytes", len(artifact.Data))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	p, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("get project: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": p.Reports})
}

// handleAreaWorkbook streams the area program spreadsheet for the two plan
// alternatives.
func (s *Server) handleAreaWorkbook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	p, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("get project: %w", err))
		return
	}
	f, err := report.BuildAreaWorkbook(p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("build workbook: %w", err))
		return
	}
	defer func() { _ = f.Close() }()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="area_program.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		common.Logger().Error("api: workbook stream failed", "project", id, "error", err)
	}
}
