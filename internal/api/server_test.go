// File path: internal/api/server_test.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plandeck/plandeck/internal/domain"
	"github.com/plandeck/plandeck/internal/llm/providers"
	"github.com/plandeck/plandeck/internal/report"
	"github.com/plandeck/plandeck/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api_test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	srv, err := NewServer(st, providers.NewLocalProvider(), report.DefaultTheme())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func createTestProject(t *testing.T, srv *Server) domain.Project {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/v1/projects", map[string]string{
		"name":   "Casa do Lago",
		"client": "The Silvas",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	var p domain.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode project: %v", err)
	}
	return p
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestProjectLifecycle(t *testing.T) {
	srv := newTestServer(t)
	p := createTestProject(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/v1/projects/"+p.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get returned %d", rec.Code)
	}

	newName := "Casa Nova"
	rec = doJSON(t, srv, http.MethodPut, "/v1/projects/"+p.ID, map[string]string{"name": newName})
	if rec.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", rec.Code, rec.Body.String())
	}
	var updated domain.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Name != newName {
		t.Fatalf("expected name %q, got %q", newName, updated.Name)
	}
	if updated.Version != p.Version+1 {
		t.Fatalf("expected version %d, got %d", p.Version+1, updated.Version)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/v1/projects/"+p.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete returned %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/v1/projects/"+p.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestGetMissingProjectReturns404(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/v1/projects/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDuplicateDropsReportHistory(t *testing.T) {
	srv := newTestServer(t)
	p := createTestProject(t, srv)
	seedPlans(t, srv, p.ID)

	rec := doJSON(t, srv, http.MethodPost, "/v1/projects/"+p.ID+"/report", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPost, "/v1/projects/"+p.ID+"/duplicate", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("duplicate returned %d: %s", rec.Code, rec.Body.String())
	}
	var copyProject domain.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &copyProject); err != nil {
		t.Fatalf("decode duplicate: %v", err)
	}
	if len(copyProject.Reports) != 0 {
		t.Fatalf("duplicate should have no reports, got %d", len(copyProject.Reports))
	}
	if !strings.HasSuffix(copyProject.Name, " (copy)") {
		t.Fatalf("duplicate name %q missing copy suffix", copyProject.Name)
	}
}

// seedPlans installs two alternatives through the API so generation flows
// have something to work with.
func seedPlans(t *testing.T, srv *Server, id string) {
	t.Helper()
	for slot, name := range map[string]string{"a": "Open kitchen", "b": "Closed kitchen"} {
		rec := doJSON(t, srv, http.MethodPut, fmt.Sprintf("/v1/projects/%s/plans/%s", id, slot), domain.PlanAlternative{
			Name:      name,
			TotalArea: 150,
			Rooms: []domain.RoomArea{
				{Name: "Living", Area: 30},
				{Name: "Kitchen", Area: 12},
			},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("seed plan %s returned %d: %s", slot, rec.Code, rec.Body.String())
		}
	}
}

func TestGenerateAnalysisStoresStructuredSection(t *testing.T) {
	srv := newTestServer(t)
	p := createTestProject(t, srv)
	seedPlans(t, srv, p.ID)

	rec := doJSON(t, srv, http.MethodPost, "/v1/projects/"+p.ID+"/generate/analysis", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate analysis returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Project    domain.Project `json:"project"`
		Structured bool           `json:"structured"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Structured {
		t.Fatalf("local provider reply should be structured")
	}
	if resp.Project.Comparison == nil || resp.Project.Comparison.Analysis == nil {
		t.Fatalf("analysis section missing")
	}
	if resp.Project.Comparison.Analysis.Format != domain.FormatJSON {
		t.Fatalf("expected json format tag, got %q", resp.Project.Comparison.Analysis.Format)
	}
	if resp.Project.Comparison.Analysis.Source != domain.SourceAI {
		t.Fatalf("expected ai source, got %q", resp.Project.Comparison.Analysis.Source)
	}
}

func TestGenerateAnalysisRequiresBothPlans(t *testing.T) {
	srv := newTestServer(t)
	p := createTestProject(t, srv)
	rec := doJSON(t, srv, http.MethodPost, "/v1/projects/"+p.ID+"/generate/analysis", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without plans, got %d", rec.Code)
	}
}

func TestGenerateGuidelinesRequiresProfile(t *testing.T) {
	srv := newTestServer(t)
	p := createTestProject(t, srv)
	rec := doJSON(t, srv, http.MethodPost, "/v1/projects/"+p.ID+"/generate/guidelines", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without profile, got %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPut, "/v1/projects/"+p.ID+"/profile", domain.ClientProfile{
		ClientType:    domain.ClientCouple,
		HouseholdSize: 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("profile update returned %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodPut, "/v1/projects/"+p.ID+"/property", domain.PropertyInfo{
		TotalArea:    450,
		PropertyType: domain.PropertySingleStory,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("property update returned %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/v1/projects/"+p.ID+"/generate/guidelines", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate guidelines returned %d: %s", rec.Code, rec.Body.String())
	}
	var updated domain.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode project: %v", err)
	}
	if updated.Guidelines == nil || updated.Guidelines.Content == "" {
		t.Fatalf("guidelines section missing")
	}
}

func TestReportEndpointStreamsPDFAndRecordsHistory(t *testing.T) {
	srv := newTestServer(t)
	p := createTestProject(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/v1/projects/"+p.ID+"/report", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report returned %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "REPORT_CASA_DO_LAGO.pdf") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a PDF")
	}

	rec = doJSON(t, srv, http.MethodGet, "/v1/projects/"+p.ID+"/reports", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reports returned %d", rec.Code)
	}
	var resp struct {
		Reports []domain.ReportMeta `json:"reports"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode reports: %v", err)
	}
	if len(resp.Reports) != 1 {
		t.Fatalf("expected 1 report record, got %d", len(resp.Reports))
	}
	if !strings.HasPrefix(resp.Reports[0].DataURI, "data:application/pdf;base64,") {
		t.Fatalf("unexpected data uri prefix")
	}
}

func TestAreaWorkbookEndpoint(t *testing.T) {
	srv := newTestServer(t)
	p := createTestProject(t, srv)
	seedPlans(t, srv, p.ID)

	rec := doJSON(t, srv, http.MethodGet, "/v1/projects/"+p.ID+"/areas.xlsx", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("workbook returned %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	// xlsx payloads are zip archives.
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatalf("body is not a zip archive")
	}
}

func TestModelConfigRoundtrip(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPut, "/v1/model-config", map[string]string{"model": "gemini-1.5-pro"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set model config returned %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, srv, http.MethodGet, "/v1/model-config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get model config returned %d", rec.Code)
	}
	var cfg domain.ModelConfig
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Model != "gemini-1.5-pro" {
		t.Fatalf("unexpected model %q", cfg.Model)
	}
	if cfg.LastUpdated.IsZero() {
		t.Fatalf("last updated not set")
	}
}
