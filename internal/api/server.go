// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/plandeck/plandeck/internal/common"
	"github.com/plandeck/plandeck/internal/llm"
	"github.com/plandeck/plandeck/internal/report"
	"github.com/plandeck/plandeck/internal/store"
)

type Server struct {
	router   chi.Router
	store    *store.Store
	provider llm.Provider
	theme    report.Theme
}

func NewServer(st *store.Store, provider llm.Provider, theme report.Theme) (*Server, error) {
	logger := common.Logger()
	if st == nil {
		return nil, fmt.Errorf("store required")
	}
	providerName := "none"
	if provider != nil {
		providerName = provider.Name()
	}
	logger.Info("api: building server", "provider", providerName)
	srv := &Server{
		router:   chi.NewRouter(),
		store:    st,
		provider: provider,
		theme:    theme,
	}
	srv.routes()
	logger.Info("api: server ready")
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	logger.Info("api: configuring routes")
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Route("/v1/projects", func(r chi.Router) {
		r.Get("/", s.handleListProjects)
		r.Post("/", s.handleCreateProject)
		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Put("/", s.handleUpdateProject)
			r.Delete("/", s.handleDeleteProject)
			r.Post("/duplicate", s.handleDuplicateProject)
			r.Put("/profile", s.handleUpdateProfile)
			r.Put("/property", s.handleUpdateProperty)
			r.Put("/plans/{plan}", s.handleUpdatePlan)
			r.Put("/criteria", s.handleUpdateCriteria)
			r.Post("/generate/guidelines", s.handleGenerateGuidelines)
			r.Post("/generate/analysis", s.handleGenerateAnalysis)
			r.Post("/generate/template", s.handleGenerateTemplate)
			r.Post("/report", s.handleGenerateReport)
			r.Get("/reports", s.handleListReports)
			r.Get("/areas.xlsx", s.handleAreaWorkbook)
		})
	})

	s.router.Get("/v1/model-config", s.handleGetModelConfig)
	s.router.Put("/v1/model-config", s.handleSetModelConfig)

	s.router.Get("/debug/vars", expvar.Handler().ServeHTTP)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// storeStatus maps store sentinel errors onto HTTP statuses.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
