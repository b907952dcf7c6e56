// File path: internal/api/projects_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/plandeck/plandeck/internal/domain"
)

type createProjectRequest struct {
	Name        string    `json:"name"`
	Client      string    `json:"client"`
	ProjectDate time.Time `json:"projectDate"`
	Notes       string    `json:"notes"`
}

type updateProjectRequest struct {
	Name        *string    `json:"name"`
	Client      *string    `json:"client"`
	ProjectDate *time.Time `json:"projectDate"`
	Notes       *string    `json:"notes"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("list projects: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	p := domain.NewProject(req.Name, req.Client, req.ProjectDate, req.Notes)
	p.ID = uuid.NewString()
	if err := s.store.Create(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("create project: %w", err))
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	p, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("get project: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	id := chi.URLParam(r, "projectID")
	p, err := s.store.Update(r.Context(), id, func(p domain.Project) domain.Project {
		if req.Name != nil {
			p.Name = strings.TrimSpace(*req.Name)
		}
		if req.Client != nil {
			p.Client = strings.TrimSpace(*req.Client)
		}
		if req.ProjectDate != nil {
			p.ProjectDate = *req.ProjectDate
		}
		if req.Notes != nil {
			p.Notes = *req.Notes
		}
		return p
	})
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("update project: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("delete project: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	copyProject, err := s.store.Duplicate(r.Context(), id)
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("duplicate project: %w", err))
		return
	}
	writeJSON(w, http.StatusCreated, copyProject)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.ClientProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode profile: %w", err))
		return
	}
	id := chi.URLParam(r, "projectID")
	p, err := s.store.Update(r.Context(), id, func(p domain.Project) domain.Project {
		p.ClientProfile = &profile
		return p
	})
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("update profile: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	var property domain.PropertyInfo
	if err := json.NewDecoder(r.Body).Decode(&property); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode property: %w", err))
		return
	}
	id := chi.URLParam(r, "projectID")
	p, err := s.store.Update(r.Context(), id, func(p domain.Project) domain.Project {
		p.PropertyInfo = &property
		return p
	})
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("update property: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdatePlan replaces one of the two alternatives; the {plan} segment
// selects "a" or "b".
func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	slot := strings.ToLower(chi.URLParam(r, "plan"))
	if slot != "a" && slot != "b" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown plan slot %q", slot))
		return
	}
	var plan domain.PlanAlternative
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode plan: %w", err))
		return
	}
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	for i := range plan.Rooms {
		if plan.Rooms[i].ID == "" {
			plan.Rooms[i].ID = uuid.NewString()
		}
	}
	id := chi.URLParam(r, "projectID")
	p, err := s.store.Update(r.Context(), id, func(p domain.Project) domain.Project {
		if slot == "a" {
			p.PlanA = &plan
		} else {
			p.PlanB = &plan
		}
		return p
	})
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("update plan: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateCriteria(w http.ResponseWriter, r *http.Request) {
	var criteria domain.ComparisonCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode criteria: %w", err))
		return
	}
	id := chi.URLParam(r, "projectID")
	p, err := s.store.Update(r.Context(), id, func(p domain.Project) domain.Project {
		if p.Comparison == nil {
			p.Comparison = &domain.PlanComparison{}
		}
		p.Comparison.Criteria = criteria
		return p
	})
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("update criteria: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetModelConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.ModelConfig(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("load model config: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSetModelConfig(w http.ResponseWriter, r *http.Request) {
	var cfg domain.ModelConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode model config: %w", err))
		return
	}
	if strings.TrimSpace(cfg.Model) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("model name required"))
		return
	}
	cfg.LastUpdated = time.Now().UTC()
	if err := s.store.SetModelConfig(r.Context(), cfg); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("save model config: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
